package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/tui"
)

// RunEditor opens the note in the terminal editor.
func RunEditor(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// The terminal belongs to the UI, so logs go to a file.
	logPath := cfg.App.LogFile
	if logPath == "" {
		logPath = filepath.Join(cfg.Note.Dir, "notepad.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	d, err := openDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	svc := d.service(cfg, logger)

	owner := lifecycle.NewOwner()
	ed := editor.New(svc, editor.WithLogger(logger))
	release := ed.Attach(owner)
	defer release()

	// A closed terminal or a kill request ends the program through ctx.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("editor session started", slog.String("note_path", cfg.Note.Path()))

	// The editor ignores Background until its initial load ran, so these
	// dispatches cannot wipe a note the session never read.
	if err := tui.Run(ctx, ed, owner); err != nil {
		owner.Dispatch(context.Background(), lifecycle.Background)
		return err
	}
	// The model saves on quit; when the program was killed instead it never
	// got the chance.
	if ctx.Err() != nil {
		owner.Dispatch(context.Background(), lifecycle.Background)
	}

	logger.Info("editor session ended")
	return nil
}
