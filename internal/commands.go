package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/notepad/internal/mcpserver"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/noteservice"
)

// withService runs fn against a note service that logs JSON to stderr.
func withService(opts []Option, fn func(app *application, svc *noteservice.Service) error) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	d, err := openDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	return fn(app, d.service(cfg, logger))
}

// Show writes the persisted note to stdout.
func Show(ctx context.Context, opts ...Option) error {
	return withService(opts, func(app *application, svc *noteservice.Service) error {
		text, err := svc.Load(ctx)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
		_, err = fmt.Fprintln(app.stdout, text)
		return err
	})
}

// Save replaces the persisted note with everything read from stdin.
func Save(ctx context.Context, opts ...Option) error {
	return withService(opts, func(app *application, svc *noteservice.Service) error {
		data, err := io.ReadAll(app.stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		if err := svc.Save(models.WithSource(ctx, models.SourceCLI), string(data)); err != nil {
			return err
		}
		_, err = fmt.Fprintf(app.stdout, "saved %d bytes to %s\n", len(data), app.config.Note.Path())
		return err
	})
}

// Status prints indexed metadata and the most recent saves as JSON.
func Status(ctx context.Context, limit int, opts ...Option) error {
	return withService(opts, func(app *application, svc *noteservice.Service) error {
		if _, err := svc.Reindex(ctx); err != nil {
			return err
		}
		st, err := svc.Status(ctx, limit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	})
}

// RunMCP serves the note to MCP clients over stdio.
func RunMCP(_ context.Context, opts ...Option) error {
	return withService(opts, func(app *application, svc *noteservice.Service) error {
		return mcpserver.New(svc, app.version).ServeStdio()
	})
}
