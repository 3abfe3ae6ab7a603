// Package internal provides the application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/notepad/internal/api"
	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/sse"
)

// Run starts the HTTP server hosting one editor session.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("note_path", cfg.Note.Path()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	d, err := openDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	broker := sse.NewBroker(250 * time.Millisecond)
	defer broker.Close()

	svc := d.service(cfg, logger, noteservice.WithOnSaved(func(ev models.SaveEvent) {
		broker.Publish(sse.Event{Type: sse.TypeNoteSaved, Data: ev})
	}))

	if _, err := svc.Reindex(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// One editor per process, released when the server stops.
	owner := lifecycle.NewOwner()
	ed := editor.New(svc,
		editor.WithLogger(logger),
		editor.WithNotifier(editor.NotifierFunc(func(n editor.Notice) {
			broker.Publish(sse.Event{Type: sse.TypeNotice, Data: n})
		})),
		editor.WithOnChange(broker.PublishChange),
	)
	release := ed.Attach(owner)
	defer release()

	if _, shown := ed.Start(ctx); shown {
		logger.Warn("initial load failed; editor starts empty")
	}

	apiRouter := api.NewRouter(svc, ed, owner, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(runCtx)

	// Report edits made to the note file outside this process. The buffer
	// follows them so the shutdown save does not write the old text back.
	g.Go(func() error {
		err := index.Watch(gCtx, d.db, d.provider, cfg.Note.File, logger, func(kind, path string) {
			if kind == index.ChangeUpdated {
				_ = ed.Refresh(gCtx)
			}
			broker.PublishNoteEvent(kind, path)
		})
		if err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals. Going away counts as leaving the foreground,
	// so the buffer gets its silent save before the server stops.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		owner.Dispatch(context.Background(), lifecycle.Background)

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		stop()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
