package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/storage"
)

// deps are the storage-side components every command needs.
type deps struct {
	provider *storage.FS
	db       *index.DB
}

// openDeps prepares the note directory, the storage provider and the index.
func openDeps(cfg *Config, logger *slog.Logger) (*deps, error) {
	if err := os.MkdirAll(cfg.Note.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create note dir: %w", err)
	}
	provider, err := storage.NewFS(cfg.Note.Dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	logger.Debug("storage ready",
		slog.String("note_path", cfg.Note.Path()),
		slog.String("sqlite_path", cfg.SQLite.Path))

	return &deps{provider: provider, db: db}, nil
}

func (d *deps) service(cfg *Config, logger *slog.Logger, opts ...noteservice.Option) *noteservice.Service {
	opts = append([]noteservice.Option{noteservice.WithLogger(logger)}, opts...)
	return noteservice.NewService(d.provider, d.db, cfg.Note.File, opts...)
}

func (d *deps) Close() error {
	return d.db.Close()
}
