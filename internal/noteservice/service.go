// Package noteservice coordinates the note store with the metadata index.
package noteservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/checksum"
	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/notestore"
	"github.com/starford/notepad/internal/parser"
	"github.com/starford/notepad/internal/storage"
)

// NoteDetail is the full representation of the persisted note.
type NoteDetail struct {
	Path      string    `json:"path"`
	Exists    bool      `json:"exists"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	Lines     int       `json:"lines"`
	Words     int       `json:"words"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Status summarises what the index knows about the note.
type Status struct {
	Path  string             `json:"path"`
	Note  *index.NoteRow     `json:"note,omitempty"`
	Saves []models.SaveEvent `json:"saves"`
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithOnSaved registers a callback invoked after every successful save.
func WithOnSaved(fn func(ev models.SaveEvent)) Option {
	return func(s *Service) {
		s.onSaved = fn
	}
}

// Service coordinates storage and index operations. It satisfies the
// editor's Store port.
type Service struct {
	provider storage.Provider
	store    *notestore.Store
	db       index.NoteIndex
	logger   *slog.Logger
	onSaved  func(models.SaveEvent)
}

// NewService creates a new note service for the named note file.
func NewService(provider storage.Provider, db index.NoteIndex, name string, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		store:    notestore.New(provider, name),
		db:       db,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return s
}

// Name returns the note file name.
func (s *Service) Name() string {
	return s.store.Name()
}

// Save persists text and records it in the index. Index failures are logged;
// once the file is written the save has succeeded.
func (s *Service) Save(ctx context.Context, text string) error {
	if err := s.store.Save(ctx, text); err != nil {
		return err
	}

	data := []byte(text)
	name := s.store.Name()
	if err := index.IndexFile(s.db, name, data, time.Now()); err != nil {
		s.logger.Warn("index after save failed", slog.String("path", name), slog.String("error", err.Error()))
	}
	ev, err := s.db.RecordSave(models.SaveEvent{
		Path:     name,
		Checksum: checksum.Sum(data),
		Size:     int64(len(data)),
		Source:   models.SourceFrom(ctx),
	})
	if err != nil {
		s.logger.Warn("record save failed", slog.String("path", name), slog.String("error", err.Error()))
	}
	s.logger.Debug("note saved",
		slog.String("path", name),
		slog.String("source", ev.Source),
		slog.Int64("size", ev.Size))
	if s.onSaved != nil {
		s.onSaved(ev)
	}
	return nil
}

// Load returns the persisted note; "" when none was saved yet.
func (s *Service) Load(ctx context.Context) (string, error) {
	return s.store.Load(ctx)
}

// GetNote loads the note together with its file metadata.
func (s *Service) GetNote(ctx context.Context) (*NoteDetail, error) {
	text, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	detail := &NoteDetail{Path: s.store.Name(), Content: text}

	meta, err := s.provider.Stat(s.store.Name())
	switch {
	case errors.Is(err, os.ErrNotExist):
		return detail, nil
	case err != nil:
		return nil, &notestore.Error{Op: "load", Path: s.store.Name(), Err: err}
	}

	res := parser.Parse([]byte(text))
	detail.Exists = true
	detail.Title = res.Title
	detail.Checksum = meta.Checksum
	detail.Lines = res.Lines
	detail.Words = res.Words
	detail.UpdatedAt = meta.UpdatedAt
	return detail, nil
}

// Status returns indexed metadata and up to limit recent saves.
func (s *Service) Status(_ context.Context, limit int) (*Status, error) {
	name := s.store.Name()
	st := &Status{Path: name, Saves: []models.SaveEvent{}}

	row, err := s.db.GetNote(name)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		st.Note = row
	}

	saves, err := s.db.RecentSaves(name, limit)
	if err != nil {
		return nil, err
	}
	if saves != nil {
		st.Saves = saves
	}
	return st, nil
}

// Reindex reconciles the index with the file on disk.
func (s *Service) Reindex(_ context.Context) (string, error) {
	return index.Sync(s.db, s.provider, s.store.Name(), s.logger)
}
