// Package notestore persists the single note as one plain-text file.
//
// Save overwrites the whole file with the exact bytes it is given. Load reads
// the whole file back and drops at most one trailing newline. A note that was
// never saved loads as the empty string without an error.
package notestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/storage"
)

// DefaultFileName is the fixed name of the persisted note.
const DefaultFileName = "notes.txt"

// Error is returned by Save and Load. It matches apperr.ErrWriteFailed or
// apperr.ErrReadFailed depending on Op.
type Error struct {
	Op   string // "save" or "load"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notestore: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports the error kind for the failed operation.
func (e *Error) Is(target error) bool {
	switch target {
	case apperr.ErrWriteFailed:
		return e.Op == "save"
	case apperr.ErrReadFailed:
		return e.Op == "load"
	}
	return false
}

// Store is the single-slot note store.
type Store struct {
	provider storage.Provider
	name     string
}

// New creates a Store that keeps the note in the named file of provider.
// An empty name selects DefaultFileName.
func New(provider storage.Provider, name string) *Store {
	if name == "" {
		name = DefaultFileName
	}
	return &Store{provider: provider, name: name}
}

// Name returns the file name the note is stored under.
func (s *Store) Name() string {
	return s.name
}

// Save replaces the persisted note with text.
func (s *Store) Save(_ context.Context, text string) error {
	if err := s.provider.Write(s.name, []byte(text)); err != nil {
		return &Error{Op: "save", Path: s.name, Err: err}
	}
	return nil
}

// Load returns the persisted note, or "" when nothing has been saved yet.
func (s *Store) Load(_ context.Context) (string, error) {
	data, err := s.provider.Read(s.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", &Error{Op: "load", Path: s.name, Err: err}
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
