package index

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/starford/notepad/internal/checksum"
	"github.com/starford/notepad/internal/parser"
	"github.com/starford/notepad/internal/storage"
)

// Change kinds reported by Sync and Watch.
const (
	ChangeNone    = ""
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Sync brings the index row for the named note in line with the file:
//   - a changed file is parsed and upserted
//   - a missing file removes the row
//
// It returns the kind of change applied, ChangeNone when the index was
// already current.
func Sync(db NoteIndex, store storage.Provider, name string, logger *slog.Logger) (string, error) {
	data, err := store.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		cs, getErr := db.GetChecksum(name)
		if getErr != nil {
			return ChangeNone, getErr
		}
		if cs == "" {
			return ChangeNone, nil
		}
		if err := db.DeleteNote(name); err != nil {
			return ChangeNone, err
		}
		logger.Debug("sync: removed stale", slog.String("path", name))
		return ChangeDeleted, nil
	}
	if err != nil {
		return ChangeNone, err
	}

	cs, err := db.GetChecksum(name)
	if err != nil {
		return ChangeNone, err
	}
	if cs == checksum.Sum(data) {
		return ChangeNone, nil
	}

	var modTime time.Time
	if meta, statErr := store.Stat(name); statErr == nil {
		modTime = meta.UpdatedAt
	}
	if err := IndexFile(db, name, data, modTime); err != nil {
		return ChangeNone, err
	}
	logger.Debug("sync: indexed", slog.String("path", name))
	return ChangeUpdated, nil
}

// IndexFile parses data and upserts its metadata.
func IndexFile(db NoteIndex, name string, data []byte, modTime time.Time) error {
	res := parser.Parse(data)
	if modTime.IsZero() {
		modTime = time.Now()
	}
	return db.UpsertNote(NoteRow{
		Path:      name,
		Title:     res.Title,
		Checksum:  checksum.Sum(data),
		Size:      int64(res.Bytes),
		Lines:     res.Lines,
		Words:     res.Words,
		UpdatedAt: modTime.UTC(),
	})
}
