package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
)

// maxSaveEvents bounds the save log per note.
const maxSaveEvents = 200

// NoteRow represents the row in the note table.
type NoteRow struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	Lines     int       `json:"lines"`
	Words     int       `json:"words"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertNote inserts or replaces the metadata row for a note.
func (db *DB) UpsertNote(n NoteRow) error {
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO note (path, title, checksum, size, lines, words, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			size       = excluded.size,
			lines      = excluded.lines,
			words      = excluded.words,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, n.Size, n.Lines, n.Words, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}
	return nil
}

// DeleteNote removes the metadata row for a note. The save log is kept.
func (db *DB) DeleteNote(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM note WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return nil
}

// GetNote returns the metadata row for a note, or apperr.ErrNotFound.
func (db *DB) GetNote(path string) (*NoteRow, error) {
	var n NoteRow
	err := db.conn.QueryRow(`
		SELECT path, title, checksum, size, lines, words, updated_at
		FROM note WHERE path = ?
	`, path).Scan(&n.Path, &n.Title, &n.Checksum, &n.Size, &n.Lines, &n.Words, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return &n, nil
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM note WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// RecordSave appends a save event and prunes the log to maxSaveEvents.
// Missing ID and SavedAt are filled in; the stored event is returned.
func (db *DB) RecordSave(ev models.SaveEvent) (models.SaveEvent, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.SavedAt.IsZero() {
		ev.SavedAt = time.Now().UTC()
	}
	if ev.Source == "" {
		ev.Source = models.SourceAction
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return ev, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO save_events (id, path, checksum, size, source, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Path, ev.Checksum, ev.Size, ev.Source, ev.SavedAt)
	if err != nil {
		return ev, fmt.Errorf("index: insert save event: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM save_events
		WHERE path = ? AND id NOT IN (
			SELECT id FROM save_events WHERE path = ?
			ORDER BY saved_at DESC, rowid DESC LIMIT ?
		)
	`, ev.Path, ev.Path, maxSaveEvents)
	if err != nil {
		return ev, fmt.Errorf("index: prune save events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ev, fmt.Errorf("index: commit: %w", err)
	}
	return ev, nil
}

// RecentSaves returns up to limit save events for path, newest first.
func (db *DB) RecentSaves(path string, limit int) ([]models.SaveEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(`
		SELECT id, path, checksum, size, source, saved_at
		FROM save_events WHERE path = ?
		ORDER BY saved_at DESC, rowid DESC
		LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("index: recent saves: %w", err)
	}
	defer rows.Close()

	var out []models.SaveEvent
	for rows.Next() {
		var ev models.SaveEvent
		if err := rows.Scan(&ev.ID, &ev.Path, &ev.Checksum, &ev.Size, &ev.Source, &ev.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
