package index

import "github.com/starford/notepad/internal/models"

// NoteIndex defines the interface for note indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type NoteIndex interface {
	UpsertNote(n NoteRow) error
	DeleteNote(path string) error
	GetNote(path string) (*NoteRow, error)
	GetChecksum(path string) (string, error)
	RecordSave(ev models.SaveEvent) (models.SaveEvent, error)
	RecentSaves(path string, limit int) ([]models.SaveEvent, error)
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
