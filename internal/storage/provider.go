// Package storage defines the file-system abstraction behind the note store.
package storage

import "github.com/starford/notepad/internal/models"

// Provider is the interface for note file operations. Names are bare file
// names relative to the provider's root directory.
type Provider interface {
	// Root returns the absolute directory the provider writes into.
	Root() string
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named file with content.
	Write(name string, content []byte) error
	// Stat returns metadata for the named file.
	Stat(name string) (models.NoteMetadata, error)
}
