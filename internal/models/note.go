// Package models defines the domain types shared across notepad packages.
package models

import "time"

// NoteMetadata describes the persisted note file without its content.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveEvent records one successful save. Content is never recorded.
type SaveEvent struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	Source   string    `json:"source"`
	SavedAt  time.Time `json:"saved_at"`
}

// Save sources.
const (
	SourceAction     = "action"
	SourceBackground = "background"
	SourceAPI        = "api"
	SourceMCP        = "mcp"
	SourceCLI        = "cli"
)
