package api

import "github.com/starford/notepad/internal/editor"

// SaveNoteRequest is the request body for PUT /api/note. Content may be empty.
type SaveNoteRequest struct {
	Content *string `json:"content"`
}

// EditRequest is the request body for PUT /api/editor.
type EditRequest struct {
	Text *string `json:"text"`
}

// EditorResponse carries the current buffer.
type EditorResponse struct {
	Text string `json:"text"`
}

// ActionResponse is returned by editor actions.
type ActionResponse struct {
	Notice editor.Notice `json:"notice"`
	Text   string        `json:"text"`
}
