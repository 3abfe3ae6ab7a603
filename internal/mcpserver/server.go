// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/noteservice"
)

// NoteURI is the resource URI of the note.
const NoteURI = "notepad://note"

// Server wraps the MCP server with notepad tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all notepad tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"notepad",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full text of the note. Returns an empty string when nothing has been saved yet."),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Replace the note with the given text. The previous content is overwritten, not appended to."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full new note text; may be empty")),
	), s.saveNote)

	s.mcp.AddTool(mcp.NewTool("note_status",
		mcp.WithDescription("Show note metadata (title, size, last update) and the most recent saves."),
		mcp.WithNumber("limit", mcp.Description("Number of recent saves to include (default 10)")),
	), s.noteStatus)

	s.mcp.AddResource(
		mcp.NewResource(NoteURI, "Note",
			mcp.WithResourceDescription("The current persisted note as plain text."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readNoteResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) readNote(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.svc.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) saveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Save(models.WithSource(ctx, models.SourceMCP), content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s (%d bytes)", s.svc.Name(), len(content))), nil
}

func (s *Server) noteStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	st, err := s.svc.Status(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(st, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNoteResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := s.svc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NoteURI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}
