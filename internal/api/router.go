package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, ed *editor.Editor, owner *lifecycle.Owner, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, ed, owner)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Persisted note.
	r.Get("/note", h.GetNote)
	r.Put("/note", h.PutNote)

	// Live editor buffer and its actions.
	r.Get("/editor", h.GetEditor)
	r.Put("/editor", h.PutEditor)
	r.Post("/editor/background", h.Background)
	r.Post("/editor/{action}", h.EditorAction)

	r.Get("/status", h.Status)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
