package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/noteservice"
)

// maxBodyBytes bounds request bodies. The note itself has no length limit;
// this only protects the HTTP surface.
const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc   *noteservice.Service
	ed    *editor.Editor
	owner *lifecycle.Owner
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, ed *editor.Editor, owner *lifecycle.Owner) *Handler {
	return &Handler{svc: svc, ed: ed, owner: owner}
}

// GetNote handles GET /api/note.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context())
	if err != nil {
		slog.Error("get note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(editor.MsgLoadFailed))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// PutNote handles PUT /api/note. It overwrites the persisted note and the
// editor buffer together, so a later silent save keeps the new content.
func (h *Handler) PutNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SaveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	ctx := models.WithSource(r.Context(), models.SourceAPI)
	if err := h.ed.Replace(ctx, *req.Content); err != nil {
		slog.Error("save note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(editor.MsgSaveFailed))
		return
	}
	note, err := h.svc.GetNote(r.Context())
	if err != nil {
		slog.Error("get note after save failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(editor.MsgLoadFailed))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// GetEditor handles GET /api/editor.
func (h *Handler) GetEditor(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, EditorResponse{Text: h.ed.Text()})
}

// PutEditor handles PUT /api/editor: a user edit of the buffer.
func (h *Handler) PutEditor(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Text == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}
	h.ed.Edit(*req.Text)
	writeJSON(w, http.StatusOK, EditorResponse{Text: h.ed.Text()})
}

// EditorAction handles POST /api/editor/{save,load,clear}.
func (h *Handler) EditorAction(w http.ResponseWriter, r *http.Request) {
	var n editor.Notice
	switch editor.Action(chi.URLParam(r, "action")) {
	case editor.ActionSave:
		n = h.ed.Save(r.Context())
	case editor.ActionLoad:
		n = h.ed.Load(r.Context())
	case editor.ActionClear:
		n = h.ed.Clear()
	default:
		writeJSON(w, http.StatusNotFound, errorBody("unknown action"))
		return
	}

	status := http.StatusOK
	if !n.OK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, ActionResponse{Notice: n, Text: h.ed.Text()})
}

// Background handles POST /api/editor/background: the host reports that it
// lost the foreground. The save is silent; the response carries no notice.
func (h *Handler) Background(w http.ResponseWriter, r *http.Request) {
	h.owner.Dispatch(r.Context(), lifecycle.Background)
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	st, err := h.svc.Status(r.Context(), limit)
	if err != nil {
		slog.Error("status failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
