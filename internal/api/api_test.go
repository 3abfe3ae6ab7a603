package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/testutil"
)

type env struct {
	svc    *noteservice.Service
	ed     *editor.Editor
	router http.Handler
	dir    string
}

func testEnv(t *testing.T, authToken string) *env {
	t.Helper()
	dir, provider := testutil.TestStorage(t)
	db := testutil.TestDB(t)
	svc := noteservice.NewService(provider, db, "notes.txt")
	ed := editor.New(svc)
	owner := lifecycle.NewOwner()
	release := ed.Attach(owner)
	t.Cleanup(release)
	ed.Start(context.Background())

	router := NewRouter(svc, ed, owner, authToken != "", authToken, nil)
	return &env{svc: svc, ed: ed, router: router, dir: dir}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestGetNoteBeforeFirstSave(t *testing.T) {
	e := testEnv(t, "")
	w := e.do(t, http.MethodGet, "/note", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	note := decode[noteservice.NoteDetail](t, w)
	if note.Exists || note.Content != "" {
		t.Errorf("note = %+v", note)
	}
}

func TestPutAndGetNote(t *testing.T) {
	e := testEnv(t, "")
	w := e.do(t, http.MethodPut, "/note", map[string]string{"content": "Hello\nWorld\n"})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/note", nil)
	note := decode[noteservice.NoteDetail](t, w)
	if note.Content != "Hello\nWorld" || note.Title != "Hello" || !note.Exists {
		t.Errorf("note = %+v", note)
	}
}

func TestPutNoteEmptyContentAllowed(t *testing.T) {
	e := testEnv(t, "")
	w := e.do(t, http.MethodPut, "/note", map[string]string{"content": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPutNoteMissingContent(t *testing.T) {
	e := testEnv(t, "")
	w := e.do(t, http.MethodPut, "/note", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEditorSaveLoadClear(t *testing.T) {
	e := testEnv(t, "")

	w := e.do(t, http.MethodPut, "/editor", map[string]string{"text": "X"})
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/editor/save", nil)
	resp := decode[ActionResponse](t, w)
	if w.Code != http.StatusOK || !resp.Notice.OK || resp.Notice.Message != editor.MsgSaved {
		t.Fatalf("save = %d %+v", w.Code, resp)
	}

	e.do(t, http.MethodPut, "/editor", map[string]string{"text": "Y"})
	w = e.do(t, http.MethodPost, "/editor/load", nil)
	resp = decode[ActionResponse](t, w)
	if resp.Text != "X" || resp.Notice.Message != editor.MsgLoaded {
		t.Errorf("load = %+v", resp)
	}

	w = e.do(t, http.MethodPost, "/editor/clear", nil)
	resp = decode[ActionResponse](t, w)
	if resp.Text != "" || resp.Notice.Message != editor.MsgCleared {
		t.Errorf("clear = %+v", resp)
	}

	got, _ := e.svc.Load(context.Background())
	if got != "X" {
		t.Errorf("persisted = %q, clear must not touch storage", got)
	}
}

func TestEditorSaveFailure(t *testing.T) {
	e := testEnv(t, "")
	if err := os.MkdirAll(filepath.Join(e.dir, "notes.txt", "child"), 0o755); err != nil {
		t.Fatal(err)
	}
	w := e.do(t, http.MethodPost, "/editor/save", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[ActionResponse](t, w)
	if resp.Notice.OK || resp.Notice.Message != editor.MsgSaveFailed {
		t.Errorf("notice = %+v", resp.Notice)
	}
}

func TestEditorUnknownAction(t *testing.T) {
	e := testEnv(t, "")
	w := e.do(t, http.MethodPost, "/editor/undo", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestBackgroundSavesSilently(t *testing.T) {
	e := testEnv(t, "")
	e.do(t, http.MethodPut, "/editor", map[string]string{"text": "Z"})

	w := e.do(t, http.MethodPost, "/editor/background", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
	got, _ := e.svc.Load(context.Background())
	if got != "Z" {
		t.Errorf("persisted = %q", got)
	}
}

func TestPutNoteSurvivesBackgroundSave(t *testing.T) {
	e := testEnv(t, "")
	e.do(t, http.MethodPut, "/editor", map[string]string{"text": "unsaved draft"})

	w := e.do(t, http.MethodPut, "/note", map[string]string{"content": "written directly"})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d", w.Code)
	}
	if e.ed.Text() != "written directly" {
		t.Errorf("editor text = %q", e.ed.Text())
	}

	e.do(t, http.MethodPost, "/editor/background", nil)
	got, _ := e.svc.Load(context.Background())
	if got != "written directly" {
		t.Errorf("persisted after background = %q", got)
	}

	st, _ := e.svc.Status(context.Background(), 1)
	if len(st.Saves) != 1 || st.Saves[0].Source != "background" {
		t.Errorf("saves = %+v", st.Saves)
	}
}

func TestStatus(t *testing.T) {
	e := testEnv(t, "")
	e.do(t, http.MethodPut, "/note", map[string]string{"content": "one"})
	e.do(t, http.MethodPost, "/editor/save", nil)

	w := e.do(t, http.MethodGet, "/status?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	st := decode[noteservice.Status](t, w)
	if len(st.Saves) != 2 {
		t.Fatalf("saves = %+v", st.Saves)
	}
	if st.Saves[0].Source != "action" || st.Saves[1].Source != "api" {
		t.Errorf("sources = %s, %s", st.Saves[0].Source, st.Saves[1].Source)
	}
}

func TestAuthTokenMode(t *testing.T) {
	e := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/editor", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/editor", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/editor", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}
