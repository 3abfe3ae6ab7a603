package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/notestore"
	"github.com/starford/notepad/internal/testutil"
)

func testModel(t *testing.T) (Model, *notestore.Store) {
	t.Helper()
	_, provider := testutil.TestStorage(t)
	store := notestore.New(provider, "")
	ed := editor.New(store)
	owner := lifecycle.NewOwner()
	t.Cleanup(ed.Attach(owner))
	return New(context.Background(), ed, owner), store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func started(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, m.startCmd()())
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestStartLoadsStoredNote(t *testing.T) {
	m, store := testModel(t)
	_ = store.Save(context.Background(), "stored")

	m = started(t, m)
	if !m.ready {
		t.Fatal("model not ready after start")
	}
	if m.textarea.Value() != "stored" {
		t.Errorf("textarea = %q", m.textarea.Value())
	}
	if m.toast != nil {
		t.Errorf("unexpected toast %+v", m.toast)
	}
}

func TestInputIgnoredBeforeStart(t *testing.T) {
	m, _ := testModel(t)
	m = typeText(t, m, "early")
	if m.ed.Text() != "" || m.textarea.Value() != "" {
		t.Errorf("text = %q / %q", m.ed.Text(), m.textarea.Value())
	}
}

func TestLeavingBeforeStartKeepsStoredNote(t *testing.T) {
	for _, tc := range []struct {
		name string
		msg  tea.Msg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"ctrl+z", tea.KeyMsg{Type: tea.KeyCtrlZ}},
		{"blur", tea.BlurMsg{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, store := testModel(t)
			if err := store.Save(context.Background(), "important"); err != nil {
				t.Fatal(err)
			}

			m, _ = update(t, m, tc.msg)

			got, _ := store.Load(context.Background())
			if got != "important" {
				t.Errorf("stored = %q, want %q", got, "important")
			}

			m = started(t, m)
			if m.textarea.Value() != "important" {
				t.Errorf("textarea = %q", m.textarea.Value())
			}
		})
	}
}

func TestTypingEditsBuffer(t *testing.T) {
	m, _ := testModel(t)
	m = started(t, m)
	m = typeText(t, m, "hello")
	if m.ed.Text() != "hello" {
		t.Errorf("editor text = %q", m.ed.Text())
	}
}

func TestSaveShowsToast(t *testing.T) {
	m, store := testModel(t)
	m = started(t, m)
	m = typeText(t, m, "keep")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("save returned no command")
	}
	m, expire := update(t, m, cmd())
	if m.toast == nil || m.toast.message != editor.MsgSaved || m.toast.isError {
		t.Fatalf("toast = %+v", m.toast)
	}
	if expire == nil {
		t.Error("toast has no expiry")
	}
	got, _ := store.Load(context.Background())
	if got != "keep" {
		t.Errorf("stored = %q", got)
	}
}

func TestLoadReplacesTextarea(t *testing.T) {
	m, store := testModel(t)
	m = started(t, m)
	_ = store.Save(context.Background(), "X")
	m = typeText(t, m, "Y")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = update(t, m, cmd())
	if m.textarea.Value() != "X" || m.ed.Text() != "X" {
		t.Errorf("textarea=%q editor=%q", m.textarea.Value(), m.ed.Text())
	}
	if m.toast == nil || m.toast.message != editor.MsgLoaded {
		t.Errorf("toast = %+v", m.toast)
	}
}

func TestClearIsLocal(t *testing.T) {
	m, store := testModel(t)
	_ = store.Save(context.Background(), "persisted")
	m = started(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if m.textarea.Value() != "" || m.ed.Text() != "" {
		t.Errorf("textarea=%q editor=%q", m.textarea.Value(), m.ed.Text())
	}
	if m.toast == nil || m.toast.message != editor.MsgCleared {
		t.Errorf("toast = %+v", m.toast)
	}
	got, _ := store.Load(context.Background())
	if got != "persisted" {
		t.Errorf("stored = %q", got)
	}
}

func TestBlurSavesSilently(t *testing.T) {
	m, store := testModel(t)
	m = started(t, m)
	m = typeText(t, m, "Z")

	m, cmd := update(t, m, tea.BlurMsg{})
	if cmd != nil || m.toast != nil {
		t.Errorf("blur produced cmd=%v toast=%+v", cmd != nil, m.toast)
	}
	got, _ := store.Load(context.Background())
	if got != "Z" {
		t.Errorf("stored = %q", got)
	}
}

func TestQuitSavesFirst(t *testing.T) {
	m, store := testModel(t)
	m = started(t, m)
	m = typeText(t, m, "bye")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	got, _ := store.Load(context.Background())
	if got != "bye" {
		t.Errorf("stored = %q", got)
	}
}

func TestCopy(t *testing.T) {
	m, _ := testModel(t)
	m = started(t, m)
	m = typeText(t, m, "clip")

	var copied string
	m.copyText = func(s string) error { copied = s; return nil }
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != "clip" || m.toast == nil || m.toast.message != "Copied" {
		t.Errorf("copied=%q toast=%+v", copied, m.toast)
	}

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if m.toast == nil || !m.toast.isError {
		t.Errorf("toast = %+v", m.toast)
	}
}

func TestToastExpiry(t *testing.T) {
	m, _ := testModel(t)
	m = started(t, m)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	first := m.toast.id
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})

	m, _ = update(t, m, toastExpiredMsg{id: first})
	if m.toast == nil {
		t.Fatal("stale expiry removed the newer toast")
	}
	m, _ = update(t, m, toastExpiredMsg{id: m.toast.id})
	if m.toast != nil {
		t.Errorf("toast = %+v, want nil", m.toast)
	}
}

func TestViewBeforeAndAfterStart(t *testing.T) {
	m, _ := testModel(t)
	if m.View() == "" {
		t.Error("empty loading view")
	}
	m = started(t, m)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.View() == "" {
		t.Error("empty editor view")
	}
}
