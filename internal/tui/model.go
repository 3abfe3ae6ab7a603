// Package tui is the terminal front-end for the editor.
//
// The textarea mirrors the editor buffer: every keystroke that changes the
// text is forwarded with Editor.Edit, and Load/Clear push the editor text
// back into the textarea. Losing terminal focus, suspending and quitting are
// reported to the lifecycle owner as Background before anything else happens.
package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
)

const toastDuration = 2 * time.Second

// startedMsg carries the result of the initial load.
type startedMsg struct {
	notice editor.Notice
	shown  bool
}

// noticeMsg carries the outcome of an asynchronous action.
type noticeMsg struct {
	notice editor.Notice
}

// toastExpiredMsg hides the toast it refers to, unless a newer one replaced it.
type toastExpiredMsg struct {
	id int
}

type toast struct {
	id      int
	message string
	isError bool
}

// Model is the bubbletea model of the note editor screen.
type Model struct {
	ctx   context.Context
	ed    *editor.Editor
	owner *lifecycle.Owner

	textarea textarea.Model
	keys     keyMap
	copyText func(string) error

	ready   bool
	toast   *toast
	toastID int
	width   int
	height  int
}

// New creates the editor screen. The editor should already be attached to owner.
func New(ctx context.Context, ed *editor.Editor, owner *lifecycle.Owner) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a note..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	// ctrl+k clears the note here instead of deleting to end of line.
	ta.KeyMap.DeleteAfterCursor = key.NewBinding(key.WithDisabled())
	ta.Focus()

	return Model{
		ctx:      ctx,
		ed:       ed,
		owner:    owner,
		textarea: ta,
		keys:     defaultKeyMap(),
		copyText: clipboard.WriteAll,
	}
}

// Init runs the initial load before any input is accepted.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), textarea.Blink)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		n, shown := m.ed.Start(m.ctx)
		return startedMsg{notice: n, shown: shown}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(msg.Width)
		m.textarea.SetHeight(max(1, msg.Height-3))
		return m, nil

	case startedMsg:
		m.ready = true
		m.textarea.SetValue(m.ed.Text())
		if msg.shown {
			cmd := m.showToast(msg.notice.Message, !msg.notice.OK)
			return m, cmd
		}
		return m, nil

	case noticeMsg:
		if msg.notice.Action == editor.ActionLoad && msg.notice.OK {
			m.textarea.SetValue(m.ed.Text())
		}
		cmd := m.showToast(msg.notice.Message, !msg.notice.OK)
		return m, cmd

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case tea.BlurMsg:
		m.background()
		return m, nil

	case tea.FocusMsg, tea.ResumeMsg:
		m.owner.Dispatch(m.ctx, lifecycle.Foreground)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.background()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Suspend):
		m.background()
		return m, tea.Suspend
	}

	// Nothing is editable until the initial load has finished.
	if !m.ready {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.actionCmd(m.ed.Save)
	case key.Matches(msg, m.keys.Load):
		return m, m.actionCmd(m.ed.Load)
	case key.Matches(msg, m.keys.Clear):
		n := m.ed.Clear()
		m.textarea.SetValue(m.ed.Text())
		cmd := m.showToast(n.Message, false)
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		if err := m.copyText(m.ed.Text()); err != nil {
			cmd := m.showToast("Copy failed", true)
			return m, cmd
		}
		cmd := m.showToast("Copied", false)
		return m, cmd
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if after := m.textarea.Value(); after != before {
		m.ed.Edit(after)
	}
	return m, cmd
}

func (m Model) actionCmd(action func(context.Context) editor.Notice) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return noticeMsg{notice: action(ctx)}
	}
}

// background reports loss of the foreground and waits for observers, so the
// silent save has been attempted before the caller continues. Nothing is
// reported while the initial load is still running.
func (m Model) background() {
	if !m.ready {
		return
	}
	m.owner.Dispatch(m.ctx, lifecycle.Background)
}

func (m *Model) showToast(message string, isError bool) tea.Cmd {
	m.toastID++
	id := m.toastID
	m.toast = &toast{id: id, message: message, isError: isError}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
