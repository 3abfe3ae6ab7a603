// Package editor holds the live edit buffer and turns user actions into
// note store calls.
//
// An Editor owns a single text value. Save, Load and Clear are explicit user
// actions and each produces a Notice for the user. Background is the silent
// save triggered when the host loses the foreground; it never produces a
// Notice and only logs failures. Actions are serialized: one runs to
// completion before the next one starts.
package editor

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/starford/notepad/internal/lifecycle"
	"github.com/starford/notepad/internal/models"
)

// Store is the persistence the editor drives.
type Store interface {
	Save(ctx context.Context, text string) error
	Load(ctx context.Context) (string, error)
}

// Action names a user action that produces a notice.
type Action string

// User actions.
const (
	ActionSave  Action = "save"
	ActionLoad  Action = "load"
	ActionClear Action = "clear"
)

// Notice messages.
const (
	MsgSaved      = "Saved"
	MsgLoaded     = "Loaded"
	MsgCleared    = "Cleared"
	MsgSaveFailed = "Save failed"
	MsgLoadFailed = "Load failed"
)

// Notice is a transient user-visible message describing an action outcome.
type Notice struct {
	Action  Action `json:"action"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier sets where notices are delivered in addition to being returned.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) {
		e.notifier = n
	}
}

// WithLogger sets the logger used for failures, including silent ones.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithOnChange registers a callback invoked with the new text whenever the
// buffer changes. It runs while the editor is locked and must not call back
// into the editor.
func WithOnChange(fn func(text string)) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// Editor is the in-memory note buffer.
type Editor struct {
	mu      sync.Mutex
	text    string
	started bool
	store   Store

	notifier Notifier
	logger   *slog.Logger
	onChange func(string)
}

// New creates an Editor with an empty buffer.
func New(store Store, opts ...Option) *Editor {
	e := &Editor{store: store}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Text returns the current buffer.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// Start performs the session's initial load. Absence of a saved note is not
// an error. On failure the buffer is kept and a failure notice is returned
// with shown=true; a successful start shows nothing.
func (e *Editor) Start(ctx context.Context) (n Notice, shown bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.started = true
	text, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Error("editor: initial load failed", slog.String("error", err.Error()))
		return e.emit(Notice{Action: ActionLoad, OK: false, Message: MsgLoadFailed}), true
	}
	e.set(text)
	return Notice{Action: ActionLoad, OK: true, Message: MsgLoaded}, false
}

// Edit replaces the buffer.
func (e *Editor) Edit(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.set(text)
}

// Save writes the buffer to the store. The buffer is unchanged either way.
func (e *Editor) Save(ctx context.Context) Notice {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Save(models.WithSource(ctx, models.SourceAction), e.text); err != nil {
		e.logger.Error("editor: save failed", slog.String("error", err.Error()))
		return e.emit(Notice{Action: ActionSave, OK: false, Message: MsgSaveFailed})
	}
	return e.emit(Notice{Action: ActionSave, OK: true, Message: MsgSaved})
}

// Load replaces the buffer with the stored note, discarding unsaved edits.
func (e *Editor) Load(ctx context.Context) Notice {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Error("editor: load failed", slog.String("error", err.Error()))
		return e.emit(Notice{Action: ActionLoad, OK: false, Message: MsgLoadFailed})
	}
	e.set(text)
	return e.emit(Notice{Action: ActionLoad, OK: true, Message: MsgLoaded})
}

// Replace sets the buffer to text and saves it in one step. It is used for
// writes made outside the editor session, so the next silent save does not
// undo them. The save source comes from ctx.
func (e *Editor) Replace(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.set(text)
	if err := e.store.Save(ctx, text); err != nil {
		e.logger.Error("editor: replace failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Refresh reloads the buffer from storage without a notice, discarding
// unsaved edits. It follows changes written to the note by another process.
func (e *Editor) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("editor: refresh failed", slog.String("error", err.Error()))
		return err
	}
	e.set(text)
	return nil
}

// Clear empties the buffer. Storage is not touched.
func (e *Editor) Clear() Notice {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.set("")
	return e.emit(Notice{Action: ActionClear, OK: true, Message: MsgCleared})
}

// Background saves the buffer without notifying the user. Before Start it
// is a no-op: an empty buffer must not overwrite a note that was never loaded.
func (e *Editor) Background(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		e.logger.Debug("editor: background save skipped before start")
		return nil
	}

	err := e.store.Save(models.WithSource(ctx, models.SourceBackground), e.text)
	if err != nil {
		e.logger.Warn("editor: background save failed", slog.String("error", err.Error()))
	}
	return err
}

// Attach subscribes the editor's silent save to the owner's Background
// events. Calling the returned release function detaches it.
func (e *Editor) Attach(owner *lifecycle.Owner) (release func()) {
	return owner.AddObserver(func(ctx context.Context, ev lifecycle.Event) {
		if ev == lifecycle.Background {
			_ = e.Background(ctx)
		}
	})
}

func (e *Editor) set(text string) {
	e.text = text
	if e.onChange != nil {
		e.onChange(text)
	}
}

func (e *Editor) emit(n Notice) Notice {
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
	return n
}
