// Package lifecycle delivers host application lifecycle events to observers.
package lifecycle

import (
	"context"
	"sync"
)

// Event is a host lifecycle transition.
type Event int

const (
	// Foreground means the host regained focus.
	Foreground Event = iota
	// Background means the host lost focus and may be suspended or killed.
	Background
)

// String returns the event name used in logs.
func (e Event) String() string {
	switch e {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// Observer handles one lifecycle event. It runs on the dispatching goroutine.
type Observer func(ctx context.Context, ev Event)

// Owner tracks observers and dispatches events to them.
type Owner struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]Observer
	order     []int
}

// NewOwner creates an Owner with no observers.
func NewOwner() *Owner {
	return &Owner{observers: make(map[int]Observer)}
}

// AddObserver registers fn and returns a function that removes it again.
// The remove function is safe to call more than once.
func (o *Owner) AddObserver(fn Observer) (remove func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.observers[id] = fn
	o.order = append(o.order, id)
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.observers, id)
			for i, v := range o.order {
				if v == id {
					o.order = append(o.order[:i], o.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispatch calls every observer in registration order and returns once all
// of them have returned.
func (o *Owner) Dispatch(ctx context.Context, ev Event) {
	o.mu.Lock()
	fns := make([]Observer, 0, len(o.order))
	for _, id := range o.order {
		fns = append(fns, o.observers[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(ctx, ev)
	}
}
