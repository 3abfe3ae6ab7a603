// Package apperr holds the error kinds shared between the note store and its callers.
package apperr

import "errors"

var (
	// ErrNotFound means no note has been saved yet. Load never returns it;
	// it is exposed for lower layers that need to report absence.
	ErrNotFound = errors.New("not found")
	// ErrReadFailed wraps any read error other than not-found.
	ErrReadFailed = errors.New("read failed")
	// ErrWriteFailed wraps any error that prevented a save.
	ErrWriteFailed = errors.New("write failed")
)
