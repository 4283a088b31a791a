// Package merr defines the error taxonomy shared across mnemo's core
// components, so callers can branch with errors.Is regardless of which
// component produced the failure.
package merr

import "errors"

// Sentinel kinds. Wrap these with fmt.Errorf("...: %w", Kind) to attach
// detail while keeping errors.Is(err, merr.KindX) working.
var (
	// ErrEmbedderUnavailable: the embedding service did not respond in
	// time or returned an unusable payload.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")

	// ErrStore: I/O or integrity failure from the embedded store.
	ErrStore = errors.New("store error")

	// ErrNotFound: id, project name, or category lookup failed.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists: registry creation conflict.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput: empty content, out-of-range importance, malformed
	// options, or an unrecognized configuration key.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch: configured D disagrees with the store's
	// existing D or the embedder's reported D. Fatal on open.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Redacted is not an error. It is an advisory value returned alongside a
// successful remember() when content was redacted, surfaced to the caller
// as a diagnostic event rather than a failure.
type Redacted struct {
	Message string
}

func (r *Redacted) Error() string { return r.Message }
