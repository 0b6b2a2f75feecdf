// Package apperr defines the closed set of error kinds surfaced by remote
// operations, so handlers can map any failure to a user-facing message in
// one place.
package apperr

import "errors"

var (
	// ErrUnauthenticated indicates a missing, expired, or unrefreshable session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound indicates the requested record does not exist or is not visible.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or constraint violation at the remote store.
	ErrConflict = errors.New("conflict")

	// ErrTransport indicates the remote service could not be reached or answered
	// outside its contract (network failure, 5xx, malformed response).
	ErrTransport = errors.New("transport failure")

	// ErrValidation indicates rejected input. Form-level gating prevents most of
	// these from ever reaching a remote call.
	ErrValidation = errors.New("validation failed")
)

// Message returns the user-visible text for an error. Unrecognized errors
// read as transport failures: the user can only retry them anyway.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	case errors.Is(err, ErrConflict):
		return "That record already exists."
	case errors.Is(err, ErrValidation):
		return "Please check the highlighted fields and try again."
	default:
		return "Something went wrong talking to the server. Please try again."
	}
}
