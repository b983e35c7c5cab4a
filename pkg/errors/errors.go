package errors

import (
	"errors"
	"fmt"
)

// Kind is a stable tag for the failure classes a harvest run can surface.
// Per-URL failures are aggregated by Kind across an entire batch, so the tag
// must stay stable between releases.
type Kind string

const (
	// KindActivationFailure covers thumbnail or pagination-control clicks that
	// failed. Recovered locally inside the harvest loop.
	KindActivationFailure Kind = "activation_failure"

	// KindSelectorNotFound covers expected elements being absent from the
	// result page. Recovered locally, logged as a warning.
	KindSelectorNotFound Kind = "selector_not_found"

	// KindUnexpectedHTML means an image endpoint returned an HTML document
	// instead of image bytes. A strong indicator the source is blocking us,
	// distinct from a genuinely corrupt image.
	KindUnexpectedHTML Kind = "unexpected_html_response"

	// KindGenericDownload is the catch-all for fetch and decode failures at
	// the per-URL download boundary.
	KindGenericDownload Kind = "generic_download_error"

	// KindSurfaceAcquisition means the interaction surface could not be
	// acquired. The only fatal kind: nothing can proceed without it.
	KindSurfaceAcquisition Kind = "surface_acquisition_failure"
)

// Error carries a Kind alongside the message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Code    int // HTTP status code where applicable, 0 otherwise
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error with the given kind wrapping an underlying cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Untagged errors map to
// KindGenericDownload, the catch-all at the download boundary.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGenericDownload
}

// IsRetryable reports whether an error is worth another attempt: network
// failures (code 0) and transient server responses.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindUnexpectedHTML {
			return false
		}
		return IsRetryableStatusCode(e.Code)
	}
	return false
}

// IsRetryableStatusCode reports whether an HTTP status code indicates a
// transient failure.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504:
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}
