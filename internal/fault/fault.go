// Package fault defines the closed set of error kinds surfaced by the
// booking flow. Callers branch on Kind, never on message text.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers and HTTP surfaces.
type Kind int

const (
	// KindUnknown is the zero value for errors outside the taxonomy.
	KindUnknown Kind = iota
	// KindConfiguration marks missing tenant credentials or identifiers.
	// Not retryable; a tenant admin has to fix the setup.
	KindConfiguration
	// KindTransientFetch marks network or non-2xx gateway failures.
	// Safe to retry; no local state was mutated.
	KindTransientFetch
	// KindValidation marks malformed or incomplete input, rejected
	// before any network call.
	KindValidation
	// KindDataIntegrity marks an unexpected payload shape from the
	// remote service. The operation degrades to an empty result.
	KindDataIntegrity
	// KindNotFound marks a missing tenant or entity.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransientFetch:
		return "transient_fetch"
	case KindValidation:
		return "validation"
	case KindDataIntegrity:
		return "data_integrity"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside the usual wrapped error chain.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// Configuration builds a KindConfiguration error.
func Configuration(format string, args ...any) *Error {
	return newError(KindConfiguration, nil, format, args...)
}

// TransientFetch builds a KindTransientFetch error wrapping the transport failure.
func TransientFetch(err error, format string, args ...any) *Error {
	return newError(KindTransientFetch, err, format, args...)
}

// Validation builds a KindValidation error.
func Validation(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}

// DataIntegrity builds a KindDataIntegrity error wrapping the decode failure, if any.
func DataIntegrity(err error, format string, args ...any) *Error {
	return newError(KindDataIntegrity, err, format, args...)
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

// KindOf extracts the kind from anywhere in the error chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return KindUnknown
}

// HTTPStatus maps an error's kind to the response status used by handlers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindConfiguration:
		return 422
	case KindTransientFetch, KindDataIntegrity:
		return 502
	default:
		return 500
	}
}
