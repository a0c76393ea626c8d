// Package errors defines typed errors with categories for user-friendly reporting.
// It mirrors the three failure families of the runtime (transport, backend and
// mount) plus the rejections raised by the reference backend, so callers can
// branch on a machine-readable Kind instead of matching message text.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// TransportFailed indicates the bridge could not complete a round trip
	// (serialization, network or deserialization failure).
	TransportFailed Kind = "transport_failed"
	// BackendFailed indicates the backend answered with success=false.
	BackendFailed Kind = "backend_failed"
	// MountTargetMissing indicates a mount was requested without a container.
	MountTargetMissing Kind = "mount_target_missing"
	// InvalidRequest indicates the backend rejected a malformed envelope.
	InvalidRequest Kind = "invalid_request"
	// EngineFailed indicates the backend storage engine returned an error.
	EngineFailed Kind = "engine_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of err when it is (or wraps) an *E, and "" otherwise.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*E); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
