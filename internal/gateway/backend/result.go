package backend

import (
	"errors"
	"fmt"
)

// AuthExpiredMessage is the backend message that marks an expired or invalid token.
const AuthExpiredMessage = "Token inválido o expirado"

// MsgUnreachable is surfaced when no response was received.
const MsgUnreachable = "No se pudo conectar con el servidor. Verifique su conexión a internet."

// FailureKind classifies a failed call.
type FailureKind int

// Failure kinds.
const (
	// KindTransport: no response received (network, timeout, cancellation).
	KindTransport FailureKind = iota + 1
	// KindRejected: the backend answered with a non-2xx status.
	KindRejected
	// KindAuthExpired: 401 with AuthExpiredMessage.
	KindAuthExpired
	// KindMalformed: 2xx with a body that could not be decoded.
	KindMalformed
)

func (k FailureKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindAuthExpired:
		return "auth_expired"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Failure describes why a backend call did not produce data.
type Failure struct {
	Kind     FailureKind
	Endpoint string
	Status   int
	// Message is the backend-supplied message, verbatim; empty when absent.
	Message string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Message != "":
		return fmt.Sprintf("backend %s: %s (status %d): %s", f.Endpoint, f.Kind, f.Status, f.Message)
	case f.Err != nil:
		return fmt.Sprintf("backend %s: %s: %v", f.Endpoint, f.Kind, f.Err)
	default:
		return fmt.Sprintf("backend %s: %s (status %d)", f.Endpoint, f.Kind, f.Status)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// UserMessage returns the text to show for the failure: the backend message
// when present, the unreachable text for transport errors, otherwise fallback.
func (f *Failure) UserMessage(fallback string) string {
	if f == nil {
		return ""
	}
	if f.Message != "" {
		return f.Message
	}
	if f.Kind == KindTransport {
		return MsgUnreachable
	}
	return fallback
}

// Outcome is the top-level shape of a Result.
type Outcome int

// Result outcomes.
const (
	OutcomeOK Outcome = iota
	OutcomeAuthExpired
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAuthExpired:
		return "auth_expired"
	default:
		return "error"
	}
}

// Result is returned by every backend call: Ok(data), AuthExpired or Error(detail).
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Fail wraps a failure.
func Fail[T any](f *Failure) Result[T] { return Result[T]{failure: f} }

// Outcome reports which variant the result holds.
func (r Result[T]) Outcome() Outcome {
	switch {
	case r.failure == nil:
		return OutcomeOK
	case r.failure.Kind == KindAuthExpired:
		return OutcomeAuthExpired
	default:
		return OutcomeError
	}
}

// OK reports a successful call.
func (r Result[T]) OK() bool { return r.failure == nil }

// AuthExpired reports that the session was rejected as expired.
func (r Result[T]) AuthExpired() bool { return r.Outcome() == OutcomeAuthExpired }

// Value returns the data; the zero value unless OK.
func (r Result[T]) Value() T { return r.value }

// Failure returns the failure detail; nil when OK.
func (r Result[T]) Failure() *Failure { return r.failure }

// Err returns the failure as an error, or nil.
func (r Result[T]) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// Message returns the user-facing failure text, or "" when OK.
func (r Result[T]) Message(fallback string) string {
	return r.failure.UserMessage(fallback)
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
