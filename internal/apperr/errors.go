package apperr

import "errors"

// ErrInvalid is returned when the input fails client-side validation.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned when an operation needs an active session.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrBusy is returned when a workflow already has a request in flight.
var ErrBusy = errors.New("operation in progress")

// ErrGuarded is returned when a status guard forbids the action.
var ErrGuarded = errors.New("action not allowed for current status")

// ErrState is returned when an action is not valid in the current workflow state.
var ErrState = errors.New("invalid workflow state")

// ErrStale is returned when a response arrived after a newer request superseded it.
var ErrStale = errors.New("stale response discarded")
