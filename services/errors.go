package services

import (
	"errors"
	"fmt"
)

// Conflict reasons surfaced by join/leave.
const (
	ConflictSelfJoin      = "self-join"
	ConflictAlreadyJoined = "already-joined"
	ConflictNotJoined     = "not-joined"
)

var (
	// ErrMatchNotFound is returned when the referenced match does not exist.
	ErrMatchNotFound = errors.New("match not found")

	// ErrUserNotFound is returned when a user id resolves to no account.
	ErrUserNotFound = errors.New("user not found")

	// ErrMatchFull is returned when a join would exceed needPeople.
	ErrMatchFull = errors.New("match is full")

	// ErrConditionFailed is returned by a MatchStore when a conditional
	// participant update loses against the stored state. Callers re-read
	// the record to classify the cause.
	ErrConditionFailed = errors.New("conditional update failed")
)

// ValidationError reports the first field of a request that failed
// validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PermissionError is returned when the caller is neither the publisher nor
// an administrator.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// ConflictError reports a membership invariant violation: self-join,
// duplicate join, or leaving a match never joined.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
