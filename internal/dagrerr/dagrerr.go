// Package dagrerr defines the error taxonomy shared across DAGr's engines
// and command boundary, per the error kinds enumerated in the scheduler
// design (unknown tasks, cycles, unresolved import references, invalid
// fields, uninitialized state, and unschedulable horizons).
package dagrerr

import (
	"errors"
	"fmt"
)

// Kind identifies which member of the error taxonomy an Error represents.
type Kind string

const (
	KindUnknownTask         Kind = "UNKNOWN_TASK"
	KindCycleDetected       Kind = "CYCLE_DETECTED"
	KindUnresolvedReference Kind = "UNRESOLVED_REFERENCE"
	KindInvalidField        Kind = "INVALID_FIELD"
	KindStateNotInitialized Kind = "STATE_NOT_INITIALIZED"
	KindUnschedulableHorizon Kind = "UNSCHEDULABLE_HORIZON"
	KindStatusTransition    Kind = "STATUS_TRANSITION"
)

// Error is a taxonomy-tagged error. Fields is a small bag of identifying
// values (task id, field name, cycle path) used both for the human-readable
// message and for callers that want to inspect the failure programmatically.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, dagrerr.UnknownTask("")) style
// checks, or more conveniently use dagrerr.KindOf.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, msg string, fields map[string]string) *Error {
	return &Error{Kind: kind, Message: msg, Fields: fields}
}

func UnknownTask(id string) *Error {
	return newErr(KindUnknownTask, fmt.Sprintf("unknown task %q", id), map[string]string{"id": id})
}

func CycleDetected(path []string) *Error {
	return newErr(KindCycleDetected, fmt.Sprintf("circular dependency: %v", path), map[string]string{"path": fmt.Sprint(path)})
}

func UnresolvedReference(name string) *Error {
	return newErr(KindUnresolvedReference, fmt.Sprintf("unresolved reference %q", name), map[string]string{"name": name})
}

func InvalidField(field, reason string) *Error {
	return newErr(KindInvalidField, fmt.Sprintf("invalid field %q: %s", field, reason), map[string]string{"field": field, "reason": reason})
}

func StateNotInitialized() *Error {
	return newErr(KindStateNotInitialized, "state not initialized; run `dagr init` first", nil)
}

func UnschedulableHorizon() *Error {
	return newErr(KindUnschedulableHorizon, "no working capacity found within the search horizon", nil)
}

func StatusTransition(from, to, reason string) *Error {
	return newErr(KindStatusTransition, fmt.Sprintf("cannot transition from %s to %s: %s", from, to, reason),
		map[string]string{"from": from, "to": to, "reason": reason})
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
