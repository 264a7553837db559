package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog errors. Every kind except KindStorage is
// deterministic: retrying the same request cannot succeed.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindCycle      ErrorKind = "cycle"
	KindConflict   ErrorKind = "conflict"
	KindStorage    ErrorKind = "storage"
)

// Error is a structured catalog error carrying the offending field or record
// alongside the message.
type Error struct {
	Kind    ErrorKind
	Entity  string // "category", "bin", "item", "tag"
	Field   string // offending field, for validation errors
	ID      int64  // offending record id, when known
	Message string
	Err     error // wrapped cause, for storage errors
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s %s: %s", e.Entity, e.Field, e.Message)
	case e.ID != 0:
		return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewInvalid reports a field that fails validation.
func NewInvalid(entity, field, message string) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Field: field, Message: message}
}

// NewNotFound reports an id that does not exist for the caller's owner.
// A record owned by a different tenant produces the same error as absence.
func NewNotFound(entity string, id int64) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: "not found"}
}

// NewCycle reports a parent assignment that would make a bin its own ancestor.
func NewCycle(binID int64) *Error {
	return &Error{Kind: KindCycle, Entity: "bin", ID: binID, Message: "parent assignment would create a cycle"}
}

// NewConflict reports an operation blocked by a uniqueness or live-reference rule.
func NewConflict(entity string, id int64, message string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Message: message}
}

// NewStorage reports a persistence failure that survived the retry policy.
func NewStorage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage failure", Err: err}
}

// IsKind reports whether err is (or wraps) a catalog Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}
