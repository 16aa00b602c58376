package toolerr

import (
	"errors"
	"fmt"
)

// Kind classifies a tool invocation failure
type Kind int

const (
	// Internal is any failure that carries no more specific kind.
	Internal Kind = iota

	// UnknownOperation
	// The invocation names an operation that is not in the catalog.
	UnknownOperation

	// MalformedArgument
	// A required argument is missing, or an argument has the wrong shape.
	MalformedArgument

	// UpstreamUnavailable
	// A backend failed with a network error, a timeout, a non-2xx status,
	// or an undecodable body. Adapters recover from it by moving to the next tier.
	UpstreamUnavailable

	// NotFound
	// The requested object does not exist in the backend or fixture table.
	NotFound
)

// kindDetails maps kinds to their short descriptions
var kindDetails = map[Kind]string{
	Internal:            "Internal error",
	UnknownOperation:    "Unknown operation",
	MalformedArgument:   "Malformed argument",
	UpstreamUnavailable: "Upstream unavailable",
	NotFound:            "Not found",
}

var kindNames = map[Kind]string{
	Internal:            "Internal",
	UnknownOperation:    "UnknownOperation",
	MalformedArgument:   "MalformedArgument",
	UpstreamUnavailable: "UpstreamUnavailable",
	NotFound:            "NotFound",
}

// String returns the kind's identifier, e.g. "UnknownOperation"
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Description returns the short human-readable description of the kind
func (k Kind) Description() string {
	if msg, ok := kindDetails[k]; ok {
		return msg
	}
	return kindDetails[Internal]
}

// Error is a classified tool failure
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var _ error = &Error{}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Description()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, toolerr.New(toolerr.NotFound, "")) matches any NotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates a classified error with the given message
func New(kind Kind, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err under kind, keeping it as the cause
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	e := New(kind, format, args...)
	e.Err = err
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
