// Package errors defines the failure kinds shared by the store, the
// habitability evaluator and the HTTP layer. Every failure is an *Error whose
// Kind is one of the sentinels below, so callers can branch with errors.Is
// regardless of how much wrapping happened in between.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInput: a required numeric field is absent. Caller's fault, not retried.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidArgument: a field is present but malformed or out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound: a planet, star or user id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a uniqueness constraint was violated. Safe to retry after reviewing state.
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable: transient I/O failure talking to the store. Safe to retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// Error is a classified failure. Field names the offending input, Key the
// offending identity (planet id, "star_id/planet_name", ...).
type Error struct {
	Kind  error
	Field string
	Key   string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Key != "" {
		b.WriteString(" [")
		b.WriteString(e.Key)
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func MissingInput(field string) error {
	return &Error{Kind: ErrMissingInput, Field: field}
}

func InvalidArgument(field string, format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Field: field, Err: fmt.Errorf(format, args...)}
}

func NotFound(what, key string) error {
	return &Error{Kind: ErrNotFound, Field: what, Key: key}
}

func Conflict(key string, err error) error {
	return &Error{Kind: ErrConflict, Key: key, Err: err}
}

func StoreUnavailable(err error) error {
	return &Error{Kind: ErrStoreUnavailable, Err: err}
}

func Unauthorized(err error) error {
	return &Error{Kind: ErrUnauthorized, Err: err}
}

func Forbidden(err error) error {
	return &Error{Kind: ErrForbidden, Err: err}
}

// KindOf returns the sentinel kind of err, or nil when err is unclassified.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrMissingInput,
		ErrInvalidArgument,
		ErrNotFound,
		ErrConflict,
		ErrStoreUnavailable,
		ErrUnauthorized,
		ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// FieldOf returns the offending field recorded on the outermost *Error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// Retryable reports whether err is worth retrying with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
