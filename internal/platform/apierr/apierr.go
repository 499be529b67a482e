package apierr

import (
	"errors"
	"fmt"
	"net/http"

	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a classified failure onto a transport error. Unclassified
// errors become a 500 carrying fallbackCode.
func FromError(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	field := errs.FieldOf(err)
	switch errs.KindOf(err) {
	case errs.ErrMissingInput:
		return &Error{Status: http.StatusBadRequest, Code: "missing_input", Field: field, Err: err}
	case errs.ErrInvalidArgument:
		return &Error{Status: http.StatusBadRequest, Code: "invalid_request", Field: field, Err: err}
	case errs.ErrUnauthorized:
		return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Err: err}
	case errs.ErrForbidden:
		return &Error{Status: http.StatusForbidden, Code: "forbidden", Err: err}
	case errs.ErrNotFound:
		return &Error{Status: http.StatusNotFound, Code: "not_found", Field: field, Err: err}
	case errs.ErrConflict:
		return &Error{Status: http.StatusConflict, Code: "conflict", Err: err}
	case errs.ErrStoreUnavailable:
		return &Error{Status: http.StatusServiceUnavailable, Code: "store_unavailable", Err: err}
	default:
		return &Error{Status: http.StatusInternalServerError, Code: fallbackCode, Err: err}
	}
}
