package response

import (
	"errors"
	"net/http"
)

// Error carries the HTTP status a handler should answer with. Slug is the
// machine readable code clients switch on, when there is one.
type Error struct {
	Code int
	Slug string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	if e.Err == nil || t.Err == nil {
		return e.Err == nil && t.Err == nil
	}
	return e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

func NewCodedError(code int, slug string, err string) error {
	return &Error{Code: code, Slug: slug, Err: errors.New(err)}
}

// Wrap attaches a status to an existing error, keeping it for errors.Is.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// StatusOf returns the status carried by err, or fallback.
func StatusOf(err error, fallback int) int {
	var respErr *Error
	if errors.As(err, &respErr) {
		return respErr.Code
	}
	return fallback
}
