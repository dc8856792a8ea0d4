package interpreter

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnreachable    ErrorKind = "unreachable"
	KindTimeout        ErrorKind = "timeout"
	KindUpstream       ErrorKind = "upstream_error"
	KindEmptyReply     ErrorKind = "empty_reply"
	KindMalformedReply ErrorKind = "malformed_reply"
	KindInvalidShape   ErrorKind = "invalid_shape"
	KindNotConfigured  ErrorKind = "not_configured"
)

// InterpretError is every failure of the remote path. Status is set for
// KindUpstream only.
type InterpretError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

var (
	ErrUnreachable    = &InterpretError{Kind: KindUnreachable}
	ErrTimeout        = &InterpretError{Kind: KindTimeout}
	ErrUpstream       = &InterpretError{Kind: KindUpstream}
	ErrEmptyReply     = &InterpretError{Kind: KindEmptyReply}
	ErrMalformedReply = &InterpretError{Kind: KindMalformedReply}
	ErrInvalidShape   = &InterpretError{Kind: KindInvalidShape}
	ErrNotConfigured  = &InterpretError{Kind: KindNotConfigured}
)

func (e *InterpretError) Error() string {
	msg := string(e.Kind)
	if e.Kind == KindUpstream && e.Status != 0 {
		msg = fmt.Sprintf("%s(%d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InterpretError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so errors.Is(err, ErrTimeout) works for any timeout.
func (e *InterpretError) Is(target error) bool {
	t, ok := target.(*InterpretError)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, err error) *InterpretError {
	return &InterpretError{Kind: kind, Err: err}
}

// KindOf returns the kind of an interpreter error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var ie *InterpretError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}
