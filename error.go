package bfl

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrMissingCredential
	ErrInputNotFound
	ErrInvalidArgument
	ErrUpstreamRequest
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrMissingCredential:
		return "missing credential"
	case ErrInputNotFound:
		return "input not found"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrUpstreamRequest:
		return "upstream request failed"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// Wrap returns an error which matches both the error code and the cause,
// so callers can still reach the underlying transport error
func (e Err) Wrap(err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", e, fmt.Sprint(args...), err)
}
