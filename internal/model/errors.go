package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a missing or unusable ephemeris data source or
	// configuration value. Fatal; the run aborts before any analysis.
	ErrConfiguration = errors.New("configuration error")
	// ErrInput marks a malformed chart input rejected before the pipeline.
	ErrInput = errors.New("invalid chart input")
)

// Error carries the failure kind plus the field or resource at fault
type Error struct {
	Kind  error
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ConfigErrorf builds a configuration error naming the resource at fault
func ConfigErrorf(resource string, err error, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Field: resource, Msg: fmt.Sprintf(format, args...), Err: err}
}

// InputErrorf builds an input error naming the offending field
func InputErrorf(field string, format string, args ...any) error {
	return &Error{Kind: ErrInput, Field: field, Msg: fmt.Sprintf(format, args...)}
}
