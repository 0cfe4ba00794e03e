package session

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when no account matches the submitted
// email, password and role. It is a normal outcome, not a fault.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("session store is closed")

// ErrRecordNotFound is returned by Storage when a key holds nothing.
var ErrRecordNotFound = errors.New("session record not found")

// UnavailableError wraps a storage or directory fault.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("session %s unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ValidationError reports rejected form input. Message is the first failure
// in display order, Fields holds every failing field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if e.Message == "" {
		e.Message = msg
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
