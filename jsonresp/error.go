package jsonresp

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultInternalCode is the code of internal errors that were not declared
// in any unit, e.g. plain Go errors passed to From.
const DefaultInternalCode = "internal-error"

// Error is the structured error response written on the wire.
//
// Content carries the payload of client-facing cases and is always nil for
// internal cases: internal detail is logged, never sent.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Hint    string `json:"hint,omitempty"`
	Content any    `json:"content"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Hint)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Code)
}

// JSONError lets *Error itself be used as a Responder.
func (e *Error) JSONError() *Error { return e }

// Responder is implemented by every generated error case.
type Responder interface {
	error
	JSONError() *Error
}

// Request builds the response of a client-facing case.
func Request(status int, code, hint string, content any) *Error {
	return &Error{Status: status, Code: code, Hint: hint, Content: content}
}

// Internal builds the response of an internal case. It never carries content.
func Internal(code string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: code}
}

// From converts err into its wire representation.
//
// Responders anywhere in the wrap chain win. Any other error is logged with
// LogInternal and answered with DefaultInternalCode. From(nil) returns nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var r Responder
	if errors.As(err, &r) {
		if e := r.JSONError(); e != nil {
			return e
		}
	}
	LogInternal("unhandled error", err.Error())
	return Internal(DefaultInternalCode)
}
