// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arith

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is returned by every operation that fails. No output is returned along with it.
type Error struct {
	// Code of the failure.
	Code ErrorCode

	// Op is the short name of the operation that failed, e.g. "add" or "bitshiftl".
	Op string

	// Err is the underlying cause, with the details.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("arith.%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("arith.%s: %s: %v", e.Op, e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the ErrorCode of e, or an *Error with the same Code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *Error:
		return t != nil && e.Code == t.Code && (t.Op == "" || t.Op == e.Op)
	}
	return false
}

// Format implements fmt.Formatter: "%+v" includes the stack trace of the underlying cause, if available.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "arith.%s: %s: %+v", e.Op, e.Code, e.Err)
		return
	}
	_, _ = fmt.Fprint(s, e.Error())
}

// CodeOf returns the ErrorCode of err, if it is (or wraps) an *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var arithErr *Error
	if errors.As(err, &arithErr) {
		return arithErr.Code, true
	}
	return 0, false
}

// newError creates an *Error wrapping the cause with the formatted message.
func newError(code ErrorCode, op string, cause error, format string, args ...any) *Error {
	var err error
	switch {
	case cause == nil:
		err = errors.Errorf(format, args...)
	case format == "":
		err = cause
	default:
		err = errors.WithMessagef(cause, format, args...)
	}
	return &Error{Code: code, Op: op, Err: err}
}
