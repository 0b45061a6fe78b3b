// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arith

import "strconv"

// ErrorCode discriminates the failures of an operation.
//
// It implements the error interface, so it can be used as a target of errors.Is:
//
//	if errors.Is(err, arith.ShapeMismatch) { ... }
type ErrorCode int

const (
	// InvalidArgument is returned for nil or released array handles, a wrong number of operands,
	// arrays from a different backend, or an unknown operation.
	InvalidArgument ErrorCode = iota + 1

	// InvalidType is returned when an operand dtype is outside the domain of the operation,
	// e.g. a bit shift on a float.
	InvalidType

	// TypeMismatch is returned when the operand dtypes have no common dtype in the promotion lattice,
	// or when a dtype (including the target of a cast) is not recognized.
	TypeMismatch

	// ShapeMismatch is returned when the operand shapes can't be broadcast, or when they differ
	// and broadcasting is disabled.
	ShapeMismatch

	// BackendFailure is returned for any failure of the execution backend, including operations or
	// dtypes the backend doesn't support.
	BackendFailure
)

var errorCodeNames = [...]string{
	InvalidArgument: "InvalidArgument",
	InvalidType:     "InvalidType",
	TypeMismatch:    "TypeMismatch",
	ShapeMismatch:   "ShapeMismatch",
	BackendFailure:  "BackendFailure",
}

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	if c <= 0 || int(c) >= len(errorCodeNames) {
		return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
	}
	return errorCodeNames[c]
}

// Error implements the error interface, so an ErrorCode can be used with errors.Is.
func (c ErrorCode) Error() string { return c.String() }

// ErrorCodeValues returns all valid error codes.
func ErrorCodeValues() []ErrorCode {
	return []ErrorCode{InvalidArgument, InvalidType, TypeMismatch, ShapeMismatch, BackendFailure}
}
