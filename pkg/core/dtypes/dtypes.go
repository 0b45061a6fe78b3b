// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes includes the DType enum for all element types supported by arith, and the
// promotion lattice used to find the common type of two operands.
//
// It includes converters to/from Go native types (and reflect.Type), and constraint interfaces
// to be used with generics (Supported, Number, NumberNotComplex, GoFloat).
//
// Float16 support uses github.com/x448/float16, and BFloat16 uses
// github.com/gomlx/gopjrt/dtypes/bfloat16.
package dtypes

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// panicf panics with the formatted description.
//
// It is only used for "bugs in the code" -- when parameters don't follow the specifications.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

func init() {
	if strconv.IntSize != 32 && strconv.IntSize != 64 {
		panicf("cannot use int of %d bits with arith -- only platforms with int32 or int64 are supported", strconv.IntSize)
	}

	// Add a mapping to the lower-case version of dtypes.
	keys := slices.Collect(maps.Keys(MapOfNames))
	for _, key := range keys {
		lowerKey := strings.ToLower(key)
		if lowerKey == key {
			continue
		}
		if _, found := MapOfNames[lowerKey]; found {
			continue
		}
		MapOfNames[lowerKey] = MapOfNames[key]
	}
}

// FromName returns the DType for the given name (e.g. "Float32", "f32" or "uint8").
func FromName(name string) (DType, error) {
	dtype, found := MapOfNames[name]
	if !found {
		dtype, found = MapOfNames[strings.ToLower(name)]
	}
	if !found || dtype == InvalidDType {
		return InvalidDType, errors.Errorf("unknown dtype name %q", name)
	}
	return dtype, nil
}

// FromGenericsType returns the DType enum for the given type that this package knows about.
func FromGenericsType[T Supported]() DType {
	var t T
	switch (any(t)).(type) {
	case float64:
		return Float64
	case float32:
		return Float32
	case float16.Float16:
		return Float16
	case bfloat16.BFloat16:
		return BFloat16
	case int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case int64:
		return Int64
	case int32:
		return Int32
	case int16:
		return Int16
	case int8:
		return Int8
	case bool:
		return Bool
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	}
	return InvalidDType
}

// Pre-generate constant reflect.TypeOf for convenience.
var (
	float16Type  = reflect.TypeOf(float16.Float16(0))
	bfloat16Type = reflect.TypeOf(bfloat16.BFloat16(0))
)

// FromGoType returns the DType for the given "reflect.Type", or InvalidDType if unsupported.
func FromGoType(t reflect.Type) DType {
	if t == float16Type {
		return Float16
	} else if t == bfloat16Type {
		return BFloat16
	}
	switch t.Kind() {
	case reflect.Int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case reflect.Int64:
		return Int64
	case reflect.Int32:
		return Int32
	case reflect.Int16:
		return Int16
	case reflect.Int8:
		return Int8
	case reflect.Uint64:
		return Uint64
	case reflect.Uint32:
		return Uint32
	case reflect.Uint16:
		return Uint16
	case reflect.Uint8:
		return Uint8
	case reflect.Bool:
		return Bool
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Complex64:
		return Complex64
	case reflect.Complex128:
		return Complex128
	default:
		return InvalidDType
	}
}

// FromAny introspects the underlying type of any and returns the corresponding DType.
// Non-scalar types, or unsupported types return an InvalidDType.
func FromAny(value any) DType {
	return FromGoType(reflect.TypeOf(value))
}

// GoType returns the Go `reflect.Type` corresponding to the DType.
// It panics for unrecognized dtypes.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Int64:
		return reflect.TypeOf(int64(0))
	case Int32:
		return reflect.TypeOf(int32(0))
	case Int16:
		return reflect.TypeOf(int16(0))
	case Int8:
		return reflect.TypeOf(int8(0))
	case Uint64:
		return reflect.TypeOf(uint64(0))
	case Uint32:
		return reflect.TypeOf(uint32(0))
	case Uint16:
		return reflect.TypeOf(uint16(0))
	case Uint8:
		return reflect.TypeOf(uint8(0))
	case Bool:
		return reflect.TypeOf(true)
	case Float16:
		return float16Type
	case BFloat16:
		return bfloat16Type
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	case Complex64:
		return reflect.TypeOf(complex64(0))
	case Complex128:
		return reflect.TypeOf(complex128(0))
	default:
		panicf("unknown dtype %q (%d) in DType.GoType", dtype, dtype)
		panic(nil)
	}
}

// IsValid returns whether dtype is a recognized member of the enumeration (InvalidDType is not).
func (dtype DType) IsValid() bool {
	return dtype > InvalidDType && dtype < NumDTypes
}

// Size returns the number of bytes for the given DType.
func (dtype DType) Size() int {
	return int(dtype.GoType().Size())
}

// Bits returns the number of bits for the given DType.
func (dtype DType) Bits() int {
	return dtype.Size() * 8
}

// Memory returns the number of bytes for the given DType, as uintptr.
func (dtype DType) Memory() uintptr {
	return uintptr(dtype.Size())
}

// IsFloat returns whether dtype is a float -- it returns false for complex numbers.
func (dtype DType) IsFloat() bool {
	return dtype == Float32 || dtype == Float64 || dtype == Float16 || dtype == BFloat16
}

// IsFloat16 returns whether dtype is a float with 16 bits: Float16 or BFloat16.
func (dtype DType) IsFloat16() bool {
	return dtype == Float16 || dtype == BFloat16
}

// IsComplex returns whether dtype is a complex number type.
func (dtype DType) IsComplex() bool {
	return dtype == Complex64 || dtype == Complex128
}

// IsInt returns whether dtype is an integer type, signed or unsigned.
func (dtype DType) IsInt() bool {
	return dtype == Int64 || dtype == Int32 || dtype == Int16 || dtype == Int8 ||
		dtype == Uint8 || dtype == Uint16 || dtype == Uint32 || dtype == Uint64
}

// IsUnsigned returns whether dtype is one of the unsigned integer types.
func (dtype DType) IsUnsigned() bool {
	return dtype == Uint8 || dtype == Uint16 || dtype == Uint32 || dtype == Uint64
}

// IsReal returns whether dtype is a non-complex number or a boolean.
func (dtype DType) IsReal() bool {
	return dtype == Bool || dtype.IsInt() || dtype.IsFloat()
}

// RealDType returns the real component of complex dtypes.
// For float dtypes, it returns itself.
//
// It returns InvalidDType for other non-(complex or float) dtypes.
func (dtype DType) RealDType() DType {
	if dtype.IsFloat() {
		return dtype
	}
	switch dtype {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return InvalidDType
	}
}

// ComplexDType returns the complex dtype whose components are dtype.
// Half floats and Float32 map to Complex64, Float64 to Complex128, complex dtypes to themselves.
//
// It returns InvalidDType for non-(complex or float) dtypes.
func (dtype DType) ComplexDType() DType {
	switch dtype {
	case Float16, BFloat16, Float32, Complex64:
		return Complex64
	case Float64, Complex128:
		return Complex128
	default:
		return InvalidDType
	}
}

// DefaultFloat is the float dtype used when an integer (or boolean) operand is given to a
// floating point function (trigonometric, exponential, gamma, ...).
//
// 64-bit integers promote to Float64, narrower integers and booleans to Float32.
// Float and complex dtypes return themselves.
func (dtype DType) DefaultFloat() DType {
	switch {
	case dtype.IsFloat() || dtype.IsComplex():
		return dtype
	case dtype == Int64 || dtype == Uint64:
		return Float64
	case dtype == Bool || dtype.IsInt():
		return Float32
	default:
		return InvalidDType
	}
}

// Supported lists the Go types that arith knows how to convert.
// Used as traits for generics.
//
// Notice Go's `int` type is not portable, since it may translate to dtypes Int32 or Int64 depending
// on the platform.
type Supported interface {
	bool | float16.Float16 | bfloat16.BFloat16 |
		float32 | float64 | int | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		complex64 | complex128
}
