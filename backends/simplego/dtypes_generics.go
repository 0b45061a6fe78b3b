package simplego

import (
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/exceptions"
)

// FuncForDispatcher is type of functions that the DTypeDispatcher can handle.
type FuncForDispatcher func(params ...any)

// DTypeDispatcher calls the function registered for a dtype.
type DTypeDispatcher struct {
	Name  string
	fnMap [dtypes.NumDTypes]FuncForDispatcher
}

// NewDTypeDispatcher creates a new dispatcher for a class of functions.
func NewDTypeDispatcher(name string) *DTypeDispatcher {
	return &DTypeDispatcher{
		Name: name,
	}
}

// Dispatch call the function that matches the dtype.
func (d *DTypeDispatcher) Dispatch(dtype dtypes.DType, params ...any) {
	if !dtype.IsValid() {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	fn := d.fnMap[dtype]
	if fn == nil {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	fn(params...)
}

// Register a function to handle a specific dtype.
// This overwrites any previous setting for the same dtype.
func (d *DTypeDispatcher) Register(dtype dtypes.DType, fn FuncForDispatcher) {
	if !dtype.IsValid() {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	d.fnMap[dtype] = fn
}

// PODNumericConstraints are used for generics for the Golang pod (plain-old-data) types.
// BFloat16 and Float16 are not included because they are specialized types, not natively supported by Go.
type PODNumericConstraints interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// PODSignedIntegerConstraints are the signed Go integer types.
type PODSignedIntegerConstraints interface {
	int8 | int16 | int32 | int64
}

// PODUnsignedConstraints are used for generics for the Golang pod (plain-old-data) types.
type PODUnsignedConstraints interface {
	uint8 | uint16 | uint32 | uint64
}

// PODIntegerConstraints are used for generics for the Golang pod (plain-old-data) types.
type PODIntegerConstraints interface {
	PODSignedIntegerConstraints | PODUnsignedConstraints
}

// PODFloatConstraints are used for generics for the Golang pod (plain-old-data) types.
// BFloat16 and Float16 are not included because they are specialized types, not natively supported by Go.
type PODFloatConstraints interface {
	float32 | float64
}

// PODComplexConstraints are the Go complex types.
type PODComplexConstraints interface {
	complex64 | complex128
}

// PODComputeConstraints are all the types kernels are computed in.
// Half precision floats are computed in float32.
type PODComputeConstraints interface {
	bool | PODNumericConstraints | PODComplexConstraints
}
