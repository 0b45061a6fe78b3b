// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package arrays implements the Array handle: an immutable multidimensional array whose
// values are stored in a buffer owned by a backend.
//
// Arrays are created from Go flat slices (FromFlatData, FromAnyFlatData, FromScalar), or from a
// backend buffer returned by an operation (FromBuffer), in which case the Array takes ownership
// of the buffer.
//
// Arrays are reference counted: they are created with one reference, Retain adds one,
// and Release removes one, finalizing the backend buffer when the count reaches zero.
// The contents of an Array are never changed after creation.
//
// Example:
//
//	x, err := arrays.FromFlatData(backend, []float32{1, 2, 3, 4}, 2, 2)
//	if err != nil { ... }
//	defer x.Release()
//	fmt.Println(x.Summary(3))
package arrays

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Array is a handle to a multidimensional array stored by a backend.
//
// It is safe for concurrent use: the shape is immutable, the reference count is atomic and
// the buffer is only released once.
type Array struct {
	id      uuid.UUID
	shape   shapes.Shape
	backend backends.Backend

	// mu protects buffer, which is set to nil when the last reference is released.
	mu     sync.Mutex
	buffer backends.Buffer

	refs atomic.Int32
}

// FromBuffer creates an Array that takes ownership of the given backend buffer.
//
// The shape is queried from the backend. On error the buffer is left untouched: it's up to the caller
// to finalize it.
func FromBuffer(backend backends.Backend, buffer backends.Buffer) (*Array, error) {
	if backend == nil {
		return nil, errors.New("arrays.FromBuffer: nil backend")
	}
	if buffer == nil {
		return nil, errors.New("arrays.FromBuffer: nil buffer")
	}
	shape, err := backend.BufferShape(buffer)
	if err != nil {
		return nil, errors.WithMessage(err, "arrays.FromBuffer")
	}
	a := &Array{
		id:      uuid.New(),
		shape:   shape,
		backend: backend,
		buffer:  buffer,
	}
	a.refs.Store(1)
	if klog.V(3).Enabled() {
		klog.Infof("arrays: created %s", a)
	}
	return a, nil
}

// FromAnyFlatData creates an Array with the given shape, with the values copied from flat,
// which must be a slice of the Go type of shape.DType, with shape.Size() elements.
func FromAnyFlatData(backend backends.Backend, flat any, shape shapes.Shape) (*Array, error) {
	if backend == nil {
		return nil, errors.New("arrays.FromAnyFlatData: nil backend")
	}
	if !shape.Ok() {
		return nil, errors.Errorf("arrays.FromAnyFlatData: invalid shape %s", shape)
	}
	buffer, err := backend.BufferFromFlatData(0, flat, shape)
	if err != nil {
		return nil, errors.WithMessagef(err, "arrays.FromAnyFlatData(shape=%s)", shape)
	}
	a, err := FromBuffer(backend, buffer)
	if err != nil {
		finalizeBuffer(backend, buffer)
		return nil, err
	}
	return a, nil
}

// FromFlatData creates an Array with the given dimensions, with the values copied from flat.
// The number of elements of flat must match the dimensions.
//
// Example:
//
//	x, err := FromFlatData(backend, []int8{1, 2, 3, 4}, 2, 2) // [[1, 2], [3, 4]]
func FromFlatData[T dtypes.Supported](backend backends.Backend, flat []T, dimensions ...int) (*Array, error) {
	shape, err := shapes.MakeChecked(dtypes.FromGenericsType[T](), dimensions...)
	if err != nil {
		return nil, err
	}
	return FromAnyFlatData(backend, flat, shape)
}

// FromScalar creates a scalar (rank-0) Array with the given value.
func FromScalar[T dtypes.Supported](backend backends.Backend, value T) (*Array, error) {
	return FromFlatData(backend, []T{value})
}

// ID uniquely identifies the Array, used for logging.
func (a *Array) ID() uuid.UUID { return a.id }

// Shape of the Array, including its DType.
func (a *Array) Shape() shapes.Shape { return a.shape }

// DType of the Array's elements. It returns dtypes.InvalidDType for a nil Array.
func (a *Array) DType() dtypes.DType {
	if a == nil {
		return dtypes.InvalidDType
	}
	return a.shape.DType
}

// Rank is a shortcut to Array.Shape().Rank().
func (a *Array) Rank() int { return a.shape.Rank() }

// Size is the number of elements, a shortcut to Array.Shape().Size().
func (a *Array) Size() int { return a.shape.Size() }

// IsScalar returns whether the Array has rank 0.
func (a *Array) IsScalar() bool { return a.shape.IsScalar() }

// IsEmpty returns whether the Array has zero elements.
func (a *Array) IsEmpty() bool { return a.shape.IsEmpty() }

// Backend that holds the Array's buffer.
func (a *Array) Backend() backends.Backend { return a.backend }

// CheckValid returns an error if the Array is nil or has already been released.
func (a *Array) CheckValid() error {
	if a == nil {
		return errors.New("array is nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buffer == nil {
		return errors.Errorf("array %s has already been released", a.id)
	}
	return nil
}

// Buffer returns the backend buffer, or an error if the Array has already been released.
//
// The buffer is still owned by the Array: it must not be finalized by the caller.
func (a *Array) Buffer() (backends.Buffer, error) {
	if a == nil {
		return nil, errors.New("array is nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buffer == nil {
		return nil, errors.Errorf("array %s has already been released", a.id)
	}
	return a.buffer, nil
}

// RefCount returns the current number of references. 0 means the Array was released.
func (a *Array) RefCount() int { return int(a.refs.Load()) }

// Retain adds a reference to the Array, and returns the Array itself for convenience.
//
// Retaining an already released Array is a no-op.
func (a *Array) Retain() *Array {
	if a == nil {
		return nil
	}
	if !a.TryRetain() {
		klog.Warningf("arrays: Retain() called on released array %s", a.id)
	}
	return a
}

// TryRetain adds a reference to the Array if it has not been released yet, and returns whether it did.
// Each successful call must be matched by a Release.
func (a *Array) TryRetain() bool {
	if a == nil {
		return false
	}
	for {
		refs := a.refs.Load()
		if refs <= 0 {
			return false
		}
		if a.refs.CompareAndSwap(refs, refs+1) {
			return true
		}
	}
}

// Release removes one reference from the Array. When the last reference is released, the backend
// buffer is finalized and the Array becomes invalid.
//
// Extra calls to Release are no-ops.
func (a *Array) Release() {
	if a == nil {
		return
	}
	for {
		refs := a.refs.Load()
		if refs <= 0 {
			return
		}
		if a.refs.CompareAndSwap(refs, refs-1) {
			if refs == 1 {
				a.finalize()
			}
			return
		}
	}
}

func (a *Array) finalize() {
	a.mu.Lock()
	buffer := a.buffer
	a.buffer = nil
	a.mu.Unlock()
	if buffer != nil {
		finalizeBuffer(a.backend, buffer)
	}
}

// finalizeBuffer logs a warning on failure, since there is nothing else the caller can do about it.
func finalizeBuffer(backend backends.Backend, buffer backends.Buffer) {
	if err := backend.BufferFinalize(buffer); err != nil {
		klog.Warningf("arrays: failed to finalize buffer on backend %q: %+v", backend.Name(), err)
	}
}

// FlatData returns a copy of the values of the Array as a flat slice of its DType Go type
// (e.g. []float32 for dtypes.Float32), in row-major order.
func (a *Array) FlatData() (any, error) {
	buffer, err := a.Buffer()
	if err != nil {
		return nil, err
	}
	size := a.shape.Size()
	flat := reflect.MakeSlice(reflect.SliceOf(a.shape.DType.GoType()), size, size).Interface()
	if err = a.backend.BufferToFlatData(buffer, flat); err != nil {
		return nil, errors.WithMessagef(err, "array %s", a.id)
	}
	return flat, nil
}

// ToFlat returns a copy of the values of the Array as a []T. T must match the Array's DType.
func ToFlat[T dtypes.Supported](a *Array) ([]T, error) {
	if dtype := dtypes.FromGenericsType[T](); a.DType() != dtype {
		return nil, errors.Errorf("arrays.ToFlat: array has dtype %s, cannot convert to []%s", a.DType(), dtype.GoType())
	}
	flat, err := a.FlatData()
	if err != nil {
		return nil, err
	}
	return flat.([]T), nil
}

// String implements fmt.Stringer. It includes the id and the shape, but not the values: see Summary.
func (a *Array) String() string {
	if a == nil {
		return "Array(nil)"
	}
	state := ""
	if a.RefCount() == 0 {
		state = ", released"
	}
	return fmt.Sprintf("Array(%s, %s%s)", a.id.String()[:8], a.shape, state)
}
