// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape and associated tools.
//
// Shape represents the shape (rank, dimensions and DType) of an array: DType indicates the type of
// the unit element, and Dimensions the extent of each axis. Arrays are stored in row-major order:
// the last axis is the one that changes fastest in memory.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of an array. Arrays in arith have at most MaxRank axes.
//   - Axis: is the index of a dimension on a multidimensional array.
//   - Dimension (or extent): the size of the array in one of its axes.
//   - DType: the data type of the unit element in an array. See package dtypes.
//   - Scalar: a shape with no axes, only a single value of the associated DType.
//   - Empty array: a shape with some axis of dimension 0. It holds no values, and it is the only case
//     where a 0 dimension is allowed.
//
// Example: The multi-dimensional array `[][]int32{{0, 1, 2}, {3, 4, 5}}` has shape `(Int32)[2 3]`.
// It has rank 2 (so 2 axes), axis 0 has dimension 2, and axis 1 has dimension 3.
// This shape could be created with `shapes.Make(dtypes.Int32, 2, 3)`.
package shapes

import (
	"fmt"
	"slices"

	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// MaxRank is the maximum number of axes an array can have.
const MaxRank = 4

// Shape represents the shape of an array: its element type and dimensions.
//
// Use Make to create a new shape.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape structure filled with the values given.
//
// It panics if a dimension is negative: use MakeChecked to get an error instead.
// Dimensions equal to 0 are allowed and represent an empty array.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s, err := MakeChecked(dtype, dimensions...)
	if err != nil {
		panic(err)
	}
	return s
}

// MakeChecked returns a Shape with the values given, or an error if the dtype is not valid, if any of the
// dimensions is negative, or if there are more than MaxRank dimensions.
func MakeChecked(dtype dtypes.DType, dimensions ...int) (Shape, error) {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	if !dtype.IsValid() {
		return Invalid(), errors.Errorf("shapes.Make(%s): invalid dtype", s)
	}
	if len(dimensions) > MaxRank {
		return Invalid(), errors.Errorf("shapes.Make(%s): rank %d is larger than the maximum rank %d",
			s, len(dimensions), MaxRank)
	}
	for _, dim := range dimensions {
		if dim < 0 {
			return Invalid(), errors.Errorf("shapes.Make(%s): cannot create a shape with an axis with dimension < 0", s)
		}
	}
	return s, nil
}

// Scalar returns a scalar Shape for the given type.
func Scalar[T dtypes.Supported]() Shape {
	return Shape{DType: dtypes.FromGenericsType[T]()}
}

// Invalid returns an invalid shape.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// Ok returns whether this is a valid Shape. A "zero" shape, that is just instantiating it with Shape{} will be invalid.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank==0).
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// IsEmpty returns whether the shape has an axis of dimension 0, in which case it holds no values.
func (s Shape) IsEmpty() bool {
	return slices.Contains(s.Dimensions, 0)
}

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		panic(errors.Errorf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s))
	}
	return s.Dimensions[adjustedAxis]
}

// PaddedDimensions returns the dimensions of the shape padded with trailing axes of dimension 1 up to MaxRank.
func (s Shape) PaddedDimensions() (dims [MaxRank]int) {
	for axis := range dims {
		if axis < len(s.Dimensions) {
			dims[axis] = s.Dimensions[axis]
		} else {
			dims[axis] = 1
		}
	}
	return
}

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Size returns the number of elements of DType needed for this shape. It's the product of all dimensions.
func (s Shape) Size() (size int) {
	size = 1
	for _, d := range s.Dimensions {
		size *= d
	}
	return
}

// Memory returns the memory used to store an array of the given shape, the same as the size in bytes.
func (s Shape) Memory() uintptr {
	return s.DType.Memory() * uintptr(s.Size())
}

// Equal compares two shapes for equality: dtype and dimensions are compared.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType {
		return false
	}
	return s.EqualDimensions(s2)
}

// EqualDimensions compares two shapes for equality of dimensions. Dtypes can be different.
func (s Shape) EqualDimensions(s2 Shape) bool {
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}

// WithDType returns a copy of the shape with the DType replaced.
func (s Shape) WithDType(dtype dtypes.DType) Shape {
	s2 := s.Clone()
	s2.DType = dtype
	return s2
}
