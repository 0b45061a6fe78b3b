// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
)

// Descriptor is the fully resolved plan of one elementwise operation, handed to Backend.Execute.
//
// It's built fresh for each call by the dispatch engine, after all validation, type promotion and
// broadcasting succeeded, so a backend can execute it without further checks.
type Descriptor struct {
	Op    OpType
	Class OpClass

	// DType of the result. For OpTypeConvertDType it is the target dtype.
	DType dtypes.DType

	// ComputeDType is the dtype the operands are converted to before the operation is applied.
	// E.g.: for comparisons it is the join of the operands dtypes, while DType is Bool.
	ComputeDType dtypes.DType

	// Shape of the output, with DType set to the result dtype.
	Shape shapes.Shape

	// Operands holds one plan per input buffer, in the order they are given to Execute.
	Operands []OperandPlan
}

// OperandPlan describes how to read one operand against the output shape.
type OperandPlan struct {
	// Shape of the operand as stored in its buffer.
	Shape shapes.Shape

	// Strides has one entry per output axis: the number of elements to move in the operand's flat buffer
	// when the output index on that axis increments.
	// A 0 stride replays the same values along that axis (broadcasting).
	Strides []int
}

// IsContiguous returns whether the operand can be read in the same flat order as the output,
// without any broadcasting.
func (p OperandPlan) IsContiguous(output shapes.Shape) bool {
	if p.Shape.Size() != output.Size() {
		return false
	}
	if output.IsEmpty() {
		return true
	}
	natural := output.Strides()
	for axis, dim := range output.Dimensions {
		if dim > 1 && p.Strides[axis] != natural[axis] {
			return false
		}
	}
	return true
}

// IsScalar returns whether the operand holds exactly one value that is replayed for every output element.
func (p OperandPlan) IsScalar() bool {
	return p.Shape.Size() == 1
}

// NumOperands returns the number of operands of the operation.
func (d *Descriptor) NumOperands() int { return len(d.Operands) }

// Clone returns a deep copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	d2 := *d
	d2.Shape = d.Shape.Clone()
	d2.Operands = make([]OperandPlan, len(d.Operands))
	for ii, operand := range d.Operands {
		d2.Operands[ii] = OperandPlan{Shape: operand.Shape.Clone(), Strides: slices.Clone(operand.Strides)}
	}
	return &d2
}

// String implements fmt.Stringer, used for logging.
func (d *Descriptor) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%s[%s](", d.Op, d.Class)
	for ii, operand := range d.Operands {
		if ii > 0 {
			sb.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&sb, "%s strides=%v", operand.Shape, operand.Strides)
	}
	_, _ = fmt.Fprintf(&sb, ") -> %s", d.Shape)
	if d.ComputeDType != d.DType {
		_, _ = fmt.Fprintf(&sb, " computed as %s", d.ComputeDType)
	}
	return sb.String()
}
