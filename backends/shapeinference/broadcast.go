// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"slices"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/pkg/errors"
)

// validateOperandShape checks rank and dimensions of a shape given as an operand.
func validateOperandShape(shape shapes.Shape) error {
	if shape.Rank() > shapes.MaxRank {
		return errors.Errorf("operand shape %s has rank %d, larger than the maximum rank %d",
			shape, shape.Rank(), shapes.MaxRank)
	}
	for axis, dim := range shape.Dimensions {
		if dim < 0 {
			return errors.Errorf("operand shape %s has negative dimension on axis #%d", shape, axis)
		}
	}
	return nil
}

// BroadcastDimensions returns the dimensions of the output of a binary operation on operands of the given shapes.
//
// Shapes are compared axis by axis up to shapes.MaxRank, missing trailing axes taken as dimension 1.
// The output has the rank of the larger operand.
//
// If batch is false the (padded) dimensions must be exactly the same.
// If batch is true, on each axis the dimensions must either match, or one of them must be 1, in which case the
// output takes the other. An empty axis (dimension 0) can only be broadcast against 0 or 1, and yields 0.
//
// Only the dimensions are compared, the dtypes are ignored.
func BroadcastDimensions(lhs, rhs shapes.Shape, batch bool) ([]int, error) {
	if err := validateOperandShape(lhs); err != nil {
		return nil, err
	}
	if err := validateOperandShape(rhs); err != nil {
		return nil, err
	}
	lhsDims, rhsDims := lhs.PaddedDimensions(), rhs.PaddedDimensions()
	var outputDims [shapes.MaxRank]int
	for axis := range shapes.MaxRank {
		lhsDim, rhsDim := lhsDims[axis], rhsDims[axis]
		switch {
		case lhsDim == rhsDim:
			outputDims[axis] = lhsDim
		case !batch:
			return nil, errors.Errorf("dimensions of axis #%d don't match (%d != %d) for shapes %s and %s, "+
				"and broadcasting (batch) is disabled", axis, lhsDim, rhsDim, lhs, rhs)
		case lhsDim == 1:
			outputDims[axis] = rhsDim
		case rhsDim == 1:
			outputDims[axis] = lhsDim
		default:
			return nil, errors.Errorf("dimensions of axis #%d (%d and %d) cannot be broadcast for shapes %s and %s",
				axis, lhsDim, rhsDim, lhs, rhs)
		}
	}
	rank := max(lhs.Rank(), rhs.Rank())
	return slices.Clone(outputDims[:rank]), nil
}

// Strides returns the plan of element strides to read an operand of the given shape against the output dimensions.
//
// It has one entry per output axis: the operand's natural (row-major) stride for that axis, or 0 if the operand
// has dimension 1 on an axis where the output is larger, in which case its values are replayed.
//
// It assumes operand is broadcast-compatible with outputDims, see BroadcastDimensions.
func Strides(operand shapes.Shape, outputDims []int) []int {
	rank := len(outputDims)
	padded := operand.PaddedDimensions()
	strides := make([]int, rank)
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		if padded[axis] == 1 && outputDims[axis] != 1 {
			strides[axis] = 0
		} else {
			strides[axis] = stride
		}
		stride *= padded[axis]
	}
	return strides
}

// Broadcast returns the output dimensions of a binary operation and the stride plans for both operands.
//
// See BroadcastDimensions and Strides.
func Broadcast(lhs, rhs shapes.Shape, batch bool) (outputDims []int, plans []backends.OperandPlan, err error) {
	outputDims, err = BroadcastDimensions(lhs, rhs, batch)
	if err != nil {
		return nil, nil, err
	}
	plans = []backends.OperandPlan{
		{Shape: lhs, Strides: Strides(lhs, outputDims)},
		{Shape: rhs, Strides: Strides(rhs, outputDims)},
	}
	return outputDims, plans, nil
}

// BroadcastClamp returns the output dimensions and the stride plans for the three operands of a clamp operation.
//
// The broadcasting is done pairwise for (operand, lower) and (operand, upper), and the two resulting
// dimensions must be the same.
func BroadcastClamp(operand, lower, upper shapes.Shape, batch bool) (outputDims []int, plans []backends.OperandPlan, err error) {
	lowerDims, err := BroadcastDimensions(operand, lower, batch)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "clamp lower bound")
	}
	upperDims, err := BroadcastDimensions(operand, upper, batch)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "clamp upper bound")
	}
	lowerPadded := shapes.Shape{Dimensions: lowerDims}.PaddedDimensions()
	upperPadded := shapes.Shape{Dimensions: upperDims}.PaddedDimensions()
	if lowerPadded != upperPadded {
		return nil, nil, errors.Errorf("clamp: operand broadcast with the lower bound gives dimensions %v, "+
			"but with the upper bound gives %v (shapes %s, %s, %s)", lowerDims, upperDims, operand, lower, upper)
	}
	outputDims = lowerDims
	if len(upperDims) > len(outputDims) {
		outputDims = upperDims
	}
	plans = []backends.OperandPlan{
		{Shape: operand, Strides: Strides(operand, outputDims)},
		{Shape: lower, Strides: Strides(lower, outputDims)},
		{Shape: upper, Strides: Strides(upper, outputDims)},
	}
	return outputDims, plans, nil
}

// UnaryPlan returns the stride plan of the single operand of a unary operation: its own natural strides.
func UnaryPlan(operand shapes.Shape) (outputDims []int, plans []backends.OperandPlan, err error) {
	if err = validateOperandShape(operand); err != nil {
		return nil, nil, err
	}
	outputDims = slices.Clone(operand.Dimensions)
	return outputDims, []backends.OperandPlan{{Shape: operand, Strides: Strides(operand, outputDims)}}, nil
}
