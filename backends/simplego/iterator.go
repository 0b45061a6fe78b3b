// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/shapes"
)

// stridedIterator yields the flat indices of an operand read against the output shape, following the
// operand's backends.OperandPlan: axes with stride 0 replay the same values.
//
// It is a value type, sized for shapes.MaxRank, so it can live in the stack of each parallel task.
type stridedIterator struct {
	mode       iteratorMode
	flatIdx    int
	rank       int
	perAxesIdx [shapes.MaxRank]int
	dims       [shapes.MaxRank]int
	strides    [shapes.MaxRank]int
}

type iteratorMode uint8

const (
	// iterContiguous reads the operand in the same order as the output.
	iterContiguous iteratorMode = iota

	// iterScalar reads always the same value.
	iterScalar

	// iterStrided follows the strides of the plan.
	iterStrided
)

// newStridedIterator returns an iterator positioned at the flat output index start.
func newStridedIterator(plan backends.OperandPlan, output shapes.Shape, start int) stridedIterator {
	it := stridedIterator{rank: output.Rank()}
	switch {
	case plan.IsScalar() || output.IsEmpty():
		it.mode = iterScalar
		return it
	case plan.IsContiguous(output):
		it.mode = iterContiguous
		it.flatIdx = start
		return it
	}
	it.mode = iterStrided
	copy(it.dims[:], output.Dimensions)
	copy(it.strides[:], plan.Strides)

	// Decompose start in the output indices of each axis (row-major), and accumulate the operand offset.
	remainder := start
	for axis := it.rank - 1; axis >= 0; axis-- {
		dim := it.dims[axis]
		it.perAxesIdx[axis] = remainder % dim
		remainder /= dim
		it.flatIdx += it.perAxesIdx[axis] * it.strides[axis]
	}
	return it
}

// Next returns the flat index of the operand for the current output position, and advances one position.
func (it *stridedIterator) Next() (flatIdx int) {
	flatIdx = it.flatIdx
	switch it.mode {
	case iterScalar:
		return 0
	case iterContiguous:
		it.flatIdx++
		return
	}
	for axis := it.rank - 1; axis >= 0; axis-- {
		it.perAxesIdx[axis]++
		it.flatIdx += it.strides[axis]
		if it.perAxesIdx[axis] < it.dims[axis] {
			return
		}
		// Rewind this axis and carry over to the previous one.
		it.flatIdx -= it.strides[axis] * it.dims[axis]
		it.perAxesIdx[axis] = 0
	}
	return
}
