// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"testing"

	"github.com/gomlx/arith/backends/shapeinference"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
)

func TestStridedIterator(t *testing.T) {
	lhs := shapes.Make(dtypes.Float32, 3, 1)
	rhs := shapes.Make(dtypes.Float32, 1, 2)
	outputDims, plans := must.M2(shapeinference.Broadcast(lhs, rhs, true))
	output := shapes.Make(dtypes.Float32, outputDims...)

	collect := func(planIdx, start int) []int {
		it := newStridedIterator(plans[planIdx], output, start)
		var indices []int
		for range output.Size() - start {
			indices = append(indices, it.Next())
		}
		return indices
	}
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2}, collect(0, 0))
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1}, collect(1, 0))

	// Starting in the middle, as a parallel chunk does.
	assert.Equal(t, []int{1, 2, 2}, collect(0, 3))
	assert.Equal(t, []int{1, 0, 1}, collect(1, 3))

	// Contiguous and scalar operands.
	outputDims, plans = must.M2(shapeinference.Broadcast(output, shapes.Make(dtypes.Float32), true))
	assert.Equal(t, []int{3, 2}, outputDims)
	it := newStridedIterator(plans[0], output, 2)
	assert.Equal(t, iterContiguous, it.mode)
	assert.Equal(t, 2, it.Next())
	assert.Equal(t, 3, it.Next())
	it = newStridedIterator(plans[1], output, 4)
	assert.Equal(t, iterScalar, it.mode)
	assert.Equal(t, 0, it.Next())
	assert.Equal(t, 0, it.Next())

	// Rank-3 with the middle axis replayed.
	input := shapes.Make(dtypes.Int8, 2, 1, 2)
	output = shapes.Make(dtypes.Int8, 2, 3, 2)
	outputDims, plans = must.M2(shapeinference.Broadcast(input, output, true))
	assert.Equal(t, output.Dimensions, outputDims)
	it = newStridedIterator(plans[0], output, 0)
	var indices []int
	for range output.Size() {
		indices = append(indices, it.Next())
	}
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1, 2, 3, 2, 3, 2, 3}, indices)
}
