// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

// Strides returns the strides for each axis of the shape, assuming a "row-major" layout
// in memory, the one used everywhere in arith.
//
// Notice the strides are **not in bytes**, but in indices.
// Empty arrays (some dimension 0) have all strides set to 0.
func (s Shape) Strides() (strides []int) {
	rank := s.Rank()
	if rank == 0 {
		return
	}
	strides = make([]int, rank)
	if s.IsEmpty() {
		return
	}
	currentStride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= s.Dimensions[axis]
	}
	return
}
