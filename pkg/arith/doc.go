// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package arith implements elementwise arithmetic, comparison, logical, bitwise and math operations
// on arrays.Array, dispatched to an execution backend.
//
// Each operation goes through the same steps, stopping at the first failure:
//
//  1. Validate the operand handles (non-nil, not released, same backend) and their number: InvalidArgument.
//  2. Check the operand dtypes against the domain of the operation: InvalidType.
//  3. Promote the operand dtypes to a common one (see dtypes.Lattice): TypeMismatch.
//  4. Broadcast the shapes of binary and ternary operations: ShapeMismatch.
//  5. Build the resolved backends.Descriptor.
//  6. Execute it on the backend: BackendFailure.
//  7. Return the new output Array.
//
// On failure, an *Error is returned with its ErrorCode, and no output: outputs are all or nothing.
// The operands are never modified, and they can be used concurrently by other operations.
//
// The package level functions (Add, Sqrt, Clamp, Cast, ...) use the backend of their operands and the
// default promotion lattice. Use an Engine (see New) to configure a different lattice.
//
// Example:
//
//	backend := backends.MustNew()
//	x := must.M1(arrays.FromFlatData(backend, []int8{1, 2, 3, 4}, 4, 1))
//	y := must.M1(arrays.FromFlatData(backend, []float64{0.5, 1, 1.5}, 1, 3))
//	z, err := arith.Add(x, y, true) // Float64 [4, 3]
//	if errors.Is(err, arith.ShapeMismatch) { ... }
package arith
