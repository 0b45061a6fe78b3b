// Package shapeinference holds the static rules of arith's elementwise operations: the operations catalog
// (arity, class and operand domain), the dtype promotion rules and the shape broadcasting rules.
//
// All functions are pure and safe for concurrent use. The dispatch engine (package arith) calls them in order:
// CheckDomain, ResolveDTypes (or ResolveCast) and Broadcast (or BroadcastClamp, UnaryPlan), and then assembles
// the result with NewDescriptor.
//
// They can also be used by backends to validate or plan their own execution.
package shapeinference

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
)

// NewDescriptor assembles the resolved operation descriptor of an operation.
func NewDescriptor(entry Entry, result, compute dtypes.DType, outputDims []int, plans []backends.OperandPlan) *backends.Descriptor {
	return &backends.Descriptor{
		Op:           entry.Op,
		Class:        entry.Class,
		DType:        result,
		ComputeDType: compute,
		Shape:        shapes.Shape{DType: result, Dimensions: outputDims},
		Operands:     plans,
	}
}
