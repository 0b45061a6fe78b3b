package simplego

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
)

// ternaryKernel computes the output elements in the flat range [start, end).
type ternaryKernel func(x, lower, upper, output *Buffer, plans []backends.OperandPlan, start, end int)

func init() {
	setClamp[int8]()
	setClamp[int16]()
	setClamp[int32]()
	setClamp[int64]()
	setClamp[uint8]()
	setClamp[uint16]()
	setClamp[uint32]()
	setClamp[uint64]()
	setClamp[float32]()
	setClamp[float64]()
}

// setClamp registers the Clamp kernel for T: min(max(x, lower), upper).
//
// If lower > upper, the result is upper.
func setClamp[T PODNumericConstraints]() {
	ternaryKernels[backends.OpTypeClamp][dtypes.FromGenericsType[T]()] = execClampGeneric[T]
}

func execClampGeneric[T PODNumericConstraints](x, lower, upper, output *Buffer, plans []backends.OperandPlan, start, end int) {
	xFlat, lowerFlat, upperFlat := mustFlat[T](x), mustFlat[T](lower), mustFlat[T](upper)
	outputFlat := mustFlat[T](output)
	xIt := newStridedIterator(plans[0], output.shape, start)
	lowerIt := newStridedIterator(plans[1], output.shape, start)
	upperIt := newStridedIterator(plans[2], output.shape, start)
	if lowerIt.mode == iterScalar && upperIt.mode == iterScalar {
		lo, hi := lowerFlat[0], upperFlat[0]
		for idx := start; idx < end; idx++ {
			outputFlat[idx] = min(max(xFlat[xIt.Next()], lo), hi)
		}
		return
	}
	for idx := start; idx < end; idx++ {
		outputFlat[idx] = min(max(xFlat[xIt.Next()], lowerFlat[lowerIt.Next()]), upperFlat[upperIt.Next()])
	}
}
