package simplego

import (
	"math"
	"math/cmplx"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
)

// This file implements binary operations.
// One optimization supported is specially handling the cases where one of the operands is a scalar (or of size 1),
// in which case it becomes almost a unary operation with a constant value.

// binaryKernel computes the output elements in the flat range [start, end).
type binaryKernel func(lhs, rhs, output *Buffer, lhsPlan, rhsPlan backends.OperandPlan, start, end int)

func makeBinaryKernel[T, O any](fn func(lhs, rhs T) O) binaryKernel {
	return func(lhs, rhs, output *Buffer, lhsPlan, rhsPlan backends.OperandPlan, start, end int) {
		lhsFlat, rhsFlat, outputFlat := mustFlat[T](lhs), mustFlat[T](rhs), mustFlat[O](output)
		lhsIt := newStridedIterator(lhsPlan, output.shape, start)
		rhsIt := newStridedIterator(rhsPlan, output.shape, start)
		switch {
		case lhsIt.mode == iterContiguous && rhsIt.mode == iterContiguous:
			for idx := start; idx < end; idx++ {
				outputFlat[idx] = fn(lhsFlat[idx], rhsFlat[idx])
			}
		case lhsIt.mode == iterContiguous && rhsIt.mode == iterScalar:
			c := rhsFlat[0]
			for idx := start; idx < end; idx++ {
				outputFlat[idx] = fn(lhsFlat[idx], c)
			}
		case lhsIt.mode == iterScalar && rhsIt.mode == iterContiguous:
			c := lhsFlat[0]
			for idx := start; idx < end; idx++ {
				outputFlat[idx] = fn(c, rhsFlat[idx])
			}
		default:
			for idx := start; idx < end; idx++ {
				outputFlat[idx] = fn(lhsFlat[lhsIt.Next()], rhsFlat[rhsIt.Next()])
			}
		}
	}
}

// setBinary registers the kernel of op for operands of type T.
func setBinary[T PODComputeConstraints, O any](op backends.OpType, fn func(lhs, rhs T) O) {
	binaryKernels[op][dtypes.FromGenericsType[T]()] = makeBinaryKernel(fn)
}

func init() {
	registerBinaryBool()

	registerBinaryInteger[int8]()
	registerBinaryInteger[int16]()
	registerBinaryInteger[int32]()
	registerBinaryInteger[int64]()
	registerBinaryInteger[uint8]()
	registerBinaryInteger[uint16]()
	registerBinaryInteger[uint32]()
	registerBinaryInteger[uint64]()
	registerPowSigned[int8]()
	registerPowSigned[int16]()
	registerPowSigned[int32]()
	registerPowSigned[int64]()
	registerPowUnsigned[uint8]()
	registerPowUnsigned[uint16]()
	registerPowUnsigned[uint32]()
	registerPowUnsigned[uint64]()

	registerBinaryFloat[float32]()
	registerBinaryFloat[float64]()

	registerBinaryComplex[complex64, float32]()
	registerBinaryComplex[complex128, float64]()
}

func registerBinaryBool() {
	setBinary(backends.OpTypeLogicalAnd, func(lhs, rhs bool) bool { return lhs && rhs })
	setBinary(backends.OpTypeLogicalOr, func(lhs, rhs bool) bool { return lhs || rhs })
	setBinary(backends.OpTypeBitwiseAnd, func(lhs, rhs bool) bool { return lhs && rhs })
	setBinary(backends.OpTypeBitwiseOr, func(lhs, rhs bool) bool { return lhs || rhs })
	setBinary(backends.OpTypeBitwiseXor, func(lhs, rhs bool) bool { return lhs != rhs })
	setBinary(backends.OpTypeEqual, func(lhs, rhs bool) bool { return lhs == rhs })
	setBinary(backends.OpTypeNotEqual, func(lhs, rhs bool) bool { return lhs != rhs })
}

// registerComparison registers the comparison kernels for ordered types.
func registerComparison[T PODNumericConstraints]() {
	setBinary(backends.OpTypeLessThan, func(lhs, rhs T) bool { return lhs < rhs })
	setBinary(backends.OpTypeGreaterThan, func(lhs, rhs T) bool { return lhs > rhs })
	setBinary(backends.OpTypeLessOrEqual, func(lhs, rhs T) bool { return lhs <= rhs })
	setBinary(backends.OpTypeGreaterOrEqual, func(lhs, rhs T) bool { return lhs >= rhs })
	setBinary(backends.OpTypeEqual, func(lhs, rhs T) bool { return lhs == rhs })
	setBinary(backends.OpTypeNotEqual, func(lhs, rhs T) bool { return lhs != rhs })
}

func registerBinaryInteger[T PODIntegerConstraints]() {
	registerComparison[T]()
	setBinary(backends.OpTypeAdd, func(lhs, rhs T) T { return lhs + rhs })
	setBinary(backends.OpTypeSub, func(lhs, rhs T) T { return lhs - rhs })
	setBinary(backends.OpTypeMul, func(lhs, rhs T) T { return lhs * rhs })
	setBinary(backends.OpTypeDiv, func(lhs, rhs T) T {
		if rhs == 0 {
			return 0
		}
		return lhs / rhs
	})
	setBinary(backends.OpTypeRem, func(lhs, rhs T) T {
		if rhs == 0 {
			return 0
		}
		return lhs % rhs
	})
	setBinary(backends.OpTypeMod, func(lhs, rhs T) T {
		if rhs == 0 {
			return 0
		}
		r := lhs % rhs
		if r != 0 && (r < 0) != (rhs < 0) {
			r += rhs
		}
		return r
	})
	setBinary(backends.OpTypeMinOf, func(lhs, rhs T) T { return min(lhs, rhs) })
	setBinary(backends.OpTypeMaxOf, func(lhs, rhs T) T { return max(lhs, rhs) })
	setBinary(backends.OpTypeBitwiseAnd, func(lhs, rhs T) T { return lhs & rhs })
	setBinary(backends.OpTypeBitwiseOr, func(lhs, rhs T) T { return lhs | rhs })
	setBinary(backends.OpTypeBitwiseXor, func(lhs, rhs T) T { return lhs ^ rhs })
	setBinary(backends.OpTypeShiftLeft, func(lhs, rhs T) T {
		if rhs < 0 {
			return lhs
		}
		return lhs << rhs
	})
	setBinary(backends.OpTypeShiftRight, func(lhs, rhs T) T {
		if rhs < 0 {
			return lhs
		}
		return lhs >> rhs
	})
}

// execScalarPowIntGeneric is a O(num of bits) for Pow(base, exp) implementation for integers.
// It assumes exp >= 0.
func execScalarPowIntGeneric[T PODIntegerConstraints](base, exp T) T {
	result := T(1)
	for exp > 0 {
		if exp%2 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1 // exp /= 2
	}
	return result
}

func registerPowUnsigned[T PODUnsignedConstraints]() {
	setBinary(backends.OpTypePow, execScalarPowIntGeneric[T])
}

// registerPowSigned handles negative exponents by truncating the fractional result towards zero.
func registerPowSigned[T PODSignedIntegerConstraints]() {
	setBinary(backends.OpTypePow, func(base, exp T) T {
		if exp >= 0 {
			return execScalarPowIntGeneric(base, exp)
		}
		switch base {
		case 1:
			return 1
		case -1:
			if exp%2 == 0 {
				return 1
			}
			return -1
		default:
			// Includes base 0 (division by zero), as integer division elsewhere.
			return 0
		}
	})
}

func registerBinaryFloat[T PODFloatConstraints]() {
	registerComparison[T]()
	setBinary(backends.OpTypeAdd, func(lhs, rhs T) T { return lhs + rhs })
	setBinary(backends.OpTypeSub, func(lhs, rhs T) T { return lhs - rhs })
	setBinary(backends.OpTypeMul, func(lhs, rhs T) T { return lhs * rhs })
	setBinary(backends.OpTypeDiv, func(lhs, rhs T) T { return lhs / rhs })
	setBinary(backends.OpTypeRem, func(lhs, rhs T) T { return T(math.Mod(float64(lhs), float64(rhs))) })
	setBinary(backends.OpTypeMod, func(lhs, rhs T) T {
		r := math.Mod(float64(lhs), float64(rhs))
		if r != 0 && (r < 0) != (rhs < 0) {
			r += float64(rhs)
		}
		return T(r)
	})
	setBinary(backends.OpTypeMinOf, func(lhs, rhs T) T { return min(lhs, rhs) })
	setBinary(backends.OpTypeMaxOf, func(lhs, rhs T) T { return max(lhs, rhs) })
	setBinary(backends.OpTypePow, func(lhs, rhs T) T { return T(math.Pow(float64(lhs), float64(rhs))) })
	setBinary(backends.OpTypeRoot, func(degree, value T) T { return T(nthRoot(float64(degree), float64(value))) })
	setBinary(backends.OpTypeHypot, func(lhs, rhs T) T { return T(math.Hypot(float64(lhs), float64(rhs))) })
	setBinary(backends.OpTypeAtan2, func(lhs, rhs T) T { return T(math.Atan2(float64(lhs), float64(rhs))) })
}

// nthRoot returns value^(1/degree). Negative values have a real root only for odd integer degrees.
func nthRoot(degree, value float64) float64 {
	if value < 0 && degree == math.Trunc(degree) && math.Mod(degree, 2) != 0 {
		return -math.Pow(-value, 1/degree)
	}
	return math.Pow(value, 1/degree)
}

// registerBinaryComplex registers the binary kernels for the complex type C, whose components are of type R.
func registerBinaryComplex[C PODComplexConstraints, R PODFloatConstraints]() {
	setBinary(backends.OpTypeAdd, func(lhs, rhs C) C { return lhs + rhs })
	setBinary(backends.OpTypeSub, func(lhs, rhs C) C { return lhs - rhs })
	setBinary(backends.OpTypeMul, func(lhs, rhs C) C { return lhs * rhs })
	setBinary(backends.OpTypeDiv, func(lhs, rhs C) C { return lhs / rhs })
	setBinary(backends.OpTypePow, func(lhs, rhs C) C { return C(cmplx.Pow(complex128(lhs), complex128(rhs))) })
	setBinary(backends.OpTypeEqual, func(lhs, rhs C) bool { return lhs == rhs })
	setBinary(backends.OpTypeNotEqual, func(lhs, rhs C) bool { return lhs != rhs })

	// Complex2 is registered for the real components.
	setBinary(backends.OpTypeComplex2, func(re, im R) C { return C(complex(float64(re), float64(im))) })
}
