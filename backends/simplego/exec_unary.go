package simplego

import (
	"math"
	"math/cmplx"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
)

// unaryKernel computes the output elements in the flat range [start, end).
// The operand of a unary operation always has the same layout as its output.
type unaryKernel func(input, output *Buffer, plan backends.OperandPlan, start, end int)

func makeUnaryKernel[T, O any](fn func(T) O) unaryKernel {
	return func(input, output *Buffer, _ backends.OperandPlan, start, end int) {
		inputFlat, outputFlat := mustFlat[T](input), mustFlat[O](output)
		for idx := start; idx < end; idx++ {
			outputFlat[idx] = fn(inputFlat[idx])
		}
	}
}

// setUnary registers the kernel of op for an operand of type T.
func setUnary[T PODComputeConstraints, O any](op backends.OpType, fn func(T) O) {
	unaryKernels[op][dtypes.FromGenericsType[T]()] = makeUnaryKernel(fn)
}

// floatFn adapts a float64 math function to T.
func floatFn[T PODFloatConstraints](fn func(float64) float64) func(T) T {
	return func(x T) T { return T(fn(float64(x))) }
}

// complexFn adapts a complex128 math function to C.
func complexFn[C PODComplexConstraints](fn func(complex128) complex128) func(C) C {
	return func(x C) C { return C(fn(complex128(x))) }
}

func identity[T any](x T) T { return x }

func init() {
	registerUnaryBool()

	registerUnaryInteger[int8]()
	registerUnaryInteger[int16]()
	registerUnaryInteger[int32]()
	registerUnaryInteger[int64]()
	registerUnaryInteger[uint8]()
	registerUnaryInteger[uint16]()
	registerUnaryInteger[uint32]()
	registerUnaryInteger[uint64]()
	registerUnarySigned[int8]()
	registerUnarySigned[int16]()
	registerUnarySigned[int32]()
	registerUnarySigned[int64]()
	registerUnaryUnsigned[uint8]()
	registerUnaryUnsigned[uint16]()
	registerUnaryUnsigned[uint32]()
	registerUnaryUnsigned[uint64]()

	registerUnaryFloat[float32]()
	registerUnaryFloat[float64]()

	registerUnaryComplex[complex64, float32]()
	registerUnaryComplex[complex128, float64]()
}

func registerUnaryBool() {
	setUnary(backends.OpTypeLogicalNot, func(x bool) bool { return !x })
	setUnary(backends.OpTypeReal, identity[bool])
	setUnary(backends.OpTypeImag, func(bool) bool { return false })
	setUnary(backends.OpTypeConj, identity[bool])
	setUnary(backends.OpTypeIsZero, func(x bool) bool { return !x })
	setUnary(backends.OpTypeIsInf, func(bool) bool { return false })
	setUnary(backends.OpTypeIsNaN, func(bool) bool { return false })
}

func registerUnaryInteger[T PODIntegerConstraints]() {
	for _, op := range []backends.OpType{backends.OpTypeRound, backends.OpTypeTrunc, backends.OpTypeFloor,
		backends.OpTypeCeil, backends.OpTypeReal, backends.OpTypeConj} {
		setUnary(op, identity[T])
	}
	setUnary(backends.OpTypeImag, func(T) T { return 0 })
	setUnary(backends.OpTypeIsZero, func(x T) bool { return x == 0 })
	setUnary(backends.OpTypeIsInf, func(T) bool { return false })
	setUnary(backends.OpTypeIsNaN, func(T) bool { return false })
}

func registerUnarySigned[T PODSignedIntegerConstraints]() {
	setUnary(backends.OpTypeAbs, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
	setUnary(backends.OpTypeSign, func(x T) T {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	})
}

func registerUnaryUnsigned[T PODUnsignedConstraints]() {
	setUnary(backends.OpTypeAbs, identity[T])
	setUnary(backends.OpTypeSign, func(x T) T {
		if x > 0 {
			return 1
		}
		return 0
	})
}

func registerUnaryFloat[T PODFloatConstraints]() {
	setUnary(backends.OpTypeAbs, floatFn[T](math.Abs))
	setUnary(backends.OpTypeSign, func(x T) T {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			// 0, -0 and NaN are returned as is.
			return x
		}
	})

	// Rounding.
	setUnary(backends.OpTypeRound, floatFn[T](math.Round))
	setUnary(backends.OpTypeTrunc, floatFn[T](math.Trunc))
	setUnary(backends.OpTypeFloor, floatFn[T](math.Floor))
	setUnary(backends.OpTypeCeil, floatFn[T](math.Ceil))

	// Transcendental.
	for op, fn := range map[backends.OpType]func(float64) float64{
		backends.OpTypeSqrt:     math.Sqrt,
		backends.OpTypeCbrt:     math.Cbrt,
		backends.OpTypeExp:      math.Exp,
		backends.OpTypeExpm1:    math.Expm1,
		backends.OpTypeLog:      math.Log,
		backends.OpTypeLog1p:    math.Log1p,
		backends.OpTypeLog10:    math.Log10,
		backends.OpTypeLog2:     math.Log2,
		backends.OpTypeLogistic: logistic,
		backends.OpTypePow2:     math.Exp2,
		backends.OpTypeSin:      math.Sin,
		backends.OpTypeCos:      math.Cos,
		backends.OpTypeTan:      math.Tan,
		backends.OpTypeAsin:     math.Asin,
		backends.OpTypeAcos:     math.Acos,
		backends.OpTypeAtan:     math.Atan,
		backends.OpTypeSinh:     math.Sinh,
		backends.OpTypeCosh:     math.Cosh,
		backends.OpTypeTanh:     math.Tanh,
		backends.OpTypeAsinh:    math.Asinh,
		backends.OpTypeAcosh:    math.Acosh,
		backends.OpTypeAtanh:    math.Atanh,
		backends.OpTypeErf:      math.Erf,
		backends.OpTypeErfc:     math.Erfc,
		backends.OpTypeTgamma:   math.Gamma,
		backends.OpTypeLgamma:   lgamma,
		backends.OpTypeFactorial: func(x float64) float64 {
			return math.Gamma(x + 1)
		},
	} {
		setUnary(op, floatFn[T](fn))
	}

	// Complex functions on real values.
	setUnary(backends.OpTypeReal, identity[T])
	setUnary(backends.OpTypeImag, func(T) T { return 0 })
	setUnary(backends.OpTypeConj, identity[T])
	setUnary(backends.OpTypeArg, func(x T) T {
		if x < 0 {
			return math.Pi
		}
		// 0 for non-negative values, NaN for NaN.
		return x * 0
	})

	// Predicates.
	setUnary(backends.OpTypeIsZero, func(x T) bool { return x == 0 })
	setUnary(backends.OpTypeIsInf, func(x T) bool { return math.IsInf(float64(x), 0) })
	setUnary(backends.OpTypeIsNaN, func(x T) bool { return x != x })
}

// registerUnaryComplex registers the unary kernels for the complex type C, whose components are of type R.
func registerUnaryComplex[C PODComplexConstraints, R PODFloatConstraints]() {
	setUnary(backends.OpTypeAbs, func(x C) R { return R(cmplx.Abs(complex128(x))) })
	setUnary(backends.OpTypeArg, func(x C) R { return R(cmplx.Phase(complex128(x))) })
	setUnary(backends.OpTypeReal, func(x C) R { return R(real(complex128(x))) })
	setUnary(backends.OpTypeImag, func(x C) R { return R(imag(complex128(x))) })
	setUnary(backends.OpTypeConj, complexFn[C](cmplx.Conj))
	setUnary(backends.OpTypeComplex, identity[C])

	// Complex of a real value is registered for the real type.
	setUnary(backends.OpTypeComplex, func(x R) C { return C(complex(float64(x), 0)) })

	for op, fn := range map[backends.OpType]func(complex128) complex128{
		backends.OpTypeSqrt:  cmplx.Sqrt,
		backends.OpTypeExp:   cmplx.Exp,
		backends.OpTypeLog:   cmplx.Log,
		backends.OpTypeLog10: cmplx.Log10,
		backends.OpTypeSin:   cmplx.Sin,
		backends.OpTypeCos:   cmplx.Cos,
		backends.OpTypeTan:   cmplx.Tan,
		backends.OpTypeAsin:  cmplx.Asin,
		backends.OpTypeAcos:  cmplx.Acos,
		backends.OpTypeAtan:  cmplx.Atan,
		backends.OpTypeSinh:  cmplx.Sinh,
		backends.OpTypeCosh:  cmplx.Cosh,
		backends.OpTypeTanh:  cmplx.Tanh,
		backends.OpTypeAsinh: cmplx.Asinh,
		backends.OpTypeAcosh: cmplx.Acosh,
		backends.OpTypeAtanh: cmplx.Atanh,
	} {
		setUnary(op, complexFn[C](fn))
	}

	// Predicates.
	setUnary(backends.OpTypeIsZero, func(x C) bool { return x == 0 })
	setUnary(backends.OpTypeIsInf, func(x C) bool { return cmplx.IsInf(complex128(x)) })
	setUnary(backends.OpTypeIsNaN, func(x C) bool { return cmplx.IsNaN(complex128(x)) })
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func lgamma(x float64) float64 {
	value, _ := math.Lgamma(x)
	return value
}
