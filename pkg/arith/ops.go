// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arith

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/arrays"
	"github.com/gomlx/arith/pkg/core/dtypes"
)

// engineFor returns an Engine for the backend of the first non-nil operand, with the default lattice.
func engineFor(op backends.OpType, operands ...*arrays.Array) (*Engine, error) {
	for _, operand := range operands {
		if operand != nil && operand.Backend() != nil {
			return &Engine{backend: operand.Backend(), lattice: dtypes.DefaultLattice}, nil
		}
	}
	return nil, logFailure(newError(InvalidArgument, opName(op), nil, "no valid operand given"))
}

func dispatch(op backends.OpType, batch bool, operands ...*arrays.Array) (*arrays.Array, error) {
	e, err := engineFor(op, operands...)
	if err != nil {
		return nil, err
	}
	return e.Dispatch(op, batch, operands...)
}

// Cast converts x to dtype, using the backend of x. See Engine.Cast.
func Cast(x *arrays.Array, dtype dtypes.DType) (*arrays.Array, error) {
	e, err := engineFor(backends.OpTypeConvertDType, x)
	if err != nil {
		return nil, err
	}
	return e.Cast(x, dtype)
}

// Clamp returns x limited to the range [lower, upper]: min(max(x, lower), upper).
//
// With batch, x is broadcast against lower and against upper, and both must yield the same shape.
func Clamp(x, lower, upper *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeClamp, batch, x, lower, upper)
}

// Binary operations: with batch the operands are broadcast, otherwise their shapes must match.

// Add returns lhs + rhs.
func Add(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAdd, batch, lhs, rhs)
}

// Sub returns lhs - rhs.
func Sub(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeSub, batch, lhs, rhs)
}

// Mul returns lhs * rhs.
func Mul(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeMul, batch, lhs, rhs)
}

// Div returns lhs / rhs. Integer division truncates, and integer division by zero yields 0.
func Div(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeDiv, batch, lhs, rhs)
}

// Rem returns the remainder of the truncated division lhs / rhs: the result has the sign of lhs.
func Rem(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeRem, batch, lhs, rhs)
}

// Mod returns lhs modulo rhs, using the floored division: the result has the sign of rhs.
func Mod(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeMod, batch, lhs, rhs)
}

// MinOf returns the elementwise minimum of lhs and rhs.
func MinOf(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeMinOf, batch, lhs, rhs)
}

// MaxOf returns the elementwise maximum of lhs and rhs.
func MaxOf(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeMaxOf, batch, lhs, rhs)
}

// Pow returns lhs raised to the power rhs.
func Pow(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypePow, batch, lhs, rhs)
}

// Root returns the lhs-th root of rhs: rhs^(1/lhs). Integer operands are promoted to float.
func Root(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeRoot, batch, lhs, rhs)
}

// Hypot returns sqrt(lhs² + rhs²). Integer operands are promoted to float.
func Hypot(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeHypot, batch, lhs, rhs)
}

// Atan2 returns the arc tangent of lhs/rhs, using the signs of both to find the quadrant.
func Atan2(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAtan2, batch, lhs, rhs)
}

// LessThan returns lhs < rhs, as Bool.
func LessThan(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLessThan, batch, lhs, rhs)
}

// GreaterThan returns lhs > rhs, as Bool.
func GreaterThan(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeGreaterThan, batch, lhs, rhs)
}

// LessOrEqual returns lhs <= rhs, as Bool.
func LessOrEqual(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLessOrEqual, batch, lhs, rhs)
}

// GreaterOrEqual returns lhs >= rhs, as Bool.
func GreaterOrEqual(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeGreaterOrEqual, batch, lhs, rhs)
}

// Equal returns lhs == rhs, as Bool.
func Equal(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeEqual, batch, lhs, rhs)
}

// NotEqual returns lhs != rhs, as Bool.
func NotEqual(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeNotEqual, batch, lhs, rhs)
}

// And returns the logical and of lhs and rhs: non-zero values are true.
func And(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLogicalAnd, batch, lhs, rhs)
}

// Or returns the logical or of lhs and rhs: non-zero values are true.
func Or(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLogicalOr, batch, lhs, rhs)
}

// BitAnd returns the bitwise and of integer or boolean operands.
func BitAnd(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeBitwiseAnd, batch, lhs, rhs)
}

// BitOr returns the bitwise or of integer or boolean operands.
func BitOr(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeBitwiseOr, batch, lhs, rhs)
}

// BitXor returns the bitwise xor of integer or boolean operands.
func BitXor(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeBitwiseXor, batch, lhs, rhs)
}

// ShiftLeft returns lhs << rhs. Negative shift counts leave the value unchanged.
func ShiftLeft(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeShiftLeft, batch, lhs, rhs)
}

// ShiftRight returns lhs >> rhs, arithmetic for signed integers. Negative shift counts leave the value unchanged.
func ShiftRight(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeShiftRight, batch, lhs, rhs)
}

// Complex2 returns the complex number with real part lhs and imaginary part rhs.
func Complex2(lhs, rhs *arrays.Array, batch bool) (*arrays.Array, error) {
	return dispatch(backends.OpTypeComplex2, batch, lhs, rhs)
}

// Unary operations.

// Not returns the logical not of x, as Bool: zero values become true.
func Not(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLogicalNot, false, x)
}

// Abs returns the absolute value of x. For complex x it returns the magnitude, with the real dtype.
func Abs(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAbs, false, x)
}

// Arg returns the phase angle of x. For real x it is 0 for non-negative values and π for negative ones.
func Arg(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeArg, false, x)
}

// Sign returns -1, 0 or 1, following the sign of x.
func Sign(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeSign, false, x)
}

// Round rounds x to the nearest integer, halves away from zero.
func Round(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeRound, false, x)
}

// Trunc rounds x toward zero.
func Trunc(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeTrunc, false, x)
}

func Floor(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeFloor, false, x)
}

func Ceil(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeCeil, false, x)
}

func Sqrt(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeSqrt, false, x)
}

// Cbrt returns the cube root of x.
func Cbrt(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeCbrt, false, x)
}

func Exp(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeExp, false, x)
}

// Expm1 returns exp(x)-1, accurate for x near 0.
func Expm1(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeExpm1, false, x)
}

// Log returns the natural logarithm of x.
func Log(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLog, false, x)
}

// Log1p returns log(1+x), accurate for x near 0.
func Log1p(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLog1p, false, x)
}

func Log10(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLog10, false, x)
}

func Log2(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLog2, false, x)
}

// Sigmoid returns the logistic function 1/(1+exp(-x)).
func Sigmoid(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLogistic, false, x)
}

// Pow2 returns 2^x.
func Pow2(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypePow2, false, x)
}

// Erf returns the error function of x.
func Erf(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeErf, false, x)
}

// Erfc returns the complementary error function of x.
func Erfc(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeErfc, false, x)
}

// Factorial returns x!, computed as tgamma(x+1) so it is defined for non-integer values.
func Factorial(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeFactorial, false, x)
}

// Tgamma returns the gamma function of x.
func Tgamma(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeTgamma, false, x)
}

// Lgamma returns the natural logarithm of the absolute value of the gamma function of x.
func Lgamma(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeLgamma, false, x)
}

func Sin(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeSin, false, x)
}

func Cos(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeCos, false, x)
}

func Tan(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeTan, false, x)
}

func Asin(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAsin, false, x)
}

func Acos(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAcos, false, x)
}

func Atan(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAtan, false, x)
}

func Sinh(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeSinh, false, x)
}

func Cosh(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeCosh, false, x)
}

func Tanh(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeTanh, false, x)
}

func Asinh(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAsinh, false, x)
}

func Acosh(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAcosh, false, x)
}

func Atanh(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeAtanh, false, x)
}

// Complex converts x to complex with zero imaginary part. Complex x is returned as is.
func Complex(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeComplex, false, x)
}

// Real returns the real part of x.
func Real(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeReal, false, x)
}

// Imag returns the imaginary part of x: zeros for real x.
func Imag(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeImag, false, x)
}

// Conj returns the complex conjugate of x.
func Conj(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeConj, false, x)
}

// IsZero returns whether x == 0, as Bool.
func IsZero(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeIsZero, false, x)
}

// IsInf returns whether x is infinite, as Bool.
func IsInf(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeIsInf, false, x)
}

// IsNaN returns whether x is NaN, as Bool.
func IsNaN(x *arrays.Array) (*arrays.Array, error) {
	return dispatch(backends.OpTypeIsNaN, false, x)
}
