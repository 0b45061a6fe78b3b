package backends

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OpType is an enum of all elementwise operations that can be supported by a Backend.
type OpType int

const (
	OpTypeInvalid OpType = iota

	// Binary arithmetic.

	OpTypeAdd
	OpTypeSub
	OpTypeMul
	OpTypeDiv
	OpTypeRem
	OpTypeMod
	OpTypeMinOf
	OpTypeMaxOf
	OpTypePow

	// Binary transcendental.

	OpTypeRoot
	OpTypeHypot
	OpTypeAtan2

	// Comparison.

	OpTypeLessThan
	OpTypeGreaterThan
	OpTypeLessOrEqual
	OpTypeGreaterOrEqual
	OpTypeEqual
	OpTypeNotEqual

	// Logical.

	OpTypeLogicalAnd
	OpTypeLogicalOr
	OpTypeLogicalNot

	// Bitwise.

	OpTypeBitwiseAnd
	OpTypeBitwiseOr
	OpTypeBitwiseXor
	OpTypeShiftLeft
	OpTypeShiftRight

	OpTypeConvertDType

	// Unary math.

	OpTypeAbs
	OpTypeArg
	OpTypeSign
	OpTypeRound
	OpTypeTrunc
	OpTypeFloor
	OpTypeCeil
	OpTypeSqrt
	OpTypeCbrt
	OpTypeExp
	OpTypeExpm1
	OpTypeLog
	OpTypeLog1p
	OpTypeLog10
	OpTypeLog2
	OpTypeLogistic
	OpTypePow2
	OpTypeErf
	OpTypeErfc
	OpTypeFactorial
	OpTypeTgamma
	OpTypeLgamma

	// Trigonometric and hyperbolic.

	OpTypeSin
	OpTypeCos
	OpTypeTan
	OpTypeAsin
	OpTypeAcos
	OpTypeAtan
	OpTypeSinh
	OpTypeCosh
	OpTypeTanh
	OpTypeAsinh
	OpTypeAcosh
	OpTypeAtanh

	// Complex numbers.

	OpTypeComplex
	OpTypeComplex2
	OpTypeReal
	OpTypeImag
	OpTypeConj

	// Predicates.

	OpTypeIsZero
	OpTypeIsInf
	OpTypeIsNaN

	OpTypeClamp

	// OpTypeLast should always be kept the last, it is used as a counter/marker for OpType.
	OpTypeLast
)

var opTypeNames = [...]string{
	OpTypeInvalid:        "Invalid",
	OpTypeAdd:            "Add",
	OpTypeSub:            "Sub",
	OpTypeMul:            "Mul",
	OpTypeDiv:            "Div",
	OpTypeRem:            "Rem",
	OpTypeMod:            "Mod",
	OpTypeMinOf:          "MinOf",
	OpTypeMaxOf:          "MaxOf",
	OpTypePow:            "Pow",
	OpTypeRoot:           "Root",
	OpTypeHypot:          "Hypot",
	OpTypeAtan2:          "Atan2",
	OpTypeLessThan:       "LessThan",
	OpTypeGreaterThan:    "GreaterThan",
	OpTypeLessOrEqual:    "LessOrEqual",
	OpTypeGreaterOrEqual: "GreaterOrEqual",
	OpTypeEqual:          "Equal",
	OpTypeNotEqual:       "NotEqual",
	OpTypeLogicalAnd:     "LogicalAnd",
	OpTypeLogicalOr:      "LogicalOr",
	OpTypeLogicalNot:     "LogicalNot",
	OpTypeBitwiseAnd:     "BitwiseAnd",
	OpTypeBitwiseOr:      "BitwiseOr",
	OpTypeBitwiseXor:     "BitwiseXor",
	OpTypeShiftLeft:      "ShiftLeft",
	OpTypeShiftRight:     "ShiftRight",
	OpTypeConvertDType:   "ConvertDType",
	OpTypeAbs:            "Abs",
	OpTypeArg:            "Arg",
	OpTypeSign:           "Sign",
	OpTypeRound:          "Round",
	OpTypeTrunc:          "Trunc",
	OpTypeFloor:          "Floor",
	OpTypeCeil:           "Ceil",
	OpTypeSqrt:           "Sqrt",
	OpTypeCbrt:           "Cbrt",
	OpTypeExp:            "Exp",
	OpTypeExpm1:          "Expm1",
	OpTypeLog:            "Log",
	OpTypeLog1p:          "Log1p",
	OpTypeLog10:          "Log10",
	OpTypeLog2:           "Log2",
	OpTypeLogistic:       "Logistic",
	OpTypePow2:           "Pow2",
	OpTypeErf:            "Erf",
	OpTypeErfc:           "Erfc",
	OpTypeFactorial:      "Factorial",
	OpTypeTgamma:         "Tgamma",
	OpTypeLgamma:         "Lgamma",
	OpTypeSin:            "Sin",
	OpTypeCos:            "Cos",
	OpTypeTan:            "Tan",
	OpTypeAsin:           "Asin",
	OpTypeAcos:           "Acos",
	OpTypeAtan:           "Atan",
	OpTypeSinh:           "Sinh",
	OpTypeCosh:           "Cosh",
	OpTypeTanh:           "Tanh",
	OpTypeAsinh:          "Asinh",
	OpTypeAcosh:          "Acosh",
	OpTypeAtanh:          "Atanh",
	OpTypeComplex:        "Complex",
	OpTypeComplex2:       "Complex2",
	OpTypeReal:           "Real",
	OpTypeImag:           "Imag",
	OpTypeConj:           "Conj",
	OpTypeIsZero:         "IsZero",
	OpTypeIsInf:          "IsInf",
	OpTypeIsNaN:          "IsNaN",
	OpTypeClamp:          "Clamp",
	OpTypeLast:           "Last",
}

// String implements fmt.Stringer.
func (op OpType) String() string {
	if op < 0 || int(op) >= len(opTypeNames) {
		return "OpType(" + strconv.Itoa(int(op)) + ")"
	}
	return opTypeNames[op]
}

// OpTypeValues returns all valid operation types (excluding OpTypeInvalid and OpTypeLast).
func OpTypeValues() []OpType {
	values := make([]OpType, 0, OpTypeLast-1)
	for op := OpTypeInvalid + 1; op < OpTypeLast; op++ {
		values = append(values, op)
	}
	return values
}

// OpTypeString returns the OpType for the given name, case-insensitive and with or without the "OpType" prefix.
func OpTypeString(name string) (OpType, error) {
	name = strings.TrimPrefix(strings.ToLower(name), "optype")
	for op := OpTypeInvalid + 1; op < OpTypeLast; op++ {
		if strings.ToLower(opTypeNames[op]) == name {
			return op, nil
		}
	}
	return OpTypeInvalid, errors.Errorf("%q is not a valid OpType", name)
}

// OpClass categorizes operations by the promotion and domain rules that apply to them.
type OpClass int

const (
	ClassInvalid OpClass = iota
	ClassArithmetic
	ClassComparison
	ClassLogical
	ClassBitwise
	ClassCast
	ClassRounding
	ClassUnaryTranscendental
	ClassBinaryTranscendental
	ClassGammaFamily
	ClassComplex
	ClassPredicate
	ClassTernary
	classLast
)

var opClassNames = [...]string{
	ClassInvalid:              "Invalid",
	ClassArithmetic:           "Arithmetic",
	ClassComparison:           "Comparison",
	ClassLogical:              "Logical",
	ClassBitwise:              "Bitwise",
	ClassCast:                 "Cast",
	ClassRounding:             "Rounding",
	ClassUnaryTranscendental:  "UnaryTranscendental",
	ClassBinaryTranscendental: "BinaryTranscendental",
	ClassGammaFamily:          "GammaFamily",
	ClassComplex:              "Complex",
	ClassPredicate:            "Predicate",
	ClassTernary:              "Ternary",
}

// String implements fmt.Stringer.
func (c OpClass) String() string {
	if c < 0 || c >= classLast {
		return "OpClass(" + strconv.Itoa(int(c)) + ")"
	}
	return opClassNames[c]
}

// OpClassValues returns all valid operation classes.
func OpClassValues() []OpClass {
	values := make([]OpClass, 0, classLast-1)
	for c := ClassInvalid + 1; c < classLast; c++ {
		values = append(values, c)
	}
	return values
}

// OpClassString returns the OpClass for the given name, case-insensitive.
func OpClassString(name string) (OpClass, error) {
	for c := ClassInvalid + 1; c < classLast; c++ {
		if strings.EqualFold(opClassNames[c], name) {
			return c, nil
		}
	}
	return ClassInvalid, errors.Errorf("%q is not a valid OpClass", name)
}
