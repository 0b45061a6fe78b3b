// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/support/sets"
	"github.com/pkg/errors"
)

// Domain restricts the operand dtypes accepted by an operation.
//
// Integer and boolean operands of operations that compute in floating point (e.g. Sqrt) are
// accepted: they are promoted by ResolveDTypes.
type Domain int

const (
	// DomainAny accepts any recognized dtype.
	DomainAny Domain = iota

	// DomainReal rejects complex operands.
	DomainReal

	// DomainInteger only accepts integer and boolean operands.
	DomainInteger
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case DomainAny:
		return "any"
	case DomainReal:
		return "real (no complex)"
	case DomainInteger:
		return "integer or bool"
	default:
		return "unknown domain"
	}
}

// Accepts returns whether dtype is in the domain. Unrecognized dtypes are never accepted.
func (d Domain) Accepts(dtype dtypes.DType) bool {
	if !dtype.IsValid() {
		return false
	}
	switch d {
	case DomainReal:
		return !dtype.IsComplex()
	case DomainInteger:
		return dtype == dtypes.Bool || dtype.IsInt()
	default:
		return true
	}
}

// Entry of the operations Catalog.
type Entry struct {
	Op backends.OpType

	// Name is the short public name of the operation, e.g. "add", "bitshiftl", "cplx2".
	Name string

	// Arity is the number of array operands: 1, 2 or 3.
	Arity int

	// Class drives the promotion rules of ResolveDTypes.
	Class backends.OpClass

	// Domain of the operands dtypes, checked before promotion.
	Domain Domain
}

var (
	// catalog is indexed by OpType and never mutated after initialization.
	catalog [backends.OpTypeLast]Entry

	// catalogByName maps Entry.Name to the OpType.
	catalogByName = make(map[string]backends.OpType, backends.OpTypeLast)

	// CommutativeOperations are invariant to the order of their operands, including the promotion of their dtypes.
	CommutativeOperations = sets.MakeWith(
		backends.OpTypeAdd,
		backends.OpTypeMul,
		backends.OpTypeMinOf,
		backends.OpTypeMaxOf,
		backends.OpTypeHypot,
		backends.OpTypeEqual,
		backends.OpTypeNotEqual,
		backends.OpTypeLogicalAnd,
		backends.OpTypeLogicalOr,
		backends.OpTypeBitwiseAnd,
		backends.OpTypeBitwiseOr,
		backends.OpTypeBitwiseXor,
	)

	// BooleanResultOperations always return Bool, regardless of the dtypes of their operands.
	BooleanResultOperations = sets.MakeWith(
		backends.OpTypeLessThan,
		backends.OpTypeGreaterThan,
		backends.OpTypeLessOrEqual,
		backends.OpTypeGreaterOrEqual,
		backends.OpTypeEqual,
		backends.OpTypeNotEqual,
		backends.OpTypeLogicalAnd,
		backends.OpTypeLogicalOr,
		backends.OpTypeLogicalNot,
		backends.OpTypeIsZero,
		backends.OpTypeIsInf,
		backends.OpTypeIsNaN,
	)

	// ComplexToRealOperations return the real component dtype when given a complex operand.
	ComplexToRealOperations = sets.MakeWith(
		backends.OpTypeAbs,
		backends.OpTypeArg,
		backends.OpTypeReal,
		backends.OpTypeImag,
	)
)

func register(op backends.OpType, name string, arity int, class backends.OpClass, domain Domain) {
	catalog[op] = Entry{Op: op, Name: name, Arity: arity, Class: class, Domain: domain}
	catalogByName[name] = op
}

func init() {
	// Binary arithmetic.
	register(backends.OpTypeAdd, "add", 2, backends.ClassArithmetic, DomainAny)
	register(backends.OpTypeSub, "sub", 2, backends.ClassArithmetic, DomainAny)
	register(backends.OpTypeMul, "mul", 2, backends.ClassArithmetic, DomainAny)
	register(backends.OpTypeDiv, "div", 2, backends.ClassArithmetic, DomainAny)
	register(backends.OpTypePow, "pow", 2, backends.ClassArithmetic, DomainAny)
	register(backends.OpTypeRem, "rem", 2, backends.ClassArithmetic, DomainReal)
	register(backends.OpTypeMod, "mod", 2, backends.ClassArithmetic, DomainReal)
	register(backends.OpTypeMinOf, "minof", 2, backends.ClassArithmetic, DomainReal)
	register(backends.OpTypeMaxOf, "maxof", 2, backends.ClassArithmetic, DomainReal)
	register(backends.OpTypeAbs, "abs", 1, backends.ClassArithmetic, DomainAny)

	// Binary transcendental.
	register(backends.OpTypeRoot, "root", 2, backends.ClassBinaryTranscendental, DomainReal)
	register(backends.OpTypeHypot, "hypot", 2, backends.ClassBinaryTranscendental, DomainReal)
	register(backends.OpTypeAtan2, "atan2", 2, backends.ClassBinaryTranscendental, DomainReal)

	// Comparison.
	register(backends.OpTypeLessThan, "lt", 2, backends.ClassComparison, DomainReal)
	register(backends.OpTypeGreaterThan, "gt", 2, backends.ClassComparison, DomainReal)
	register(backends.OpTypeLessOrEqual, "le", 2, backends.ClassComparison, DomainReal)
	register(backends.OpTypeGreaterOrEqual, "ge", 2, backends.ClassComparison, DomainReal)
	register(backends.OpTypeEqual, "eq", 2, backends.ClassComparison, DomainAny)
	register(backends.OpTypeNotEqual, "neq", 2, backends.ClassComparison, DomainAny)

	// Logical.
	register(backends.OpTypeLogicalAnd, "and", 2, backends.ClassLogical, DomainAny)
	register(backends.OpTypeLogicalOr, "or", 2, backends.ClassLogical, DomainAny)
	register(backends.OpTypeLogicalNot, "not", 1, backends.ClassLogical, DomainAny)

	// Bitwise.
	register(backends.OpTypeBitwiseAnd, "bitand", 2, backends.ClassBitwise, DomainInteger)
	register(backends.OpTypeBitwiseOr, "bitor", 2, backends.ClassBitwise, DomainInteger)
	register(backends.OpTypeBitwiseXor, "bitxor", 2, backends.ClassBitwise, DomainInteger)
	register(backends.OpTypeShiftLeft, "bitshiftl", 2, backends.ClassBitwise, DomainInteger)
	register(backends.OpTypeShiftRight, "bitshiftr", 2, backends.ClassBitwise, DomainInteger)

	register(backends.OpTypeConvertDType, "cast", 1, backends.ClassCast, DomainAny)

	// Rounding.
	register(backends.OpTypeSign, "sign", 1, backends.ClassRounding, DomainReal)
	register(backends.OpTypeRound, "round", 1, backends.ClassRounding, DomainReal)
	register(backends.OpTypeTrunc, "trunc", 1, backends.ClassRounding, DomainReal)
	register(backends.OpTypeFloor, "floor", 1, backends.ClassRounding, DomainReal)
	register(backends.OpTypeCeil, "ceil", 1, backends.ClassRounding, DomainReal)

	// Unary transcendental, defined for float or complex values.
	for op, name := range map[backends.OpType]string{
		backends.OpTypeSqrt:  "sqrt",
		backends.OpTypeExp:   "exp",
		backends.OpTypeLog:   "log",
		backends.OpTypeLog10: "log10",
		backends.OpTypeSin:   "sin",
		backends.OpTypeCos:   "cos",
		backends.OpTypeTan:   "tan",
		backends.OpTypeAsin:  "asin",
		backends.OpTypeAcos:  "acos",
		backends.OpTypeAtan:  "atan",
		backends.OpTypeSinh:  "sinh",
		backends.OpTypeCosh:  "cosh",
		backends.OpTypeTanh:  "tanh",
		backends.OpTypeAsinh: "asinh",
		backends.OpTypeAcosh: "acosh",
		backends.OpTypeAtanh: "atanh",
	} {
		register(op, name, 1, backends.ClassUnaryTranscendental, DomainAny)
	}

	// Unary transcendental, real values only.
	register(backends.OpTypeCbrt, "cbrt", 1, backends.ClassUnaryTranscendental, DomainReal)
	register(backends.OpTypeExpm1, "expm1", 1, backends.ClassUnaryTranscendental, DomainReal)
	register(backends.OpTypeLog1p, "log1p", 1, backends.ClassUnaryTranscendental, DomainReal)
	register(backends.OpTypeLog2, "log2", 1, backends.ClassUnaryTranscendental, DomainReal)
	register(backends.OpTypeLogistic, "sigmoid", 1, backends.ClassUnaryTranscendental, DomainReal)
	register(backends.OpTypePow2, "pow2", 1, backends.ClassUnaryTranscendental, DomainReal)

	// Gamma family.
	register(backends.OpTypeErf, "erf", 1, backends.ClassGammaFamily, DomainReal)
	register(backends.OpTypeErfc, "erfc", 1, backends.ClassGammaFamily, DomainReal)
	register(backends.OpTypeFactorial, "factorial", 1, backends.ClassGammaFamily, DomainReal)
	register(backends.OpTypeTgamma, "tgamma", 1, backends.ClassGammaFamily, DomainReal)
	register(backends.OpTypeLgamma, "lgamma", 1, backends.ClassGammaFamily, DomainReal)

	// Complex numbers.
	register(backends.OpTypeComplex, "cplx", 1, backends.ClassComplex, DomainAny)
	register(backends.OpTypeComplex2, "cplx2", 2, backends.ClassComplex, DomainReal)
	register(backends.OpTypeReal, "real", 1, backends.ClassComplex, DomainAny)
	register(backends.OpTypeImag, "imag", 1, backends.ClassComplex, DomainAny)
	register(backends.OpTypeConj, "conjg", 1, backends.ClassComplex, DomainAny)
	register(backends.OpTypeArg, "arg", 1, backends.ClassComplex, DomainAny)

	// Predicates.
	register(backends.OpTypeIsZero, "iszero", 1, backends.ClassPredicate, DomainAny)
	register(backends.OpTypeIsInf, "isinf", 1, backends.ClassPredicate, DomainAny)
	register(backends.OpTypeIsNaN, "isnan", 1, backends.ClassPredicate, DomainAny)

	register(backends.OpTypeClamp, "clamp", 3, backends.ClassTernary, DomainReal)
}

// Lookup returns the catalog entry for op, or false if op is not a known operation.
func Lookup(op backends.OpType) (Entry, bool) {
	if op <= backends.OpTypeInvalid || op >= backends.OpTypeLast {
		return Entry{}, false
	}
	entry := catalog[op]
	return entry, entry.Op != backends.OpTypeInvalid
}

// LookupName returns the catalog entry for the short operation name (e.g. "bitshiftl"), or false if not known.
func LookupName(name string) (Entry, bool) {
	op, found := catalogByName[name]
	if !found {
		return Entry{}, false
	}
	return Lookup(op)
}

// Entries returns all catalog entries, in OpType order.
func Entries() []Entry {
	entries := make([]Entry, 0, len(catalogByName))
	for op := backends.OpTypeInvalid + 1; op < backends.OpTypeLast; op++ {
		if entry, ok := Lookup(op); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// CheckDomain validates the operands dtypes against the domain of op.
//
// Unrecognized dtypes are not reported here: they fail type promotion, see ResolveDTypes.
func CheckDomain(op backends.OpType, operands ...dtypes.DType) error {
	entry, ok := Lookup(op)
	if !ok {
		return errors.Errorf("unknown operation %s", op)
	}
	for ii, dtype := range operands {
		if !dtype.IsValid() {
			continue
		}
		if !entry.Domain.Accepts(dtype) {
			return errors.Errorf("operation %q does not accept operand #%d of dtype %s: domain is %s",
				entry.Name, ii, dtype, entry.Domain)
		}
	}
	return nil
}
