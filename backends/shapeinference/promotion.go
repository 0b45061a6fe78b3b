// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// ResolveDTypes returns the result dtype of op applied to operands of the given dtypes, and the dtype the
// operands are converted to before the operation is computed.
//
// It assumes the operands already passed CheckDomain. It fails if any of the dtypes is not recognized,
// or if the number of operands doesn't match the operation arity.
//
// For OpTypeConvertDType use ResolveCast instead.
func ResolveDTypes(lattice dtypes.Lattice, op backends.OpType, operands ...dtypes.DType) (result, compute dtypes.DType, err error) {
	entry, ok := Lookup(op)
	if !ok {
		err = errors.Errorf("unknown operation %s", op)
		return
	}
	if len(operands) != entry.Arity {
		err = errors.Errorf("operation %q takes %d operands, got %d", entry.Name, entry.Arity, len(operands))
		return
	}
	if op == backends.OpTypeConvertDType {
		err = errors.Errorf("operation %q requires a target dtype, use ResolveCast", entry.Name)
		return
	}
	join, ok := lattice.JoinAll(operands...)
	if !ok {
		err = errors.Errorf("operation %q: no common dtype for operands %v", entry.Name, operands)
		return
	}
	result, compute = join, join

	switch entry.Class {
	case backends.ClassArithmetic, backends.ClassRounding, backends.ClassTernary:
		if op == backends.OpTypeAbs && join.IsComplex() {
			result = join.RealDType()
		}
		compute = integerComputeDType(join)
		return

	case backends.ClassComparison:
		result, compute = dtypes.Bool, integerComputeDType(join)
		return

	case backends.ClassLogical:
		result, compute = dtypes.Bool, dtypes.Bool
		return

	case backends.ClassBitwise:
		if op == backends.OpTypeShiftLeft || op == backends.OpTypeShiftRight {
			compute = integerComputeDType(join)
		}
		return

	case backends.ClassUnaryTranscendental, backends.ClassBinaryTranscendental, backends.ClassGammaFamily:
		result = join.DefaultFloat()
		compute = result
		return

	case backends.ClassPredicate:
		result = dtypes.Bool
		return

	case backends.ClassComplex:
		result, compute = resolveComplex(op, join)
		return

	default:
		err = errors.Errorf("operation %q has no promotion rule for class %s", entry.Name, entry.Class)
		return
	}
}

// ResolveCast returns the result dtype for casting from dtype to target. It only fails if either dtype is
// not recognized.
func ResolveCast(operand, target dtypes.DType) (dtypes.DType, error) {
	if !operand.IsValid() {
		return dtypes.InvalidDType, errors.Errorf("cast from unrecognized dtype %s", operand)
	}
	if !target.IsValid() {
		return dtypes.InvalidDType, errors.Errorf("cast to unrecognized target dtype %s", target)
	}
	return target, nil
}

// integerComputeDType maps Bool to Uint8, for operations that are computed as numbers.
func integerComputeDType(dtype dtypes.DType) dtypes.DType {
	if dtype == dtypes.Bool {
		return dtypes.Uint8
	}
	return dtype
}

func resolveComplex(op backends.OpType, operand dtypes.DType) (result, compute dtypes.DType) {
	switch op {
	case backends.OpTypeComplex, backends.OpTypeComplex2:
		if operand.IsComplex() {
			return operand, operand
		}
		compute = operand.DefaultFloat()
		return compute.ComplexDType(), compute

	case backends.OpTypeReal, backends.OpTypeImag:
		if operand.IsComplex() {
			return operand.RealDType(), operand
		}
		return operand, operand

	case backends.OpTypeArg:
		if operand.IsComplex() {
			return operand.RealDType(), operand
		}
		result = operand.DefaultFloat()
		return result, result

	default:
		// Conj.
		return operand, operand
	}
}
