package shapeinference

import (
	"testing"

	. "github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	Bool = dtypes.Bool
	I8   = dtypes.Int8
	I32  = dtypes.Int32
	I64  = dtypes.Int64
	U8   = dtypes.Uint8
	U32  = dtypes.Uint32
	F16  = dtypes.Float16
	F32  = dtypes.Float32
	F64  = dtypes.Float64
	C64  = dtypes.Complex64
	C128 = dtypes.Complex128

	MS = shapes.Make
)

func TestCatalog(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, int(OpTypeLast)-1, "every OpType must have a catalog entry")
	names := make(map[string]bool)
	for _, entry := range entries {
		require.NotEmptyf(t, entry.Name, "op %s has no name", entry.Op)
		require.Falsef(t, names[entry.Name], "duplicate name %q", entry.Name)
		names[entry.Name] = true
		require.Containsf(t, []int{1, 2, 3}, entry.Arity, "op %s", entry.Op)
		byName, ok := LookupName(entry.Name)
		require.True(t, ok)
		require.Equal(t, entry, byName)
	}

	entry, ok := LookupName("bitshiftl")
	require.True(t, ok)
	assert.Equal(t, OpTypeShiftLeft, entry.Op)
	assert.Equal(t, ClassBitwise, entry.Class)
	assert.Equal(t, 2, entry.Arity)

	entry, _ = LookupName("clamp")
	assert.Equal(t, 3, entry.Arity)
	_, ok = LookupName("neg")
	assert.False(t, ok)
	_, ok = Lookup(OpTypeInvalid)
	assert.False(t, ok)
	_, ok = Lookup(OpTypeLast)
	assert.False(t, ok)
}

func TestCheckDomain(t *testing.T) {
	require.Error(t, CheckDomain(OpTypeBitwiseAnd, I32, F32))
	require.Error(t, CheckDomain(OpTypeShiftRight, C64, I8))
	require.NoError(t, CheckDomain(OpTypeBitwiseXor, Bool, U32))
	require.Error(t, CheckDomain(OpTypeTrunc, C128))
	require.NoError(t, CheckDomain(OpTypeTrunc, I8))
	require.Error(t, CheckDomain(OpTypeLessThan, C64, C64))
	require.NoError(t, CheckDomain(OpTypeEqual, C64, C64))
	require.NoError(t, CheckDomain(OpTypeSqrt, C64))
	require.NoError(t, CheckDomain(OpTypeSqrt, I32))
	require.Error(t, CheckDomain(OpTypeCbrt, C64))
	require.Error(t, CheckDomain(OpTypeComplex2, C64, F32))
	require.Error(t, CheckDomain(OpTypeClamp, F32, C64, F32))
	require.Error(t, CheckDomain(OpTypeLgamma, C128))

	// Unrecognized dtypes are left for the promotion step.
	require.NoError(t, CheckDomain(OpTypeBitwiseAnd, dtypes.DType(99), I8))
	require.Error(t, CheckDomain(OpTypeInvalid, I8))
}

func resolve(t *testing.T, op OpType, operands ...dtypes.DType) (result, compute dtypes.DType) {
	result, compute, err := ResolveDTypes(dtypes.DefaultLattice, op, operands...)
	require.NoErrorf(t, err, "ResolveDTypes(%s, %v)", op, operands)
	return
}

func TestResolveDTypes(t *testing.T) {
	type testCase struct {
		op              OpType
		operands        []dtypes.DType
		result, compute dtypes.DType
	}
	for _, tc := range []testCase{
		{OpTypeAdd, []dtypes.DType{I8, F64}, F64, F64},
		{OpTypeAdd, []dtypes.DType{Bool, Bool}, Bool, U8},
		{OpTypeMul, []dtypes.DType{I32, U32}, U32, U32},
		{OpTypeSub, []dtypes.DType{F32, C64}, C64, C64},
		{OpTypeAbs, []dtypes.DType{C128}, F64, C128},
		{OpTypeAbs, []dtypes.DType{I8}, I8, I8},
		{OpTypeLessThan, []dtypes.DType{I8, F32}, Bool, F32},
		{OpTypeEqual, []dtypes.DType{Bool, Bool}, Bool, U8},
		{OpTypeLogicalAnd, []dtypes.DType{F32, I64}, Bool, Bool},
		{OpTypeLogicalNot, []dtypes.DType{C64}, Bool, Bool},
		{OpTypeBitwiseAnd, []dtypes.DType{Bool, Bool}, Bool, Bool},
		{OpTypeBitwiseOr, []dtypes.DType{I8, U8}, U8, U8},
		{OpTypeShiftLeft, []dtypes.DType{Bool, Bool}, Bool, U8},
		{OpTypeSqrt, []dtypes.DType{I32}, F32, F32},
		{OpTypeSqrt, []dtypes.DType{I64}, F64, F64},
		{OpTypeSqrt, []dtypes.DType{Bool}, F32, F32},
		{OpTypeSqrt, []dtypes.DType{F16}, F16, F16},
		{OpTypeExp, []dtypes.DType{C64}, C64, C64},
		{OpTypeTgamma, []dtypes.DType{U8}, F32, F32},
		{OpTypeAtan2, []dtypes.DType{I32, I64}, F64, F64},
		{OpTypeRound, []dtypes.DType{I32}, I32, I32},
		{OpTypeSign, []dtypes.DType{Bool}, Bool, U8},
		{OpTypeIsNaN, []dtypes.DType{F64}, Bool, F64},
		{OpTypeIsZero, []dtypes.DType{C64}, Bool, C64},
		{OpTypeComplex, []dtypes.DType{F64}, C128, F64},
		{OpTypeComplex, []dtypes.DType{I32}, C64, F32},
		{OpTypeComplex, []dtypes.DType{C64}, C64, C64},
		{OpTypeComplex2, []dtypes.DType{F32, F64}, C128, F64},
		{OpTypeReal, []dtypes.DType{C64}, F32, C64},
		{OpTypeImag, []dtypes.DType{I8}, I8, I8},
		{OpTypeArg, []dtypes.DType{C128}, F64, C128},
		{OpTypeArg, []dtypes.DType{I32}, F32, F32},
		{OpTypeConj, []dtypes.DType{C64}, C64, C64},
		{OpTypeClamp, []dtypes.DType{I8, F32, I32}, F32, F32},
	} {
		result, compute := resolve(t, tc.op, tc.operands...)
		assert.Equalf(t, tc.result, result, "result dtype of %s%v", tc.op, tc.operands)
		assert.Equalf(t, tc.compute, compute, "compute dtype of %s%v", tc.op, tc.operands)
	}

	// Failures.
	_, _, err := ResolveDTypes(dtypes.DefaultLattice, OpTypeAdd, I8, dtypes.DType(99))
	require.Error(t, err)
	_, _, err = ResolveDTypes(dtypes.DefaultLattice, OpTypeAdd, I8)
	require.Error(t, err, "arity mismatch")
	_, _, err = ResolveDTypes(dtypes.DefaultLattice, OpTypeConvertDType, I8)
	require.Error(t, err)

	// Configurable tie-break.
	result, _, err := ResolveDTypes(dtypes.Lattice{SignedWinsTies: true}, OpTypeAdd, I32, U32)
	require.NoError(t, err)
	assert.Equal(t, I32, result)
}

func TestResolveDTypesIsCommutative(t *testing.T) {
	for _, op := range []OpType{OpTypeAdd, OpTypeMul, OpTypeLogicalAnd, OpTypeLogicalOr, OpTypeBitwiseAnd,
		OpTypeBitwiseOr, OpTypeBitwiseXor, OpTypeEqual, OpTypeNotEqual} {
		require.True(t, CommutativeOperations.Has(op))
		for _, a := range dtypes.Values() {
			for _, b := range dtypes.Values() {
				if CheckDomain(op, a, b) != nil {
					continue
				}
				abResult, abCompute := resolve(t, op, a, b)
				baResult, baCompute := resolve(t, op, b, a)
				require.Equalf(t, abResult, baResult, "%s(%s, %s)", op, a, b)
				require.Equalf(t, abCompute, baCompute, "%s(%s, %s)", op, a, b)
			}
		}
	}
}

func TestBooleanResults(t *testing.T) {
	for op := range BooleanResultOperations {
		entry, ok := Lookup(op)
		require.True(t, ok)
		operands := make([]dtypes.DType, entry.Arity)
		for ii := range operands {
			operands[ii] = I32
		}
		result, _ := resolve(t, op, operands...)
		assert.Equalf(t, Bool, result, "%s", op)
	}
}

func TestResolveCast(t *testing.T) {
	for _, from := range dtypes.Values() {
		for _, to := range dtypes.Values() {
			result, err := ResolveCast(from, to)
			require.NoError(t, err)
			require.Equal(t, to, result)
		}
	}
	_, err := ResolveCast(F32, dtypes.DType(42))
	require.Error(t, err)
	_, err = ResolveCast(dtypes.InvalidDType, F32)
	require.Error(t, err)
}

func TestBroadcast(t *testing.T) {
	// [4,1] with [4,3].
	dims, plans, err := Broadcast(MS(F32, 4, 1), MS(F32, 4, 3), true)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3}, dims)
	assert.Equal(t, []int{1, 0}, plans[0].Strides)
	assert.Equal(t, []int{3, 1}, plans[1].Strides)
	_, _, err = Broadcast(MS(F32, 4, 1), MS(F32, 4, 3), false)
	require.Error(t, err)

	// Same shapes: identity plans, regardless of batch.
	for _, batch := range []bool{false, true} {
		dims, plans, err = Broadcast(MS(I8, 2, 3, 4), MS(F64, 2, 3, 4), batch)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3, 4}, dims)
		assert.Equal(t, []int{12, 4, 1}, plans[0].Strides)
		assert.Equal(t, plans[0].Strides, plans[1].Strides)
	}

	// Scalar against a matrix.
	dims, plans, err = Broadcast(MS(F32), MS(F32, 2, 5), true)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, dims)
	assert.Equal(t, []int{0, 0}, plans[0].Strides)
	_, _, err = Broadcast(MS(F32), MS(F32, 2, 5), false)
	require.Error(t, err)

	// Missing trailing axes are taken as 1.
	dims, plans, err = Broadcast(MS(F32, 3), MS(F32, 3, 2), true)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, dims)
	assert.Equal(t, []int{1, 0}, plans[0].Strides)
	dims, _, err = Broadcast(MS(F32, 3), MS(F32, 3, 1), false)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, dims)

	// Both sides broadcast.
	dims, plans, err = Broadcast(MS(F32, 1, 4), MS(F32, 3, 1), true)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, dims)
	assert.Equal(t, []int{0, 1}, plans[0].Strides)
	assert.Equal(t, []int{1, 0}, plans[1].Strides)

	// Incompatible.
	_, _, err = Broadcast(MS(F32, 2, 3), MS(F32, 3, 2), true)
	require.Error(t, err)

	// Empty arrays.
	dims, _, err = Broadcast(MS(F32, 0, 3), MS(F32, 1, 3), true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, dims)
	_, _, err = Broadcast(MS(F32, 0, 3), MS(F32, 2, 3), true)
	require.Error(t, err)

	// Invalid operand shapes.
	_, _, err = Broadcast(shapes.Shape{DType: F32, Dimensions: []int{1, 1, 1, 1, 2}}, MS(F32), true)
	require.Error(t, err)
	_, _, err = Broadcast(shapes.Shape{DType: F32, Dimensions: []int{-1}}, MS(F32), true)
	require.Error(t, err)
}

func TestBroadcastIsSymmetric(t *testing.T) {
	allDims := [][]int{{}, {1}, {3}, {0}, {4, 1}, {4, 3}, {1, 3}, {2, 3}, {4, 3, 2}, {1, 1, 2}, {4, 1, 1, 5}, {0, 3}}
	for _, dimsA := range allDims {
		for _, dimsB := range allDims {
			a, b := MS(F32, dimsA...), MS(I8, dimsB...)
			for _, batch := range []bool{false, true} {
				outAB, errAB := BroadcastDimensions(a, b, batch)
				outBA, errBA := BroadcastDimensions(b, a, batch)
				require.Equalf(t, errAB == nil, errBA == nil, "broadcast(%s, %s, %v)", a, b, batch)
				require.Equalf(t, outAB, outBA, "broadcast(%s, %s, %v)", a, b, batch)
			}
		}
	}
}

func TestBroadcastClamp(t *testing.T) {
	// broadcast(in, lo) = [3,3] and broadcast(in, hi) = [3,1]: mismatch.
	_, _, err := BroadcastClamp(MS(F32, 3, 1), MS(F32, 1, 3), MS(F32, 3, 1), true)
	require.Error(t, err)

	dims, plans, err := BroadcastClamp(MS(F32, 3, 3), MS(F32), MS(F32, 1, 3), true)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, dims)
	require.Len(t, plans, 3)
	assert.Equal(t, []int{3, 1}, plans[0].Strides)
	assert.Equal(t, []int{0, 0}, plans[1].Strides)
	assert.Equal(t, []int{0, 1}, plans[2].Strides)

	_, _, err = BroadcastClamp(MS(F32, 3, 3), MS(F32), MS(F32), false)
	require.Error(t, err)
	dims, _, err = BroadcastClamp(MS(F32, 3, 3), MS(F32, 3, 3), MS(F32, 3, 3), false)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, dims)
}

func TestNewDescriptor(t *testing.T) {
	entry, ok := LookupName("lt")
	require.True(t, ok)
	lhs, rhs := MS(I8, 4, 1), MS(F64, 4, 3)
	result, compute := resolve(t, entry.Op, lhs.DType, rhs.DType)
	dims, plans := must.M2(Broadcast(lhs, rhs, true))
	desc := NewDescriptor(entry, result, compute, dims, plans)
	assert.True(t, desc.Shape.Equal(MS(Bool, 4, 3)))
	assert.Equal(t, F64, desc.ComputeDType)
	assert.False(t, desc.Operands[0].IsContiguous(desc.Shape))
	assert.True(t, desc.Operands[1].IsContiguous(desc.Shape))
	assert.Contains(t, desc.String(), "LessThan")

	_, plans = must.M2(UnaryPlan(MS(F32)))
	assert.Empty(t, plans[0].Strides)
	assert.True(t, plans[0].IsScalar())
}
