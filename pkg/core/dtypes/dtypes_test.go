// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"reflect"
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestMapOfNames(t *testing.T) {
	require.Equal(t, Float16, MapOfNames["Float16"])
	require.Equal(t, Float16, MapOfNames["float16"])
	require.Equal(t, Float16, MapOfNames["F16"])
	require.Equal(t, Float16, MapOfNames["f16"])
	require.Equal(t, BFloat16, MapOfNames["bf16"])
	require.Equal(t, Complex128, MapOfNames["c128"])

	dtype, err := FromName("UINT8")
	require.NoError(t, err)
	require.Equal(t, Uint8, dtype)
	_, err = FromName("float8")
	require.Error(t, err)
	_, err = FromName("InvalidDType")
	require.Error(t, err)
}

func TestGoTypes(t *testing.T) {
	for _, dtype := range Values() {
		require.Equalf(t, dtype, FromGoType(dtype.GoType()), "round trip of %s through reflect.Type", dtype)
	}
	require.Equal(t, Float16, FromGenericsType[float16.Float16]())
	require.Equal(t, BFloat16, FromGenericsType[bfloat16.BFloat16]())
	require.Equal(t, Complex64, FromAny(complex64(1)))
	require.Equal(t, InvalidDType, FromGoType(reflect.TypeOf("string")))
	require.Equal(t, 2, Float16.Size())
	require.Equal(t, 64, Complex64.Bits())
	require.Panics(t, func() { _ = DType(42).GoType() })
}

func TestPredicates(t *testing.T) {
	assert.True(t, Int8.IsInt())
	assert.True(t, Uint64.IsUnsigned())
	assert.False(t, Int64.IsUnsigned())
	assert.True(t, BFloat16.IsFloat())
	assert.True(t, BFloat16.IsFloat16())
	assert.False(t, Complex64.IsFloat())
	assert.True(t, Complex128.IsComplex())
	assert.True(t, Bool.IsReal())
	assert.False(t, Complex64.IsReal())
	assert.False(t, InvalidDType.IsValid())
	assert.False(t, DType(NumDTypes).IsValid())
	assert.Equal(t, "DType(99)", DType(99).String())

	assert.Equal(t, Float32, Complex64.RealDType())
	assert.Equal(t, InvalidDType, Int32.RealDType())
	assert.Equal(t, Complex128, Float64.ComplexDType())
	assert.Equal(t, Complex64, Float16.ComplexDType())

	assert.Equal(t, Float32, Bool.DefaultFloat())
	assert.Equal(t, Float32, Int32.DefaultFloat())
	assert.Equal(t, Float32, Uint16.DefaultFloat())
	assert.Equal(t, Float64, Int64.DefaultFloat())
	assert.Equal(t, Float64, Uint64.DefaultFloat())
	assert.Equal(t, Float16, Float16.DefaultFloat())
	assert.Equal(t, Complex64, Complex64.DefaultFloat())
}

func TestLatticeJoin(t *testing.T) {
	l := DefaultLattice
	join := func(a, b DType) DType {
		result, ok := l.Join(a, b)
		require.Truef(t, ok, "Join(%s, %s) failed", a, b)
		return result
	}
	assert.Equal(t, Float64, join(Int8, Float64))
	assert.Equal(t, Int8, join(Bool, Int8))
	assert.Equal(t, Uint8, join(Int8, Uint8))
	assert.Equal(t, Int16, join(Uint8, Int16))
	assert.Equal(t, Uint32, join(Int32, Uint32))
	assert.Equal(t, Float32, join(Int64, Float32))
	assert.Equal(t, Complex64, join(Float64, Complex64))
	assert.Equal(t, Complex128, join(Complex64, Complex128))
	assert.Equal(t, Float32, join(Float16, BFloat16))
	assert.Equal(t, Float32, join(Int8, Float16))
	assert.Equal(t, Float16, join(Bool, Float16))
	assert.Equal(t, Float64, join(BFloat16, Float64))

	_, ok := l.Join(Int8, InvalidDType)
	assert.False(t, ok)
	_, ok = l.Join(DType(77), Float32)
	assert.False(t, ok)

	signed := Lattice{SignedWinsTies: true}
	result, ok := signed.Join(Int32, Uint32)
	require.True(t, ok)
	assert.Equal(t, Int32, result)
	result, ok = signed.Join(Uint16, Int32)
	require.True(t, ok)
	assert.Equal(t, Int32, result)

	result, ok = l.JoinAll(Int8, Uint16, Float32)
	require.True(t, ok)
	assert.Equal(t, Float32, result)
	_, ok = l.JoinAll()
	assert.False(t, ok)
}

func TestLatticeIsPartialOrder(t *testing.T) {
	l := DefaultLattice
	all := Values()
	for _, a := range all {
		require.True(t, l.LessOrEqual(a, a), "reflexive for %s", a)
		for _, b := range all {
			ab, ok := l.Join(a, b)
			require.True(t, ok)
			ba, _ := l.Join(b, a)
			require.Equalf(t, ab, ba, "Join(%s, %s) must be commutative", a, b)
			require.Truef(t, l.LessOrEqual(a, ab) && l.LessOrEqual(b, ab), "%s must be an upper bound of %s and %s", ab, a, b)
			if a != b && l.LessOrEqual(a, b) {
				require.Falsef(t, l.LessOrEqual(b, a), "antisymmetry broken for %s and %s", a, b)
			}
			for _, c := range all {
				abc, _ := l.Join(ab, c)
				bc, _ := l.Join(b, c)
				aBC, _ := l.Join(a, bc)
				require.Equalf(t, abc, aBC, "Join must be associative for %s, %s, %s", a, b, c)
			}
		}
	}
	assert.False(t, l.LessOrEqual(Float16, BFloat16))
	assert.False(t, l.LessOrEqual(BFloat16, Float16))
	assert.False(t, l.LessOrEqual(Int8, Float16))
}
