// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

// Lattice defines the partial order used to promote two operand dtypes to a common one:
//
//	Bool < Int8, Uint8 < Int16, Uint16 < Int32, Uint32 < Int64, Uint64 < Float32 < Float64 < Complex64 < Complex128
//	Bool < Float16 < Float32
//	Bool < BFloat16 < Float32
//
// Integers are ordered by width. For integers of the same width, by default the unsigned type is above
// the signed one (Int32 ⊔ Uint32 = Uint32), set SignedWinsTies to invert it.
//
// Float16 and BFloat16 are not comparable to each other nor to the integers: their join with
// any of those is Float32.
//
// The zero value is the default lattice.
type Lattice struct {
	// SignedWinsTies makes the signed integer the join of two integers of the same width.
	SignedWinsTies bool
}

// DefaultLattice is the promotion lattice used when none is configured.
var DefaultLattice = Lattice{}

// level of each dtype in the lattice "chain": Bool, integers, (half floats), Float32, Float64, Complex64, Complex128.
const (
	levelBool = iota
	levelInt
	levelHalf
	levelFloat32
	levelFloat64
	levelComplex64
	levelComplex128
)

func latticeLevel(dtype DType) int {
	switch {
	case dtype == Bool:
		return levelBool
	case dtype.IsInt():
		return levelInt
	case dtype.IsFloat16():
		return levelHalf
	case dtype == Float32:
		return levelFloat32
	case dtype == Float64:
		return levelFloat64
	case dtype == Complex64:
		return levelComplex64
	default:
		return levelComplex128
	}
}

// LessOrEqual returns whether a ≤ b in the lattice, that is, whether a can be promoted to b.
// It returns false if either dtype is not valid.
func (l Lattice) LessOrEqual(a, b DType) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	join, ok := l.Join(a, b)
	return ok && join == b
}

// Join returns the least upper bound of a and b in the lattice: the smallest dtype both can be
// promoted to.
//
// It returns false if either of the dtypes is not a valid (recognized) DType.
func (l Lattice) Join(a, b DType) (DType, bool) {
	if !a.IsValid() || !b.IsValid() {
		return InvalidDType, false
	}
	if a == b {
		return a, true
	}
	levelA, levelB := latticeLevel(a), latticeLevel(b)
	if levelA > levelB {
		a, b = b, a
		levelA, levelB = levelB, levelA
	}
	// From here levelA <= levelB.
	switch {
	case levelA == levelBool:
		return b, true
	case levelA == levelInt && levelB == levelInt:
		return l.joinIntegers(a, b), true
	case levelB == levelHalf:
		// Either an integer with a half float, or Float16 with BFloat16.
		return Float32, true
	default:
		return b, true
	}
}

// JoinAll returns the join of all the dtypes given. It returns false if dtypes is empty or if any is invalid.
func (l Lattice) JoinAll(dtypes ...DType) (DType, bool) {
	if len(dtypes) == 0 {
		return InvalidDType, false
	}
	result := dtypes[0]
	if !result.IsValid() {
		return InvalidDType, false
	}
	for _, dtype := range dtypes[1:] {
		var ok bool
		result, ok = l.Join(result, dtype)
		if !ok {
			return InvalidDType, false
		}
	}
	return result, true
}

func (l Lattice) joinIntegers(a, b DType) DType {
	bitsA, bitsB := a.Bits(), b.Bits()
	if bitsA != bitsB {
		if bitsA > bitsB {
			return a
		}
		return b
	}
	unsignedWins := !l.SignedWinsTies
	if a.IsUnsigned() == unsignedWins {
		return a
	}
	return b
}
