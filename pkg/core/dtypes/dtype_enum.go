// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import "strconv"

// DType is an enum that represents the element type of an array.
//
// The numeric values follow the XLA/PJRT numbering (PJRT_Buffer_Type_*), so they can be passed
// along to accelerator backends without translation. Values not listed here are "unrecognized":
// see DType.IsValid.
type DType int32

const (
	// InvalidDType is the zero value, used to mark an unset or invalid element type.
	InvalidDType DType = 0

	// Bool represents two-state booleans (PRED in XLA).
	Bool DType = 1

	// Int8 and the following are signed integral values of fixed width.
	Int8  DType = 2
	Int16 DType = 3
	Int32 DType = 4
	Int64 DType = 5

	// Uint8 and the following are unsigned integral values of fixed width.
	Uint8  DType = 6
	Uint16 DType = 7
	Uint32 DType = 8
	Uint64 DType = 9

	// Float16 is the IEEE 754 half-precision floating point, see github.com/x448/float16.
	Float16 DType = 10

	// Float32 is the IEEE 754 single-precision floating point.
	Float32 DType = 11

	// Float64 is the IEEE 754 double-precision floating point.
	Float64 DType = 12

	// BFloat16 is the "brain" floating point: the 16 most significant bits of a Float32.
	BFloat16 DType = 13

	// Complex64 is a pair of Float32 (real, imag).
	Complex64 DType = 14

	// Complex128 is a pair of Float64 (real, imag).
	Complex128 DType = 15

	// NumDTypes is a marker with the number of slots used by the enum: valid DType values are < NumDTypes.
	NumDTypes = 16
)

// Aliases, following the XLA short names.
const (
	PRED = Bool
	S8   = Int8
	S16  = Int16
	S32  = Int32
	S64  = Int64
	U8   = Uint8
	U16  = Uint16
	U32  = Uint32
	U64  = Uint64
	F16  = Float16
	F32  = Float32
	F64  = Float64
	BF16 = BFloat16
	C64  = Complex64
	C128 = Complex128
)

var dtypeNames = [NumDTypes]string{
	InvalidDType: "InvalidDType",
	Bool:         "Bool",
	Int8:         "Int8",
	Int16:        "Int16",
	Int32:        "Int32",
	Int64:        "Int64",
	Uint8:        "Uint8",
	Uint16:       "Uint16",
	Uint32:       "Uint32",
	Uint64:       "Uint64",
	Float16:      "Float16",
	Float32:      "Float32",
	Float64:      "Float64",
	BFloat16:     "BFloat16",
	Complex64:    "Complex64",
	Complex128:   "Complex128",
}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if dtype < 0 || dtype >= NumDTypes {
		return "DType(" + strconv.Itoa(int(dtype)) + ")"
	}
	return dtypeNames[dtype]
}

// Values returns all the valid DType values, excluding InvalidDType, in enum order.
func Values() []DType {
	values := make([]DType, 0, NumDTypes-1)
	for dtype := Bool; dtype < NumDTypes; dtype++ {
		values = append(values, dtype)
	}
	return values
}

// MapOfNames maps the names of the dtypes (and their XLA short names) to the corresponding DType.
// Lower-case versions are added during initialization.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"Bool":         Bool,
	"PRED":         Bool,
	"Int8":         Int8,
	"S8":           Int8,
	"Int16":        Int16,
	"S16":          Int16,
	"Int32":        Int32,
	"S32":          Int32,
	"Int64":        Int64,
	"S64":          Int64,
	"Uint8":        Uint8,
	"U8":           Uint8,
	"Uint16":       Uint16,
	"U16":          Uint16,
	"Uint32":       Uint32,
	"U32":          Uint32,
	"Uint64":       Uint64,
	"U64":          Uint64,
	"Float16":      Float16,
	"F16":          Float16,
	"Float32":      Float32,
	"F32":          Float32,
	"Float64":      Float64,
	"F64":          Float64,
	"BFloat16":     BFloat16,
	"BF16":         BFloat16,
	"Complex64":    Complex64,
	"C64":          Complex64,
	"Complex128":   Complex128,
	"C128":         Complex128,
}
