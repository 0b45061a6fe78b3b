package simplego

import (
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// dispatchConvert is keyed by the source dtype. Parameters are the source flat slice and the destination flat slice.
var dispatchConvert = NewDTypeDispatcher("ConvertDType")

func init() {
	dispatchConvert.Register(dtypes.Bool, convertFromBool)
	dispatchConvert.Register(dtypes.Int8, convertFromPOD[int8])
	dispatchConvert.Register(dtypes.Int16, convertFromPOD[int16])
	dispatchConvert.Register(dtypes.Int32, convertFromPOD[int32])
	dispatchConvert.Register(dtypes.Int64, convertFromPOD[int64])
	dispatchConvert.Register(dtypes.Uint8, convertFromPOD[uint8])
	dispatchConvert.Register(dtypes.Uint16, convertFromPOD[uint16])
	dispatchConvert.Register(dtypes.Uint32, convertFromPOD[uint32])
	dispatchConvert.Register(dtypes.Uint64, convertFromPOD[uint64])
	dispatchConvert.Register(dtypes.Float32, convertFromPOD[float32])
	dispatchConvert.Register(dtypes.Float64, convertFromPOD[float64])
	dispatchConvert.Register(dtypes.Float16, convertFromFloat16)
	dispatchConvert.Register(dtypes.BFloat16, convertFromBFloat16)
	dispatchConvert.Register(dtypes.Complex64, convertFromComplex64)
	dispatchConvert.Register(dtypes.Complex128, convertFromComplex128)
}

// convertBuffer returns the buffer converted to dtype.
//
// If the buffer already has the requested dtype it is returned as is, and owned is false: the caller must not
// modify or free it.
// Otherwise, a new buffer from the pool is returned, and owned is true.
func (b *Backend) convertBuffer(buffer *Buffer, dtype dtypes.DType) (converted *Buffer, owned bool) {
	if buffer.shape.DType == dtype {
		return buffer, false
	}
	converted = b.NewBuffer(buffer.shape.WithDType(dtype))
	dispatchConvert.Dispatch(buffer.shape.DType, buffer.flat, converted.flat)
	return converted, true
}

func convertPODSlice[F, T PODNumericConstraints](src []F, dst []T) {
	for idx, value := range src {
		dst[idx] = T(value)
	}
}

func convertFromPOD[F PODNumericConstraints](params ...any) {
	src := params[0].([]F)
	switch dst := params[1].(type) {
	case []bool:
		for idx, value := range src {
			dst[idx] = value != 0
		}
	case []int8:
		convertPODSlice(src, dst)
	case []int16:
		convertPODSlice(src, dst)
	case []int32:
		convertPODSlice(src, dst)
	case []int64:
		convertPODSlice(src, dst)
	case []uint8:
		convertPODSlice(src, dst)
	case []uint16:
		convertPODSlice(src, dst)
	case []uint32:
		convertPODSlice(src, dst)
	case []uint64:
		convertPODSlice(src, dst)
	case []float32:
		convertPODSlice(src, dst)
	case []float64:
		convertPODSlice(src, dst)
	case []float16.Float16:
		for idx, value := range src {
			dst[idx] = float16.Fromfloat32(float32(value))
		}
	case []bfloat16.BFloat16:
		for idx, value := range src {
			dst[idx] = bfloat16.FromFloat32(float32(value))
		}
	case []complex64:
		for idx, value := range src {
			dst[idx] = complex(float32(value), 0)
		}
	case []complex128:
		for idx, value := range src {
			dst[idx] = complex(float64(value), 0)
		}
	default:
		exceptions.Panicf("ConvertDType: unsupported conversion from %T to %T", src, params[1])
	}
}

func boolsToPOD[T PODNumericConstraints](src []bool, dst []T) {
	for idx, value := range src {
		if value {
			dst[idx] = 1
		} else {
			dst[idx] = 0
		}
	}
}

func convertFromBool(params ...any) {
	src := params[0].([]bool)
	switch dst := params[1].(type) {
	case []bool:
		copy(dst, src)
	case []int8:
		boolsToPOD(src, dst)
	case []int16:
		boolsToPOD(src, dst)
	case []int32:
		boolsToPOD(src, dst)
	case []int64:
		boolsToPOD(src, dst)
	case []uint8:
		boolsToPOD(src, dst)
	case []uint16:
		boolsToPOD(src, dst)
	case []uint32:
		boolsToPOD(src, dst)
	case []uint64:
		boolsToPOD(src, dst)
	case []float32:
		boolsToPOD(src, dst)
	case []float64:
		boolsToPOD(src, dst)
	default:
		// Half precision and complex: go through float32.
		tmp := make([]float32, len(src))
		boolsToPOD(src, tmp)
		convertFromPOD[float32](tmp, params[1])
	}
}

func convertFromFloat16(params ...any) {
	src := params[0].([]float16.Float16)
	if dst, ok := params[1].([]float16.Float16); ok {
		copy(dst, src)
		return
	}
	tmp := make([]float32, len(src))
	for idx, value := range src {
		tmp[idx] = value.Float32()
	}
	convertFromPOD[float32](tmp, params[1])
}

func convertFromBFloat16(params ...any) {
	src := params[0].([]bfloat16.BFloat16)
	if dst, ok := params[1].([]bfloat16.BFloat16); ok {
		copy(dst, src)
		return
	}
	tmp := make([]float32, len(src))
	for idx, value := range src {
		tmp[idx] = value.Float32()
	}
	convertFromPOD[float32](tmp, params[1])
}

func convertFromComplex64(params ...any) {
	src := params[0].([]complex64)
	switch dst := params[1].(type) {
	case []complex64:
		copy(dst, src)
	case []complex128:
		for idx, value := range src {
			dst[idx] = complex128(value)
		}
	case []bool:
		for idx, value := range src {
			dst[idx] = value != 0
		}
	default:
		// Real types take the real part.
		tmp := make([]float32, len(src))
		for idx, value := range src {
			tmp[idx] = real(value)
		}
		convertFromPOD[float32](tmp, params[1])
	}
}

func convertFromComplex128(params ...any) {
	src := params[0].([]complex128)
	switch dst := params[1].(type) {
	case []complex128:
		copy(dst, src)
	case []complex64:
		for idx, value := range src {
			dst[idx] = complex64(value)
		}
	case []bool:
		for idx, value := range src {
			dst[idx] = value != 0
		}
	default:
		tmp := make([]float64, len(src))
		for idx, value := range src {
			tmp[idx] = real(value)
		}
		convertFromPOD[float64](tmp, params[1])
	}
}
