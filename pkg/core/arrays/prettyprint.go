package arrays

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// maxPrintedPerAxis is the number of values printed per axis before using an ellipsis:
// larger axes print only their first and last 3 elements.
const maxPrintedPerAxis = 6

// Summary returns a multi-line numpy-like rendering of the Array values, with floating point values
// printed with the given precision.
//
// It returns only the shape for empty arrays, and an error message for released arrays.
func (a *Array) Summary(precision int) string {
	if err := a.CheckValid(); err != nil {
		return fmt.Sprintf("<invalid array: %v>", err)
	}
	if a.shape.IsEmpty() {
		return a.shape.String()
	}
	flat, err := a.FlatData()
	if err != nil {
		return fmt.Sprintf("<failed to read array %s: %v>", a.id, err)
	}
	values := reflect.ValueOf(flat)

	var sb strings.Builder
	for _, dim := range a.shape.Dimensions {
		_, _ = fmt.Fprintf(&sb, "[%d]", dim)
	}
	sb.WriteString(values.Type().Elem().String())
	if a.shape.IsScalar() {
		sb.WriteString("(")
		writeValue(&sb, values.Index(0), precision)
		sb.WriteString(")")
		return sb.String()
	}
	writeAxis(&sb, values, a.shape.Dimensions, 0, 0, precision)
	return sb.String()
}

// writeAxis writes the values of the sub-array starting at flat index offset, for the dimensions from axis on.
func writeAxis(sb *strings.Builder, values reflect.Value, dims []int, axis, offset, precision int) {
	stride := 1
	for _, dim := range dims[axis+1:] {
		stride *= dim
	}
	dim := dims[axis]
	isLast := axis == len(dims)-1
	separator := ", "
	if !isLast {
		separator = ",\n" + strings.Repeat(" ", axis+1)
	}

	sb.WriteString("{")
	if !isLast && axis == 0 {
		sb.WriteString("\n ")
	}
	for ii := 0; ii < dim; ii++ {
		if dim > maxPrintedPerAxis && ii == 3 {
			sb.WriteString(separator)
			sb.WriteString("...")
			ii = dim - 3
		}
		if ii > 0 {
			sb.WriteString(separator)
		}
		if isLast {
			writeValue(sb, values.Index(offset+ii), precision)
		} else {
			writeAxis(sb, values, dims, axis+1, offset+ii*stride, precision)
		}
	}
	sb.WriteString("}")
}

var (
	typeFloat16  = reflect.TypeOf(float16.Float16(0))
	typeBFloat16 = reflect.TypeOf(bfloat16.BFloat16(0))
)

func writeValue(sb *strings.Builder, v reflect.Value, precision int) {
	switch v.Type() {
	case typeFloat16:
		_, _ = fmt.Fprintf(sb, "%.*g", precision, v.Interface().(float16.Float16).Float32())
		return
	case typeBFloat16:
		_, _ = fmt.Fprintf(sb, "%.*g", precision, v.Interface().(bfloat16.BFloat16).Float32())
		return
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, _ = fmt.Fprintf(sb, "%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		_, _ = fmt.Fprintf(sb, "%d", v.Uint())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		_, _ = fmt.Fprintf(sb, "(%.*g%+.*gi)", precision, real(c), precision, imag(c))
	case reflect.Bool:
		_, _ = fmt.Fprintf(sb, "%v", v.Bool())
	default:
		_, _ = fmt.Fprintf(sb, "%.*g", precision, v.Float())
	}
}
