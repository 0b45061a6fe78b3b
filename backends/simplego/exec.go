package simplego

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/backends/shapeinference"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Kernels are indexed by the OpType and by the dtype of their (converted) inputs.
var (
	unaryKernels   [backends.OpTypeLast][dtypes.NumDTypes]unaryKernel
	binaryKernels  [backends.OpTypeLast][dtypes.NumDTypes]binaryKernel
	ternaryKernels [backends.OpTypeLast][dtypes.NumDTypes]ternaryKernel
)

// kernelDTypes returns the dtype the kernel of the operation reads and the dtype it writes.
//
// The kernel reads the descriptor's ComputeDType, except half precision floats, which are computed in float32.
// If the kernel output dtype is different from the descriptor's DType, the output is converted afterward.
func kernelDTypes(desc *backends.Descriptor) (input, output dtypes.DType) {
	input = desc.ComputeDType
	if input.IsFloat16() {
		input = dtypes.Float32
	}
	switch {
	case desc.Op == backends.OpTypeConvertDType:
		output = input
	case shapeinference.BooleanResultOperations.Has(desc.Op):
		output = dtypes.Bool
	case shapeinference.ComplexToRealOperations.Has(desc.Op) && input.IsComplex():
		output = input.RealDType()
	case (desc.Op == backends.OpTypeComplex || desc.Op == backends.OpTypeComplex2) && !input.IsComplex():
		output = input.ComplexDType()
	default:
		output = input
	}
	return
}

// Execute implements backends.Backend.
//
// Operands are converted to the compute dtype, the kernel of the operation is run in parallel chunks over
// the output, and the output is converted to the result dtype if needed.
// The inputs are never modified.
func (b *Backend) Execute(desc *backends.Descriptor, inputs []backends.Buffer) (backends.Buffer, error) {
	if b.isFinalized.Load() {
		return nil, errors.Errorf("backend %q has already been finalized", BackendName)
	}
	if len(inputs) != len(desc.Operands) {
		return nil, errors.Errorf("Execute(%s): %d input buffers given, but the descriptor has %d operands",
			desc.Op, len(inputs), len(desc.Operands))
	}
	if err := b.capabilities.Check(desc); err != nil {
		return nil, err
	}
	buffers := make([]*Buffer, len(inputs))
	for ii, input := range inputs {
		buffer, err := toBuffer(input)
		if err != nil {
			return nil, errors.WithMessagef(err, "Execute(%s): input #%d", desc.Op, ii)
		}
		if !buffer.shape.Equal(desc.Operands[ii].Shape) {
			return nil, errors.Errorf("Execute(%s): input #%d has shape %s, but the descriptor expected %s",
				desc.Op, ii, buffer.shape, desc.Operands[ii].Shape)
		}
		buffers[ii] = buffer
	}

	var output *Buffer
	exception := exceptions.Try(func() {
		output = b.execute(desc, buffers)
	})
	if exception != nil {
		if err, ok := exception.(error); ok {
			return nil, errors.WithMessagef(err, "Execute(%s)", desc.Op)
		}
		return nil, errors.Errorf("Execute(%s): %v", desc.Op, exception)
	}
	return output, nil
}

// execute runs the operation, it panics with an exception on failure.
func (b *Backend) execute(desc *backends.Descriptor, inputs []*Buffer) *Buffer {
	if desc.Op == backends.OpTypeConvertDType {
		// A cast is just a conversion, and the input is always contiguous.
		output, owned := b.convertBuffer(inputs[0], desc.DType)
		if !owned {
			output = b.cloneBuffer(output)
		}
		return output
	}

	inputDType, outputDType := kernelDTypes(desc)
	if klog.V(3).Enabled() {
		klog.Infof("simplego: %s with kernel %s -> %s", desc, inputDType, outputDType)
	}

	// Convert operands to the kernel input dtype.
	converted := make([]*Buffer, len(inputs))
	for ii, input := range inputs {
		var owned bool
		converted[ii], owned = b.convertBuffer(input, inputDType)
		if owned {
			defer b.putBuffer(converted[ii])
		}
	}

	output := b.NewBuffer(desc.Shape.WithDType(outputDType))
	// The output goes back to the pool if a kernel panics.
	var done bool
	defer func() {
		if !done {
			b.putBuffer(output)
		}
	}()
	size := output.shape.Size()
	switch len(converted) {
	case 1:
		kernel := unaryKernels[desc.Op][inputDType]
		if kernel == nil {
			exceptions.Panicf("no kernel for unary operation %s on %s", desc.Op, inputDType)
		}
		b.workers.ParallelFor(size, b.minChunkSize, func(start, end int) {
			kernel(converted[0], output, desc.Operands[0], start, end)
		})
	case 2:
		kernel := binaryKernels[desc.Op][inputDType]
		if kernel == nil {
			exceptions.Panicf("no kernel for binary operation %s on %s", desc.Op, inputDType)
		}
		b.workers.ParallelFor(size, b.minChunkSize, func(start, end int) {
			kernel(converted[0], converted[1], output, desc.Operands[0], desc.Operands[1], start, end)
		})
	case 3:
		kernel := ternaryKernels[desc.Op][inputDType]
		if kernel == nil {
			exceptions.Panicf("no kernel for ternary operation %s on %s", desc.Op, inputDType)
		}
		b.workers.ParallelFor(size, b.minChunkSize, func(start, end int) {
			kernel(converted[0], converted[1], converted[2], output, desc.Operands, start, end)
		})
	default:
		exceptions.Panicf("operation %s with %d operands not supported", desc.Op, len(converted))
	}

	if outputDType != desc.DType {
		result, _ := b.convertBuffer(output, desc.DType)
		b.putBuffer(output)
		output = result
	}
	done = true
	return output
}

// cloneBuffer using the pool to allocate a new one.
func (b *Backend) cloneBuffer(buffer *Buffer) *Buffer {
	if err := buffer.checkValid(); err != nil {
		panic(errors.WithMessage(err, "cloneBuffer"))
	}
	newBuffer := b.NewBuffer(buffer.shape)
	copyFlat(newBuffer.flat, buffer.flat)
	return newBuffer
}
