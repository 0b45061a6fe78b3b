// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arith

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/backends/shapeinference"
	"github.com/gomlx/arith/pkg/core/arrays"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Engine dispatches elementwise operations to a backend.
//
// It only holds immutable configuration, so it is safe for concurrent use.
type Engine struct {
	backend backends.Backend
	lattice dtypes.Lattice
}

// Option configures an Engine, see New.
type Option func(e *Engine)

// WithBackend sets the backend used by the Engine. If not set, backends.New() is used.
func WithBackend(backend backends.Backend) Option {
	return func(e *Engine) { e.backend = backend }
}

// WithLattice sets the promotion lattice used to find the common dtype of the operands.
// The default is dtypes.DefaultLattice.
func WithLattice(lattice dtypes.Lattice) Option {
	return func(e *Engine) { e.lattice = lattice }
}

// New creates an Engine configured with the given options.
func New(options ...Option) (*Engine, error) {
	e := &Engine{lattice: dtypes.DefaultLattice}
	for _, option := range options {
		option(e)
	}
	if e.backend == nil {
		backend, err := backends.New()
		if err != nil {
			return nil, errors.WithMessage(err, "arith.New()")
		}
		e.backend = backend
	}
	return e, nil
}

// MustNew is like New, but panics on error.
func MustNew(options ...Option) *Engine {
	e, err := New(options...)
	if err != nil {
		panic(err)
	}
	return e
}

// Backend used by the Engine.
func (e *Engine) Backend() backends.Backend { return e.backend }

// Lattice used by the Engine for type promotion.
func (e *Engine) Lattice() dtypes.Lattice { return e.lattice }

// Plan validates the operands of op and resolves its descriptor, without executing it.
//
// The batch flag enables broadcasting, and it is ignored by unary operations.
// For OpTypeConvertDType use PlanCast.
func (e *Engine) Plan(op backends.OpType, batch bool, operands ...*arrays.Array) (*backends.Descriptor, error) {
	entry, err := e.validate(op, operands)
	if err != nil {
		return nil, err
	}
	if op == backends.OpTypeConvertDType {
		return nil, newError(InvalidArgument, entry.Name, nil, "cast requires a target dtype, use Cast")
	}

	// Domain and promotion.
	operandDTypes := make([]dtypes.DType, len(operands))
	for ii, operand := range operands {
		operandDTypes[ii] = operand.DType()
	}
	if err = shapeinference.CheckDomain(op, operandDTypes...); err != nil {
		return nil, newError(InvalidType, entry.Name, err, "")
	}
	result, compute, err := shapeinference.ResolveDTypes(e.lattice, op, operandDTypes...)
	if err != nil {
		return nil, newError(TypeMismatch, entry.Name, err, "")
	}

	// Broadcasting.
	var outputDims []int
	var plans []backends.OperandPlan
	switch len(operands) {
	case 1:
		outputDims, plans, err = shapeinference.UnaryPlan(operands[0].Shape())
	case 2:
		outputDims, plans, err = shapeinference.Broadcast(operands[0].Shape(), operands[1].Shape(), batch)
	default:
		outputDims, plans, err = shapeinference.BroadcastClamp(
			operands[0].Shape(), operands[1].Shape(), operands[2].Shape(), batch)
	}
	if err != nil {
		return nil, newError(ShapeMismatch, entry.Name, err, "")
	}
	return shapeinference.NewDescriptor(entry, result, compute, outputDims, plans), nil
}

// PlanCast validates x and resolves the descriptor of its conversion to dtype, without executing it.
func (e *Engine) PlanCast(x *arrays.Array, dtype dtypes.DType) (*backends.Descriptor, error) {
	entry, err := e.validate(backends.OpTypeConvertDType, []*arrays.Array{x})
	if err != nil {
		return nil, err
	}
	result, err := shapeinference.ResolveCast(x.DType(), dtype)
	if err != nil {
		return nil, newError(TypeMismatch, entry.Name, err, "")
	}
	outputDims, plans, err := shapeinference.UnaryPlan(x.Shape())
	if err != nil {
		return nil, newError(ShapeMismatch, entry.Name, err, "")
	}
	return shapeinference.NewDescriptor(entry, result, result, outputDims, plans), nil
}

// Dispatch executes op on the operands, and returns a new Array with the result.
//
// The batch flag enables broadcasting of binary and ternary operations, and it is ignored by unary ones.
// The operands are never modified.
//
// On failure it returns an *Error, whose Code tells which step failed, and no Array.
func (e *Engine) Dispatch(op backends.OpType, batch bool, operands ...*arrays.Array) (*arrays.Array, error) {
	desc, err := e.Plan(op, batch, operands...)
	if err != nil {
		return nil, logFailure(err)
	}
	return e.execute(desc, operands)
}

// Cast converts x to dtype. Converting to the dtype x already has returns a copy.
func (e *Engine) Cast(x *arrays.Array, dtype dtypes.DType) (*arrays.Array, error) {
	desc, err := e.PlanCast(x, dtype)
	if err != nil {
		return nil, logFailure(err)
	}
	return e.execute(desc, []*arrays.Array{x})
}

// DispatchByName is like Dispatch, but takes the short name of the operation, e.g. "bitshiftl".
func (e *Engine) DispatchByName(name string, batch bool, operands ...*arrays.Array) (*arrays.Array, error) {
	entry, found := shapeinference.LookupName(name)
	if !found {
		return nil, logFailure(newError(InvalidArgument, name, nil, "unknown operation %q", name))
	}
	return e.Dispatch(entry.Op, batch, operands...)
}

// validate the operation and the operand handles.
func (e *Engine) validate(op backends.OpType, operands []*arrays.Array) (shapeinference.Entry, error) {
	entry, found := shapeinference.Lookup(op)
	if !found {
		return entry, newError(InvalidArgument, op.String(), nil, "unknown operation %s", op)
	}
	if len(operands) != entry.Arity {
		return entry, newError(InvalidArgument, entry.Name, nil,
			"takes %d operands, %d given", entry.Arity, len(operands))
	}
	for ii, operand := range operands {
		if err := operand.CheckValid(); err != nil {
			return entry, newError(InvalidArgument, entry.Name, err, "operand #%d", ii)
		}
		if operand.Backend() != e.backend {
			return entry, newError(InvalidArgument, entry.Name, nil,
				"operand #%d (%s) is stored in backend %q, not in the engine's backend %q",
				ii, operand, operand.Backend().Name(), e.backend.Name())
		}
	}
	return entry, nil
}

// execute the resolved descriptor on the backend: the last step of a dispatch.
func (e *Engine) execute(desc *backends.Descriptor, operands []*arrays.Array) (*arrays.Array, error) {
	name := opName(desc.Op)
	if klog.V(2).Enabled() {
		klog.Infof("arith: dispatching %s", desc)
	}
	if err := e.backend.Capabilities().Check(desc); err != nil {
		return nil, logFailure(newError(BackendFailure, name, err, "backend %q", e.backend.Name()))
	}

	// Operands are held until the backend returns, so a concurrent Release can't finalize their buffers
	// while they are being read.
	inputs := make([]backends.Buffer, len(operands))
	for ii, operand := range operands {
		if !operand.TryRetain() {
			return nil, logFailure(newError(InvalidArgument, name, nil, "operand #%d was released", ii))
		}
		defer operand.Release()
		buffer, err := operand.Buffer()
		if err != nil {
			return nil, logFailure(newError(InvalidArgument, name, err, "operand #%d", ii))
		}
		inputs[ii] = buffer
	}
	output, err := e.backend.Execute(desc, inputs)
	if err != nil {
		return nil, logFailure(newError(BackendFailure, name, err, "backend %q", e.backend.Name()))
	}
	if err = checkOutput(e.backend, output, desc.Shape); err != nil {
		if output != nil {
			if finalizeErr := e.backend.BufferFinalize(output); finalizeErr != nil {
				klog.Warningf("arith: failed to finalize discarded output of %s: %v", name, finalizeErr)
			}
		}
		return nil, logFailure(newError(BackendFailure, name, err, "backend %q", e.backend.Name()))
	}
	result, err := arrays.FromBuffer(e.backend, output)
	if err != nil {
		return nil, logFailure(newError(BackendFailure, name, err, "backend %q", e.backend.Name()))
	}
	return result, nil
}

// checkOutput verifies the backend returned a buffer with the expected shape.
func checkOutput(backend backends.Backend, output backends.Buffer, expected shapes.Shape) error {
	if output == nil {
		return errors.New("backend returned no output buffer")
	}
	shape, err := backend.BufferShape(output)
	if err != nil {
		return err
	}
	if !shape.Equal(expected) {
		return errors.Errorf("backend returned output with shape %s, expected %s", shape, expected)
	}
	return nil
}

func opName(op backends.OpType) string {
	if entry, found := shapeinference.Lookup(op); found {
		return entry.Name
	}
	return op.String()
}

func logFailure(err error) error {
	klog.V(1).Infof("arith: %v", err)
	return err
}
