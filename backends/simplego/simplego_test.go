// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"fmt"
	"os"
	"reflect"
	"testing"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/backends/shapeinference"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

var backend backends.Backend

func init() {
	klog.InitFlags(nil)
}

func setup() {
	fmt.Printf("Available backends: %q\n", backends.List())
	if os.Getenv(backends.ConfigEnvVar) == "" {
		must.M(os.Setenv(backends.ConfigEnvVar, "go"))
	} else {
		fmt.Printf("\t$%s=%q\n", backends.ConfigEnvVar, os.Getenv(backends.ConfigEnvVar))
	}
	backend = backends.MustNew()
	fmt.Printf("Backend: %s, %s\n", backend.Name(), backend.Description())
}

func teardown() {
	backend.Finalize()
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run() // Run all tests in the file
	teardown()
	os.Exit(code)
}

// operand of an operation, given as a flat slice and its dimensions.
type operand struct {
	flat  any
	shape shapes.Shape
}

func op[T dtypes.Supported](flat []T, dims ...int) operand {
	return operand{flat: flat, shape: shapes.Make(dtypes.FromGenericsType[T](), dims...)}
}

// planOp resolves the descriptor of the operation, broadcasting binary and ternary operations.
func planOp(t *testing.T, opType backends.OpType, operands ...operand) *backends.Descriptor {
	entry, ok := shapeinference.Lookup(opType)
	require.True(t, ok)
	operandDTypes := make([]dtypes.DType, len(operands))
	operandShapes := make([]shapes.Shape, len(operands))
	for ii, o := range operands {
		operandDTypes[ii] = o.shape.DType
		operandShapes[ii] = o.shape
	}
	require.NoError(t, shapeinference.CheckDomain(opType, operandDTypes...))
	result, compute, err := shapeinference.ResolveDTypes(dtypes.DefaultLattice, opType, operandDTypes...)
	require.NoError(t, err)
	var outputDims []int
	var plans []backends.OperandPlan
	switch len(operands) {
	case 1:
		outputDims, plans, err = shapeinference.UnaryPlan(operandShapes[0])
	case 2:
		outputDims, plans, err = shapeinference.Broadcast(operandShapes[0], operandShapes[1], true)
	case 3:
		outputDims, plans, err = shapeinference.BroadcastClamp(operandShapes[0], operandShapes[1], operandShapes[2], true)
	}
	require.NoError(t, err)
	return shapeinference.NewDescriptor(entry, result, compute, outputDims, plans)
}

// executeDesc runs the descriptor on the given backend and returns the flat output and its shape.
func executeDesc(t *testing.T, b backends.Backend, desc *backends.Descriptor, operands ...operand) (any, shapes.Shape) {
	inputs := make([]backends.Buffer, len(operands))
	for ii, o := range operands {
		inputs[ii] = must.M1(b.BufferFromFlatData(0, o.flat, o.shape))
	}
	output, err := b.Execute(desc, inputs)
	require.NoErrorf(t, err, "failed to execute %s", desc)
	for _, input := range inputs {
		require.NoError(t, b.BufferFinalize(input))
	}
	shape := must.M1(b.BufferShape(output))
	require.True(t, shape.Equal(desc.Shape), "output shape %s, expected %s", shape, desc.Shape)
	flat := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), shape.Size(), shape.Size()).Interface()
	require.NoError(t, b.BufferToFlatData(output, flat))
	require.NoError(t, b.BufferFinalize(output))
	return flat, shape
}

// execute resolves and runs the operation on the default test backend.
func execute(t *testing.T, opType backends.OpType, operands ...operand) (any, shapes.Shape) {
	return executeDesc(t, backend, planOp(t, opType, operands...), operands...)
}

func TestNew(t *testing.T) {
	b, err := New("parallelism=2, chunk=10")
	require.NoError(t, err)
	goBackend := b.(*Backend)
	assert.Equal(t, 2, goBackend.workers.MaxParallelism())
	assert.Equal(t, 10, goBackend.minChunkSize)
	b.Finalize()

	b, err = backends.NewWithConfig("go:parallelism=0")
	require.NoError(t, err)
	assert.False(t, b.(*Backend).workers.IsEnabled())
	assert.Equal(t, DefaultMinChunkSize, b.(*Backend).minChunkSize)
	b.Finalize()

	for _, config := range []string{"foo=1", "chunk=0", "parallelism", "chunk=x"} {
		_, err = New(config)
		require.Errorf(t, err, "config %q should have failed", config)
	}
	_, err = backends.NewWithConfig("unknown:x=1")
	require.Error(t, err)
}

func TestBackendCapabilities(t *testing.T) {
	caps := backend.Capabilities()
	for _, opType := range backends.OpTypeValues() {
		assert.Truef(t, caps.Operations[opType], "operation %s not supported", opType)
	}
	for _, dtype := range dtypes.Values() {
		assert.Truef(t, caps.DTypes[dtype], "dtype %s not supported", dtype)
	}
	cloned := caps.Clone()
	delete(cloned.Operations, backends.OpTypeAdd)
	assert.True(t, backend.Capabilities().Operations[backends.OpTypeAdd], "Clone must be a deep copy")
}

func TestKernelsCoverage(t *testing.T) {
	// Every operation must have a kernel for every compute dtype the promotion rules can produce.
	for _, entry := range shapeinference.Entries() {
		if entry.Op == backends.OpTypeConvertDType {
			continue
		}
		for _, dtype := range dtypes.Values() {
			operandDTypes := make([]dtypes.DType, entry.Arity)
			for ii := range operandDTypes {
				operandDTypes[ii] = dtype
			}
			if shapeinference.CheckDomain(entry.Op, operandDTypes...) != nil {
				continue
			}
			result, compute := must.M2(shapeinference.ResolveDTypes(dtypes.DefaultLattice, entry.Op, operandDTypes...))
			desc := &backends.Descriptor{Op: entry.Op, Class: entry.Class, DType: result, ComputeDType: compute}
			kernelDType, _ := kernelDTypes(desc)
			var found bool
			switch entry.Arity {
			case 1:
				found = unaryKernels[entry.Op][kernelDType] != nil
			case 2:
				found = binaryKernels[entry.Op][kernelDType] != nil
			case 3:
				found = ternaryKernels[entry.Op][kernelDType] != nil
			}
			assert.Truef(t, found, "no kernel for %s(%s), computed as %s", entry.Name, dtype, kernelDType)
		}
	}
}
