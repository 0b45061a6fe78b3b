package simplego

import (
	"testing"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities(t *testing.T) {
	for _, op := range backends.OpTypeValues() {
		assert.Truef(t, Capabilities.Operations[op], "operation %s should be supported", op)
	}
	for _, dtype := range dtypes.Values() {
		assert.Truef(t, Capabilities.DTypes[dtype], "dtype %s should be supported", dtype)
	}
}

func TestCapabilities_Clone(t *testing.T) {
	cloned := Capabilities.Clone()
	assert.Equal(t, len(Capabilities.Operations), len(cloned.Operations))
	assert.Equal(t, len(Capabilities.DTypes), len(cloned.DTypes))

	// Changing the clone must not affect the original.
	delete(cloned.Operations, backends.OpTypeAdd)
	cloned.DTypes[dtypes.Float16] = false
	assert.True(t, Capabilities.Operations[backends.OpTypeAdd])
	assert.True(t, Capabilities.DTypes[dtypes.Float16])
}

func TestCapabilities_Check(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 2)
	desc := &backends.Descriptor{
		Op:           backends.OpTypeAdd,
		Class:        backends.ClassArithmetic,
		DType:        dtypes.Float32,
		ComputeDType: dtypes.Float32,
		Shape:        shape,
		Operands:     []backends.OperandPlan{{Shape: shape, Strides: []int{1}}, {Shape: shape, Strides: []int{1}}},
	}
	require.NoError(t, Capabilities.Check(desc))

	restricted := Capabilities.Clone()
	restricted.DTypes[dtypes.Float32] = false
	require.Error(t, restricted.Check(desc))

	restricted = Capabilities.Clone()
	delete(restricted.Operations, backends.OpTypeAdd)
	require.Error(t, restricted.Check(desc))
}
