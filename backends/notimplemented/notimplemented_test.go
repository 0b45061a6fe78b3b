package notimplemented

import (
	"testing"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend(t *testing.T) {
	_, err := New("parallelism=2")
	require.Error(t, err)

	backend, err := New("")
	require.NoError(t, err)
	defer backend.Finalize()
	assert.Equal(t, BackendName, backend.Name())
	assert.Empty(t, backend.Capabilities().Operations)
	assert.Empty(t, backend.Capabilities().DTypes)

	desc := &backends.Descriptor{Op: backends.OpTypeAdd, DType: dtypes.Float32, ComputeDType: dtypes.Float32}
	_, err = backend.Execute(desc, nil)
	require.ErrorIs(t, err, ErrNotImplemented)
	assert.Contains(t, err.Error(), "Add")

	_, err = backend.BufferFromFlatData(0, []float32{1}, shapes.Make(dtypes.Float32, 1))
	require.ErrorIs(t, err, ErrNotImplemented)
	_, err = backend.BufferShape(nil)
	require.ErrorIs(t, err, ErrNotImplemented)
	require.ErrorIs(t, backend.BufferFinalize(nil), ErrNotImplemented)
}

func TestErrFn(t *testing.T) {
	errCustom := errors.New("custom")
	backend := &Backend{ErrFn: func(op backends.OpType) error { return errors.Wrapf(errCustom, "op %s", op) }}
	_, err := backend.Execute(&backends.Descriptor{Op: backends.OpTypeSqrt}, nil)
	require.ErrorIs(t, err, errCustom)
}
