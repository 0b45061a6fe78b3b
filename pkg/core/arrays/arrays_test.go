// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package arrays

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/gomlx/arith/backends"
	_ "github.com/gomlx/arith/backends/simplego"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

var backend backends.Backend

func init() {
	klog.InitFlags(nil)
}

func TestMain(m *testing.M) {
	backend = backends.MustNew()
	fmt.Printf("Backend: %s, %s\n", backend.Name(), backend.Description())
	code := m.Run()
	backend.Finalize()
	os.Exit(code)
}

func TestFromFlatData(t *testing.T) {
	a := must.M1(FromFlatData(backend, []int32{1, 2, 3, 4, 5, 6}, 2, 3))
	defer a.Release()
	assert.Equal(t, dtypes.Int32, a.DType())
	assert.Equal(t, 2, a.Rank())
	assert.Equal(t, 6, a.Size())
	assert.False(t, a.IsScalar())
	assert.False(t, a.IsEmpty())
	assert.Equal(t, backend, a.Backend())
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6}, must.M1(ToFlat[int32](a)))

	_, err := ToFlat[float32](a)
	require.Error(t, err)

	// Dimensions not matching the data.
	_, err = FromFlatData(backend, []int32{1, 2, 3}, 2, 2)
	require.Error(t, err)
	_, err = FromFlatData(backend, []int32{1}, -1)
	require.Error(t, err)
	_, err = FromFlatData[int32](nil, []int32{1})
	require.Error(t, err)

	s := must.M1(FromScalar(backend, float16.Fromfloat32(1.5)))
	defer s.Release()
	assert.True(t, s.IsScalar())
	assert.Equal(t, dtypes.Float16, s.DType())

	empty := must.M1(FromFlatData(backend, []bool{}, 0, 3))
	defer empty.Release()
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, must.M1(ToFlat[bool](empty)))
}

func TestFromBuffer(t *testing.T) {
	buffer := must.M1(backend.BufferFromFlatData(0, []float64{1, 2}, shapes.Make(dtypes.Float64, 2)))
	a := must.M1(FromBuffer(backend, buffer))
	assert.True(t, a.Shape().Equal(shapes.Make(dtypes.Float64, 2)))
	assert.Equal(t, buffer, must.M1(a.Buffer()))
	a.Release()

	// The buffer was finalized with the Array.
	_, err := backend.BufferShape(buffer)
	require.Error(t, err)
	_, err = FromBuffer(backend, buffer)
	require.Error(t, err)
	_, err = FromBuffer(backend, nil)
	require.Error(t, err)
}

func TestRefCounting(t *testing.T) {
	a := must.M1(FromFlatData(backend, []uint8{1, 2, 3}, 3))
	assert.Equal(t, 1, a.RefCount())
	assert.Same(t, a, a.Retain())
	assert.Equal(t, 2, a.RefCount())

	a.Release()
	require.NoError(t, a.CheckValid())
	assert.Equal(t, []uint8{1, 2, 3}, must.M1(ToFlat[uint8](a)))

	a.Release()
	assert.Equal(t, 0, a.RefCount())
	require.Error(t, a.CheckValid())
	_, err := a.Buffer()
	require.Error(t, err)
	_, err = a.FlatData()
	require.Error(t, err)
	assert.Contains(t, a.String(), "released")

	// Extra Release and Retain on a released array are no-ops.
	a.Release()
	a.Retain()
	assert.False(t, a.TryRetain())
	assert.Equal(t, 0, a.RefCount())

	b := must.M1(FromFlatData(backend, []int32{7}))
	assert.True(t, b.TryRetain())
	assert.Equal(t, 2, b.RefCount())
	b.Release()
	b.Release()
	assert.False(t, b.TryRetain())

	var nilArray *Array
	assert.False(t, nilArray.TryRetain())
	assert.Nil(t, nilArray.Retain())
	nilArray.Release()
	require.Error(t, nilArray.CheckValid())
	assert.Equal(t, dtypes.InvalidDType, nilArray.DType())
	assert.Equal(t, "Array(nil)", nilArray.String())
}

func TestConcurrentRelease(t *testing.T) {
	const numRefs = 100
	a := must.M1(FromFlatData(backend, []float32{1}, 1))
	for range numRefs - 1 {
		a.Retain()
	}
	var wg sync.WaitGroup
	for range numRefs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, a.RefCount())
	require.Error(t, a.CheckValid())
}

func TestSummary(t *testing.T) {
	a := must.M1(FromFlatData(backend, []int8{1, 2, 3, 4}, 2, 2))
	defer a.Release()
	assert.Equal(t, "[2][2]int8{\n {1, 2},\n {3, 4}}", a.Summary(3))

	b := must.M1(FromFlatData(backend, []float32{0, 1, 2, 3, 4, 5, 6, 7}, 8))
	defer b.Release()
	assert.Equal(t, "[8]float32{0, 1, 2, ..., 5, 6, 7}", b.Summary(3))

	c := must.M1(FromScalar(backend, complex64(1-2i)))
	defer c.Release()
	assert.Equal(t, "complex64((1-2i))", c.Summary(3))

	d := must.M1(FromScalar(backend, 3.14159))
	defer d.Release()
	assert.Equal(t, "float64(3.14)", d.Summary(3))

	e := must.M1(FromFlatData(backend, []bool{}, 2, 0))
	defer e.Release()
	assert.Equal(t, e.Shape().String(), e.Summary(3))
}
