package simplego

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Compile-time check:
var _ backends.DataInterface = (*Backend)(nil)

// Buffer for SimpleGo backend holds a shape and a reference to the flat data.
type Buffer struct {
	shape shapes.Shape
	valid bool

	// flat is always a slice of the underlying data type (shape.DType).
	flat any
}

type bufferPoolKey struct {
	dtype  dtypes.DType
	length int
}

// getBufferPool for given dtype/length.
func (b *Backend) getBufferPool(dtype dtypes.DType, length int) *sync.Pool {
	key := bufferPoolKey{dtype: dtype, length: length}
	poolInterface, ok := b.bufferPools.Load(key)
	if !ok {
		poolInterface, _ = b.bufferPools.LoadOrStore(key, &sync.Pool{
			New: func() any {
				return &Buffer{
					flat:  reflect.MakeSlice(reflect.SliceOf(dtype.GoType()), length, length).Interface(),
					shape: shapes.Make(dtype, length),
				}
			},
		})
	}
	return poolInterface.(*sync.Pool)
}

// getBuffer from backend pool of buffers.
//
// The contents of the returned buffer are undefined: it may be a reused one.
func (b *Backend) getBuffer(dtype dtypes.DType, length int) *Buffer {
	pool := b.getBufferPool(dtype, length)
	buf := pool.Get().(*Buffer)
	buf.valid = true
	return buf
}

// putBuffer back into the backend pool of buffers.
// After this any references to buffer should be dropped.
func (b *Backend) putBuffer(buffer *Buffer) {
	if buffer == nil || !buffer.shape.Ok() {
		return
	}
	buffer.valid = false
	pool := b.getBufferPool(buffer.shape.DType, buffer.shape.Size())
	pool.Put(buffer)
}

// NewBuffer creates the buffer with a newly allocated flat space.
func (b *Backend) NewBuffer(shape shapes.Shape) *Buffer {
	buffer := b.getBuffer(shape.DType, shape.Size())
	buffer.shape = shape.Clone()
	return buffer
}

// copyFlat assumes both flat slices are of the same underlying type.
func copyFlat(flatDst, flatSrc any) {
	reflect.Copy(reflect.ValueOf(flatDst), reflect.ValueOf(flatSrc))
}

// checkValid returns an error describing why the buffer is not usable, or nil if it is.
func (buffer *Buffer) checkValid() error {
	var issues []string
	if buffer == nil {
		issues = append(issues, "buffer was nil")
	} else {
		if buffer.flat == nil {
			issues = append(issues, "buffer.flat was nil")
		}
		if !buffer.shape.Ok() {
			issues = append(issues, "buffer.shape was invalid")
		}
		if !buffer.valid {
			issues = append(issues, "buffer was marked as invalid")
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return errors.Errorf("buffer %p: %s -- buffer was already finalized!?", buffer, strings.Join(issues, ", "))
}

// toBuffer casts a backends.Buffer to a valid *Buffer, or returns an error.
func toBuffer(backendBuffer backends.Buffer) (*Buffer, error) {
	buffer, ok := backendBuffer.(*Buffer)
	if !ok {
		return nil, errors.Errorf("buffer (type %T) is not a %q backend buffer", backendBuffer, BackendName)
	}
	if err := buffer.checkValid(); err != nil {
		return nil, err
	}
	return buffer, nil
}

// BufferFinalize allows the client to inform backend that buffer is no longer needed and associated resources can be
// freed immediately.
//
// A finalized buffer should never be used again. Preferably, the caller should set its references to it to nil.
func (b *Backend) BufferFinalize(backendBuffer backends.Buffer) error {
	buffer, err := toBuffer(backendBuffer)
	if err != nil {
		return errors.WithMessage(err, "BufferFinalize")
	}
	b.putBuffer(buffer)
	return nil
}

// BufferShape returns the shape for the buffer.
func (b *Backend) BufferShape(backendBuffer backends.Buffer) (shapes.Shape, error) {
	buffer, err := toBuffer(backendBuffer)
	if err != nil {
		return shapes.Invalid(), err
	}
	return buffer.shape, nil
}

// BufferDeviceNum returns the deviceNum for the buffer.
func (b *Backend) BufferDeviceNum(backendBuffer backends.Buffer) (backends.DeviceNum, error) {
	if _, err := toBuffer(backendBuffer); err != nil {
		return 0, err
	}
	return 0, nil
}

// BufferToFlatData transfers the flat values of the buffer to the Go flat slice.
// The slice flat must have the exact number of elements required to store the backends.Buffer shape.
func (b *Backend) BufferToFlatData(backendBuffer backends.Buffer, flat any) error {
	buffer, err := toBuffer(backendBuffer)
	if err != nil {
		return err
	}
	flatV := reflect.ValueOf(flat)
	if flatV.Kind() != reflect.Slice || flatV.Type().Elem() != buffer.shape.DType.GoType() {
		return errors.Errorf("BufferToFlatData: flat (type %T) must be a slice of %s for buffer shape %s",
			flat, buffer.shape.DType.GoType(), buffer.shape)
	}
	if flatV.Len() != buffer.shape.Size() {
		return errors.Errorf("BufferToFlatData: flat has %d elements, but buffer shape %s requires %d",
			flatV.Len(), buffer.shape, buffer.shape.Size())
	}
	copyFlat(flat, buffer.flat)
	return nil
}

// BufferFromFlatData transfers data from Go given as a flat slice (of the type corresponding to the shape DType)
// to the deviceNum, and returns the corresponding backends.Buffer.
func (b *Backend) BufferFromFlatData(deviceNum backends.DeviceNum, flat any, shape shapes.Shape) (backends.Buffer, error) {
	if b.isFinalized.Load() {
		return nil, errors.Errorf("backend %q has already been finalized", BackendName)
	}
	if deviceNum != 0 {
		return nil, errors.Errorf("backend (%s) only supports deviceNum 0, cannot create buffer on deviceNum %d (shape=%s)",
			b.Name(), deviceNum, shape)
	}
	if !shape.Ok() {
		return nil, errors.Errorf("BufferFromFlatData: invalid shape %s", shape)
	}
	flatV := reflect.ValueOf(flat)
	if flatV.Kind() != reflect.Slice || dtypes.FromGoType(flatV.Type().Elem()) != shape.DType {
		return nil, errors.Errorf("flat data type (%T) does not match shape DType (%s)", flat, shape.DType)
	}
	if flatV.Len() != shape.Size() {
		return nil, errors.Errorf("flat data has %d elements, but shape %s requires %d", flatV.Len(), shape, shape.Size())
	}
	buffer := b.NewBuffer(shape)
	copyFlat(buffer.flat, flat)
	return buffer, nil
}

// mustFlat returns the buffer's flat data as a []T, or panics with an exception.
func mustFlat[T any](buffer *Buffer) []T {
	flat, ok := buffer.flat.([]T)
	if !ok {
		exceptions.Panicf("buffer with shape %s holds %T, not []%s", buffer.shape, buffer.flat,
			reflect.TypeFor[T]())
	}
	return flat
}
