// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package notimplemented implements a backends.Backend that returns a "not implemented" error
// for every method, and declares no capabilities.
//
// It can help bootstrap a new backend: embed Backend and override the methods as they get implemented.
// The dispatch engine rejects operations not listed in the Capabilities before calling Execute.
package notimplemented

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/gomlx/arith/pkg/core/shapes"
	"github.com/pkg/errors"
)

// ErrNotImplemented is returned (wrapped) by every method.
//
// It doesn't contain a stack, use errors.Is(err, ErrNotImplemented) to test for it.
var ErrNotImplemented = errors.New("not implemented")

// BackendName of the dummy backend.
const BackendName = "notimplemented"

// Backend is a dummy backend that can be embedded to create mock or partial backends.
type Backend struct {
	// ErrFn is called to generate the error returned by Execute, if not nil.
	// Otherwise ErrNotImplemented is returned wrapped with the operation name.
	ErrFn func(op backends.OpType) error
}

var _ backends.Backend = &Backend{}

// New returns a new dummy backend. It accepts no configuration.
func New(config string) (backends.Backend, error) {
	if config != "" {
		return nil, errors.Errorf("backend %q takes no configuration, got %q", BackendName, config)
	}
	return &Backend{}, nil
}

// Name returns the short name of the backend.
func (b *Backend) Name() string {
	return BackendName
}

// String returns the same as Name.
func (b *Backend) String() string {
	return b.Name()
}

// Description is a longer description of the Backend.
func (b *Backend) Description() string {
	return "Not Implemented Backend (mock backend for testing)"
}

// NumDevices returns 1 as the number of devices available.
func (b *Backend) NumDevices() backends.DeviceNum {
	return 1
}

// Capabilities returns empty capabilities.
func (b *Backend) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Operations: make(map[backends.OpType]bool),
		DTypes:     make(map[dtypes.DType]bool),
	}
}

// Execute returns ErrNotImplemented, or the error built by ErrFn.
func (b *Backend) Execute(desc *backends.Descriptor, inputs []backends.Buffer) (backends.Buffer, error) {
	if b.ErrFn != nil {
		return nil, b.ErrFn(desc.Op)
	}
	return nil, errors.Wrapf(ErrNotImplemented, "in Execute(%s)", desc.Op)
}

// BufferFinalize returns ErrNotImplemented.
func (b *Backend) BufferFinalize(buffer backends.Buffer) error {
	return errors.Wrapf(ErrNotImplemented, "in BufferFinalize()")
}

// BufferShape returns ErrNotImplemented.
func (b *Backend) BufferShape(buffer backends.Buffer) (shapes.Shape, error) {
	return shapes.Invalid(), errors.Wrapf(ErrNotImplemented, "in BufferShape()")
}

// BufferDeviceNum returns ErrNotImplemented.
func (b *Backend) BufferDeviceNum(buffer backends.Buffer) (backends.DeviceNum, error) {
	return 0, errors.Wrapf(ErrNotImplemented, "in BufferDeviceNum()")
}

// BufferToFlatData returns ErrNotImplemented.
func (b *Backend) BufferToFlatData(buffer backends.Buffer, flat any) error {
	return errors.Wrapf(ErrNotImplemented, "in BufferToFlatData()")
}

// BufferFromFlatData returns ErrNotImplemented.
func (b *Backend) BufferFromFlatData(
	deviceNum backends.DeviceNum,
	flat any,
	shape shapes.Shape,
) (backends.Buffer, error) {
	return nil, errors.Wrapf(ErrNotImplemented, "in BufferFromFlatData()")
}

// Finalize does nothing for this dummy backend.
func (b *Backend) Finalize() {}
