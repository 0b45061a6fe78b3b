// Package simplego implements a simple, and not very fast, but very portable CPU backend for arith.
//
// It implements all elementwise operations for all dtypes, using generic Go kernels. Large operations
// are split in chunks executed in parallel.
//
// Configuration options, given as a comma-separated list after the backend name, e.g. "go:parallelism=4,chunk=4096":
//
//   - parallelism=N: maximum number of parallel workers. 0 disables parallelism and -1 makes it unlimited.
//     Default is the number of CPUs.
//   - chunk=N: minimum number of elements processed by each parallel task. Default is 16384.
package simplego

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gomlx/arith/backends"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BackendName to be used in ARITH_BACKEND to specify this backend.
const BackendName = "go"

// DefaultMinChunkSize is the default minimum number of elements processed by a parallel task.
const DefaultMinChunkSize = 16 * 1024

// Registers New() as the default constructor for the "go" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs a new SimpleGo Backend, see package documentation for the config options.
func New(config string) (backends.Backend, error) {
	b := newBackend()
	if config == "" {
		return b, nil
	}
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return nil, errors.Errorf("invalid configuration option %q for backend %q, expected <key>=<value>",
				part, BackendName)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value for configuration option %q of backend %q", key, BackendName)
		}
		switch key {
		case "parallelism":
			b.workers.SetMaxParallelism(n)
		case "chunk":
			if n <= 0 {
				return nil, errors.Errorf("configuration option chunk=%d must be positive", n)
			}
			b.minChunkSize = n
		default:
			return nil, errors.Errorf("unknown configuration option %q for backend %q", key, BackendName)
		}
	}
	klog.V(1).Infof("backend %q: parallelism=%d, chunk=%d", BackendName, b.workers.MaxParallelism(), b.minChunkSize)
	return b, nil
}

func newBackend() *Backend {
	b := &Backend{
		capabilities: Capabilities.Clone(),
		minChunkSize: DefaultMinChunkSize,
	}
	b.workers.Initialize()
	return b
}

// Backend implements the backends.Backend interface.
type Backend struct {
	// bufferPools are a map to pools of buffers that can be reused.
	// The underlying type is map[bufferPoolKey]*sync.Pool.
	bufferPools sync.Map

	capabilities backends.Capabilities

	// workers executes chunks of operations in parallel.
	workers      workersPool
	minChunkSize int

	isFinalized atomic.Bool
}

// Compile-time check that simplego.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// Name returns the short name of the backend.
func (b *Backend) Name() string {
	return "SimpleGo (go)"
}

// String implement backends.Backend.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return "Simple Go Portable Backend"
}

// NumDevices return the number of devices available for this Backend.
func (b *Backend) NumDevices() backends.DeviceNum {
	return 1
}

// Capabilities returns information about what is supported by this backend.
func (b *Backend) Capabilities() backends.Capabilities {
	return b.capabilities
}

// Finalize releases all the associated resources immediately, and makes the backend invalid.
func (b *Backend) Finalize() {
	b.isFinalized.Store(true)
	b.bufferPools.Clear()
}
