// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package backends defines the interface an execution backend needs to implement to be used by arith.
//
// A backend owns the memory of the arrays (Buffer) and executes fully resolved elementwise operations
// (Descriptor): the dispatch engine in package arith validates operands, resolves types and shapes, and
// only then hands the Descriptor and its input buffers to the backend.
//
// A backend that doesn't implement every operation or dtype declares so in its Capabilities, and the
// dispatch engine reports the unsupported operations as a backend failure.
package backends

import (
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DeviceNum represents which device holds a buffer, or should execute an operation.
// It's up to the backend to interpret it, but it should be between 0 and Backend.NumDevices.
type DeviceNum int

// Backend is the API that needs to be implemented by an arith execution backend.
type Backend interface {
	// Name returns the short name of the backend. E.g.: "go" for the SimpleGo backend.
	Name() string

	// Description is a longer description of the Backend that can be used to pretty-print.
	Description() string

	// NumDevices return the number of devices available for this Backend.
	NumDevices() DeviceNum

	// Capabilities returns information about what is supported by this backend.
	Capabilities() Capabilities

	// Execute runs the resolved operation described by desc on the given inputs, and returns a newly
	// allocated output buffer with shape desc.Shape().
	//
	// The inputs are given in the same order as desc.Operands, and they must not be modified by the backend.
	// On error no output buffer is returned.
	Execute(desc *Descriptor, inputs []Buffer) (Buffer, error)

	// DataInterface is the sub-interface that defines the API to transfer Buffer to/from the backend.
	DataInterface

	// Finalize releases all the associated resources immediately, and makes the backend invalid.
	Finalize()
}

// Constructor takes a config string (optionally empty) and returns a Backend.
type Constructor func(config string) (Backend, error)

var (
	registryMu             sync.Mutex
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register backend with the given name, and a default constructor that takes as input a configuration string that is
// passed along to the backend constructor.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// List the registered backends, sorted by name.
func List() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := make([]string, 0, len(registeredConstructors))
	for name := range registeredConstructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig is the name of the default backend configuration to use if specified.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// ConfigEnvVar is the environment variable with the default backend configuration to use.
//
// The format of config is "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific (e.g.: for the "go" backend, "parallelism=4").
const ConfigEnvVar = "ARITH_BACKEND"

// New returns a new default Backend.
//
// The default is:
//
// 1. The environment ARITH_BACKEND is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered backend is used with an empty configuration.
//
// It returns an error if no backend was registered.
func New() (Backend, error) {
	config, found := os.LookupEnv(ConfigEnvVar)
	if found {
		return NewWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewWithConfig(DefaultConfig)
	}
	return NewWithConfig("")
}

// MustNew returns a new default Backend or panics if it fails. See New.
func MustNew() Backend {
	backend, err := New()
	if err != nil {
		panic(err)
	}
	return backend
}

// NewWithConfig takes a configurations string formatted as "<backend_name>:<backend_configuration>".
//
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific. If there is no ":", the whole config is taken as the
// backend name, and an empty configuration is used.
func NewWithConfig(config string) (Backend, error) {
	registryMu.Lock()
	if len(registeredConstructors) == 0 {
		registryMu.Unlock()
		return nil, errors.Errorf(`no registered backends for arith -- maybe import the default one with import _ "github.com/gomlx/arith/backends/simplego"?`)
	}
	backendName := firstRegistered
	var backendConfig string
	if config != "" {
		backendName = config
		if idx := strings.Index(config, ":"); idx != -1 {
			backendName = config[:idx]
			backendConfig = config[idx+1:]
		}
	}
	constructor, found := registeredConstructors[backendName]
	registryMu.Unlock()
	if !found {
		return nil, errors.Errorf("can't find backend %q for configuration %q given, registered backends: %q",
			backendName, config, List())
	}
	klog.V(1).Infof("creating backend %q with configuration %q", backendName, backendConfig)
	backend, err := constructor(backendConfig)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create backend %q with configuration %q", backendName, backendConfig)
	}
	return backend, nil
}
