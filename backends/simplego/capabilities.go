package simplego

import (
	"github.com/gomlx/arith/backends"
	"github.com/gomlx/arith/pkg/core/dtypes"
)

// Capabilities of the SimpleGo backends: the set of supported operations and data types.
//
// All elementwise operations and all dtypes are supported. Float16 and BFloat16 are computed in float32.
var Capabilities = backends.Capabilities{
	Operations: make(map[backends.OpType]bool),
	DTypes:     make(map[dtypes.DType]bool),
}

func init() {
	for _, op := range backends.OpTypeValues() {
		Capabilities.Operations[op] = true
	}
	for _, dtype := range dtypes.Values() {
		Capabilities.DTypes[dtype] = true
	}
}
