package backends

import (
	"maps"

	"github.com/gomlx/arith/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// Capabilities holds mappings of what is supported by a backend.
type Capabilities struct {
	// Operations supported by a backend.
	// If not listed, it's assumed to be false, hence not supported.
	Operations map[OpType]bool

	// DTypes list the data types supported by a backend.
	// If not listed, it's assumed to be false, hence not supported.
	DTypes map[dtypes.DType]bool
}

// Clone makes a deep copy of the Capabilities.
func (c Capabilities) Clone() Capabilities {
	var c2 Capabilities
	c2.Operations = make(map[OpType]bool, len(c.Operations))
	maps.Copy(c2.Operations, c.Operations)
	c2.DTypes = make(map[dtypes.DType]bool, len(c.DTypes))
	maps.Copy(c2.DTypes, c.DTypes)
	return c2
}

// Check returns an error if the resolved operation uses an operation or a dtype not listed in the capabilities.
func (c Capabilities) Check(desc *Descriptor) error {
	if !c.Operations[desc.Op] {
		return errors.Errorf("operation %s not supported by backend", desc.Op)
	}
	if !c.DTypes[desc.DType] {
		return errors.Errorf("operation %s: result dtype %s not supported by backend", desc.Op, desc.DType)
	}
	if !c.DTypes[desc.ComputeDType] {
		return errors.Errorf("operation %s: compute dtype %s not supported by backend", desc.Op, desc.ComputeDType)
	}
	for ii, operand := range desc.Operands {
		if !c.DTypes[operand.Shape.DType] {
			return errors.Errorf("operation %s: operand #%d dtype %s not supported by backend",
				desc.Op, ii, operand.Shape.DType)
		}
	}
	return nil
}
