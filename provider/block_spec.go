package provider

import "github.com/eth2030/txguard/core/types"

// ValidationBlockSpec wraps the two block-parameter shapes a method may
// accept so that tag checks run identically on both.
type ValidationBlockSpec struct {
	pre  *types.PreEIP1898BlockSpec
	post *types.BlockSpec
}

// PreEIP1898 wraps the block parameter of a method that predates EIP-1898.
// A nil spec means the parameter was omitted.
func PreEIP1898(spec *types.PreEIP1898BlockSpec) ValidationBlockSpec {
	return ValidationBlockSpec{pre: spec}
}

// PostEIP1898 wraps the block parameter of a method that accepts EIP-1898
// objects. A nil spec means the parameter was omitted.
func PostEIP1898(spec *types.BlockSpec) ValidationBlockSpec {
	return ValidationBlockSpec{post: spec}
}

// Normalize converts the wrapped specifier into the post-EIP-1898 shape.
// An omitted parameter yields the zero BlockSpec.
func (s ValidationBlockSpec) Normalize() types.BlockSpec {
	switch {
	case s.pre != nil:
		return types.BlockSpec{Number: s.pre.Number, Tag: s.pre.Tag}
	case s.post != nil:
		return *s.post
	}
	return types.BlockSpec{}
}
