// Package provider implements the request-admission checks of a development
// node provider: hardfork compliance of call and transaction requests,
// EIP-3860 init-code limits, post-merge block tags, and the thin evm_*
// command handlers that delegate to the chain state.
package provider

import (
	"errors"
	"fmt"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/core/types"
)

// JSON-RPC error codes reported for provider errors.
const (
	ErrCodeInvalidInput  = -32000
	ErrCodeInvalidParams = -32602
	ErrCodeInternal      = -32603
)

// UnsupportedAccessListError is returned when a request carries an access
// list but the configured hardfork predates EIP-2930.
type UnsupportedAccessListError struct {
	Current core.Hardfork
	Minimum core.Hardfork
}

func (e *UnsupportedAccessListError) Error() string {
	return fmt.Sprintf("access list received but not supported by hardfork %s, requires %s or later", e.Current, e.Minimum)
}

// UnsupportedEIP1559Error is returned when a request carries maxFeePerGas or
// maxPriorityFeePerGas but the configured hardfork predates EIP-1559.
type UnsupportedEIP1559Error struct {
	Current core.Hardfork
	Minimum core.Hardfork
}

func (e *UnsupportedEIP1559Error) Error() string {
	return fmt.Sprintf("EIP-1559 fee params received but not supported by hardfork %s, requires %s or later", e.Current, e.Minimum)
}

// UnsupportedEIP4844Error is returned when a request carries blobs or blob
// hashes but the configured hardfork predates EIP-4844.
type UnsupportedEIP4844Error struct {
	Current core.Hardfork
	Minimum core.Hardfork
}

func (e *UnsupportedEIP4844Error) Error() string {
	return fmt.Sprintf("EIP-4844 blob params received but not supported by hardfork %s, requires %s or later", e.Current, e.Minimum)
}

// InvalidBlockTagError is returned when a post-merge block tag is used while
// emulating a pre-merge hardfork.
type InvalidBlockTagError struct {
	Tag      types.BlockTag
	Hardfork core.Hardfork
}

func (e *InvalidBlockTagError) Error() string {
	return fmt.Sprintf("The '%s' block tag is not allowed in pre-merge hardforks. You are using the '%s' hardfork.", e.Tag, e.Hardfork)
}

// InvalidTransactionInputError reports mutually exclusive or inconsistent
// transaction fields. Detail names the conflicting fields.
type InvalidTransactionInputError struct {
	Detail string
}

func (e *InvalidTransactionInputError) Error() string { return e.Detail }

// InvalidArgumentError carries a client-facing message, usually one that
// names a remediation.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// UnimplementedError marks an integration point that exists but has no
// implementation yet. It is returned instead of silently succeeding.
type UnimplementedError struct {
	What string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s is not yet implemented", e.What)
}

// ErrorCode maps a provider error to its JSON-RPC error code.
func ErrorCode(err error) int {
	var (
		accessList *UnsupportedAccessListError
		eip1559    *UnsupportedEIP1559Error
		eip4844    *UnsupportedEIP4844Error
		blockTag   *InvalidBlockTagError
		argument   *InvalidArgumentError
		input      *InvalidTransactionInputError
	)
	switch {
	case errors.As(err, &argument),
		errors.As(err, &blockTag),
		errors.As(err, &accessList),
		errors.As(err, &eip1559),
		errors.As(err, &eip4844):
		return ErrCodeInvalidParams
	case errors.As(err, &input):
		return ErrCodeInvalidInput
	default:
		return ErrCodeInternal
	}
}
