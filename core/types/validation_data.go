package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// ValidationData is the canonical view of the fee, access-list and blob
// fields of a request. Every request shape entering the provider is reduced
// to this view before hardfork rules are checked, so the rules are written
// once against a single field set.
//
// A nil field is absent. An empty, non-nil Blobs or BlobHashes slice and a
// non-nil AccessList pointer to an empty list are present.
type ValidationData struct {
	GasPrice             *uint256.Int
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
	AccessList           *AccessList
	Blobs                []hexutil.Bytes
	BlobHashes           []Hash
}

// ValidationSource is implemented by every request shape that can be
// checked against a hardfork. Each implementation is a pure field mapping.
type ValidationSource interface {
	ValidationData() ValidationData
}

// HasFeeMarketFields reports whether either EIP-1559 fee field is present.
func (d *ValidationData) HasFeeMarketFields() bool {
	return d.MaxFeePerGas != nil || d.MaxPriorityFeePerGas != nil
}

// HasBlobFields reports whether either EIP-4844 blob field is present.
func (d *ValidationData) HasBlobFields() bool {
	return d.Blobs != nil || d.BlobHashes != nil
}
