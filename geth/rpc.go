package geth

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/eth2030/txguard/core/types"
)

var ErrUnknownBlockNumber = errors.New("unknown block number")

// PreEIP1898FromRPC converts a go-ethereum block number parameter into a
// pre-EIP-1898 specifier.
func PreEIP1898FromRPC(n rpc.BlockNumber) (types.PreEIP1898BlockSpec, error) {
	if tag, ok := blockTagFromRPC(n); ok {
		return types.PreEIP1898Tag(tag), nil
	}
	if n < 0 {
		return types.PreEIP1898BlockSpec{}, fmt.Errorf("%w: %d", ErrUnknownBlockNumber, n.Int64())
	}
	return types.PreEIP1898Number(uint64(n)), nil
}

// BlockSpecFromRPC converts a go-ethereum block number or hash parameter
// into a block specifier. Hashes keep their requireCanonical flag.
func BlockSpecFromRPC(bnh rpc.BlockNumberOrHash) (types.BlockSpec, error) {
	if hash, ok := bnh.Hash(); ok {
		return types.BlockSpecHash(FromGethHash(hash), bnh.RequireCanonical), nil
	}
	n, ok := bnh.Number()
	if !ok {
		return types.BlockSpec{}, types.ErrInvalidBlockSpec
	}
	pre, err := PreEIP1898FromRPC(n)
	if err != nil {
		return types.BlockSpec{}, err
	}
	return types.BlockSpec{Number: pre.Number, Tag: pre.Tag}, nil
}

func blockTagFromRPC(n rpc.BlockNumber) (types.BlockTag, bool) {
	switch n {
	case rpc.EarliestBlockNumber:
		return types.BlockTagEarliest, true
	case rpc.LatestBlockNumber:
		return types.BlockTagLatest, true
	case rpc.PendingBlockNumber:
		return types.BlockTagPending, true
	case rpc.SafeBlockNumber:
		return types.BlockTagSafe, true
	case rpc.FinalizedBlockNumber:
		return types.BlockTagFinalized, true
	}
	return 0, false
}
