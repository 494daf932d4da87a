// Package geth provides an adapter layer between txguard's type system and
// go-ethereum. This is the only package that imports go-ethereum's core
// types and RPC packages; all other txguard packages use txguard/core/types.
package geth

import (
	"errors"
	"fmt"
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/eth2030/txguard/core/types"
)

var (
	ErrUnsupportedTxType = errors.New("unsupported transaction type")
	ErrFieldOverflow     = errors.New("field exceeds 256 bits")
)

// --- Address and Hash conversion (zero-copy, layout-compatible) ---

// FromGethAddress converts a go-ethereum Address to a txguard Address.
func FromGethAddress(a gethcommon.Address) types.Address {
	return types.Address(a)
}

// FromGethHash converts a go-ethereum Hash to a txguard Hash.
func FromGethHash(h gethcommon.Hash) types.Hash {
	return types.Hash(h)
}

func fromGethAddressPtr(a *gethcommon.Address) *types.Address {
	if a == nil {
		return nil
	}
	addr := FromGethAddress(*a)
	return &addr
}

func fromGethHashes(hashes []gethcommon.Hash) []types.Hash {
	if hashes == nil {
		return nil
	}
	out := make([]types.Hash, len(hashes))
	for i, h := range hashes {
		out[i] = FromGethHash(h)
	}
	return out
}

// --- Integer conversion ---

// ToUint256 converts a *big.Int to a *uint256.Int. A nil input stays nil so
// that absent fields remain absent.
func ToUint256(b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return nil, nil
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrFieldOverflow, b)
	}
	return u, nil
}

// --- AccessList conversion ---

// FromGethAccessList converts a go-ethereum AccessList to a txguard
// AccessList.
func FromGethAccessList(al gethtypes.AccessList) types.AccessList {
	if al == nil {
		return nil
	}
	result := make(types.AccessList, len(al))
	for i, tuple := range al {
		keys := make([]types.Hash, len(tuple.StorageKeys))
		for j, k := range tuple.StorageKeys {
			keys[j] = FromGethHash(k)
		}
		result[i] = types.AccessTuple{
			Address:     FromGethAddress(tuple.Address),
			StorageKeys: keys,
		}
	}
	return result
}

// --- Transaction conversion ---

// DecodeSignedTransaction decodes an EIP-2718 encoded transaction as sent to
// eth_sendRawTransaction.
func DecodeSignedTransaction(raw []byte) (types.SignedTransaction, error) {
	tx := new(gethtypes.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return SignedTransactionFromGeth(tx)
}

// SignedTransactionFromGeth converts a decoded go-ethereum transaction into
// the matching signed variant. Legacy transactions are split on whether
// their signature is replay protected.
func SignedTransactionFromGeth(tx *gethtypes.Transaction) (types.SignedTransaction, error) {
	var c converter
	v, r, s := tx.RawSignatureValues()

	switch tx.Type() {
	case gethtypes.LegacyTxType:
		fields := types.LegacyFields{
			Nonce:    tx.Nonce(),
			GasPrice: c.u256(tx.GasPrice()),
			Gas:      tx.Gas(),
			To:       fromGethAddressPtr(tx.To()),
			Value:    c.u256(tx.Value()),
			Data:     tx.Data(),
			V:        v,
			R:        r,
			S:        s,
		}
		if c.err != nil {
			return nil, c.err
		}
		if tx.Protected() {
			return &types.PostEIP155LegacyTx{LegacyFields: fields}, nil
		}
		return &types.PreEIP155LegacyTx{LegacyFields: fields}, nil

	case gethtypes.AccessListTxType:
		out := &types.EIP2930Tx{
			ChainID:    tx.ChainId(),
			Nonce:      tx.Nonce(),
			GasPrice:   c.u256(tx.GasPrice()),
			Gas:        tx.Gas(),
			To:         fromGethAddressPtr(tx.To()),
			Value:      c.u256(tx.Value()),
			Data:       tx.Data(),
			AccessList: FromGethAccessList(tx.AccessList()),
			V:          v,
			R:          r,
			S:          s,
		}
		if c.err != nil {
			return nil, c.err
		}
		return out, nil

	case gethtypes.DynamicFeeTxType:
		out := &types.EIP1559Tx{
			ChainID:              tx.ChainId(),
			Nonce:                tx.Nonce(),
			MaxPriorityFeePerGas: c.u256(tx.GasTipCap()),
			MaxFeePerGas:         c.u256(tx.GasFeeCap()),
			Gas:                  tx.Gas(),
			To:                   fromGethAddressPtr(tx.To()),
			Value:                c.u256(tx.Value()),
			Data:                 tx.Data(),
			AccessList:           FromGethAccessList(tx.AccessList()),
			V:                    v,
			R:                    r,
			S:                    s,
		}
		if c.err != nil {
			return nil, c.err
		}
		return out, nil

	case gethtypes.BlobTxType:
		to := tx.To()
		if to == nil {
			return nil, fmt.Errorf("%w: blob transaction without recipient", ErrUnsupportedTxType)
		}
		out := &types.EIP4844Tx{
			ChainID:              tx.ChainId(),
			Nonce:                tx.Nonce(),
			MaxPriorityFeePerGas: c.u256(tx.GasTipCap()),
			MaxFeePerGas:         c.u256(tx.GasFeeCap()),
			Gas:                  tx.Gas(),
			To:                   FromGethAddress(*to),
			Value:                c.u256(tx.Value()),
			Data:                 tx.Data(),
			AccessList:           FromGethAccessList(tx.AccessList()),
			MaxFeePerBlobGas:     c.u256(tx.BlobGasFeeCap()),
			BlobHashes:           fromGethHashes(tx.BlobHashes()),
			V:                    v,
			R:                    r,
			S:                    s,
		}
		if c.err != nil {
			return nil, c.err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedTxType, tx.Type())
}

// converter records the first overflow so that field mapping can stay
// declarative.
type converter struct {
	err error
}

func (c *converter) u256(b *big.Int) *uint256.Int {
	u, err := ToUint256(b)
	if err != nil && c.err == nil {
		c.err = err
	}
	return u
}
