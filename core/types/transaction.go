package types

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Transaction type constants.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
)

// SignedTransaction is an already-signed transaction as submitted through
// eth_sendRawTransaction. The set of implementations is closed: the marker
// method is unexported, so only this package can add a variant, and every
// variant must provide its own ValidationData mapping to satisfy the
// interface.
type SignedTransaction interface {
	ValidationSource

	// TxType returns the EIP-2718 envelope type.
	TxType() byte
	// Recipient returns the destination, or nil for contract creation.
	Recipient() *Address
	// Payload returns the call data or init code.
	Payload() []byte

	isSignedTransaction()
}

var (
	_ SignedTransaction = (*PreEIP155LegacyTx)(nil)
	_ SignedTransaction = (*PostEIP155LegacyTx)(nil)
	_ SignedTransaction = (*EIP2930Tx)(nil)
	_ SignedTransaction = (*EIP1559Tx)(nil)
	_ SignedTransaction = (*EIP4844Tx)(nil)
)

// LegacyFields holds the fields shared by both legacy variants.
type LegacyFields struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *Address // nil for contract creation
	Value    *uint256.Int
	Data     []byte
	V, R, S  *big.Int
}

// PreEIP155LegacyTx is a legacy transaction signed without replay protection
// (v is 27 or 28).
type PreEIP155LegacyTx struct {
	LegacyFields
}

// PostEIP155LegacyTx is a legacy transaction whose signature commits to a
// chain id (v = chainID*2 + 35/36).
type PostEIP155LegacyTx struct {
	LegacyFields
}

// ChainID derives the chain id from the EIP-155 signature value.
func (tx *PostEIP155LegacyTx) ChainID() *big.Int {
	return deriveChainID(tx.V)
}

// EIP2930Tx represents an access-list (type 0x01) transaction.
type EIP2930Tx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

// EIP1559Tx represents a fee-market (type 0x02) transaction.
type EIP1559Tx struct {
	ChainID              *big.Int
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	Gas                  uint64
	To                   *Address
	Value                *uint256.Int
	Data                 []byte
	AccessList           AccessList
	V, R, S              *big.Int
}

// EIP4844Tx represents a blob (type 0x03) transaction. Blob transactions
// cannot create contracts, so To is not optional.
type EIP4844Tx struct {
	ChainID              *big.Int
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	Gas                  uint64
	To                   Address
	Value                *uint256.Int
	Data                 []byte
	AccessList           AccessList
	MaxFeePerBlobGas     *uint256.Int
	BlobHashes           []Hash
	V, R, S              *big.Int
}

func (tx *PreEIP155LegacyTx) TxType() byte { return LegacyTxType }
func (tx *PreEIP155LegacyTx) Recipient() *Address { return tx.To }
func (tx *PreEIP155LegacyTx) Payload() []byte { return tx.Data }
func (tx *PreEIP155LegacyTx) isSignedTransaction() {}

// ValidationData implements ValidationSource.
func (tx *PreEIP155LegacyTx) ValidationData() ValidationData {
	return ValidationData{GasPrice: tx.GasPrice}
}

func (tx *PostEIP155LegacyTx) TxType() byte { return LegacyTxType }
func (tx *PostEIP155LegacyTx) Recipient() *Address { return tx.To }
func (tx *PostEIP155LegacyTx) Payload() []byte { return tx.Data }
func (tx *PostEIP155LegacyTx) isSignedTransaction() {}

// ValidationData implements ValidationSource.
func (tx *PostEIP155LegacyTx) ValidationData() ValidationData {
	return ValidationData{GasPrice: tx.GasPrice}
}

func (tx *EIP2930Tx) TxType() byte { return AccessListTxType }
func (tx *EIP2930Tx) Recipient() *Address { return tx.To }
func (tx *EIP2930Tx) Payload() []byte { return tx.Data }
func (tx *EIP2930Tx) isSignedTransaction() {}

// ValidationData implements ValidationSource.
func (tx *EIP2930Tx) ValidationData() ValidationData {
	return ValidationData{
		GasPrice:   tx.GasPrice,
		AccessList: presentAccessList(tx.AccessList),
	}
}

func (tx *EIP1559Tx) TxType() byte { return DynamicFeeTxType }
func (tx *EIP1559Tx) Recipient() *Address { return tx.To }
func (tx *EIP1559Tx) Payload() []byte { return tx.Data }
func (tx *EIP1559Tx) isSignedTransaction() {}

// ValidationData implements ValidationSource.
func (tx *EIP1559Tx) ValidationData() ValidationData {
	return ValidationData{
		MaxFeePerGas:         tx.MaxFeePerGas,
		MaxPriorityFeePerGas: tx.MaxPriorityFeePerGas,
		AccessList:           presentAccessList(tx.AccessList),
	}
}

func (tx *EIP4844Tx) TxType() byte { return BlobTxType }
func (tx *EIP4844Tx) Recipient() *Address {
	to := tx.To
	return &to
}
func (tx *EIP4844Tx) Payload() []byte { return tx.Data }
func (tx *EIP4844Tx) isSignedTransaction() {}

// ValidationData implements ValidationSource. The signed form carries only
// the versioned hashes; blobs travel in a sidecar and are never part of it.
func (tx *EIP4844Tx) ValidationData() ValidationData {
	hashes := tx.BlobHashes
	if hashes == nil {
		hashes = []Hash{}
	}
	return ValidationData{
		MaxFeePerGas:         tx.MaxFeePerGas,
		MaxPriorityFeePerGas: tx.MaxPriorityFeePerGas,
		AccessList:           presentAccessList(tx.AccessList),
		BlobHashes:           hashes,
	}
}

// presentAccessList returns a non-nil pointer so that typed transactions
// always report an access list, even an empty one.
func presentAccessList(al AccessList) *AccessList {
	if al == nil {
		al = AccessList{}
	}
	return &al
}

// deriveChainID computes the chain id encoded in an EIP-155 v value.
func deriveChainID(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	if v.BitLen() <= 8 {
		val := v.Uint64()
		if val == 27 || val == 28 {
			return new(big.Int)
		}
	}
	// v = chainID * 2 + 35 => chainID = (v - 35) / 2
	chainID := new(big.Int).Sub(v, big.NewInt(35))
	chainID.Div(chainID, big.NewInt(2))
	return chainID
}
