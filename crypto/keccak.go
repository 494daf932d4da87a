// Package crypto provides the hashing primitives used to derive block and
// transaction identifiers on the development chain.
package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/eth2030/txguard/core/types"
)

// Keccak256 calculates the Keccak-256 hash of the given data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// BlockHash identifies a development-chain block. The preimage is the parent
// hash followed by the big-endian number, timestamp and gas limit, so equal
// headers on the same parent always share a hash.
func BlockHash(parent types.Hash, number, timestamp, gasLimit uint64) types.Hash {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], number)
	binary.BigEndian.PutUint64(buf[8:16], timestamp)
	binary.BigEndian.PutUint64(buf[16:24], gasLimit)
	return Keccak256Hash(parent[:], buf[:])
}
