package rpc

import (
	"math/big"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/provider"
)

// Backend provides the chain state and admission settings behind the
// JSON-RPC API. It decouples the RPC layer from the chain implementation,
// following go-ethereum's ethapi.Backend pattern.
type Backend interface {
	provider.ChainState

	// Latest returns the head block.
	Latest() *provider.MineBlockResult
	// BlockByNumber returns the block at the given height.
	BlockByNumber(number uint64) (*provider.MineBlockResult, error)

	// Hardfork returns the hardfork requests are validated against.
	Hardfork() core.Hardfork
	// AllowUnlimitedContractSize disables the EIP-3860 init-code limit.
	AllowUnlimitedContractSize() bool
	// ChainID returns the chain id reported by eth_chainId.
	ChainID() *big.Int
}
