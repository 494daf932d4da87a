package geth

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"

	"github.com/eth2030/txguard/core"
)

// HardforkAt returns the latest hardfork of cfg active at the given block
// number and timestamp. go-ethereum has no block-number switch for the
// merge, so the caller reports whether the chain has passed it.
func HardforkAt(cfg *params.ChainConfig, number, time uint64, merged bool) core.Hardfork {
	num := new(big.Int).SetUint64(number)
	switch {
	case cfg.IsPrague(num, time):
		return core.Prague
	case cfg.IsCancun(num, time):
		return core.Cancun
	case cfg.IsShanghai(num, time):
		return core.Shanghai
	case merged:
		return core.Merge
	case cfg.IsGrayGlacier(num):
		return core.GrayGlacier
	case cfg.IsArrowGlacier(num):
		return core.ArrowGlacier
	case cfg.IsLondon(num):
		return core.London
	case cfg.IsBerlin(num):
		return core.Berlin
	case cfg.IsMuirGlacier(num):
		return core.MuirGlacier
	case cfg.IsIstanbul(num):
		return core.Istanbul
	case cfg.IsPetersburg(num):
		return core.Petersburg
	case cfg.IsConstantinople(num):
		return core.Constantinople
	case cfg.IsByzantium(num):
		return core.Byzantium
	case cfg.IsEIP158(num):
		return core.SpuriousDragon
	case cfg.IsEIP150(num):
		return core.Tangerine
	case cfg.IsDAOFork(num):
		return core.DAOFork
	case cfg.IsHomestead(num):
		return core.Homestead
	}
	return core.Frontier
}

// ChainConfigFor returns a go-ethereum ChainConfig with every fork up to and
// including h active from genesis. FrontierThawing only changed the genesis
// gas limit, so it yields the same config as Frontier.
func ChainConfigFor(h core.Hardfork, chainID *big.Int) *params.ChainConfig {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	zero := big.NewInt(0)
	ts := uint64(0)
	c := &params.ChainConfig{ChainID: chainID}

	if h.AtLeast(core.Homestead) {
		c.HomesteadBlock = zero
	}
	if h.AtLeast(core.DAOFork) {
		c.DAOForkBlock = zero
		c.DAOForkSupport = true
	}
	if h.AtLeast(core.Tangerine) {
		c.EIP150Block = zero
	}
	if h.AtLeast(core.SpuriousDragon) {
		c.EIP155Block = zero
		c.EIP158Block = zero
	}
	if h.AtLeast(core.Byzantium) {
		c.ByzantiumBlock = zero
	}
	if h.AtLeast(core.Constantinople) {
		c.ConstantinopleBlock = zero
	}
	if h.AtLeast(core.Petersburg) {
		c.PetersburgBlock = zero
	}
	if h.AtLeast(core.Istanbul) {
		c.IstanbulBlock = zero
	}
	if h.AtLeast(core.MuirGlacier) {
		c.MuirGlacierBlock = zero
	}
	if h.AtLeast(core.Berlin) {
		c.BerlinBlock = zero
	}
	if h.AtLeast(core.London) {
		c.LondonBlock = zero
	}
	if h.AtLeast(core.ArrowGlacier) {
		c.ArrowGlacierBlock = zero
	}
	if h.AtLeast(core.GrayGlacier) {
		c.GrayGlacierBlock = zero
	}
	if h.AtLeast(core.Merge) {
		c.TerminalTotalDifficulty = zero
		c.MergeNetsplitBlock = zero
	}
	if h.AtLeast(core.Shanghai) {
		c.ShanghaiTime = &ts
	}
	if h.AtLeast(core.Cancun) {
		c.CancunTime = &ts
	}
	if h.AtLeast(core.Prague) {
		c.PragueTime = &ts
	}
	return c
}

// IsMerged reports whether cfg treats the chain as proof-of-stake from
// genesis.
func IsMerged(cfg *params.ChainConfig) bool {
	return cfg.TerminalTotalDifficulty != nil && cfg.TerminalTotalDifficulty.Sign() == 0
}
