package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/txguard/core/types"
	"github.com/eth2030/txguard/log"
)

// ChainState is the mutable chain component the evm_* handlers delegate to.
// Implementations serialise their own mutations.
type ChainState interface {
	// IncreaseBlockTime shifts the clock used for future blocks and returns
	// the accumulated offset in seconds.
	IncreaseBlockTime(increment uint64) (int64, error)

	// MineAndCommitBlock mines a block, optionally at an explicit timestamp,
	// and appends it to the chain.
	MineAndCommitBlock(timestamp *uint64) (*MineBlockResult, error)

	SetAutoMining(enabled bool)

	// SetBlockGasLimit changes the gas limit of future blocks.
	SetBlockGasLimit(gasLimit uint64) error

	// SetNextBlockTimestamp fixes the timestamp of the next mined block and
	// returns it.
	SetNextBlockTimestamp(timestamp uint64) (uint64, error)
}

// MineBlockResult describes a freshly committed block.
type MineBlockResult struct {
	Number       uint64
	Hash         types.Hash
	ParentHash   types.Hash
	Timestamp    uint64
	GasLimit     uint64
	GasUsed      uint64
	Transactions []types.Hash
}

// U64OrUsize is a numeric RPC parameter that clients send either as a JSON
// number or as a hex quantity string.
type U64OrUsize uint64

// Uint64 returns the parameter value.
func (u U64OrUsize) Uint64() uint64 { return uint64(u) }

// MarshalJSON encodes the value as a hex quantity.
func (u U64OrUsize) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Uint64(u))
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *U64OrUsize) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var q hexutil.Uint64
		if err := q.UnmarshalJSON(data); err != nil {
			return err
		}
		*u = U64OrUsize(q)
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric parameter %s: %w", data, err)
	}
	*u = U64OrUsize(n)
	return nil
}

// HandleIncreaseTimeRequest implements evm_increaseTime. The new offset is
// returned as a decimal string, unlike other numeric RPC results.
func HandleIncreaseTimeRequest(state ChainState, increment U64OrUsize) (string, error) {
	newBlockTime, err := state.IncreaseBlockTime(increment.Uint64())
	if err != nil {
		return "", err
	}
	log.Default().Module("evm").Debug("increased block time", "increment", increment.Uint64(), "offset", newBlockTime)
	return strconv.FormatInt(newBlockTime, 10), nil
}

// HandleMineRequest implements evm_mine.
func HandleMineRequest(state ChainState, timestamp *U64OrUsize) (string, error) {
	var ts *uint64
	if timestamp != nil {
		v := timestamp.Uint64()
		ts = &v
	}
	result, err := state.MineAndCommitBlock(ts)
	if err != nil {
		return "", err
	}
	log.Default().Module("evm").Debug("mined block", "number", result.Number, "timestamp", result.Timestamp)

	if err := logBlock(result); err != nil {
		return "", err
	}
	return "0", nil
}

// HandleSetAutomineRequest implements evm_setAutomine.
func HandleSetAutomineRequest(state ChainState, automine bool) (bool, error) {
	state.SetAutoMining(automine)
	log.Default().Module("evm").Debug("set automine", "enabled", automine)
	return true, nil
}

// HandleSetBlockGasLimitRequest implements evm_setBlockGasLimit.
func HandleSetBlockGasLimitRequest(state ChainState, gasLimit uint64) (bool, error) {
	if err := state.SetBlockGasLimit(gasLimit); err != nil {
		return false, err
	}
	log.Default().Module("evm").Debug("set block gas limit", "gasLimit", gasLimit)
	return true, nil
}

// HandleSetNextBlockTimestampRequest implements evm_setNextBlockTimestamp.
// The timestamp is returned as a decimal string.
func HandleSetNextBlockTimestampRequest(state ChainState, timestamp U64OrUsize) (string, error) {
	newTimestamp, err := state.SetNextBlockTimestamp(timestamp.Uint64())
	if err != nil {
		return "", err
	}
	log.Default().Module("evm").Debug("set next block timestamp", "timestamp", newTimestamp)
	return strconv.FormatUint(newTimestamp, 10), nil
}

// logBlock prints a mined block in the console format of the dev node.
// TODO: port the block formatter; until then evm_mine reports the gap.
func logBlock(*MineBlockResult) error {
	return &UnimplementedError{What: "log_block"}
}
