// Package devchain implements the mutable chain state behind the evm_*
// development methods: a clock with an adjustable offset, a pending
// next-block timestamp, the block gas limit, the automine flag and the list
// of mined blocks.
package devchain

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/eth2030/txguard/core/types"
	"github.com/eth2030/txguard/crypto"
	"github.com/eth2030/txguard/log"
	"github.com/eth2030/txguard/metrics"
	"github.com/eth2030/txguard/provider"
)

// DefaultGasLimit is the block gas limit of a chain created without one.
const DefaultGasLimit uint64 = 30_000_000

var (
	ErrZeroGasLimit      = errors.New("block gas limit must be greater than 0")
	ErrTimestampTooLow   = errors.New("timestamp is lower than or equal to previous block's timestamp")
	ErrBlockNotFound     = errors.New("block not found")
	ErrTimestampOverflow = errors.New("timestamp overflow")
	ErrOffsetOverflow    = errors.New("block time offset overflow")
)

var _ provider.ChainState = (*Chain)(nil)

// Config holds the genesis parameters of a chain.
type Config struct {
	// GasLimit is the initial block gas limit. Zero selects DefaultGasLimit.
	GasLimit uint64
	// GenesisTimestamp is the timestamp of block 0. Zero selects the
	// current time.
	GenesisTimestamp uint64
	// Automine starts the chain with automatic mining enabled.
	Automine bool
	// Clock returns the wall time. Nil selects time.Now.
	Clock func() time.Time
}

// Chain is an in-memory development chain. All methods are safe for
// concurrent use; mutations are serialised by a single mutex.
type Chain struct {
	mu sync.Mutex

	blocks        []*provider.MineBlockResult
	timeOffset    int64
	nextTimestamp *uint64
	gasLimit      uint64
	automine      bool
	clock         func() time.Time
	logger        *log.Logger
}

// New creates a chain holding only the genesis block.
func New(cfg Config) *Chain {
	c := &Chain{
		gasLimit: cfg.GasLimit,
		automine: cfg.Automine,
		clock:    cfg.Clock,
		logger:   log.Default().Module("devchain"),
	}
	if c.gasLimit == 0 {
		c.gasLimit = DefaultGasLimit
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	ts := cfg.GenesisTimestamp
	if ts == 0 {
		ts = uint64(c.clock().Unix())
	}
	genesis := &provider.MineBlockResult{
		Number:    0,
		Timestamp: ts,
		GasLimit:  c.gasLimit,
	}
	genesis.Hash = blockHash(genesis)
	c.blocks = append(c.blocks, genesis)
	return c
}

// IncreaseBlockTime adds increment seconds to the clock offset and returns
// the accumulated offset. The offset never exceeds math.MaxInt64.
func (c *Chain) IncreaseBlockTime(increment uint64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if increment > uint64(math.MaxInt64-c.timeOffset) {
		return c.timeOffset, fmt.Errorf("%w: %d + %d", ErrOffsetOverflow, c.timeOffset, increment)
	}
	c.timeOffset += int64(increment)
	c.logger.Debug("block time increased", "increment", increment, "offset", c.timeOffset)
	return c.timeOffset, nil
}

// MineAndCommitBlock mines an empty block and appends it to the chain. The
// timestamp is, in order of preference, the explicit argument, the pending
// next-block timestamp, or the offset clock (at least one second after the
// parent).
func (c *Chain) MineAndCommitBlock(timestamp *uint64) (*provider.MineBlockResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parent := c.blocks[len(c.blocks)-1]

	var ts uint64
	switch {
	case timestamp != nil:
		if *timestamp <= parent.Timestamp {
			return nil, fmt.Errorf("%w: %d <= %d", ErrTimestampTooLow, *timestamp, parent.Timestamp)
		}
		if *timestamp > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d", ErrTimestampOverflow, *timestamp)
		}
		ts = *timestamp
		// Explicit timestamps shift the clock so later blocks follow them.
		c.timeOffset = int64(ts) - c.clock().Unix()
	case c.nextTimestamp != nil:
		ts = *c.nextTimestamp
		c.timeOffset = int64(ts) - c.clock().Unix()
	default:
		now := c.clock().Unix()
		if c.timeOffset > 0 && now > math.MaxInt64-c.timeOffset {
			now = math.MaxInt64
		} else {
			now += c.timeOffset
		}
		if now < 0 {
			now = 0
		}
		ts = uint64(now)
		if ts <= parent.Timestamp {
			if parent.Timestamp == ^uint64(0) {
				return nil, ErrTimestampOverflow
			}
			ts = parent.Timestamp + 1
		}
	}
	c.nextTimestamp = nil

	block := &provider.MineBlockResult{
		Number:     parent.Number + 1,
		ParentHash: parent.Hash,
		Timestamp:  ts,
		GasLimit:   c.gasLimit,
	}
	block.Hash = blockHash(block)
	c.blocks = append(c.blocks, block)
	metrics.BlocksMined.Inc()
	metrics.ChainHeight.Set(int64(block.Number))

	c.logger.Debug("block mined", "number", block.Number, "hash", block.Hash, "timestamp", block.Timestamp)
	return copyBlock(block), nil
}

// SetAutoMining toggles automatic mining of submitted transactions.
func (c *Chain) SetAutoMining(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automine = enabled
}

// Automine reports whether automatic mining is enabled.
func (c *Chain) Automine() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automine
}

// SetBlockGasLimit sets the gas limit of future blocks.
func (c *Chain) SetBlockGasLimit(gasLimit uint64) error {
	if gasLimit == 0 {
		return ErrZeroGasLimit
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gasLimit = gasLimit
	return nil
}

// BlockGasLimit returns the gas limit applied to future blocks.
func (c *Chain) BlockGasLimit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gasLimit
}

// SetNextBlockTimestamp fixes the timestamp of the next mined block. It must
// be strictly greater than the timestamp of the latest block.
func (c *Chain) SetNextBlockTimestamp(timestamp uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.blocks[len(c.blocks)-1]
	if timestamp <= latest.Timestamp {
		return 0, fmt.Errorf("%w: %d <= %d", ErrTimestampTooLow, timestamp, latest.Timestamp)
	}
	if timestamp > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrTimestampOverflow, timestamp)
	}
	c.nextTimestamp = &timestamp
	return timestamp, nil
}

// TimeOffset returns the accumulated clock offset in seconds.
func (c *Chain) TimeOffset() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeOffset
}

// Latest returns the head block.
func (c *Chain) Latest() *provider.MineBlockResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyBlock(c.blocks[len(c.blocks)-1])
}

// BlockByNumber returns the block at the given height.
func (c *Chain) BlockByNumber(number uint64) (*provider.MineBlockResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if number >= uint64(len(c.blocks)) {
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, number)
	}
	return copyBlock(c.blocks[number]), nil
}

func blockHash(b *provider.MineBlockResult) types.Hash {
	return crypto.BlockHash(b.ParentHash, b.Number, b.Timestamp, b.GasLimit)
}

func copyBlock(b *provider.MineBlockResult) *provider.MineBlockResult {
	cpy := *b
	if b.Transactions != nil {
		cpy.Transactions = append([]types.Hash(nil), b.Transactions...)
	}
	return &cpy
}
