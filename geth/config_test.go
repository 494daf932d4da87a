package geth

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/core/types"
	"github.com/eth2030/txguard/provider"
)

func TestChainConfigForRoundTrip(t *testing.T) {
	for _, h := range core.AllHardforks() {
		cfg := ChainConfigFor(h, nil)
		want := h
		if h == core.FrontierThawing {
			want = core.Frontier
		}
		got := HardforkAt(cfg, 0, 0, IsMerged(cfg))
		require.Equal(t, want, got, "hardfork %s", h)
	}
}

func TestChainConfigForChainID(t *testing.T) {
	require.Equal(t, big.NewInt(1), ChainConfigFor(core.London, nil).ChainID)
	require.Equal(t, big.NewInt(31337), ChainConfigFor(core.London, big.NewInt(31337)).ChainID)
	require.False(t, IsMerged(ChainConfigFor(core.GrayGlacier, nil)))
	require.True(t, IsMerged(ChainConfigFor(core.Merge, nil)))
}

func TestHardforkAtMainnet(t *testing.T) {
	cfg := params.MainnetChainConfig
	tests := []struct {
		number uint64
		time   uint64
		merged bool
		want   core.Hardfork
	}{
		{0, 0, false, core.Frontier},
		{1_150_000, 0, false, core.Homestead},
		{1_920_000, 0, false, core.DAOFork},
		{4_370_000, 0, false, core.Byzantium},
		{12_244_000, 0, false, core.Berlin},
		{12_965_000, 0, false, core.London},
		{15_050_000, 0, false, core.GrayGlacier},
		{15_537_394, 1_663_224_162, true, core.Merge},
		{17_034_870, 1_681_338_455, true, core.Shanghai},
		{19_426_587, 1_710_338_135, true, core.Cancun},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, HardforkAt(cfg, tt.number, tt.time, tt.merged), "block %d", tt.number)
	}
}

func TestBlockSpecFromRPC(t *testing.T) {
	tags := map[rpc.BlockNumber]types.BlockTag{
		rpc.EarliestBlockNumber:  types.BlockTagEarliest,
		rpc.LatestBlockNumber:    types.BlockTagLatest,
		rpc.PendingBlockNumber:   types.BlockTagPending,
		rpc.SafeBlockNumber:      types.BlockTagSafe,
		rpc.FinalizedBlockNumber: types.BlockTagFinalized,
	}
	for n, tag := range tags {
		pre, err := PreEIP1898FromRPC(n)
		require.NoError(t, err)
		require.Equal(t, types.PreEIP1898Tag(tag), pre)

		spec, err := BlockSpecFromRPC(rpc.BlockNumberOrHashWithNumber(n))
		require.NoError(t, err)
		require.Equal(t, types.BlockSpecTag(tag), spec)

		// Both shapes reach the same guard verdict.
		require.Equal(t,
			provider.ValidatePostMergeBlockTags(core.London, provider.PreEIP1898(&pre)),
			provider.ValidatePostMergeBlockTags(core.London, provider.PostEIP1898(&spec)))
	}

	spec, err := BlockSpecFromRPC(rpc.BlockNumberOrHashWithNumber(rpc.BlockNumber(100)))
	require.NoError(t, err)
	require.Equal(t, types.BlockSpecNumber(100), spec)

	hash := gethcommon.HexToHash("0xabcdef")
	spec, err = BlockSpecFromRPC(rpc.BlockNumberOrHashWithHash(hash, true))
	require.NoError(t, err)
	require.Equal(t, types.BlockSpecHash(FromGethHash(hash), true), spec)

	_, err = BlockSpecFromRPC(rpc.BlockNumberOrHash{})
	require.ErrorIs(t, err, types.ErrInvalidBlockSpec)

	_, err = PreEIP1898FromRPC(rpc.BlockNumber(-100))
	require.ErrorIs(t, err, ErrUnknownBlockNumber)
}
