package provider

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubChain records the calls made by the handlers.
type stubChain struct {
	offset        int64
	automine      bool
	gasLimit      uint64
	nextTimestamp uint64
	minedAt       *uint64
	mined         int

	gasLimitErr  error
	timestampErr error
	mineErr      error
	offsetErr    error
}

func (s *stubChain) IncreaseBlockTime(increment uint64) (int64, error) {
	if s.offsetErr != nil {
		return s.offset, s.offsetErr
	}
	s.offset += int64(increment)
	return s.offset, nil
}

func (s *stubChain) MineAndCommitBlock(timestamp *uint64) (*MineBlockResult, error) {
	if s.mineErr != nil {
		return nil, s.mineErr
	}
	s.mined++
	s.minedAt = timestamp
	return &MineBlockResult{Number: uint64(s.mined)}, nil
}

func (s *stubChain) SetAutoMining(enabled bool) { s.automine = enabled }

func (s *stubChain) SetBlockGasLimit(gasLimit uint64) error {
	if s.gasLimitErr != nil {
		return s.gasLimitErr
	}
	s.gasLimit = gasLimit
	return nil
}

func (s *stubChain) SetNextBlockTimestamp(timestamp uint64) (uint64, error) {
	if s.timestampErr != nil {
		return 0, s.timestampErr
	}
	s.nextTimestamp = timestamp
	return timestamp, nil
}

func TestHandleIncreaseTimeRequest(t *testing.T) {
	chain := &stubChain{}
	got, err := HandleIncreaseTimeRequest(chain, 60)
	require.NoError(t, err)
	require.Equal(t, "60", got)

	got, err = HandleIncreaseTimeRequest(chain, 3600)
	require.NoError(t, err)
	require.Equal(t, "3660", got)

	chain.offsetErr = errors.New("offset overflow")
	_, err = HandleIncreaseTimeRequest(chain, 1)
	require.ErrorIs(t, err, chain.offsetErr)
	require.Equal(t, ErrCodeInternal, ErrorCode(err))
}

func TestHandleMineRequest(t *testing.T) {
	chain := &stubChain{}
	ts := U64OrUsize(1700000000)

	_, err := HandleMineRequest(chain, &ts)
	var unimplemented *UnimplementedError
	require.ErrorAs(t, err, &unimplemented)
	require.Equal(t, "log_block", unimplemented.What)

	// The block is committed before the formatter fails.
	require.Equal(t, 1, chain.mined)
	require.NotNil(t, chain.minedAt)
	require.Equal(t, uint64(1700000000), *chain.minedAt)

	_, err = HandleMineRequest(chain, nil)
	require.ErrorAs(t, err, &unimplemented)
	require.Nil(t, chain.minedAt)

	failing := &stubChain{mineErr: errors.New("mining failed")}
	_, err = HandleMineRequest(failing, nil)
	require.EqualError(t, err, "mining failed")
}

func TestHandleSetAutomineRequest(t *testing.T) {
	chain := &stubChain{}
	ok, err := HandleSetAutomineRequest(chain, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, chain.automine)

	ok, err = HandleSetAutomineRequest(chain, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, chain.automine)
}

func TestHandleSetBlockGasLimitRequest(t *testing.T) {
	chain := &stubChain{}
	ok, err := HandleSetBlockGasLimitRequest(chain, 30_000_000)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(30_000_000), chain.gasLimit)

	storeErr := errors.New("gas limit must be greater than 0")
	ok, err = HandleSetBlockGasLimitRequest(&stubChain{gasLimitErr: storeErr}, 0)
	require.ErrorIs(t, err, storeErr)
	require.False(t, ok)
}

func TestHandleSetNextBlockTimestampRequest(t *testing.T) {
	chain := &stubChain{}
	got, err := HandleSetNextBlockTimestampRequest(chain, 1800000000)
	require.NoError(t, err)
	require.Equal(t, "1800000000", got)
	require.Equal(t, uint64(1800000000), chain.nextTimestamp)

	storeErr := errors.New("timestamp too low")
	_, err = HandleSetNextBlockTimestampRequest(&stubChain{timestampErr: storeErr}, 1)
	require.ErrorIs(t, err, storeErr)
}

func TestU64OrUsizeJSON(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
	}{
		{`0`, 0},
		{`3600`, 3600},
		{`"0x0"`, 0},
		{`"0xe10"`, 3600},
		{` 42 `, 42},
	}
	for _, tt := range tests {
		var v U64OrUsize
		require.NoError(t, json.Unmarshal([]byte(tt.input), &v), tt.input)
		require.Equal(t, tt.want, v.Uint64(), tt.input)
	}

	for _, bad := range []string{`-1`, `"3600"`, `"0x"`, `1.5`, `true`} {
		var v U64OrUsize
		require.Error(t, json.Unmarshal([]byte(bad), &v), bad)
	}

	out, err := json.Marshal(U64OrUsize(3600))
	require.NoError(t, err)
	require.JSONEq(t, `"0xe10"`, string(out))
}
