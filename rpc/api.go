package rpc

import (
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/core/devchain"
	"github.com/eth2030/txguard/core/types"
	"github.com/eth2030/txguard/geth"
	"github.com/eth2030/txguard/log"
	"github.com/eth2030/txguard/metrics"
	"github.com/eth2030/txguard/provider"
)

// EvmAPI implements the evm_ namespace development methods.
type EvmAPI struct {
	backend Backend
}

// NewEvmAPI creates the evm_ service.
func NewEvmAPI(backend Backend) *EvmAPI {
	return &EvmAPI{backend: backend}
}

// IncreaseTime implements evm_increaseTime.
func (api *EvmAPI) IncreaseTime(increment provider.U64OrUsize) (string, error) {
	res, err := provider.HandleIncreaseTimeRequest(api.backend, increment)
	return res, wrapError(err)
}

// Mine implements evm_mine. The timestamp is optional.
func (api *EvmAPI) Mine(timestamp *provider.U64OrUsize) (string, error) {
	res, err := provider.HandleMineRequest(api.backend, timestamp)
	return res, wrapError(err)
}

// SetAutomine implements evm_setAutomine.
func (api *EvmAPI) SetAutomine(enabled bool) (bool, error) {
	res, err := provider.HandleSetAutomineRequest(api.backend, enabled)
	return res, wrapError(err)
}

// SetBlockGasLimit implements evm_setBlockGasLimit.
func (api *EvmAPI) SetBlockGasLimit(gasLimit hexutil.Uint64) (bool, error) {
	res, err := provider.HandleSetBlockGasLimitRequest(api.backend, uint64(gasLimit))
	return res, wrapError(err)
}

// SetNextBlockTimestamp implements evm_setNextBlockTimestamp.
func (api *EvmAPI) SetNextBlockTimestamp(timestamp provider.U64OrUsize) (string, error) {
	res, err := provider.HandleSetNextBlockTimestampRequest(api.backend, timestamp)
	return res, wrapError(err)
}

// EthAPI implements the read-only eth_ methods the dev chain can answer.
type EthAPI struct {
	backend Backend
}

// NewEthAPI creates the eth_ service.
func NewEthAPI(backend Backend) *EthAPI {
	return &EthAPI{backend: backend}
}

// ChainId implements eth_chainId.
func (api *EthAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(api.backend.ChainID())
}

// BlockNumber implements eth_blockNumber.
func (api *EthAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.backend.Latest().Number)
}

// GetBlockByNumber implements eth_getBlockByNumber. The dev chain holds no
// transactions, so fullTx has no effect. Unknown blocks yield null.
func (api *EthAPI) GetBlockByNumber(number gethrpc.BlockNumber, fullTx bool) (map[string]any, error) {
	spec, err := geth.PreEIP1898FromRPC(number)
	if err != nil {
		return nil, &codedError{err: err, code: provider.ErrCodeInvalidParams}
	}
	if err := provider.ValidatePostMergeBlockTags(api.backend.Hardfork(), provider.PreEIP1898(&spec)); err != nil {
		return nil, wrapError(err)
	}

	var height uint64
	switch {
	case spec.Number != nil:
		height = *spec.Number
	case *spec.Tag == types.BlockTagEarliest:
		height = 0
	default:
		height = api.backend.Latest().Number
	}
	block, err := api.backend.BlockByNumber(height)
	if errors.Is(err, devchain.ErrBlockNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return marshalBlock(block), nil
}

func marshalBlock(b *provider.MineBlockResult) map[string]any {
	txs := b.Transactions
	if txs == nil {
		txs = []types.Hash{}
	}
	return map[string]any{
		"number":       hexutil.Uint64(b.Number),
		"hash":         b.Hash,
		"parentHash":   b.ParentHash,
		"timestamp":    hexutil.Uint64(b.Timestamp),
		"gasLimit":     hexutil.Uint64(b.GasLimit),
		"gasUsed":      hexutil.Uint64(b.GasUsed),
		"transactions": txs,
	}
}

// ValidationAPI implements the txguard_ namespace, which runs the admission
// checks a request would face without executing it.
type ValidationAPI struct {
	backend Backend
	logger  *log.Logger
}

// NewValidationAPI creates the txguard_ service.
func NewValidationAPI(backend Backend) *ValidationAPI {
	return &ValidationAPI{
		backend: backend,
		logger:  log.Default().Module("rpc"),
	}
}

// Hardfork implements txguard_hardfork.
func (api *ValidationAPI) Hardfork() core.Hardfork {
	return api.backend.Hardfork()
}

// ValidateCall implements txguard_validateCall. The block parameter is
// optional.
func (api *ValidationAPI) ValidateCall(call types.CallRequest, block *types.BlockSpec) (bool, error) {
	h := api.backend.Hardfork()
	if err := provider.ValidateCallRequest(h, &call, block); err != nil {
		return api.reject("call", err)
	}
	if err := provider.ValidateEIP3860MaxInitcodeSize(h, api.backend.AllowUnlimitedContractSize(), call.To, call.Payload()); err != nil {
		return api.reject("call", err)
	}
	return api.accept()
}

// ValidateTransaction implements txguard_validateTransaction.
func (api *ValidationAPI) ValidateTransaction(tx types.TransactionRequest) (bool, error) {
	h := api.backend.Hardfork()
	if err := provider.ValidateTransactionAndCallRequest(h, &tx); err != nil {
		return api.reject("transaction", err)
	}
	if err := provider.ValidateEIP3860MaxInitcodeSize(h, api.backend.AllowUnlimitedContractSize(), tx.To, tx.Payload()); err != nil {
		return api.reject("transaction", err)
	}
	return api.accept()
}

// ValidateRawTransaction implements txguard_validateRawTransaction.
func (api *ValidationAPI) ValidateRawTransaction(raw hexutil.Bytes) (bool, error) {
	tx, err := geth.DecodeSignedTransaction(raw)
	if err != nil {
		return false, &codedError{err: err, code: provider.ErrCodeInvalidParams}
	}
	h := api.backend.Hardfork()
	if err := provider.ValidateTransactionAndCallRequest(h, tx); err != nil {
		return api.reject("raw transaction", err)
	}
	if err := provider.ValidateEIP3860MaxInitcodeSize(h, api.backend.AllowUnlimitedContractSize(), tx.Recipient(), tx.Payload()); err != nil {
		return api.reject("raw transaction", err)
	}
	return api.accept()
}

// ValidateBlock implements txguard_validateBlock. It checks a block
// parameter in any form eth_call accepts against the configured hardfork.
func (api *ValidationAPI) ValidateBlock(block gethrpc.BlockNumberOrHash) (bool, error) {
	spec, err := geth.BlockSpecFromRPC(block)
	if err != nil {
		return false, &codedError{err: err, code: provider.ErrCodeInvalidParams}
	}
	if err := provider.ValidatePostMergeBlockTags(api.backend.Hardfork(), provider.PostEIP1898(&spec)); err != nil {
		return api.reject("block", err)
	}
	return api.accept()
}

// Stats implements txguard_stats. It returns every provider metric keyed by
// name.
func (api *ValidationAPI) Stats() map[string]int64 {
	return metrics.DefaultRegistry.Snapshot()
}

func (api *ValidationAPI) accept() (bool, error) {
	metrics.RequestsAccepted.Inc()
	return true, nil
}

func (api *ValidationAPI) reject(kind string, err error) (bool, error) {
	api.logger.Debug("request rejected", "kind", kind, "hardfork", api.backend.Hardfork(), "err", err)
	metrics.RequestsRejected.Inc()
	metrics.RejectedWithCode(provider.ErrorCode(err)).Inc()
	return false, wrapError(err)
}
