package provider

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/params"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/core/types"
)

// MaxInitCodeSize is the EIP-3860 limit on contract-creation payloads.
const MaxInitCodeSize = params.MaxInitCodeSize

// ValidateTransactionSpec checks the canonical view of a request against the
// given hardfork. Rules run in a fixed order and the first violation wins, so
// a malformed request always yields the same error:
//
//  1. access list before Berlin
//  2. EIP-1559 fee fields before London
//  3. blob fields before Cancun
//  4. gasPrice combined with any fee-market or blob field
//  5. maxPriorityFeePerGas above maxFeePerGas
//
// The function has no side effects and may be called concurrently.
func ValidateTransactionSpec(hardfork core.Hardfork, data types.ValidationData) error {
	if hardfork.Before(core.AccessListHardfork) && data.AccessList != nil {
		return &UnsupportedAccessListError{
			Current: hardfork,
			Minimum: core.AccessListHardfork,
		}
	}

	if hardfork.Before(core.FeeMarketHardfork) && data.HasFeeMarketFields() {
		return &UnsupportedEIP1559Error{
			Current: hardfork,
			Minimum: core.FeeMarketHardfork,
		}
	}

	if hardfork.Before(core.BlobHardfork) && data.HasBlobFields() {
		return &UnsupportedEIP4844Error{
			Current: hardfork,
			Minimum: core.BlobHardfork,
		}
	}

	if data.GasPrice != nil {
		if data.MaxFeePerGas != nil {
			return &InvalidTransactionInputError{Detail: "Cannot send both gasPrice and maxFeePerGas params"}
		}
		if data.MaxPriorityFeePerGas != nil {
			return &InvalidTransactionInputError{Detail: "Cannot send both gasPrice and maxPriorityFeePerGas"}
		}
		if data.Blobs != nil {
			return &InvalidTransactionInputError{Detail: "Cannot send both gasPrice and blobs"}
		}
		if data.BlobHashes != nil {
			return &InvalidTransactionInputError{Detail: "Cannot send both gasPrice and blobHashes"}
		}
	}

	if data.MaxFeePerGas != nil && data.MaxPriorityFeePerGas != nil {
		if data.MaxPriorityFeePerGas.Gt(data.MaxFeePerGas) {
			return &InvalidTransactionInputError{Detail: fmt.Sprintf(
				"maxPriorityFeePerGas (%s) is bigger than maxFeePerGas (%s)",
				data.MaxPriorityFeePerGas.Dec(), data.MaxFeePerGas.Dec(),
			)}
		}
	}

	return nil
}

// ValidateCallRequest validates an eth_call style request and its block
// parameter. An unsupported EIP-1559 violation is rewritten into a message
// that tells the user which hardfork to select.
func ValidateCallRequest(hardfork core.Hardfork, request *types.CallRequest, blockSpec *types.BlockSpec) error {
	if err := ValidatePostMergeBlockTags(hardfork, PostEIP1898(blockSpec)); err != nil {
		return err
	}

	err := ValidateTransactionAndCallRequest(hardfork, request)
	var eip1559 *UnsupportedEIP1559Error
	if errors.As(err, &eip1559) {
		return &InvalidArgumentError{Message: fmt.Sprintf(
			"EIP-1559 style fee params (maxFeePerGas or maxPriorityFeePerGas) received but they are not supported by the current hardfork.\n\n"+
				"You can use them by running Hardhat Network with 'hardfork' %s or later.",
			eip1559.Minimum,
		)}
	}
	return err
}

// ValidateTransactionAndCallRequest validates any request shape against the
// hardfork. An unsupported access list is rewritten into a message that
// tells the user which hardfork to select; every other violation is
// returned unchanged.
func ValidateTransactionAndCallRequest(hardfork core.Hardfork, source types.ValidationSource) error {
	err := ValidateTransactionSpec(hardfork, source.ValidationData())
	var accessList *UnsupportedAccessListError
	if errors.As(err, &accessList) {
		return &InvalidArgumentError{Message: fmt.Sprintf(
			"Access list received but is not supported by the current hardfork. \n\n"+
				"You can use them by running Hardhat Network with 'hardfork' %s or later.",
			accessList.Minimum,
		)}
	}
	return err
}

// ValidateEIP3860MaxInitcodeSize rejects contract-creation payloads larger
// than MaxInitCodeSize from Shanghai onwards, unless the unlimited contract
// size override is enabled. Requests with a destination are never checked.
func ValidateEIP3860MaxInitcodeSize(hardfork core.Hardfork, allowUnlimitedContractSize bool, to *types.Address, data []byte) error {
	if hardfork.Before(core.InitCodeLimitHardfork) || to != nil || allowUnlimitedContractSize {
		return nil
	}

	if len(data) > MaxInitCodeSize {
		return &InvalidArgumentError{Message: fmt.Sprintf(
			"\nTrying to send a deployment transaction whose init code length is %d. The max length allowed by EIP-3860 is %d.\n\n"+
				"Enable the 'allowUnlimitedContractSize' option to allow init codes of any length.",
			len(data), MaxInitCodeSize,
		)}
	}

	return nil
}

// ValidatePostMergeBlockTags rejects the safe and finalized tags while a
// pre-merge hardfork is configured.
func ValidatePostMergeBlockTags(hardfork core.Hardfork, blockSpec ValidationBlockSpec) error {
	if hardfork.AtLeast(core.MergeHardfork) {
		return nil
	}
	normalized := blockSpec.Normalize()
	if normalized.Tag != nil && normalized.Tag.IsPostMerge() {
		return &InvalidBlockTagError{
			Tag:      *normalized.Tag,
			Hardfork: hardfork,
		}
	}
	return nil
}
