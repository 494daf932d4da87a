package types

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// ErrConflictingInput is returned when a request carries both "input" and
// "data" with different contents.
var ErrConflictingInput = errors.New(`both "data" and "input" are set and not equal. Please use "input" to pass transaction call data`)

var (
	_ ValidationSource = (*TransactionRequest)(nil)
	_ ValidationSource = (*CallRequest)(nil)
)

// TransactionRequest is a client-authored transaction submitted through
// eth_sendTransaction. Any subset of fields may be present; the provider
// fills in defaults for the rest after validation.
type TransactionRequest struct {
	From                 Address         `json:"from"`
	To                   *Address        `json:"to,omitempty"`
	Gas                  *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice             *hexutil.U256   `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.U256   `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.U256   `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.U256   `json:"value,omitempty"`
	Input                *hexutil.Bytes  `json:"input,omitempty"`
	Data                 *hexutil.Bytes  `json:"data,omitempty"`
	Nonce                *hexutil.Uint64 `json:"nonce,omitempty"`
	ChainID              *hexutil.Uint64 `json:"chainId,omitempty"`
	AccessList           *AccessList     `json:"accessList,omitempty"`
	TransactionType      *hexutil.Uint64 `json:"type,omitempty"`
	Blobs                []hexutil.Bytes `json:"blobs,omitempty"`
	BlobHashes           []Hash          `json:"blobHashes,omitempty"`
}

// ValidationData implements ValidationSource.
func (r *TransactionRequest) ValidationData() ValidationData {
	return ValidationData{
		GasPrice:             (*uint256.Int)(r.GasPrice),
		MaxFeePerGas:         (*uint256.Int)(r.MaxFeePerGas),
		MaxPriorityFeePerGas: (*uint256.Int)(r.MaxPriorityFeePerGas),
		AccessList:           r.AccessList,
		Blobs:                r.Blobs,
		BlobHashes:           r.BlobHashes,
	}
}

// UnmarshalJSON decodes a request and rejects conflicting payload keys.
func (r *TransactionRequest) UnmarshalJSON(input []byte) error {
	type request TransactionRequest
	var dec request
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if err := checkPayload(dec.Input, dec.Data); err != nil {
		return err
	}
	*r = TransactionRequest(dec)
	return nil
}

// Payload returns the request payload, or nil when none was sent. The
// "input" key takes precedence over "data".
func (r *TransactionRequest) Payload() []byte {
	return payload(r.Input, r.Data)
}

// CallRequest is a read-only simulation request (eth_call,
// eth_estimateGas). It has the field shape of TransactionRequest minus the
// nonce, chain id and type.
type CallRequest struct {
	From                 *Address        `json:"from,omitempty"`
	To                   *Address        `json:"to,omitempty"`
	Gas                  *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice             *hexutil.U256   `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.U256   `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.U256   `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.U256   `json:"value,omitempty"`
	Input                *hexutil.Bytes  `json:"input,omitempty"`
	Data                 *hexutil.Bytes  `json:"data,omitempty"`
	AccessList           *AccessList     `json:"accessList,omitempty"`
	Blobs                []hexutil.Bytes `json:"blobs,omitempty"`
	BlobHashes           []Hash          `json:"blobHashes,omitempty"`
}

// ValidationData implements ValidationSource.
func (r *CallRequest) ValidationData() ValidationData {
	return ValidationData{
		GasPrice:             (*uint256.Int)(r.GasPrice),
		MaxFeePerGas:         (*uint256.Int)(r.MaxFeePerGas),
		MaxPriorityFeePerGas: (*uint256.Int)(r.MaxPriorityFeePerGas),
		AccessList:           r.AccessList,
		Blobs:                r.Blobs,
		BlobHashes:           r.BlobHashes,
	}
}

// UnmarshalJSON decodes a call and rejects conflicting payload keys.
func (r *CallRequest) UnmarshalJSON(input []byte) error {
	type request CallRequest
	var dec request
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if err := checkPayload(dec.Input, dec.Data); err != nil {
		return err
	}
	*r = CallRequest(dec)
	return nil
}

// Payload returns the call payload, or nil when none was sent. The "input"
// key takes precedence over "data".
func (r *CallRequest) Payload() []byte {
	return payload(r.Input, r.Data)
}

func payload(input, data *hexutil.Bytes) []byte {
	switch {
	case input != nil:
		return *input
	case data != nil:
		return *data
	}
	return nil
}

func checkPayload(input, data *hexutil.Bytes) error {
	if input != nil && data != nil && !bytes.Equal(*input, *data) {
		return ErrConflictingInput
	}
	return nil
}
