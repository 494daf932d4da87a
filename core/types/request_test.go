package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestTransactionRequestPresence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(ValidationData) bool
	}{
		{"empty", `{}`, func(d ValidationData) bool {
			return d.GasPrice == nil && d.AccessList == nil && d.Blobs == nil && d.BlobHashes == nil && !d.HasFeeMarketFields()
		}},
		{"empty access list is present", `{"accessList":[]}`, func(d ValidationData) bool {
			return d.AccessList != nil && len(*d.AccessList) == 0
		}},
		{"null access list is absent", `{"accessList":null}`, func(d ValidationData) bool {
			return d.AccessList == nil
		}},
		{"empty blobs are present", `{"blobs":[]}`, func(d ValidationData) bool {
			return d.Blobs != nil && d.HasBlobFields()
		}},
		{"empty blob hashes are present", `{"blobHashes":[]}`, func(d ValidationData) bool {
			return d.BlobHashes != nil && d.HasBlobFields()
		}},
		{"priority fee alone", `{"maxPriorityFeePerGas":"0x0"}`, func(d ValidationData) bool {
			return d.HasFeeMarketFields() && d.MaxPriorityFeePerGas.IsZero()
		}},
		{"gas price", `{"gasPrice":"0x3b9aca00"}`, func(d ValidationData) bool {
			return d.GasPrice != nil && d.GasPrice.Uint64() == 1_000_000_000
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TransactionRequest
			if err := json.Unmarshal([]byte(tt.input), &req); err != nil {
				t.Fatal(err)
			}
			if !tt.check(req.ValidationData()) {
				t.Fatalf("unexpected validation data for %s", tt.input)
			}
		})
	}
}

func TestCallRequestMatchesTransactionRequest(t *testing.T) {
	input := `{"gasPrice":"0x1","maxFeePerGas":"0x2","maxPriorityFeePerGas":"0x3","accessList":[],"blobHashes":["0x0100000000000000000000000000000000000000000000000000000000000000"]}`
	var (
		tx   TransactionRequest
		call CallRequest
	)
	if err := json.Unmarshal([]byte(input), &tx); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(input), &call); err != nil {
		t.Fatal(err)
	}
	a, b := tx.ValidationData(), call.ValidationData()
	if !a.GasPrice.Eq(b.GasPrice) || !a.MaxFeePerGas.Eq(b.MaxFeePerGas) || !a.MaxPriorityFeePerGas.Eq(b.MaxPriorityFeePerGas) {
		t.Fatal("fee fields differ")
	}
	if (a.AccessList == nil) != (b.AccessList == nil) || len(a.BlobHashes) != len(b.BlobHashes) {
		t.Fatal("presence differs")
	}
}

func TestRequestPayload(t *testing.T) {
	var req TransactionRequest
	if req.Payload() != nil {
		t.Fatal("absent payload should be nil")
	}
	if err := json.Unmarshal([]byte(`{"data":"0x6001"}`), &req); err != nil {
		t.Fatal(err)
	}
	if len(req.Payload()) != 2 {
		t.Fatalf("payload length = %d, want 2", len(req.Payload()))
	}

	var call CallRequest
	if err := json.Unmarshal([]byte(`{"data":"0x"}`), &call); err != nil {
		t.Fatal(err)
	}
	if call.Payload() == nil || len(call.Payload()) != 0 {
		t.Fatal("empty data should be present and empty")
	}
}

func TestRequestPayloadInputKey(t *testing.T) {
	tests := []struct {
		input string
		want  []byte
	}{
		{`{"input":"0x6001"}`, []byte{0x60, 0x01}},
		{`{"input":"0x6001","data":"0x6001"}`, []byte{0x60, 0x01}},
		{`{"input":"0x","data":"0x"}`, []byte{}},
	}
	for _, tt := range tests {
		var req TransactionRequest
		if err := json.Unmarshal([]byte(tt.input), &req); err != nil {
			t.Fatalf("%s: %v", tt.input, err)
		}
		if got := req.Payload(); got == nil || !bytes.Equal(got, tt.want) {
			t.Errorf("%s: transaction payload = %x, want %x", tt.input, got, tt.want)
		}
		var call CallRequest
		if err := json.Unmarshal([]byte(tt.input), &call); err != nil {
			t.Fatalf("%s: %v", tt.input, err)
		}
		if got := call.Payload(); got == nil || !bytes.Equal(got, tt.want) {
			t.Errorf("%s: call payload = %x, want %x", tt.input, got, tt.want)
		}
	}
}

func TestRequestConflictingPayload(t *testing.T) {
	doc := []byte(`{"input":"0x6001","data":"0x6002"}`)
	var req TransactionRequest
	if err := json.Unmarshal(doc, &req); !errors.Is(err, ErrConflictingInput) {
		t.Fatalf("transaction err = %v, want ErrConflictingInput", err)
	}
	var call CallRequest
	if err := json.Unmarshal(doc, &call); !errors.Is(err, ErrConflictingInput) {
		t.Fatalf("call err = %v, want ErrConflictingInput", err)
	}
	// Other fields still decode through the custom unmarshaller.
	if err := json.Unmarshal([]byte(`{"gasPrice":"0x2","accessList":[]}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.GasPrice == nil || req.AccessList == nil {
		t.Fatal("fields lost during decoding")
	}
}
