package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrInvalidBlockTag  = errors.New("invalid block tag")
	ErrInvalidBlockSpec = errors.New("invalid block specifier")
)

// BlockTag is a symbolic block reference.
type BlockTag uint8

const (
	BlockTagEarliest BlockTag = iota
	BlockTagLatest
	BlockTagPending
	BlockTagSafe
	BlockTagFinalized
)

var blockTagNames = map[BlockTag]string{
	BlockTagEarliest:  "earliest",
	BlockTagLatest:    "latest",
	BlockTagPending:   "pending",
	BlockTagSafe:      "safe",
	BlockTagFinalized: "finalized",
}

// String returns the JSON-RPC spelling of the tag.
func (t BlockTag) String() string {
	if name, ok := blockTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BlockTag(%d)", uint8(t))
}

// IsPostMerge reports whether the tag only has meaning once the chain runs
// proof-of-stake.
func (t BlockTag) IsPostMerge() bool {
	return t == BlockTagSafe || t == BlockTagFinalized
}

// ParseBlockTag parses a JSON-RPC block tag name.
func ParseBlockTag(s string) (BlockTag, error) {
	for tag, name := range blockTagNames {
		if name == s {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBlockTag, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t BlockTag) MarshalText() ([]byte, error) {
	if _, ok := blockTagNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockTag, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *BlockTag) UnmarshalText(input []byte) error {
	tag, err := ParseBlockTag(string(input))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// PreEIP1898BlockSpec is the block parameter of methods that predate
// EIP-1898: a block number or a tag, never a hash.
type PreEIP1898BlockSpec struct {
	Number *uint64
	Tag    *BlockTag
}

// PreEIP1898Number returns a number-valued specifier.
func PreEIP1898Number(n uint64) PreEIP1898BlockSpec {
	return PreEIP1898BlockSpec{Number: &n}
}

// PreEIP1898Tag returns a tag-valued specifier.
func PreEIP1898Tag(tag BlockTag) PreEIP1898BlockSpec {
	return PreEIP1898BlockSpec{Tag: &tag}
}

// String implements fmt.Stringer.
func (s PreEIP1898BlockSpec) String() string {
	if s.Number != nil {
		return strconv.FormatUint(*s.Number, 10)
	}
	if s.Tag != nil {
		return s.Tag.String()
	}
	return "<empty>"
}

// MarshalJSON implements json.Marshaler.
func (s PreEIP1898BlockSpec) MarshalJSON() ([]byte, error) {
	switch {
	case s.Number != nil:
		return json.Marshal(hexutil.Uint64(*s.Number))
	case s.Tag != nil:
		return json.Marshal(s.Tag)
	}
	return nil, ErrInvalidBlockSpec
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *PreEIP1898BlockSpec) UnmarshalJSON(data []byte) error {
	num, tag, err := decodeNumberOrTag(data)
	if err != nil {
		return err
	}
	*s = PreEIP1898BlockSpec{Number: num, Tag: tag}
	return nil
}

// EIP1898BlockSpec is the object form of a block parameter introduced by
// EIP-1898. Exactly one of BlockHash and BlockNumber is set;
// RequireCanonical only accompanies a hash.
type EIP1898BlockSpec struct {
	BlockHash        *Hash           `json:"blockHash,omitempty"`
	BlockNumber      *hexutil.Uint64 `json:"blockNumber,omitempty"`
	RequireCanonical *bool           `json:"requireCanonical,omitempty"`
}

// BlockSpec is the block parameter of methods that accept EIP-1898 objects.
// It is a superset of PreEIP1898BlockSpec: exactly one of Number, Tag and
// EIP1898 is set.
type BlockSpec struct {
	Number  *uint64
	Tag     *BlockTag
	EIP1898 *EIP1898BlockSpec
}

// BlockSpecNumber returns a number-valued specifier.
func BlockSpecNumber(n uint64) BlockSpec {
	return BlockSpec{Number: &n}
}

// BlockSpecTag returns a tag-valued specifier.
func BlockSpecTag(tag BlockTag) BlockSpec {
	return BlockSpec{Tag: &tag}
}

// BlockSpecHash returns an EIP-1898 hash specifier.
func BlockSpecHash(hash Hash, requireCanonical bool) BlockSpec {
	return BlockSpec{EIP1898: &EIP1898BlockSpec{BlockHash: &hash, RequireCanonical: &requireCanonical}}
}

// String implements fmt.Stringer.
func (s BlockSpec) String() string {
	switch {
	case s.Number != nil:
		return strconv.FormatUint(*s.Number, 10)
	case s.Tag != nil:
		return s.Tag.String()
	case s.EIP1898 != nil && s.EIP1898.BlockHash != nil:
		return s.EIP1898.BlockHash.Hex()
	case s.EIP1898 != nil && s.EIP1898.BlockNumber != nil:
		return strconv.FormatUint(uint64(*s.EIP1898.BlockNumber), 10)
	}
	return "<empty>"
}

// MarshalJSON implements json.Marshaler.
func (s BlockSpec) MarshalJSON() ([]byte, error) {
	switch {
	case s.Number != nil:
		return json.Marshal(hexutil.Uint64(*s.Number))
	case s.Tag != nil:
		return json.Marshal(s.Tag)
	case s.EIP1898 != nil:
		return json.Marshal(s.EIP1898)
	}
	return nil, ErrInvalidBlockSpec
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a tag, a hex
// quantity, a bare JSON number, or an EIP-1898 object.
func (s *BlockSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj EIP1898BlockSpec
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBlockSpec, err)
		}
		if (obj.BlockHash == nil) == (obj.BlockNumber == nil) {
			return fmt.Errorf("%w: exactly one of blockHash and blockNumber must be set", ErrInvalidBlockSpec)
		}
		if obj.BlockNumber != nil && obj.RequireCanonical != nil {
			return fmt.Errorf("%w: requireCanonical is only valid with blockHash", ErrInvalidBlockSpec)
		}
		*s = BlockSpec{EIP1898: &obj}
		return nil
	}
	num, tag, err := decodeNumberOrTag(data)
	if err != nil {
		return err
	}
	*s = BlockSpec{Number: num, Tag: tag}
	return nil
}

// decodeNumberOrTag decodes the shape shared by both specifier forms.
func decodeNumberOrTag(data []byte) (*uint64, *BlockTag, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try as integer.
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidBlockSpec, string(data))
		}
		return &n, nil, nil
	}
	if tag, err := ParseBlockTag(str); err == nil {
		return nil, &tag, nil
	}
	n, err := hexutil.DecodeUint64(str)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %v", ErrInvalidBlockSpec, str, err)
	}
	return &n, nil, nil
}
