// hardfork.go defines the ordered set of protocol upgrades a provider can be
// configured to emulate. Feature availability is expressed purely through the
// ordering: a field introduced by fork X is legal at every fork >= X.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHardfork is returned when a hardfork name cannot be parsed.
var ErrUnknownHardfork = errors.New("unknown hardfork")

// Hardfork identifies a protocol upgrade. Values are totally ordered by
// activation order on mainnet.
type Hardfork uint8

const (
	Frontier Hardfork = iota
	FrontierThawing
	Homestead
	DAOFork
	Tangerine
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	MuirGlacier
	Berlin
	London
	ArrowGlacier
	GrayGlacier
	Merge
	Shanghai
	Cancun
	Prague

	// Latest is the most recent hardfork known to this package.
	Latest = Prague
)

// Forks that introduce the features gated by the provider.
const (
	AccessListHardfork    = Berlin   // EIP-2930
	FeeMarketHardfork     = London   // EIP-1559
	MergeHardfork         = Merge    // safe/finalized block tags
	InitCodeLimitHardfork = Shanghai // EIP-3860
	BlobHardfork          = Cancun   // EIP-4844
)

// hardforkNames holds the configuration spelling of each hardfork, which is
// also what diagnostics print so that users can paste it into their config.
var hardforkNames = [...]string{
	Frontier:        "chainstart",
	FrontierThawing: "frontierThawing",
	Homestead:       "homestead",
	DAOFork:         "dao",
	Tangerine:       "tangerineWhistle",
	SpuriousDragon:  "spuriousDragon",
	Byzantium:       "byzantium",
	Constantinople:  "constantinople",
	Petersburg:      "petersburg",
	Istanbul:        "istanbul",
	MuirGlacier:     "muirGlacier",
	Berlin:          "berlin",
	London:          "london",
	ArrowGlacier:    "arrowGlacier",
	GrayGlacier:     "grayGlacier",
	Merge:           "merge",
	Shanghai:        "shanghai",
	Cancun:          "cancun",
	Prague:          "prague",
}

// hardforkAliases maps alternative spellings to hardforks.
var hardforkAliases = map[string]Hardfork{
	"frontier":          Frontier,
	"daofork":           DAOFork,
	"tangerine":         Tangerine,
	"eip150":            Tangerine,
	"eip158":            SpuriousDragon,
	"constantinoplefix": Petersburg,
	"paris":             Merge,
	"latest":            Latest,
}

// String returns the configuration name of the hardfork.
func (h Hardfork) String() string {
	if int(h) < len(hardforkNames) {
		return hardforkNames[h]
	}
	return fmt.Sprintf("Hardfork(%d)", uint8(h))
}

// Before reports whether h activates strictly earlier than other.
func (h Hardfork) Before(other Hardfork) bool {
	return h < other
}

// AtLeast reports whether h is other or a later hardfork.
func (h Hardfork) AtLeast(other Hardfork) bool {
	return h >= other
}

// IsValid reports whether h names a known hardfork.
func (h Hardfork) IsValid() bool {
	return h <= Latest
}

// ParseHardfork parses a hardfork name. Matching is case-insensitive and
// accepts the common aliases used by client configs.
func ParseHardfork(name string) (Hardfork, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for h, n := range hardforkNames {
		if strings.ToLower(n) == key {
			return Hardfork(h), nil
		}
	}
	if h, ok := hardforkAliases[key]; ok {
		return h, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHardfork, name)
}

// MarshalText implements encoding.TextMarshaler.
func (h Hardfork) MarshalText() ([]byte, error) {
	if !h.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHardfork, uint8(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hardfork) UnmarshalText(input []byte) error {
	parsed, err := ParseHardfork(string(input))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// AllHardforks returns every known hardfork in activation order.
func AllHardforks() []Hardfork {
	forks := make([]Hardfork, 0, int(Latest)+1)
	for h := Frontier; h <= Latest; h++ {
		forks = append(forks, h)
	}
	return forks
}
