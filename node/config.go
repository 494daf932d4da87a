// Package node wires the development chain, the admission checks and the
// JSON-RPC server into a runnable provider.
package node

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"os"
	"reflect"
	"strconv"
	"unicode"

	"github.com/ethereum/go-ethereum/params"
	"github.com/naoina/toml"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/geth"
	"github.com/eth2030/txguard/log"
)

// Config holds all configuration for a txguard node. It is read from and
// written to TOML.
type Config struct {
	// Hardfork is the protocol version requests are validated against.
	Hardfork core.Hardfork

	// AllowUnlimitedContractSize disables the EIP-3860 init-code limit.
	AllowUnlimitedContractSize bool

	// ChainID is reported by eth_chainId.
	ChainID uint64

	Chain ChainConfig
	HTTP  HTTPConfig
	Log   LogConfig
}

// ChainConfig holds the genesis parameters of the development chain.
type ChainConfig struct {
	GasLimit         uint64
	GenesisTimestamp uint64 `toml:",omitempty"`
	Automine         bool
}

// HTTPConfig holds JSON-RPC server configuration.
type HTTPConfig struct {
	Host        string
	Port        int
	CorsDomains []string `toml:",omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level     string
	Format    string
	File      string `toml:",omitempty"`
	MaxSizeMB int    `toml:",omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Hardfork: core.Latest,
		ChainID:  31337,
		Chain: ChainConfig{
			GasLimit: 30_000_000,
			Automine: true,
		},
		HTTP: HTTPConfig{
			Host: "127.0.0.1",
			Port: 8545,
		},
		Log: LogConfig{
			Level:     "info",
			Format:    log.FormatTerminal,
			MaxSizeMB: 100,
		},
	}
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if !c.Hardfork.IsValid() {
		return fmt.Errorf("config: %w: %d", core.ErrUnknownHardfork, uint8(c.Hardfork))
	}
	if c.ChainID == 0 {
		return errors.New("config: chain id must not be zero")
	}
	if c.Chain.GasLimit == 0 {
		return errors.New("config: block gas limit must not be zero")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid http port: %d", c.HTTP.Port)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Log.Format {
	case log.FormatTerminal, log.FormatJSON:
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 {
		return fmt.Errorf("config: invalid log file size: %d", c.Log.MaxSizeMB)
	}
	return nil
}

// HTTPAddr returns the JSON-RPC listen address.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.HTTP.Host, strconv.Itoa(c.HTTP.Port))
}

// GethChainConfig returns a go-ethereum chain config with every fork up to
// the configured hardfork active from genesis.
func (c *Config) GethChainConfig() *params.ChainConfig {
	return geth.ChainConfigFor(c.Hardfork, new(big.Int).SetUint64(c.ChainID))
}

// These settings ensure that TOML keys use the same names as Go struct
// fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// LoadConfig decodes the TOML file at path over cfg. Keys absent from the
// file keep their current values.
func LoadConfig(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
