package node

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/txguard/core"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "127.0.0.1:8545", cfg.HTTPAddr())
	require.Equal(t, uint64(31337), cfg.GethChainConfig().ChainID.Uint64())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown hardfork", func(c *Config) { c.Hardfork = core.Hardfork(200) }},
		{"zero chain id", func(c *Config) { c.ChainID = 0 }},
		{"zero gas limit", func(c *Config) { c.Chain.GasLimit = 0 }},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad size", func(c *Config) { c.Log.MaxSizeMB = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfigTOMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hardfork = core.London
	cfg.AllowUnlimitedContractSize = true
	cfg.HTTP.CorsDomains = []string{"http://localhost:3000"}

	var buf bytes.Buffer
	require.NoError(t, WriteConfig(&buf, &cfg))
	require.Contains(t, buf.String(), `Hardfork = "london"`)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded := DefaultConfig()
	require.NoError(t, LoadConfig(path, &loaded))
	require.Equal(t, cfg, loaded)
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := "Hardfork = \"muirGlacier\"\n\n[Log]\nLevel = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfig(path, &cfg))
	require.Equal(t, core.MuirGlacier, cfg.Hardfork)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, uint64(31337), cfg.ChainID)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("Colour = \"blue\"\n"), 0o600))
	cfg := DefaultConfig()
	err := LoadConfig(unknown, &cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Colour")

	badFork := filepath.Join(dir, "fork.toml")
	require.NoError(t, os.WriteFile(badFork, []byte("Hardfork = \"atlantis\"\n"), 0o600))
	err = LoadConfig(badFork, &cfg)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "atlantis"), err.Error())

	require.Error(t, LoadConfig(filepath.Join(dir, "missing.toml"), &cfg))
}

func TestNodeLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hardfork = core.Berlin
	cfg.HTTP.Port = 0

	n, err := New(&cfg)
	require.NoError(t, err)
	require.False(t, n.Running())
	require.Empty(t, n.HTTPEndpoint())

	require.NoError(t, n.Start())
	require.True(t, n.Running())
	require.ErrorIs(t, n.Start(), ErrNodeRunning)

	client, err := gethrpc.Dial(n.HTTPEndpoint())
	require.NoError(t, err)
	defer client.Close()

	var hardfork string
	require.NoError(t, client.Call(&hardfork, "txguard_hardfork"))
	require.Equal(t, "berlin", hardfork)

	var offset string
	require.NoError(t, client.Call(&offset, "evm_increaseTime", 15))
	require.Equal(t, "15", offset)
	require.Equal(t, int64(15), n.Chain().TimeOffset())

	require.NoError(t, n.Stop())
	require.False(t, n.Running())
	require.NoError(t, n.Stop())
	n.Wait()
}

func TestNodeRestart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTP.Port = 0

	n, err := New(&cfg)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	require.NoError(t, n.Stop())

	require.ErrorIs(t, n.Start(), ErrNodeStopped)
	require.False(t, n.Running())
	require.NoError(t, n.Stop())
	n.Wait()
}

func TestNodeStopBeforeStart(t *testing.T) {
	n, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, n.Stop())
	require.ErrorIs(t, n.Start(), ErrNodeStopped)
	require.Empty(t, n.HTTPEndpoint())
	n.Wait()
}

func TestNodeAttach(t *testing.T) {
	n, err := New(nil)
	require.NoError(t, err)
	client := n.Attach()
	defer client.Close()

	var ok bool
	require.NoError(t, client.Call(&ok, "evm_setAutomine", false))
	require.False(t, n.Chain().Automine())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChainID = 0
	_, err := New(&cfg)
	require.Error(t, err)
}
