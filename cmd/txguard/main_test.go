package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"txguard"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHardforksCommand(t *testing.T) {
	code, out, _ := runCLI(t, "", "hardforks")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "chainstart", lines[0])
	require.Equal(t, "prague", lines[len(lines)-1])
	require.Contains(t, lines, "london")
}

func TestCheckTx(t *testing.T) {
	tests := []struct {
		name     string
		hardfork string
		request  string
		code     int
		out      string
	}{
		{
			name:     "legacy on frontier",
			hardfork: "chainstart",
			request:  `{"from":"0x1000000000000000000000000000000000000001","gasPrice":"0x1"}`,
			out:      "ok\n",
		},
		{
			name:     "priority above max fee",
			hardfork: "shanghai",
			request:  `{"maxFeePerGas":"0xa","maxPriorityFeePerGas":"0x14"}`,
			code:     1,
			out:      "rejected (code -32000): maxPriorityFeePerGas (20) is bigger than maxFeePerGas (10)\n",
		},
		{
			name:     "fee market before london",
			hardfork: "berlin",
			request:  `{"maxFeePerGas":"0xa"}`,
			code:     1,
			out:      "rejected (code -32602): EIP-1559 fee params received but not supported by hardfork berlin, requires london or later\n",
		},
		{
			name:     "empty access list before berlin",
			hardfork: "istanbul",
			request:  `{"accessList":[]}`,
			code:     1,
			out:      "rejected (code -32602): Access list received but is not supported by the current hardfork. \n\nYou can use them by running Hardhat Network with 'hardfork' berlin or later.\n",
		},
		{
			name:     "gas price with blob hashes",
			hardfork: "cancun",
			request:  `{"gasPrice":"0x1","blobHashes":[]}`,
			code:     1,
			out:      "rejected (code -32000): Cannot send both gasPrice and blobHashes\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCLI(t, "", "--hardfork", tt.hardfork, "check-tx", tt.request)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.out, out)
		})
	}
}

func TestCheckTxStdin(t *testing.T) {
	code, out, _ := runCLI(t, `{"gasPrice":"0x1","maxFeePerGas":"0x2"}`, "check-tx")
	require.Equal(t, 1, code)
	require.Equal(t, "rejected (code -32000): Cannot send both gasPrice and maxFeePerGas params\n", out)

	code, _, errOut := runCLI(t, "  \n", "check-tx")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, errNoInput.Error())
}

func TestCheckTxInitCodeLimit(t *testing.T) {
	initCode := hexutil.Encode(make([]byte, 49153))
	request := `{"data":"` + initCode + `"}`

	code, out, _ := runCLI(t, "", "--hardfork", "shanghai", "check-tx", request)
	require.Equal(t, 1, code)
	require.Contains(t, out, "init code length is 49153")

	code, out, _ = runCLI(t, "", "--hardfork", "shanghai", "--allow-unlimited-contract-size", "check-tx", request)
	require.Equal(t, 0, code)
	require.Equal(t, "ok\n", out)

	code, _, _ = runCLI(t, "", "--hardfork", "merge", "check-tx", request)
	require.Equal(t, 0, code)

	inputRequest := `{"input":"` + initCode + `"}`
	code, out, _ = runCLI(t, "", "--hardfork", "shanghai", "check-tx", inputRequest)
	require.Equal(t, 1, code)
	require.Contains(t, out, "init code length is 49153")

	code, out, _ = runCLI(t, "", "--hardfork", "cancun", "check-call", inputRequest)
	require.Equal(t, 1, code)
	require.Contains(t, out, "init code length is 49153")

	code, _, errOut := runCLI(t, "", "check-tx", `{"input":"0x01","data":"0x02"}`)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "invalid request")
}

func TestCheckCall(t *testing.T) {
	code, out, _ := runCLI(t, "", "--hardfork", "berlin", "check-call", "--block", "finalized", `{}`)
	require.Equal(t, 1, code)
	require.Equal(t, "rejected (code -32602): The 'finalized' block tag is not allowed in pre-merge hardforks. You are using the 'berlin' hardfork.\n", out)

	code, out, _ = runCLI(t, "", "--hardfork", "berlin", "check-call", "--block", `{"blockNumber":"0x10"}`, `{}`)
	require.Equal(t, 0, code)
	require.Equal(t, "ok\n", out)

	code, out, _ = runCLI(t, "", "--hardfork", "cancun", "check-call", "--block", "safe", `{}`)
	require.Equal(t, 0, code)
	require.Equal(t, "ok\n", out)

	code, out, _ = runCLI(t, "", "--hardfork", "berlin", "check-call", `{"maxFeePerGas":"0x1"}`)
	require.Equal(t, 1, code)
	require.True(t, strings.HasPrefix(out, "rejected (code -32602): EIP-1559 style fee params"))
	require.True(t, strings.HasSuffix(out, "'hardfork' london or later.\n"))

	code, _, errOut := runCLI(t, "", "check-call", "--block", "{", `{}`)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "invalid block parameter")
}

func TestCheckRaw(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	tx, err := gethtypes.SignNewTx(key, gethtypes.LatestSignerForChainID(big.NewInt(1)), &gethtypes.DynamicFeeTx{
		ChainID:   big.NewInt(1),
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
	})
	require.NoError(t, err)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	encoded := hexutil.Encode(raw)

	code, out, _ := runCLI(t, "", "--hardfork", "london", "check-raw", encoded)
	require.Equal(t, 0, code)
	require.Equal(t, "ok\n", out)

	// Typed transactions always carry an access list.
	code, out, _ = runCLI(t, encoded+"\n", "--hardfork", "muirGlacier", "check-raw")
	require.Equal(t, 1, code)
	require.True(t, strings.HasPrefix(out, "rejected (code -32602): Access list received"))

	code, _, errOut := runCLI(t, "", "check-raw", "zz")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "invalid hex input")
}

func TestHardforkAt(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--number", "0"}, "chainstart"},
		{[]string{"--number", "1150000"}, "homestead"},
		{[]string{"--number", "12965000"}, "london"},
		{[]string{"--number", "15537394", "--merged"}, "merge"},
		{[]string{"--number", "19426587", "--time", "1710338135"}, "cancun"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			code, out, _ := runCLI(t, "", append([]string{"hardfork-at"}, tt.args...)...)
			require.Equal(t, 0, code)
			require.Equal(t, tt.want+"\n", out)
		})
	}

	code, _, errOut := runCLI(t, "", "hardfork-at", "--network", "ropsten")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, `unknown network "ropsten"`)
}

func TestDumpConfig(t *testing.T) {
	code, out, _ := runCLI(t, "", "--hardfork", "london", "dumpconfig", "--chainid", "5", "--http.port", "9545")
	require.Equal(t, 0, code)
	require.Contains(t, out, `Hardfork = "london"`)
	require.Contains(t, out, "ChainID = 5")
	require.Contains(t, out, "Port = 9545")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txguard.toml")
	require.NoError(t, os.WriteFile(path, []byte("Hardfork = \"istanbul\"\n"), 0o600))

	code, out, _ := runCLI(t, "", "--config", path, "check-tx", `{"accessList":[]}`)
	require.Equal(t, 1, code)
	require.True(t, strings.HasPrefix(out, "rejected (code -32602)"))

	// Flags override the file.
	code, out, _ = runCLI(t, "", "--config", path, "--hardfork", "berlin", "check-tx", `{"accessList":[]}`)
	require.Equal(t, 0, code)
	require.Equal(t, "ok\n", out)
}

func TestInvalidFlags(t *testing.T) {
	code, _, errOut := runCLI(t, "", "--hardfork", "atlantis", "check-tx", `{}`)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "unknown hardfork")

	code, _, errOut = runCLI(t, "", "--log.format", "xml", "hardforks")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "unknown log format")
}
