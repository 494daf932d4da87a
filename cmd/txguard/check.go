package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
	"github.com/urfave/cli/v2"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/core/types"
	"github.com/eth2030/txguard/geth"
	"github.com/eth2030/txguard/provider"
)

var errNoInput = errors.New("no input: pass the request as an argument or on stdin")

// rejectedError reports a request that failed validation. It is printed as
// the command's result rather than as a usage failure.
type rejectedError struct {
	err error
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("rejected (code %d): %v", provider.ErrorCode(e.err), e.err)
}

func (e *rejectedError) Unwrap() error { return e.err }

var checkTxCommand = &cli.Command{
	Name:      "check-tx",
	Usage:     "Validate an eth_sendTransaction request object",
	ArgsUsage: "[<json>]",
	Action: func(ctx *cli.Context) error {
		var tx types.TransactionRequest
		if err := decodeJSONInput(ctx, &tx); err != nil {
			return err
		}
		return checkRequest(ctx, func(p checkParams) error {
			if err := provider.ValidateTransactionAndCallRequest(p.hardfork, &tx); err != nil {
				return err
			}
			return provider.ValidateEIP3860MaxInitcodeSize(p.hardfork, p.unlimited, tx.To, tx.Payload())
		})
	},
}

var checkCallCommand = &cli.Command{
	Name:      "check-call",
	Usage:     "Validate an eth_call request object",
	ArgsUsage: "[<json>]",
	Flags:     []cli.Flag{blockFlag},
	Action: func(ctx *cli.Context) error {
		var call types.CallRequest
		if err := decodeJSONInput(ctx, &call); err != nil {
			return err
		}
		var block *types.BlockSpec
		if raw := ctx.String(blockFlag.Name); raw != "" {
			block = new(types.BlockSpec)
			if err := json.Unmarshal(blockParam(raw), block); err != nil {
				return fmt.Errorf("invalid block parameter: %w", err)
			}
		}
		return checkRequest(ctx, func(p checkParams) error {
			if err := provider.ValidateCallRequest(p.hardfork, &call, block); err != nil {
				return err
			}
			return provider.ValidateEIP3860MaxInitcodeSize(p.hardfork, p.unlimited, call.To, call.Payload())
		})
	},
}

var checkRawCommand = &cli.Command{
	Name:      "check-raw",
	Usage:     "Validate a signed, encoded transaction",
	ArgsUsage: "[<hex>]",
	Action: func(ctx *cli.Context) error {
		input, err := readInput(ctx)
		if err != nil {
			return err
		}
		raw, err := hexutil.Decode(strings.TrimSpace(string(input)))
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}
		tx, err := geth.DecodeSignedTransaction(raw)
		if err != nil {
			return err
		}
		return checkRequest(ctx, func(p checkParams) error {
			if err := provider.ValidateTransactionAndCallRequest(p.hardfork, tx); err != nil {
				return err
			}
			return provider.ValidateEIP3860MaxInitcodeSize(p.hardfork, p.unlimited, tx.Recipient(), tx.Payload())
		})
	},
}

var hardforkAtCommand = &cli.Command{
	Name:  "hardfork-at",
	Usage: "Print the hardfork active at a block of a public network",
	Flags: []cli.Flag{networkFlag, atBlockFlag, atTimeFlag, mergedFlag},
	Action: func(ctx *cli.Context) error {
		var cfg *params.ChainConfig
		switch network := ctx.String(networkFlag.Name); network {
		case "mainnet":
			cfg = params.MainnetChainConfig
		case "sepolia":
			cfg = params.SepoliaChainConfig
		case "hoodi":
			cfg = params.HoodiChainConfig
		default:
			return fmt.Errorf("unknown network %q", network)
		}
		merged := ctx.Bool(mergedFlag.Name) || geth.IsMerged(cfg)
		h := geth.HardforkAt(cfg, ctx.Uint64(atBlockFlag.Name), ctx.Uint64(atTimeFlag.Name), merged)
		fmt.Fprintln(ctx.App.Writer, h)
		return nil
	},
}

type checkParams struct {
	hardfork  core.Hardfork
	unlimited bool
}

// checkRequest runs check against the configured hardfork and prints "ok"
// when the request is admissible.
func checkRequest(ctx *cli.Context, check func(checkParams) error) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if err := check(checkParams{hardfork: cfg.Hardfork, unlimited: cfg.AllowUnlimitedContractSize}); err != nil {
		return &rejectedError{err: err}
	}
	fmt.Fprintln(ctx.App.Writer, "ok")
	return nil
}

// readInput returns the first argument, or all of stdin when there is none.
func readInput(ctx *cli.Context) ([]byte, error) {
	if ctx.Args().Present() {
		return []byte(ctx.Args().First()), nil
	}
	data, err := io.ReadAll(ctx.App.Reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errNoInput
	}
	return data, nil
}

func decodeJSONInput(ctx *cli.Context, v any) error {
	input, err := readInput(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// blockParam lets a bare tag or quantity be passed without JSON quoting.
func blockParam(raw string) []byte {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, `"`) {
		return []byte(raw)
	}
	return []byte(`"` + raw + `"`)
}
