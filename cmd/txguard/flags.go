package main

import (
	"github.com/urfave/cli/v2"
)

const (
	categoryProvider = "PROVIDER"
	categoryHTTP     = "HTTP"
	categoryLogging  = "LOGGING"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: categoryProvider,
	}
	hardforkFlag = &cli.StringFlag{
		Name:     "hardfork",
		Usage:    "Hardfork to validate requests against (e.g. berlin, london, cancun)",
		EnvVars:  []string{"TXGUARD_HARDFORK"},
		Category: categoryProvider,
	}
	allowUnlimitedContractSizeFlag = &cli.BoolFlag{
		Name:     "allow-unlimited-contract-size",
		Usage:    "Disable the EIP-3860 init code size limit",
		Category: categoryProvider,
	}
	chainIDFlag = &cli.Uint64Flag{
		Name:     "chainid",
		Usage:    "Chain id reported by eth_chainId",
		Category: categoryProvider,
	}
	gasLimitFlag = &cli.Uint64Flag{
		Name:     "gaslimit",
		Usage:    "Initial block gas limit",
		Category: categoryProvider,
	}
	noAutomineFlag = &cli.BoolFlag{
		Name:     "no-automine",
		Usage:    "Start with automatic mining disabled",
		Category: categoryProvider,
	}

	httpAddrFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP-RPC server listening interface",
		Category: categoryHTTP,
	}
	httpPortFlag = &cli.IntFlag{
		Name:     "http.port",
		Usage:    "HTTP-RPC server listening port",
		Category: categoryHTTP,
	}
	httpCorsDomainFlag = &cli.StringSliceFlag{
		Name:     "http.corsdomain",
		Usage:    "Origins from which to accept cross origin requests",
		Category: categoryHTTP,
	}

	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Category: categoryLogging,
	}
	logFormatFlag = &cli.StringFlag{
		Name:     "log.format",
		Usage:    "Log format to use (terminal or json)",
		Category: categoryLogging,
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to a rotated file instead of stderr",
		Category: categoryLogging,
	}

	blockFlag = &cli.StringFlag{
		Name:  "block",
		Usage: "Block parameter as JSON: a tag, a quantity or an EIP-1898 object",
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "Network whose fork schedule to use (mainnet, sepolia, hoodi)",
		Value: "mainnet",
	}
	atBlockFlag = &cli.Uint64Flag{
		Name:  "number",
		Usage: "Block number",
	}
	atTimeFlag = &cli.Uint64Flag{
		Name:  "time",
		Usage: "Block timestamp",
	}
	mergedFlag = &cli.BoolFlag{
		Name:  "merged",
		Usage: "Whether the block is past the merge",
	}
)

// globalFlags are accepted by every command.
var globalFlags = []cli.Flag{
	configFileFlag,
	hardforkFlag,
	allowUnlimitedContractSizeFlag,
	verbosityFlag,
	logFormatFlag,
	logFileFlag,
}

// serveFlags configure the JSON-RPC provider.
var serveFlags = []cli.Flag{
	chainIDFlag,
	gasLimitFlag,
	noAutomineFlag,
	httpAddrFlag,
	httpPortFlag,
	httpCorsDomainFlag,
}
