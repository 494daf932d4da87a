// Command txguard runs a development JSON-RPC provider that rejects
// requests the configured hardfork could not have accepted, and offers
// offline checks for single requests.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/log"
	"github.com/eth2030/txguard/node"
)

var (
	version = "v0.1.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	if err := app.Run(args); err != nil {
		var rejected *rejectedError
		if errors.As(err, &rejected) {
			fmt.Fprintln(stdout, rejected.Error())
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "txguard",
		Usage:     "hardfork-aware request validation for Ethereum development networks",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags,
		// Errors are reported by run so that the app never exits the process.
		ExitErrHandler: func(*cli.Context, error) {},
		Before: func(ctx *cli.Context) error {
			return setupLogging(ctx, stderr)
		},
		Commands: []*cli.Command{
			serveCommand,
			checkTxCommand,
			checkCallCommand,
			checkRawCommand,
			hardforksCommand,
			hardforkAtCommand,
			dumpConfigCommand,
		},
	}
}

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Run the JSON-RPC provider",
	Flags:  serveFlags,
	Action: serve,
}

var dumpConfigCommand = &cli.Command{
	Name:  "dumpconfig",
	Usage: "Print the effective configuration as TOML",
	Flags: serveFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		return node.WriteConfig(ctx.App.Writer, cfg)
	},
}

var hardforksCommand = &cli.Command{
	Name:  "hardforks",
	Usage: "List the supported hardforks in activation order",
	Action: func(ctx *cli.Context) error {
		for _, h := range core.AllHardforks() {
			fmt.Fprintln(ctx.App.Writer, h)
		}
		return nil
	},
}

func serve(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	if err := n.Start(); err != nil {
		return err
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		log.Info("Got interrupt, shutting down...")
		n.Stop()
	}()

	n.Wait()
	return nil
}

// makeConfig builds the node configuration from defaults, the optional
// config file and command line overrides, in that order.
func makeConfig(ctx *cli.Context) (*node.Config, error) {
	cfg := node.DefaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := node.LoadConfig(file, &cfg); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet(hardforkFlag.Name) {
		h, err := core.ParseHardfork(ctx.String(hardforkFlag.Name))
		if err != nil {
			return nil, err
		}
		cfg.Hardfork = h
	}
	if ctx.IsSet(allowUnlimitedContractSizeFlag.Name) {
		cfg.AllowUnlimitedContractSize = ctx.Bool(allowUnlimitedContractSizeFlag.Name)
	}
	if ctx.IsSet(chainIDFlag.Name) {
		cfg.ChainID = ctx.Uint64(chainIDFlag.Name)
	}
	if ctx.IsSet(gasLimitFlag.Name) {
		cfg.Chain.GasLimit = ctx.Uint64(gasLimitFlag.Name)
	}
	if ctx.IsSet(noAutomineFlag.Name) {
		cfg.Chain.Automine = !ctx.Bool(noAutomineFlag.Name)
	}
	if ctx.IsSet(httpAddrFlag.Name) {
		cfg.HTTP.Host = ctx.String(httpAddrFlag.Name)
	}
	if ctx.IsSet(httpPortFlag.Name) {
		cfg.HTTP.Port = ctx.Int(httpPortFlag.Name)
	}
	if ctx.IsSet(httpCorsDomainFlag.Name) {
		cfg.HTTP.CorsDomains = ctx.StringSlice(httpCorsDomainFlag.Name)
	}
	if ctx.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = ctx.String(logFormatFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setupLogging installs the default logger. Verbosity on the command line
// takes precedence over the configured level.
func setupLogging(ctx *cli.Context, stderr io.Writer) error {
	cfg := node.DefaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := node.LoadConfig(file, &cfg); err != nil {
			return err
		}
	}
	if ctx.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = ctx.String(logFormatFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}

	var level slog.Level
	if ctx.IsSet(verbosityFlag.Name) {
		level = log.VerbosityToLevel(ctx.Int(verbosityFlag.Name))
	} else {
		lvl, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		level = lvl
	}

	out := stderr
	if cfg.Log.File != "" {
		out = log.FileWriter(cfg.Log.File, cfg.Log.MaxSizeMB)
	}
	handler, err := log.NewHandler(out, level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log.SetDefault(log.NewWithHandler(handler))
	return nil
}
