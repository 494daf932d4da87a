package node

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/cors"

	"github.com/eth2030/txguard/core"
	"github.com/eth2030/txguard/core/devchain"
	"github.com/eth2030/txguard/log"
	"github.com/eth2030/txguard/rpc"
)

var (
	ErrNodeRunning = errors.New("node already running")
	ErrNodeStopped = errors.New("node stopped")
)

const (
	initializingState = iota
	runningState
	closedState
)

const shutdownTimeout = 5 * time.Second

// Node is a development provider: an in-memory chain behind a JSON-RPC
// server that validates requests against the configured hardfork.
type Node struct {
	config *Config
	chain  *devchain.Chain
	logger *log.Logger

	rpcHandler *gethrpc.Server
	httpServer *http.Server
	listener   net.Listener

	mu    sync.Mutex
	state int
	stop  chan struct{}
}

// New creates a Node with the given configuration. The chain is created
// immediately but no listener is opened until Start.
func New(config *Config) (*Node, error) {
	if config == nil {
		c := DefaultConfig()
		config = &c
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	n := &Node{
		config: config,
		chain: devchain.New(devchain.Config{
			GasLimit:         config.Chain.GasLimit,
			GenesisTimestamp: config.Chain.GenesisTimestamp,
			Automine:         config.Chain.Automine,
		}),
		logger: log.Default().Module("node"),
		stop:   make(chan struct{}),
	}

	srv, err := rpc.NewServer(&backend{Chain: n.chain, config: config})
	if err != nil {
		return nil, fmt.Errorf("init rpc: %w", err)
	}
	n.rpcHandler = srv
	return n, nil
}

// Start opens the HTTP listener and begins serving JSON-RPC. A node can
// only be started once.
func (n *Node) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case runningState:
		return ErrNodeRunning
	case closedState:
		return ErrNodeStopped
	}

	listener, err := net.Listen("tcp", n.config.HTTPAddr())
	if err != nil {
		return fmt.Errorf("start http: %w", err)
	}
	n.listener = listener

	var handler http.Handler = n.rpcHandler
	if len(n.config.HTTP.CorsDomains) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: n.config.HTTP.CorsDomains,
			AllowedMethods: []string{http.MethodPost, http.MethodGet},
			AllowedHeaders: []string{"*"},
			MaxAge:         600,
		}).Handler(handler)
	}
	timeouts := gethrpc.DefaultHTTPTimeouts
	n.httpServer = &http.Server{
		Handler:           handler,
		ReadTimeout:       timeouts.ReadTimeout,
		ReadHeaderTimeout: timeouts.ReadHeaderTimeout,
		WriteTimeout:      timeouts.WriteTimeout,
		IdleTimeout:       timeouts.IdleTimeout,
	}
	go func() {
		if err := n.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.logger.Error("HTTP server failed", "err", err)
		}
	}()

	n.state = runningState
	n.logger.Info("Provider started",
		"endpoint", n.HTTPEndpoint(),
		"hardfork", n.config.Hardfork,
		"chainid", n.config.ChainID,
		"allowUnlimitedContractSize", n.config.AllowUnlimitedContractSize,
	)
	return nil
}

// Stop shuts down the HTTP server and the RPC handler. Stopping a node
// that was never started closes it without serving.
func (n *Node) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case closedState:
		return nil
	case initializingState:
		n.rpcHandler.Stop()
		n.state = closedState
		close(n.stop)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := n.httpServer.Shutdown(ctx); err != nil {
		n.logger.Warn("HTTP server shutdown failed", "err", err)
	}
	n.rpcHandler.Stop()

	n.state = closedState
	close(n.stop)
	n.logger.Info("Provider stopped")
	return nil
}

// Wait blocks until the node is stopped.
func (n *Node) Wait() {
	<-n.stop
}

// Attach returns an in-process RPC client.
func (n *Node) Attach() *gethrpc.Client {
	return gethrpc.DialInProc(n.rpcHandler)
}

// HTTPEndpoint returns the URL of the JSON-RPC server, or the empty string
// when the node is not listening.
func (n *Node) HTTPEndpoint() string {
	if n.listener == nil {
		return ""
	}
	return "http://" + n.listener.Addr().String()
}

// Chain returns the development chain.
func (n *Node) Chain() *devchain.Chain {
	return n.chain
}

// Config returns the node configuration.
func (n *Node) Config() *Config {
	return n.config
}

// Running reports whether the node is currently running.
func (n *Node) Running() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state == runningState
}

// backend adapts the chain and configuration to rpc.Backend.
type backend struct {
	*devchain.Chain
	config *Config
}

func (b *backend) Hardfork() core.Hardfork          { return b.config.Hardfork }
func (b *backend) AllowUnlimitedContractSize() bool { return b.config.AllowUnlimitedContractSize }
func (b *backend) ChainID() *big.Int                { return b.config.GethChainConfig().ChainID }
