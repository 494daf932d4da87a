// Package rpc exposes the provider over JSON-RPC using go-ethereum's RPC
// server: the evm_ development methods, a minimal eth_ namespace and the
// txguard_ validation methods.
package rpc

import (
	"fmt"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// APIs returns the services served for backend.
func APIs(backend Backend) []gethrpc.API {
	return []gethrpc.API{
		{Namespace: "evm", Service: NewEvmAPI(backend)},
		{Namespace: "eth", Service: NewEthAPI(backend)},
		{Namespace: "txguard", Service: NewValidationAPI(backend)},
	}
}

// NewServer creates an RPC server with every API registered. The result is
// an http.Handler and can also be dialled in-process.
func NewServer(backend Backend) (*gethrpc.Server, error) {
	srv := gethrpc.NewServer()
	for _, api := range APIs(backend) {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			srv.Stop()
			return nil, fmt.Errorf("register %s API: %w", api.Namespace, err)
		}
	}
	return srv, nil
}
