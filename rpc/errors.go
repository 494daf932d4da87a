package rpc

import "github.com/eth2030/txguard/provider"

// codedError attaches a JSON-RPC error code to an error so that
// go-ethereum's RPC server reports it instead of its generic default.
type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string  { return e.err.Error() }
func (e *codedError) ErrorCode() int { return e.code }
func (e *codedError) Unwrap() error  { return e.err }

// wrapError maps err to its provider error code.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: provider.ErrorCode(err)}
}
