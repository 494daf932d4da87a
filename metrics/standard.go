package metrics

import "strconv"

// Pre-defined provider metrics. All of them live in DefaultRegistry.
var (
	// ChainHeight tracks the latest block number of the development chain.
	ChainHeight = DefaultRegistry.Gauge("chain.height")
	// BlocksMined counts blocks appended to the development chain.
	BlocksMined = DefaultRegistry.Counter("chain.blocks_mined")

	// RequestsAccepted counts requests that passed every admission check.
	RequestsAccepted = DefaultRegistry.Counter("validation.accepted")
	// RequestsRejected counts requests that failed an admission check.
	RequestsRejected = DefaultRegistry.Counter("validation.rejected")
)

// RejectedWithCode returns the counter of rejections reported with the given
// JSON-RPC error code.
func RejectedWithCode(code int) *Counter {
	return DefaultRegistry.Counter("validation.rejected." + strconv.Itoa(code))
}
