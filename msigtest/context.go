package msigtest

import (
	"context"

	"github.com/iov-one/msig"
)

// ChainID is the chain the test context runs on.
const ChainID = "msigtest-chain"

// Context returns a context with chain id, height and an event buffer set,
// as the application would prepare it for a transaction.
func Context() (msig.Context, *msig.EventBuffer) {
	events := &msig.EventBuffer{}
	ctx := context.Background()
	ctx = msig.WithChainID(ctx, ChainID)
	ctx = msig.WithHeight(ctx, 1)
	ctx = msig.WithEventSink(ctx, events)
	return ctx, events
}
