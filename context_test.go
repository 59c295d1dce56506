package msig

import (
	"context"
	"testing"

	"github.com/iov-one/msig/msigtest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	_, ok := GetHeight(bg)
	assert.Equal(t, false, ok)
	assert.Panics(t, func() { GetChainID(bg) })
	assert.Equal(t, DefaultLogger, GetLogger(bg))

	ctx := WithHeight(bg, 7)
	ctx = WithChainID(ctx, "test-chain")
	height, ok := GetHeight(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), height)
	assert.Equal(t, "test-chain", GetChainID(ctx))

	assert.Panics(t, func() { WithHeight(ctx, 8) })
	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
	assert.Panics(t, func() { WithChainID(bg, "no") })

	logger := log.NewNopLogger().With("module", "test")
	ctx = WithLogger(ctx, logger)
	assert.Equal(t, logger, GetLogger(ctx))
	ctx = WithLogInfo(ctx, "account", 1)
	assert.Equal(t, true, GetLogger(ctx) != nil)
}
