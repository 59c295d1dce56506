package app

import (
	"context"
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/require"
)

// recorder appends its name to a shared log when it runs.
type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Checker) (*msig.CheckResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Check(ctx, db, tx)
}

func (r *recorder) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Deliverer) (*msig.DeliverResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainDecorators(t *testing.T) {
	var calls []string
	var missing *recorder

	h := &msigtest.Handler{}
	stack := ChainDecorators(
		&recorder{name: "a", log: &calls},
		nil,
		missing,
	).Chain(
		&recorder{name: "b", log: &calls},
	).WithHandler(h)

	tx := &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "test/op"}}
	_, err := stack.Check(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)
	_, err = stack.Deliver(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "a", "b"}, calls)
	require.Equal(t, 2, h.CallCount())
}
