package app

import (
	"context"
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	h := &msigtest.Handler{}
	r.Handle("test/op", h)

	db := store.MemStore()
	ctx := context.Background()
	tx := &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "test/op"}}

	_, err := r.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx)
	require.NoError(t, err)
	require.Equal(t, 1, h.CheckCallCount())
	require.Equal(t, 1, h.DeliverCallCount())

	unknown := &msigtest.Tx{Msg: &msigtest.Msg{RoutePath: "test/other"}}
	_, err = r.Check(ctx, db, unknown)
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)
	_, err = r.Deliver(ctx, db, &msigtest.Tx{})
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)

	require.Panics(t, func() { r.Handle("test/op", h) })
	require.Panics(t, func() { r.Handle("with space", h) })
}
