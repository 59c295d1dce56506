package msigtest

import "github.com/iov-one/msig"

// Decorate returns a handler that runs d around h.
func Decorate(h msig.Handler, d msig.Decorator) msig.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn msig.Handler
	dc msig.Decorator
}

var _ msig.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
