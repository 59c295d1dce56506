package msigtest

import "github.com/iov-one/msig"

// Handler is a mock implementation of the msig.Handler interface.
//
// Each method call is counted. Set the result and error attributes to
// control what is returned.
type Handler struct {
	checkCall   int
	CheckResult msig.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult msig.DeliverResult
	DeliverErr    error
}

var _ msig.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// HandlerFunc turns a function into a handler used for both Check and
// Deliver. It lets a test act on the context and the store the way a real
// handler would.
type HandlerFunc func(ctx msig.Context, db msig.KVStore, tx msig.Tx) error

var _ msig.Handler = HandlerFunc(nil)

func (fn HandlerFunc) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	if err := fn(ctx, db, tx); err != nil {
		return nil, err
	}
	return &msig.CheckResult{}, nil
}

func (fn HandlerFunc) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	if err := fn(ctx, db, tx); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{}, nil
}
