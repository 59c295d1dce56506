package app

import (
	"reflect"

	"github.com/iov-one/msig"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []msig.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    asset.NewFundingDecorator(),
  ).WithHandler(
    router,
  )
*/
func ChainDecorators(chain ...msig.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain. Nil
// decorators are skipped.
func (d Decorators) Chain(chain ...msig.Decorator) Decorators {
	next := make([]msig.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNilDecorator(d msig.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h msig.Handler) msig.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    msig.Decorator
	next msig.Handler
}

var _ msig.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
