package asset

import (
	"context"

	"github.com/iov-one/msig"
)

type contextKey int // local to the asset module

const (
	contextKeyAllowance contextKey = iota
)

// allowance is the value reserved by a funding for the transaction in
// flight. Handlers claim from it through the Ledger.
type allowance struct {
	amount uint64
}

func withAllowance(ctx msig.Context, a *allowance) msig.Context {
	return context.WithValue(ctx, contextKeyAllowance, a)
}

func getAllowance(ctx msig.Context) *allowance {
	a, _ := ctx.Value(contextKeyAllowance).(*allowance)
	return a
}

// Allowance returns the unclaimed funds of the transaction in flight.
func Allowance(ctx msig.Context) uint64 {
	if a := getAllowance(ctx); a != nil {
		return a.amount
	}
	return 0
}
