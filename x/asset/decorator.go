package asset

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
)

//----------------- FundingDecorator ----------------
//
// This is just a binding from the functionality into the
// Application stack, not much business logic here.

// FundingDecorator verifies the funding section of a transaction and makes
// the funded amount available to the handler. Whatever the handler does
// not claim goes back to the payer.
type FundingDecorator struct {
	ledger   Ledger
	verifier crypto.Verifier
}

var _ msig.Decorator = FundingDecorator{}

// NewFundingDecorator returns a decorator verifying ed25519 signatures.
func NewFundingDecorator() FundingDecorator {
	return FundingDecorator{
		ledger:   NewLedger(),
		verifier: crypto.Ed25519Verifier{},
	}
}

// Check verifies and reserves the funding before calling down the stack.
func (d FundingDecorator) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Checker) (*msig.CheckResult, error) {
	f, err := d.fund(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return next.Check(ctx, db, tx)
	}

	a := &allowance{amount: f.Amount}
	res, err := next.Check(withAllowance(ctx, a), db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.ledger.refund(db, f.Payer, a.amount); err != nil {
		return nil, errors.Wrap(err, "refund")
	}
	return res, nil
}

// Deliver verifies and reserves the funding before calling down the stack.
func (d FundingDecorator) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx, next msig.Deliverer) (*msig.DeliverResult, error) {
	f, err := d.fund(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return next.Deliver(ctx, db, tx)
	}

	a := &allowance{amount: f.Amount}
	res, err := next.Deliver(withAllowance(ctx, a), db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.ledger.refund(db, f.Payer, a.amount); err != nil {
		return nil, errors.Wrap(err, "refund")
	}
	return res, nil
}

// fund returns nil if the transaction carries no funding.
func (d FundingDecorator) fund(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*Funding, error) {
	ftx, ok := tx.(FundedTx)
	if !ok {
		return nil, nil
	}
	f := ftx.GetFunding()
	if f == nil {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "funding")
	}

	signBytes, err := ftx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	toSign, err := BuildSignBytes(signBytes, msig.GetChainID(ctx), f)
	if err != nil {
		return nil, err
	}
	if !d.verifier.VerifyMultisig(toSign, []msig.PublicKey{f.Payer}, f.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid funding signature")
	}
	if err := d.ledger.reserve(db, f); err != nil {
		return nil, errors.Wrap(err, "cannot reserve funds")
	}
	msig.GetLogger(ctx).Debug("funded", "payer", f.Payer.String(), "amount", f.Amount)
	return f, nil
}
