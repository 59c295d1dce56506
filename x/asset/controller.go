package asset

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Ledger moves value between wallets, the transaction allowance and the
// custody of the multisig engine.
type Ledger struct {
	wallets WalletBucket
	custody CustodyBucket
}

// NewLedger returns a ledger over the default buckets.
func NewLedger() Ledger {
	return Ledger{
		wallets: NewWalletBucket(),
		custody: NewCustodyBucket(),
	}
}

// Deposit claims amount from the allowance of the transaction in flight and
// adds it to the custody.
func (l Ledger) Deposit(ctx msig.Context, db msig.KVStore, amount uint64) error {
	a := getAllowance(ctx)
	if a == nil {
		return errors.Wrap(errors.ErrAmount, "transaction is not funded")
	}
	if a.amount < amount {
		return errors.Wrapf(errors.ErrAmount, "funded %d, need %d", a.amount, amount)
	}
	c, err := l.custody.Load(db)
	if err != nil {
		return err
	}
	if c.Balance+amount < c.Balance {
		return errors.Wrap(errors.ErrOverflow, "custody")
	}
	c.Balance += amount
	if err := l.custody.Save(db, c); err != nil {
		return err
	}
	a.amount -= amount
	return nil
}

// Credit moves amount from the custody into the wallet of dest.
func (l Ledger) Credit(ctx msig.Context, db msig.KVStore, dest msig.PublicKey, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	c, err := l.custody.Load(db)
	if err != nil {
		return err
	}
	if c.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "custody holds %d, need %d", c.Balance, amount)
	}
	w, err := l.wallets.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := w.add(amount); err != nil {
		return err
	}
	c.Balance -= amount
	if err := l.wallets.Save(db, w); err != nil {
		return err
	}
	return l.custody.Save(db, c)
}

// Issue adds new value to a wallet. Only genesis may create value.
func (l Ledger) Issue(db msig.KVStore, dest msig.PublicKey, amount uint64) error {
	w, err := l.wallets.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := w.add(amount); err != nil {
		return err
	}
	return l.wallets.Save(db, w)
}

// Wallet returns the wallet of the key, empty if it never held funds.
func (l Ledger) Wallet(db msig.ReadOnlyKVStore, key msig.PublicKey) (*Wallet, error) {
	return l.wallets.GetOrCreate(db, key)
}

// Custody returns the value held for the multisig engine.
func (l Ledger) Custody(db msig.ReadOnlyKVStore) (uint64, error) {
	c, err := l.custody.Load(db)
	if err != nil {
		return 0, err
	}
	return c.Balance, nil
}

// reserve checks the payer sequence and moves the funded amount out of the
// payer wallet.
func (l Ledger) reserve(db msig.KVStore, f *Funding) error {
	w, err := l.wallets.GetOrCreate(db, f.Payer)
	if err != nil {
		return err
	}
	if w.Sequence != f.Sequence {
		return errors.Wrapf(errors.ErrNonce, "payer sequence %d, got %d", w.Sequence, f.Sequence)
	}
	if err := w.subtract(f.Amount); err != nil {
		return err
	}
	w.Sequence++
	return l.wallets.Save(db, w)
}

// refund returns an unclaimed amount to the payer.
func (l Ledger) refund(db msig.KVStore, payer msig.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return l.Issue(db, payer, amount)
}
