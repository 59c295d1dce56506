package multisig

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
)

// AssetLedger holds the funds of all accounts in custody.
type AssetLedger interface {
	// Deposit pulls amount into custody from the funding of the
	// transaction in flight.
	Deposit(ctx msig.Context, db msig.KVStore, amount uint64) error
	// Credit pushes amount out of custody to the wallet of dest.
	Credit(ctx msig.Context, db msig.KVStore, dest msig.PublicKey, amount uint64) error
}

// Controller implements the account operations. Every operation runs all
// of its checks before it writes anything or calls the ledger, so a failed
// operation never leaves a trace in the store it was given.
type Controller struct {
	accounts AccountBucket
	index    KeyIndex
	ledger   AssetLedger
	verifier crypto.Verifier
}

// NewController returns a controller moving funds on ledger and checking
// signatures with verifier.
func NewController(ledger AssetLedger, verifier crypto.Verifier) Controller {
	return Controller{
		accounts: NewAccountBucket(),
		index:    NewKeyIndex(),
		ledger:   ledger,
		verifier: verifier,
	}
}

// CreateAccount creates an account authorized by keys and returns its id.
// Ids are allocated sequentially starting at 1. A rejected creation does
// not consume an id.
func (c Controller) CreateAccount(ctx msig.Context, db msig.KVStore, keys []msig.PublicKey, threshold uint32, description string) (uint64, error) {
	msg := CreateAccountMsg{Keys: keys, Threshold: threshold, Description: description}
	if err := msg.Validate(); err != nil {
		return 0, err
	}

	id, err := c.accounts.NextID(db)
	if err != nil {
		return 0, errors.Wrap(err, "next id")
	}
	acct := &Account{
		ID:          id,
		Threshold:   threshold,
		Description: description,
	}
	if err := c.accounts.Save(db, acct); err != nil {
		return 0, errors.Wrap(err, "save account")
	}
	for _, k := range keys {
		if err := c.index.Add(db, id, k); err != nil {
			return 0, errors.Wrap(err, "index key")
		}
	}

	msig.EmitEvent(ctx, CreateAccountEvent{
		AccountID:   id,
		Keys:        append([]msig.PublicKey(nil), keys...),
		Threshold:   threshold,
		Description: description,
	})
	return id, nil
}

// checkDeposit returns the account a deposit would fund.
func (c Controller) checkDeposit(db msig.ReadOnlyKVStore, id, amount uint64) (*Account, error) {
	acct, err := c.accounts.GetAccount(db, id)
	if err != nil {
		return nil, err
	}
	if acct.Balance+amount < acct.Balance {
		return nil, errors.Wrapf(errors.ErrOverflow, "account %d balance", id)
	}
	return acct, nil
}

// Deposit funds an existing account. Anybody may deposit, no signature is
// required. The funds are pulled from the asset ledger first, if that
// fails the account is left untouched.
//
// A deposit does not change the account nonce: the nonce protects
// authorized operations only, and a deposit authorizes nothing.
func (c Controller) Deposit(ctx msig.Context, db msig.KVStore, id, amount uint64, memo string) error {
	acct, err := c.checkDeposit(db, id, amount)
	if err != nil {
		return err
	}
	if err := c.ledger.Deposit(ctx, db, amount); err != nil {
		return errors.Wrapf(errors.ErrExternal, "asset ledger deposit: %s", err)
	}
	acct.Balance += amount
	if err := c.accounts.Save(db, acct); err != nil {
		return errors.Wrap(err, "save account")
	}

	msig.EmitEvent(ctx, DepositEvent{AccountID: id, Amount: amount, Memo: memo})
	return nil
}

// authorize verifies that keys may act on acct and that sig is their
// aggregate signature of message. The checks run in this order: keys are
// distinct, every key is authorized, there are at least threshold keys and
// the signature verifies.
func (c Controller) authorize(db msig.ReadOnlyKVStore, acct *Account, keys []msig.PublicKey, sig, message []byte) error {
	if k, ok := msig.PublicKeys(keys).Duplicate(); ok {
		return errors.Wrapf(errors.ErrInput, "key %s presented twice", k)
	}
	for _, k := range keys {
		ok, err := c.index.Has(db, acct.ID, k)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(errors.ErrUnauthorized, "key %s not authorized for account %d", k, acct.ID)
		}
	}
	if len(keys) < int(acct.Threshold) {
		return errors.Wrapf(errors.ErrUnauthorized, "%d keys presented, threshold is %d", len(keys), acct.Threshold)
	}
	if !c.verifier.VerifyMultisig(message, keys, sig) {
		return errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return nil
}

// validateMsg runs the stateless checks of a message acting on an account
// that exists.
func validateMsg(db msig.ReadOnlyKVStore, msg msig.Msg) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return checkMsg(db, msg)
}

func checkNonce(acct *Account, nonce uint64) error {
	if nonce != acct.Nonce+1 {
		return errors.Wrapf(errors.ErrNonce, "account %d expects nonce %d, got %d", acct.ID, acct.Nonce+1, nonce)
	}
	return nil
}

// checkTransfer runs every check of a transfer, in order, without
// modifying anything.
func (c Controller) checkTransfer(db msig.ReadOnlyKVStore, msg *TransferMsg) (*Account, error) {
	acct, err := c.accounts.GetAccount(db, msg.AccountID)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(db, msg); err != nil {
		return nil, err
	}
	if msg.Amount > acct.Balance {
		return nil, errors.Wrapf(errors.ErrAmount, "account %d holds %d, need %d", acct.ID, acct.Balance, msg.Amount)
	}
	if err := checkNonce(acct, msg.Nonce); err != nil {
		return nil, err
	}
	if err := c.authorize(db, acct, msg.Keys, msg.Signature, msg.SignBytes()); err != nil {
		return nil, err
	}
	return acct, nil
}

// Transfer moves funds from an account to the wallet of the receiver on
// the asset ledger.
func (c Controller) Transfer(ctx msig.Context, db msig.KVStore, msg *TransferMsg) error {
	acct, err := c.checkTransfer(db, msg)
	if err != nil {
		return err
	}
	if err := c.ledger.Credit(ctx, db, msg.Receiver, msg.Amount); err != nil {
		return errors.Wrapf(errors.ErrExternal, "asset ledger credit: %s", err)
	}
	acct.Balance -= msg.Amount
	acct.Nonce++
	if err := c.accounts.Save(db, acct); err != nil {
		return errors.Wrap(err, "save account")
	}

	msig.EmitEvent(ctx, TransferEvent{
		AccountID: acct.ID,
		Keys:      append([]msig.PublicKey(nil), msg.Keys...),
		Receiver:  msg.Receiver,
		Amount:    msg.Amount,
		Memo:      msg.Memo,
	})
	return nil
}

// changePlan is the outcome of applying a change list in memory.
type changePlan struct {
	account *Account
	added   msig.PublicKeys
	removed msig.PublicKeys
}

// checkChange runs every check of a reconfiguration and applies the
// changes to an in memory copy of the account, without modifying the
// store.
func (c Controller) checkChange(db msig.ReadOnlyKVStore, msg *ChangeAccountMsg) (*changePlan, error) {
	acct, err := c.accounts.GetAccount(db, msg.AccountID)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(db, msg); err != nil {
		return nil, err
	}
	if err := checkNonce(acct, msg.Nonce); err != nil {
		return nil, err
	}
	if err := c.authorize(db, acct, msg.Keys, msg.Signature, msg.SignBytes()); err != nil {
		return nil, err
	}

	current, err := c.index.AccountKeys(db, acct.ID)
	if err != nil {
		return nil, err
	}
	keys := make(map[msig.PublicKey]struct{}, len(current))
	for _, k := range current {
		keys[k] = struct{}{}
	}

	next := *acct
	for i, ch := range msg.Changes {
		switch ch.Kind {
		case AddKey:
			if err := ch.Key.Validate(); err != nil {
				return nil, errors.Wrapf(err, "change %d", i)
			}
			if _, ok := keys[ch.Key]; ok {
				return nil, errors.Wrapf(errors.ErrDuplicate, "change %d: key %s already authorized", i, ch.Key)
			}
			keys[ch.Key] = struct{}{}
		case RemoveKey:
			if err := ch.Key.Validate(); err != nil {
				return nil, errors.Wrapf(err, "change %d", i)
			}
			remaining := len(keys) - 1
			if remaining < 1 {
				return nil, errors.Wrapf(errors.ErrInvariant, "change %d: cannot remove the last key", i)
			}
			if remaining < int(next.Threshold) {
				return nil, errors.Wrapf(errors.ErrInvariant, "change %d: %d keys left, threshold is %d", i, remaining, next.Threshold)
			}
			if _, ok := keys[ch.Key]; !ok {
				return nil, errors.Wrapf(errors.ErrInput, "change %d: key %s not authorized", i, ch.Key)
			}
			delete(keys, ch.Key)
		case SetThreshold:
			if ch.Threshold < 1 {
				return nil, errors.Wrapf(errors.ErrInput, "change %d: threshold must be at least 1", i)
			}
			if int(ch.Threshold) > len(keys) {
				return nil, errors.Wrapf(errors.ErrInvariant, "change %d: threshold %d greater than %d keys", i, ch.Threshold, len(keys))
			}
			next.Threshold = ch.Threshold
		case SetDescription:
			next.Description = ch.Description
		default:
			return nil, errors.Wrapf(errors.ErrInput, "change %d: unknown kind %d", i, ch.Kind)
		}
	}
	next.Nonce++

	plan := &changePlan{account: &next}
	for _, k := range current {
		if _, ok := keys[k]; !ok {
			plan.removed = append(plan.removed, k)
		}
		delete(keys, k)
	}
	// Whatever is left was not there before.
	for k := range keys {
		plan.added = append(plan.added, k)
	}
	if len(plan.added) > 1 {
		plan.added = plan.added.Sorted()
	}
	return plan, nil
}

// ChangeAccount applies a list of changes to an account. Changes are
// applied one after another and each must leave the account valid, so
// that no intermediate state ever breaks the rules.
func (c Controller) ChangeAccount(ctx msig.Context, db msig.KVStore, msg *ChangeAccountMsg) error {
	plan, err := c.checkChange(db, msg)
	if err != nil {
		return err
	}
	id := plan.account.ID
	for _, k := range plan.removed {
		if err := c.index.Remove(db, id, k); err != nil {
			return errors.Wrap(err, "unindex key")
		}
	}
	for _, k := range plan.added {
		if err := c.index.Add(db, id, k); err != nil {
			return errors.Wrap(err, "index key")
		}
	}
	if err := c.accounts.Save(db, plan.account); err != nil {
		return errors.Wrap(err, "save account")
	}

	msig.EmitEvent(ctx, ChangeAccountEvent{
		AccountID:   id,
		Added:       plan.added,
		Removed:     plan.removed,
		Threshold:   plan.account.Threshold,
		Description: plan.account.Description,
	})
	return nil
}

// Account returns the account with given id. An unknown account is
// returned as an empty account rather than an error.
func (c Controller) Account(db msig.ReadOnlyKVStore, id uint64) (*Account, error) {
	acct, err := c.accounts.GetAccount(db, id)
	if errors.ErrNotFound.Is(err) {
		return &Account{}, nil
	}
	return acct, err
}

// AccountKeys returns the keys authorized by an account, sorted. An
// unknown account has no keys.
func (c Controller) AccountKeys(db msig.ReadOnlyKVStore, id uint64) (msig.PublicKeys, error) {
	return c.index.AccountKeys(db, id)
}

// KeyAccounts returns the ids of the accounts authorizing key, sorted.
func (c Controller) KeyAccounts(db msig.ReadOnlyKVStore, key msig.PublicKey) ([]uint64, error) {
	return c.index.KeyAccounts(db, key)
}

// FeedAccountKeys writes every key authorized by an account to f, one
// item per key in its 32 byte encoding.
func (c Controller) FeedAccountKeys(db msig.ReadOnlyKVStore, id uint64, f msig.Feeder) error {
	return c.index.EachAccountKey(db, id, func(k msig.PublicKey) error {
		return f.Feed(k[:])
	})
}

// FeedKeyAccounts writes the id of every account authorizing key to f, one
// item per account as 8 big endian bytes.
func (c Controller) FeedKeyAccounts(db msig.ReadOnlyKVStore, key msig.PublicKey, f msig.Feeder) error {
	return c.index.EachKeyAccount(db, key, func(id uint64) error {
		return f.Feed(AccountKey(id))
	})
}
