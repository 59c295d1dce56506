package multisig

import (
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/require"
)

// ledgerMock records the calls of the controller and fails them on demand.
type ledgerMock struct {
	err       error
	deposited uint64
	credited  map[msig.PublicKey]uint64
}

func (l *ledgerMock) Deposit(ctx msig.Context, db msig.KVStore, amount uint64) error {
	if l.err != nil {
		return l.err
	}
	l.deposited += amount
	return nil
}

func (l *ledgerMock) Credit(ctx msig.Context, db msig.KVStore, dest msig.PublicKey, amount uint64) error {
	if l.err != nil {
		return l.err
	}
	if l.credited == nil {
		l.credited = make(map[msig.PublicKey]uint64)
	}
	l.credited[dest] += amount
	return nil
}

type fixture struct {
	db     msig.CacheableKVStore
	ledger *ledgerMock
	ctrl   Controller
	privs  []*crypto.PrivateKey
	keys   []msig.PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	privs := msigtest.PrivKeys(4)
	ledger := &ledgerMock{}
	return &fixture{
		db:     store.MemStore(),
		ledger: ledger,
		ctrl:   NewController(ledger, crypto.Ed25519Verifier{}),
		privs:  privs,
		keys:   msigtest.PublicKeys(privs...),
	}
}

func (f *fixture) transfer(id, amount, nonce uint64, receiver msig.PublicKey, signers ...*crypto.PrivateKey) *TransferMsg {
	msg := &TransferMsg{
		AccountID: id,
		Receiver:  receiver,
		Amount:    amount,
		Nonce:     nonce,
		Memo:      "payout",
	}
	msg.Keys, msg.Signature = crypto.SignMultisig(msg.SignBytes(), signers...)
	return msg
}

func (f *fixture) change(id, nonce uint64, changes []Change, signers ...*crypto.PrivateKey) *ChangeAccountMsg {
	msg := &ChangeAccountMsg{
		AccountID: id,
		Changes:   changes,
		Nonce:     nonce,
	}
	msg.Keys, msg.Signature = crypto.SignMultisig(msg.SignBytes(), signers...)
	return msg
}

// requireIndexSymmetry checks that both directions of the key index agree
// for the given accounts and keys.
func requireIndexSymmetry(t *testing.T, f *fixture, ids []uint64, keys []msig.PublicKey) {
	t.Helper()
	for _, id := range ids {
		accountKeys, err := f.ctrl.AccountKeys(f.db, id)
		require.NoError(t, err)
		for _, k := range keys {
			accounts, err := f.ctrl.KeyAccounts(f.db, k)
			require.NoError(t, err)
			inKeys := msig.PublicKeys(accountKeys).Contains(k)
			inAccounts := false
			for _, a := range accounts {
				if a == id {
					inAccounts = true
				}
			}
			require.Equal(t, inKeys, inAccounts, "account %d, key %s", id, k)
		}
	}
}

func requireThresholdInvariant(t *testing.T, f *fixture, id uint64) {
	t.Helper()
	acct, err := f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	keys, err := f.ctrl.AccountKeys(f.db, id)
	require.NoError(t, err)
	require.True(t, acct.Threshold >= 1 && int(acct.Threshold) <= len(keys),
		"threshold %d with %d keys", acct.Threshold, len(keys))
}

func TestCreateAccount(t *testing.T) {
	k := msigtest.PublicKeys(msigtest.PrivKeys(3)...)

	cases := map[string]struct {
		keys      []msig.PublicKey
		threshold uint32
		wantErr   *errors.Error
	}{
		"single key": {
			keys: k[:1], threshold: 1,
		},
		"threshold equal to key count": {
			keys: k, threshold: 3,
		},
		"no keys": {
			keys: nil, threshold: 1, wantErr: errors.ErrInput,
		},
		"zero threshold": {
			keys: k, threshold: 0, wantErr: errors.ErrInput,
		},
		"threshold above key count": {
			keys: k[:2], threshold: 3, wantErr: errors.ErrInput,
		},
		"duplicate keys": {
			keys: []msig.PublicKey{k[0], k[1], k[0]}, threshold: 1, wantErr: errors.ErrInput,
		},
		"empty key": {
			keys: []msig.PublicKey{k[0], {}}, threshold: 1, wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx, events := msigtest.Context()

			id, err := f.ctrl.CreateAccount(ctx, f.db, tc.keys, tc.threshold, "desc")
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				require.Empty(t, events.Events())
				next, err := f.ctrl.accounts.NextID(f.db)
				require.NoError(t, err)
				require.Equal(t, uint64(1), next, "a failed creation must not consume an id")
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint64(1), id)

			acct, err := f.ctrl.Account(f.db, id)
			require.NoError(t, err)
			require.Equal(t, &Account{ID: 1, Threshold: tc.threshold, Description: "desc"}, acct)

			keys, err := f.ctrl.AccountKeys(f.db, id)
			require.NoError(t, err)
			require.Equal(t, msig.PublicKeys(tc.keys).Sorted(), keys)

			require.Equal(t, []msig.Event{CreateAccountEvent{
				AccountID:   1,
				Keys:        tc.keys,
				Threshold:   tc.threshold,
				Description: "desc",
			}}, events.Events())
		})
	}
}

func TestAccountIDsAreSequential(t *testing.T) {
	f := newFixture(t)
	ctx, _ := msigtest.Context()

	for want := uint64(1); want <= 5; want++ {
		id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys[:1], 1, "")
		require.NoError(t, err)
		require.Equal(t, want, id)
	}

	ids, err := f.ctrl.KeyAccounts(f.db, f.keys[0])
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3, 4, 5}, ids)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	ctx, events := msigtest.Context()
	id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
	require.NoError(t, err)
	events.Reset()

	require.NoError(t, f.ctrl.Deposit(ctx, f.db, id, 1000, "funding"))
	acct, err := f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), acct.Balance)
	require.Equal(t, uint64(0), acct.Nonce, "deposit must not change the nonce")
	require.Equal(t, uint64(1000), f.ledger.deposited)
	require.Equal(t, []msig.Event{DepositEvent{AccountID: id, Amount: 1000, Memo: "funding"}}, events.Events())

	err = f.ctrl.Deposit(ctx, f.db, 99, 1, "")
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %+v", err)

	f.ledger.err = errors.ErrAmount.New("no funding")
	err = f.ctrl.Deposit(ctx, f.db, id, 5, "")
	require.True(t, errors.ErrExternal.Is(err), "unexpected error: %+v", err)
	acct, err = f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), acct.Balance)
	require.Len(t, events.Events(), 1)
}

func TestTransferChecksInOrder(t *testing.T) {
	receiver := msigtest.PrivKey("receiver").PublicKey()
	outsider := msigtest.PrivKey("outsider")

	cases := map[string]struct {
		msg     func(f *fixture) *TransferMsg
		wantErr *errors.Error
	}{
		"valid transfer": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 1, receiver, f.privs[0], f.privs[1])
			},
		},
		"unknown account": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(2, 400, 1, receiver, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNotFound,
		},
		"unknown account is reported before an empty receiver": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(2, 400, 1, msig.PublicKey{}, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNotFound,
		},
		"empty receiver": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 1, msig.PublicKey{}, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrInput,
		},
		"amount above balance is reported before a bad nonce": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 1001, 7, receiver, f.privs[0])
			},
			wantErr: errors.ErrAmount,
		},
		"nonce skipping ahead": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 2, receiver, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNonce,
		},
		"nonce zero": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 0, receiver, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNonce,
		},
		"duplicated signer": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 1, receiver, f.privs[0], f.privs[0])
			},
			wantErr: errors.ErrInput,
		},
		"signer not authorized": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 1, receiver, f.privs[0], outsider)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"below threshold": {
			msg: func(f *fixture) *TransferMsg {
				return f.transfer(1, 400, 1, receiver, f.privs[0])
			},
			wantErr: errors.ErrUnauthorized,
		},
		"signature of another message": {
			msg: func(f *fixture) *TransferMsg {
				msg := f.transfer(1, 400, 1, receiver, f.privs[0], f.privs[1])
				msg.Amount = 500
				return msg
			},
			wantErr: errors.ErrUnauthorized,
		},
		"memo is signed": {
			msg: func(f *fixture) *TransferMsg {
				msg := f.transfer(1, 400, 1, receiver, f.privs[0], f.privs[1])
				msg.Memo = "changed"
				return msg
			},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx, events := msigtest.Context()
			id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
			require.NoError(t, err)
			require.NoError(t, f.ctrl.Deposit(ctx, f.db, id, 1000, ""))
			events.Reset()

			msg := tc.msg(f)
			err = f.ctrl.Transfer(ctx, f.db, msg)
			acct, aerr := f.ctrl.Account(f.db, id)
			require.NoError(t, aerr)

			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				require.Equal(t, uint64(1000), acct.Balance)
				require.Equal(t, uint64(0), acct.Nonce)
				require.Empty(t, f.ledger.credited)
				require.Empty(t, events.Events())
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint64(600), acct.Balance)
			require.Equal(t, uint64(1), acct.Nonce)
			require.Equal(t, uint64(400), f.ledger.credited[receiver])
			require.Equal(t, []msig.Event{TransferEvent{
				AccountID: id,
				Keys:      []msig.PublicKey{f.keys[0], f.keys[1]},
				Receiver:  receiver,
				Amount:    400,
				Memo:      "payout",
			}}, events.Events())
		})
	}
}

func TestTransferLedgerFailure(t *testing.T) {
	f := newFixture(t)
	ctx, _ := msigtest.Context()
	id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 1, "")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Deposit(ctx, f.db, id, 10, ""))

	f.ledger.err = errors.ErrOverflow.New("wallet full")
	err = f.ctrl.Transfer(ctx, f.db, f.transfer(id, 10, 1, msigtest.PrivKey("r").PublicKey(), f.privs[0]))
	require.True(t, errors.ErrExternal.Is(err), "unexpected error: %+v", err)

	acct, err := f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(10), acct.Balance)
	require.Equal(t, uint64(0), acct.Nonce)
}

func TestTransferScenario(t *testing.T) {
	f := newFixture(t)
	ctx, _ := msigtest.Context()
	receiver := msigtest.PrivKey("receiver").PublicKey()

	id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Deposit(ctx, f.db, id, 1000, ""))

	msg := f.transfer(id, 400, 1, receiver, f.privs[0], f.privs[1])
	require.NoError(t, f.ctrl.Transfer(ctx, f.db, msg))

	// The very same, still correctly signed, transfer is a replay.
	err = f.ctrl.Transfer(ctx, f.db, msg)
	require.True(t, errors.ErrNonce.Is(err), "unexpected error: %+v", err)

	acct, err := f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(600), acct.Balance)
	require.Equal(t, uint64(1), acct.Nonce)

	// Nonces continue in sequence, any subset reaching the threshold
	// may sign.
	require.NoError(t, f.ctrl.Transfer(ctx, f.db, f.transfer(id, 100, 2, receiver, f.privs[3], f.privs[2])))
	acct, err = f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(500), acct.Balance)
	require.Equal(t, uint64(2), acct.Nonce)
	require.Equal(t, uint64(500), f.ledger.credited[receiver])

	// Deposits in between do not move the nonce.
	require.NoError(t, f.ctrl.Deposit(ctx, f.db, id, 1, ""))
	acct, err = f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(2), acct.Nonce)
}

func TestChangeAccountScenario(t *testing.T) {
	f := newFixture(t)
	ctx, events := msigtest.Context()
	k1, k2, k3, k4 := f.keys[0], f.keys[1], f.keys[2], f.keys[3]

	id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
	require.NoError(t, err)
	events.Reset()

	// Remove K3: 3 keys left for threshold 2.
	msg := f.change(id, 1, []Change{NewRemoveKey(k3)}, f.privs[0], f.privs[1])
	require.NoError(t, f.ctrl.ChangeAccount(ctx, f.db, msg))
	accounts, err := f.ctrl.KeyAccounts(f.db, k3)
	require.NoError(t, err)
	require.Empty(t, accounts)
	require.Equal(t, []msig.Event{ChangeAccountEvent{
		AccountID:   id,
		Removed:     []msig.PublicKey{k3},
		Threshold:   2,
		Description: "ops",
	}}, events.Events())

	// Remove K4: 2 keys left, equal to the threshold.
	msg = f.change(id, 2, []Change{NewRemoveKey(k4)}, f.privs[0], f.privs[1])
	require.NoError(t, f.ctrl.ChangeAccount(ctx, f.db, msg))

	// Removing K2 would leave a single key for threshold 2.
	msg = f.change(id, 3, []Change{NewRemoveKey(k2)}, f.privs[0], f.privs[1])
	err = f.ctrl.ChangeAccount(ctx, f.db, msg)
	require.True(t, errors.ErrInvariant.Is(err), "unexpected error: %+v", err)

	keys, err := f.ctrl.AccountKeys(f.db, id)
	require.NoError(t, err)
	require.Equal(t, msig.PublicKeys{k1, k2}.Sorted(), keys)
	acct, err := f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, uint64(2), acct.Nonce)
	require.Equal(t, uint32(2), acct.Threshold)

	requireIndexSymmetry(t, f, []uint64{id}, f.keys)
	requireThresholdInvariant(t, f, id)
}

func TestChangeAccountSequentialApplication(t *testing.T) {
	newKey := msigtest.PrivKey("new").PublicKey()

	cases := map[string]struct {
		changes       []Change
		wantErr       *errors.Error
		wantKeys      int
		wantThreshold uint32
		wantDesc      string
		wantAdded     []msig.PublicKey
		wantRemoved   int
	}{
		"rotate a key and raise the threshold": {
			changes: []Change{
				NewAddKey(newKey),
				NewRemoveKey(msigtest.PrivKey("key-3").PublicKey()),
				NewSetThreshold(4),
			},
			wantKeys:      4,
			wantThreshold: 4,
			wantDesc:      "ops",
			wantAdded:     []msig.PublicKey{newKey},
			wantRemoved:   1,
		},
		"threshold is checked against the key count at its position": {
			changes: []Change{
				NewSetThreshold(5),
				NewAddKey(newKey),
			},
			wantErr: errors.ErrInvariant,
		},
		"threshold raised after an addition": {
			changes: []Change{
				NewAddKey(newKey),
				NewSetThreshold(5),
			},
			wantKeys:      5,
			wantThreshold: 5,
			wantDesc:      "ops",
			wantAdded:     []msig.PublicKey{newKey},
		},
		"removal is checked against an earlier threshold change": {
			changes: []Change{
				NewSetThreshold(4),
				NewRemoveKey(msigtest.PrivKey("key-3").PublicKey()),
			},
			wantErr: errors.ErrInvariant,
		},
		"zero threshold": {
			changes: []Change{NewSetThreshold(0)},
			wantErr: errors.ErrInput,
		},
		"adding an authorized key": {
			changes: []Change{NewAddKey(msigtest.PrivKey("key-0").PublicKey())},
			wantErr: errors.ErrDuplicate,
		},
		"removing an unknown key": {
			changes: []Change{NewRemoveKey(newKey)},
			wantErr: errors.ErrInput,
		},
		"key added and removed again is no change": {
			changes: []Change{
				NewAddKey(newKey),
				NewRemoveKey(newKey),
				NewSetDescription("treasury"),
			},
			wantKeys:      4,
			wantThreshold: 2,
			wantDesc:      "treasury",
		},
		"no changes only moves the nonce": {
			changes:       nil,
			wantKeys:      4,
			wantThreshold: 2,
			wantDesc:      "ops",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx, events := msigtest.Context()
			id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
			require.NoError(t, err)
			events.Reset()

			msg := f.change(id, 1, tc.changes, f.privs[0], f.privs[1])
			err = f.ctrl.ChangeAccount(ctx, f.db, msg)

			acct, aerr := f.ctrl.Account(f.db, id)
			require.NoError(t, aerr)
			keys, kerr := f.ctrl.AccountKeys(f.db, id)
			require.NoError(t, kerr)
			requireIndexSymmetry(t, f, []uint64{id}, append(f.keys, newKey))
			requireThresholdInvariant(t, f, id)

			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				require.Equal(t, &Account{ID: id, Threshold: 2, Description: "ops"}, acct)
				require.Len(t, keys, 4)
				require.Empty(t, events.Events())
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint64(1), acct.Nonce)
			require.Equal(t, tc.wantThreshold, acct.Threshold)
			require.Equal(t, tc.wantDesc, acct.Description)
			require.Len(t, keys, tc.wantKeys)

			require.Len(t, events.Events(), 1)
			ev := events.Events()[0].(ChangeAccountEvent)
			require.Equal(t, len(tc.wantAdded), len(ev.Added))
			for i := range tc.wantAdded {
				require.Equal(t, tc.wantAdded[i], ev.Added[i])
			}
			require.Len(t, ev.Removed, tc.wantRemoved)
		})
	}
}

func TestChangeAccountAuthorization(t *testing.T) {
	cases := map[string]struct {
		msg     func(f *fixture) *ChangeAccountMsg
		wantErr *errors.Error
	}{
		"unknown account": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(9, 1, nil, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNotFound,
		},
		"unknown account is reported before an invalid change": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(9, 1, []Change{NewAddKey(msig.PublicKey{})}, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNotFound,
		},
		"empty key added": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(1, 1, []Change{NewAddKey(msig.PublicKey{})}, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrInput,
		},
		"empty key removed": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(1, 1, []Change{NewRemoveKey(msig.PublicKey{})}, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrInput,
		},
		"bad nonce": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(1, 2, nil, f.privs[0], f.privs[1])
			},
			wantErr: errors.ErrNonce,
		},
		"duplicated signer": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(1, 1, []Change{NewSetThreshold(1)}, f.privs[0], f.privs[0])
			},
			wantErr: errors.ErrInput,
		},
		"below threshold": {
			msg: func(f *fixture) *ChangeAccountMsg {
				return f.change(1, 1, []Change{NewSetThreshold(1)}, f.privs[0])
			},
			wantErr: errors.ErrUnauthorized,
		},
		"a key cannot sign its own addition": {
			msg: func(f *fixture) *ChangeAccountMsg {
				newKey := msigtest.PrivKey("new")
				return f.change(1, 1, []Change{NewAddKey(newKey.PublicKey())}, f.privs[0], newKey)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"changes are signed": {
			msg: func(f *fixture) *ChangeAccountMsg {
				msg := f.change(1, 1, []Change{NewSetThreshold(1)}, f.privs[0], f.privs[1])
				msg.Changes[0].Threshold = 4
				return msg
			},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx, _ := msigtest.Context()
			_, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
			require.NoError(t, err)

			err = f.ctrl.ChangeAccount(ctx, f.db, tc.msg(f))
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)

			acct, err := f.ctrl.Account(f.db, 1)
			require.NoError(t, err)
			require.Equal(t, uint64(0), acct.Nonce)
		})
	}
}

func TestChangeAccountReplay(t *testing.T) {
	f := newFixture(t)
	ctx, events := msigtest.Context()
	id, err := f.ctrl.CreateAccount(ctx, f.db, f.keys, 2, "ops")
	require.NoError(t, err)

	msg := f.change(id, 1, []Change{NewRemoveKey(f.keys[3]), NewSetDescription("board")}, f.privs[0], f.privs[1])
	require.NoError(t, f.ctrl.ChangeAccount(ctx, f.db, msg))
	events.Reset()

	err = f.ctrl.ChangeAccount(ctx, f.db, msg)
	require.True(t, errors.ErrNonce.Is(err), "unexpected error: %+v", err)
	require.Empty(t, events.Events())

	acct, err := f.ctrl.Account(f.db, id)
	require.NoError(t, err)
	require.Equal(t, &Account{ID: id, Nonce: 1, Threshold: 2, Description: "board"}, acct)
	keys, err := f.ctrl.AccountKeys(f.db, id)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	requireIndexSymmetry(t, f, []uint64{id}, f.keys)
}

func TestQueriesOfUnknownAccount(t *testing.T) {
	f := newFixture(t)

	acct, err := f.ctrl.Account(f.db, 42)
	require.NoError(t, err)
	require.Equal(t, &Account{}, acct)

	var feed msig.SliceFeeder
	require.NoError(t, f.ctrl.FeedAccountKeys(f.db, 42, &feed))
	require.Empty(t, feed.Items)

	require.NoError(t, f.ctrl.FeedKeyAccounts(f.db, f.keys[0], &feed))
	require.Empty(t, feed.Items)
}

func TestFeeders(t *testing.T) {
	f := newFixture(t)
	ctx, _ := msigtest.Context()
	_, err := f.ctrl.CreateAccount(ctx, f.db, f.keys[:2], 1, "")
	require.NoError(t, err)
	_, err = f.ctrl.CreateAccount(ctx, f.db, f.keys[1:], 1, "")
	require.NoError(t, err)

	var keys msig.SliceFeeder
	require.NoError(t, f.ctrl.FeedAccountKeys(f.db, 1, &keys))
	want := msig.PublicKeys(f.keys[:2]).Sorted()
	require.Equal(t, [][]byte{want[0].Bytes(), want[1].Bytes()}, keys.Items)

	var ids msig.SliceFeeder
	require.NoError(t, f.ctrl.FeedKeyAccounts(f.db, f.keys[1], &ids))
	require.Equal(t, [][]byte{AccountKey(1), AccountKey(2)}, ids.Items)

	// A host that stops reading stops the feed.
	var n int
	err = f.ctrl.FeedKeyAccounts(f.db, f.keys[1], msig.FeederFunc(func([]byte) error {
		n++
		return errors.Wrap(errors.ErrHuman, "host gone")
	}))
	require.True(t, errors.ErrHuman.Is(err), "unexpected error: %+v", err)
	require.Equal(t, 1, n)
}
