package multisig

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// RegisterQuery registers the account queries:
//
//   /accounts      account id (8 bytes) -> account
//   /account_keys  account id (8 bytes) -> one model per authorized key
//   /key_accounts  public key (32 bytes) -> one model per account id
//
// Account ids are encoded as 8 big endian bytes, both in query data and in
// the values of /key_accounts, so byte order equals numeric order. Use
// ParseAccountKey to read them back as integers.
func RegisterQuery(qr msig.QueryRouter, ctrl Controller) {
	qr.Register("/accounts", accountQuery{ctrl})
	qr.Register("/account_keys", accountKeysQuery{ctrl})
	qr.Register("/key_accounts", keyAccountsQuery{ctrl})
}

func onlyKeyMod(mod string) error {
	if mod != msig.KeyQueryMod {
		return errors.Wrapf(errors.ErrInput, "unsupported mod: %s", mod)
	}
	return nil
}

type accountQuery struct {
	ctrl Controller
}

// Query returns the account, or an empty account if it does not exist.
func (q accountQuery) Query(db msig.ReadOnlyKVStore, mod string, data []byte) ([]msig.Model, error) {
	if err := onlyKeyMod(mod); err != nil {
		return nil, err
	}
	id, err := ParseAccountKey(data)
	if err != nil {
		return nil, err
	}
	acct, err := q.ctrl.Account(db, id)
	if err != nil {
		return nil, err
	}
	raw, err := acct.Marshal()
	if err != nil {
		return nil, err
	}
	return []msig.Model{msig.Pair(q.ctrl.accounts.DBKey(data), raw)}, nil
}

// feedModels collects fed items as models. Each model is keyed by the
// query key followed by the item, so keys are unique and ordered.
type feedModels struct {
	prefix []byte
	models []msig.Model
}

func (f *feedModels) Feed(item []byte) error {
	key := make([]byte, 0, len(f.prefix)+len(item))
	key = append(append(key, f.prefix...), item...)
	value := append([]byte(nil), item...)
	f.models = append(f.models, msig.Pair(key, value))
	return nil
}

type accountKeysQuery struct {
	ctrl Controller
}

// Query streams the keys of an account.
func (q accountKeysQuery) Query(db msig.ReadOnlyKVStore, mod string, data []byte) ([]msig.Model, error) {
	if err := onlyKeyMod(mod); err != nil {
		return nil, err
	}
	id, err := ParseAccountKey(data)
	if err != nil {
		return nil, err
	}
	f := &feedModels{prefix: data}
	if err := q.ctrl.FeedAccountKeys(db, id, f); err != nil {
		return nil, err
	}
	return f.models, nil
}

type keyAccountsQuery struct {
	ctrl Controller
}

// Query streams the ids of the accounts authorizing a key.
func (q keyAccountsQuery) Query(db msig.ReadOnlyKVStore, mod string, data []byte) ([]msig.Model, error) {
	if err := onlyKeyMod(mod); err != nil {
		return nil, err
	}
	key, err := msig.NewPublicKey(data)
	if err != nil {
		return nil, err
	}
	f := &feedModels{prefix: data}
	if err := q.ctrl.FeedKeyAccounts(db, key, f); err != nil {
		return nil, err
	}
	return f.models, nil
}
