package multisig

import (
	"context"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/gconf"
)

// GenesisAccount is the genesis representation of an account.
type GenesisAccount struct {
	Keys        []msig.PublicKey `json:"keys"`
	Threshold   uint32           `json:"threshold"`
	Description string           `json:"description"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct {
	Ctrl Controller
}

var _ msig.Initializer = Initializer{}

// FromGenesis stores the configuration and creates the accounts listed in
// the genesis, in order, so they get ids 1, 2, ...
func (i Initializer) FromGenesis(opts msig.Options, db msig.KVStore) error {
	conf := DefaultConfiguration()
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if errors.ErrNotFound.Is(err) {
		err = gconf.Save(db, packageName, &conf)
	}
	if err != nil {
		return errors.Wrap(err, "configuration")
	}

	var genesis struct {
		Accounts []GenesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions("multisig", &genesis); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ctx := context.Background()
	for n, a := range genesis.Accounts {
		msg := CreateAccountMsg{Keys: a.Keys, Threshold: a.Threshold, Description: a.Description}
		if err := conf.check(&msg); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if _, err := i.Ctrl.CreateAccount(ctx, db, a.Keys, a.Threshold, a.Description); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
