package asset

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// GenesisWallet is the genesis representation of a funded key.
type GenesisWallet struct {
	Key     msig.PublicKey `json:"key"`
	Balance uint64         `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ msig.Initializer = Initializer{}

// FromGenesis will parse initial wallet info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts msig.Options, db msig.KVStore) error {
	var genesis struct {
		Wallets []GenesisWallet `json:"wallets"`
	}
	if err := opts.ReadOptions("asset", &genesis); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ledger := NewLedger()
	for i, w := range genesis.Wallets {
		if err := w.Key.Validate(); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		if err := ledger.Issue(db, w.Key, w.Balance); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
	}
	return nil
}
