package asset

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

const (
	// BucketWallets is where wallets are stored, keyed by public key.
	BucketWallets = "wallet"
	// BucketCustody holds the custody singleton.
	BucketCustody = "custody"
)

var custodyKey = []byte("multisig")

// Wallet is the balance and replay protection sequence of a key.
type Wallet struct {
	Key      msig.PublicKey
	Balance  uint64
	Sequence uint64
}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet belongs to a key.
func (w *Wallet) Validate() error {
	return errors.Wrap(w.Key.Validate(), "key")
}

// Marshal encodes the wallet in the protobuf wire format.
func (w *Wallet) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		Bytes(1, w.Key[:]).
		Uint64(2, w.Balance).
		Uint64(3, w.Sequence).
		Result()
}

// Unmarshal decodes a wallet.
func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				w.Key, err = msig.NewPublicKey(b)
			}
		case 2:
			w.Balance, err = d.Uint64()
		case 3:
			w.Sequence, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// add increases the balance, failing on overflow.
func (w *Wallet) add(amount uint64) error {
	if w.Balance+amount < w.Balance {
		return errors.Wrapf(errors.ErrOverflow, "wallet %s", w.Key)
	}
	w.Balance += amount
	return nil
}

// subtract decreases the balance, failing if the balance is too low.
func (w *Wallet) subtract(amount uint64) error {
	if amount > w.Balance {
		return errors.Wrapf(errors.ErrAmount, "wallet %s holds %d, need %d", w.Key, w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// Custody is the value held by the ledger on behalf of the multisig
// engine.
type Custody struct {
	Balance uint64
}

var _ orm.Model = (*Custody)(nil)

// Validate always passes, any balance is valid.
func (c *Custody) Validate() error {
	return nil
}

// Marshal encodes the custody in the protobuf wire format.
func (c *Custody) Marshal() ([]byte, error) {
	return orm.NewEncoder().Uint64(1, c.Balance).Result()
}

// Unmarshal decodes a custody.
func (c *Custody) Unmarshal(raw []byte) error {
	*c = Custody{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			c.Balance, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// WalletBucket stores wallets keyed by the raw public key.
type WalletBucket struct {
	orm.ModelBucket
}

// NewWalletBucket returns a bucket with the default name.
func NewWalletBucket() WalletBucket {
	return WalletBucket{ModelBucket: orm.NewModelBucket(BucketWallets)}
}

// GetOrCreate returns the wallet of the key. A key that never held funds
// gets an empty wallet.
func (b WalletBucket) GetOrCreate(db msig.ReadOnlyKVStore, key msig.PublicKey) (*Wallet, error) {
	var w Wallet
	err := b.One(db, key[:], &w)
	switch {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Key: key}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet under its key.
func (b WalletBucket) Save(db msig.KVStore, w *Wallet) error {
	return b.Put(db, w.Key[:], w)
}

// CustodyBucket stores the custody singleton.
type CustodyBucket struct {
	orm.ModelBucket
}

// NewCustodyBucket returns a bucket with the default name.
func NewCustodyBucket() CustodyBucket {
	return CustodyBucket{ModelBucket: orm.NewModelBucket(BucketCustody)}
}

// Load returns the custody, empty if nothing was ever deposited.
func (b CustodyBucket) Load(db msig.ReadOnlyKVStore) (*Custody, error) {
	var c Custody
	if err := b.One(db, custodyKey, &c); err != nil && !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	return &c, nil
}

// Save stores the custody.
func (b CustodyBucket) Save(db msig.KVStore, c *Custody) error {
	return b.Put(db, custodyKey, c)
}
