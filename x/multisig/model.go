package multisig

import (
	"encoding/binary"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

const (
	// BucketName is where we store the accounts
	BucketName = "acct"
)

// Account is the state of a multisignature account. The authorized keys
// are kept in the KeyIndex.
type Account struct {
	ID          uint64
	Balance     uint64
	Nonce       uint64
	Threshold   uint32
	Description string
}

var _ orm.Model = (*Account)(nil)

// Validate checks the account can be persisted. The relation between the
// threshold and the number of keys is checked by the controller, which
// owns the key index.
func (a *Account) Validate() error {
	var errs error
	if a.ID == 0 {
		errs = errors.AppendField(errs, "ID", errors.Wrap(errors.ErrEmpty, "id"))
	}
	if a.Threshold < 1 {
		errs = errors.AppendField(errs, "Threshold", errors.Wrap(errors.ErrInvariant, "threshold must be at least 1"))
	}
	return errs
}

// Marshal encodes the account in the protobuf wire format.
func (a *Account) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		Uint64(1, a.ID).
		Uint64(2, a.Balance).
		Uint64(3, a.Nonce).
		Uint32(4, a.Threshold).
		String(5, a.Description).
		Result()
}

// Unmarshal decodes an account.
func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			a.ID, err = d.Uint64()
		case 2:
			a.Balance, err = d.Uint64()
		case 3:
			a.Nonce, err = d.Uint64()
		case 4:
			a.Threshold, err = d.Uint32()
		case 5:
			a.Description, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// AccountKey returns the store key of an account. Big endian encoding keeps
// the byte order of keys equal to the numeric order of ids.
func AccountKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// ParseAccountKey is the reverse of AccountKey.
func ParseAccountKey(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "account id must be 8 bytes, got %d", len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}

// AccountBucket stores accounts keyed by their id.
type AccountBucket struct {
	orm.ModelBucket
}

// NewAccountBucket returns a bucket with the default name.
func NewAccountBucket() AccountBucket {
	return AccountBucket{ModelBucket: orm.NewModelBucket(BucketName)}
}

// GetAccount returns the account with given id or ErrNotFound.
func (b AccountBucket) GetAccount(db msig.ReadOnlyKVStore, id uint64) (*Account, error) {
	var a Account
	if err := b.One(db, AccountKey(id), &a); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "account %d", id)
		}
		return nil, err
	}
	return &a, nil
}

// NextID returns the id the next created account gets: the greatest
// existing id plus one, or 1 for the first account.
func (b AccountBucket) NextID(db msig.ReadOnlyKVStore) (uint64, error) {
	last, err := b.LastKey(db)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 1, nil
	}
	id, err := ParseAccountKey(last)
	if err != nil {
		return 0, errors.Wrap(errors.ErrModel, err.Error())
	}
	if id == ^uint64(0) {
		return 0, errors.Wrap(errors.ErrOverflow, "account id")
	}
	return id + 1, nil
}

// Save stores the account under its id.
func (b AccountBucket) Save(db msig.KVStore, a *Account) error {
	return b.Put(db, AccountKey(a.ID), a)
}
