package multisig

import (
	"encoding/binary"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

const (
	bucketAccountKeys = "akeys"
	bucketKeyAccounts = "kaccts"
)

var present = []byte{1}

// KeyIndex maintains which keys an account authorizes and which accounts
// authorize a key. Both directions are stored as key sets in their own
// bucket and are always updated together:
//
//   akeys:<id><key>   for every key authorized by account id
//   kaccts:<key><id>  for every account id authorizing key
//
// Iteration over either direction is ordered by bytes.
type KeyIndex struct {
	accountKeys orm.Bucket
	keyAccounts orm.Bucket
}

// NewKeyIndex returns an index over the default buckets.
func NewKeyIndex() KeyIndex {
	return KeyIndex{
		accountKeys: orm.NewBucket(bucketAccountKeys),
		keyAccounts: orm.NewBucket(bucketKeyAccounts),
	}
}

func accountKeyEntry(id uint64, key msig.PublicKey) []byte {
	e := make([]byte, 8+msig.PublicKeyLength)
	binary.BigEndian.PutUint64(e, id)
	copy(e[8:], key[:])
	return e
}

func keyAccountEntry(key msig.PublicKey, id uint64) []byte {
	e := make([]byte, msig.PublicKeyLength+8)
	copy(e, key[:])
	binary.BigEndian.PutUint64(e[msig.PublicKeyLength:], id)
	return e
}

// Add authorizes key for account id in both directions.
func (x KeyIndex) Add(db msig.KVStore, id uint64, key msig.PublicKey) error {
	if err := x.accountKeys.Set(db, accountKeyEntry(id, key), present); err != nil {
		return err
	}
	return x.keyAccounts.Set(db, keyAccountEntry(key, id), present)
}

// Remove revokes key for account id in both directions.
func (x KeyIndex) Remove(db msig.KVStore, id uint64, key msig.PublicKey) error {
	if err := x.accountKeys.Delete(db, accountKeyEntry(id, key)); err != nil {
		return err
	}
	return x.keyAccounts.Delete(db, keyAccountEntry(key, id))
}

// Has returns true if key is authorized for account id.
func (x KeyIndex) Has(db msig.ReadOnlyKVStore, id uint64, key msig.PublicKey) (bool, error) {
	return x.accountKeys.Has(db, accountKeyEntry(id, key))
}

// EachAccountKey calls fn for every key authorized by account id, in byte
// order. Returning errors.ErrIteratorDone from fn stops early.
func (x KeyIndex) EachAccountKey(db msig.ReadOnlyKVStore, id uint64, fn func(msig.PublicKey) error) error {
	return x.accountKeys.Scan(db, AccountKey(id), false, func(entry, _ []byte) error {
		key, err := msig.NewPublicKey(entry[8:])
		if err != nil {
			return errors.Wrap(errors.ErrModel, err.Error())
		}
		return fn(key)
	})
}

// EachKeyAccount calls fn for every account id authorizing key, in
// ascending order. Returning errors.ErrIteratorDone from fn stops early.
func (x KeyIndex) EachKeyAccount(db msig.ReadOnlyKVStore, key msig.PublicKey, fn func(uint64) error) error {
	return x.keyAccounts.Scan(db, key[:], false, func(entry, _ []byte) error {
		id, err := ParseAccountKey(entry[msig.PublicKeyLength:])
		if err != nil {
			return errors.Wrap(errors.ErrModel, err.Error())
		}
		return fn(id)
	})
}

// AccountKeys returns all keys authorized by account id, sorted.
func (x KeyIndex) AccountKeys(db msig.ReadOnlyKVStore, id uint64) (msig.PublicKeys, error) {
	var keys msig.PublicKeys
	err := x.EachAccountKey(db, id, func(k msig.PublicKey) error {
		keys = append(keys, k)
		return nil
	})
	return keys, err
}

// KeyAccounts returns the ids of all accounts authorizing key, sorted.
func (x KeyIndex) KeyAccounts(db msig.ReadOnlyKVStore, key msig.PublicKey) ([]uint64, error) {
	var ids []uint64
	err := x.EachKeyAccount(db, key, func(id uint64) error {
		ids = append(ids, id)
		return nil
	})
	return ids, err
}
