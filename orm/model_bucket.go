package orm

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	msig.Persistent
	Validate() error
}

// ModelBucket stores models of a single type, keyed by their primary key.
type ModelBucket struct {
	Bucket
}

// NewModelBucket returns a ModelBucket storing data under "<name>:".
func NewModelBucket(name string) ModelBucket {
	return ModelBucket{Bucket: NewBucket(name)}
}

// One query the database for a single model instance. Lookup is done by the
// primary key. Result is loaded into given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (mb ModelBucket) One(db msig.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := mb.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Put validates and saves given model in the database.
func (mb ModelBucket) Put(db msig.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := mb.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (mb ModelBucket) Delete(db msig.KVStore, key []byte) error {
	ok, err := mb.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	return mb.Bucket.Delete(db, key)
}

// LastKey returns the greatest primary key stored in the bucket, or nil if
// the bucket is empty.
func (mb ModelBucket) LastKey(db msig.ReadOnlyKVStore) ([]byte, error) {
	var last []byte
	err := mb.Scan(db, nil, true, func(key, _ []byte) error {
		last = append([]byte(nil), key...)
		return errors.ErrIteratorDone
	})
	return last, err
}
