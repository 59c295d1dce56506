package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/store"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB. It knows nothing about the
// stored values.
type Bucket struct {
	name   string
	prefix []byte
}

var _ msig.QueryHandler = Bucket{}

// NewBucket creates a bucket that stores data under "<name>:".
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	res := make([]byte, l+len(key))
	copy(res, b.prefix)
	copy(res[l:], key)
	return res
}

// Get returns the raw value stored under key or nil.
func (b Bucket) Get(db msig.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return raw, nil
}

// Has returns true if a value is stored under key.
func (b Bucket) Has(db msig.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes a raw value under key.
func (b Bucket) Set(db msig.KVStore, key, value []byte) error {
	if err := db.Set(b.DBKey(key), value); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is not
// an error.
func (b Bucket) Delete(db msig.KVStore, key []byte) error {
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Scan calls fn for every entry whose key starts with prefix, in key order
// or in reverse key order. The key passed to fn has the bucket prefix
// removed. Returning ErrIteratorDone from fn stops the scan without error.
func (b Bucket) Scan(db msig.ReadOnlyKVStore, prefix []byte, reverse bool, fn func(key, value []byte) error) error {
	start := b.DBKey(prefix)
	end := store.PrefixEnd(start)

	var (
		it  msig.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Release()

	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if err := fn(key[len(b.prefix):], value); err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return nil
			}
			return err
		}
	}
}

// Register registers this Bucket as a query handler under "/<name>" for
// exact key lookups and "/<name>?prefix" for prefix scans.
func (b Bucket) Register(name string, r msig.QueryRouter) {
	root := "/" + name
	r.Register(root, b)
}

// Query handles queries from the QueryRouter. Returned models carry the
// full database key.
func (b Bucket) Query(db msig.ReadOnlyKVStore, mod string, data []byte) ([]msig.Model, error) {
	switch mod {
	case msig.KeyQueryMod:
		raw, err := b.Get(db, data)
		if err != nil || raw == nil {
			return nil, err
		}
		return []msig.Model{msig.Pair(b.DBKey(data), raw)}, nil
	case msig.PrefixQueryMod:
		var res []msig.Model
		err := b.Scan(db, data, false, func(key, value []byte) error {
			res = append(res, msig.Pair(b.DBKey(key), value))
			return nil
		})
		return res, err
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
