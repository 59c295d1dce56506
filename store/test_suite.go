package store

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest/assert"
)

// TestSuite provides checks that every CacheableKVStore implementation must
// pass. Package specific tests only pass the store constructor, so the btree
// store and the iavl adapter are held to the same behaviour.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet checks that a cache wrap sees the parent data, hides its own
// writes from the parent until written, and drops them on discard.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := seqKey("acct", 1), []byte("balance=10")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := seqKey("acct", 2), []byte("balance=20")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// a failed operation leaves nothing behind
	k3 := seqKey("acct", 3)
	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(k3, []byte("balance=30")))
	assert.Nil(t, failed.Delete(k))
	failed.Discard()
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k3, nil, false)

	// a successful delete is visible after the write
	ok := base.CacheWrap()
	assert.Nil(t, ok.Delete(k))
	assert.Nil(t, ok.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle
// overwriting values and deleting underlying values
func (s *TestSuite) CacheConflicts(t *testing.T) {
	a, b, c := seqKey("key", 1), seqKey("key", 2), seqKey("key", 3)

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(a, []byte("1")), SetOp(b, []byte("2"))},
			childOps:      []Op{SetOp(a, []byte("11")), SetOp(c, []byte("3")), DelOp(b)},
			parentQueries: []Model{{Key: a, Value: []byte("1")}, {Key: b, Value: []byte("2")}, {Key: c}},
			childQueries:  []Model{{Key: a, Value: []byte("11")}, {Key: b}, {Key: c, Value: []byte("3")}},
		},
		"delete then set again": {
			parentOps:     []Op{SetOp(a, []byte("1"))},
			childOps:      []Op{DelOp(a), SetOp(a, []byte("7"))},
			parentQueries: []Model{{Key: a, Value: []byte("1")}},
			childQueries:  []Model{{Key: a, Value: []byte("7")}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}
			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// IteratorWithConflicts checks ranges that combine parent and child data,
// including shadowed and deleted entries.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	a := Model{Key: seqKey("idx", 1), Value: []byte("a")}
	a2 := Model{Key: a.Key, Value: []byte("a2")}
	b := Model{Key: seqKey("idx", 2), Value: []byte("b")}
	b2 := Model{Key: b.Key, Value: []byte("b2")}
	c := Model{Key: seqKey("idx", 3), Value: []byte("c")}
	d := Model{Key: seqKey("idx", 4), Value: []byte("d")}
	other := Model{Key: seqKey("zzz", 1), Value: []byte("other")}

	cases := map[string]iterCase{
		"iterate in child only": {
			child: []Op{SetOp(a.Key, a.Value), SetOp(b.Key, b.Value), SetOp(c.Key, c.Value)},
			queries: []rangeQuery{
				{nil, nil, false, []Model{a, b, c}},
				{b.Key, c.Key, false, []Model{b}},
				{nil, nil, true, []Model{c, b, a}},
			},
		},
		"iterate over parent only": {
			pre: []Op{SetOp(a.Key, a.Value), SetOp(b.Key, b.Value), SetOp(c.Key, c.Value)},
			queries: []rangeQuery{
				{nil, nil, false, []Model{a, b, c}},
				{b.Key, c.Key, false, []Model{b}},
				{nil, nil, true, []Model{c, b, a}},
			},
		},
		"simple combination": {
			pre:   []Op{SetOp(a.Key, a.Value), SetOp(c.Key, c.Value)},
			child: []Op{SetOp(b.Key, b.Value)},
			queries: []rangeQuery{
				{nil, nil, false, []Model{a, b, c}},
				{nil, nil, true, []Model{c, b, a}},
			},
		},
		"overwritten data shows child data": {
			pre:   []Op{SetOp(a.Key, a.Value), SetOp(b.Key, b.Value), SetOp(c.Key, c.Value)},
			child: []Op{SetOp(a2.Key, a2.Value), SetOp(b2.Key, b2.Value), SetOp(d.Key, d.Value)},
			queries: []rangeQuery{
				{nil, nil, false, []Model{a2, b2, c, d}},
				{b.Key, d.Key, false, []Model{b2, c}},
				{nil, nil, true, []Model{d, c, b2, a2}},
			},
		},
		"deleted data is skipped": {
			pre:   []Op{SetOp(a.Key, a.Value), SetOp(c.Key, c.Value), SetOp(d.Key, d.Value)},
			child: []Op{DelOp(a.Key), DelOp(b.Key), DelOp(d.Key)},
			queries: []rangeQuery{
				{nil, nil, false, []Model{c}},
				{nil, c.Key, false, nil},
				{nil, nil, true, []Model{c}},
			},
		},
		"prefix range excludes other buckets": {
			pre:   []Op{SetOp(a.Key, a.Value), SetOp(other.Key, other.Value)},
			child: []Op{SetOp(d.Key, d.Value)},
			queries: []rangeQuery{
				{[]byte("idx:"), PrefixEnd([]byte("idx:")), false, []Model{a, d}},
				{[]byte("idx:"), PrefixEnd([]byte("idx:")), true, []Model{d, a}},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("want value %q, got %q", val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// seqKey returns a bucket prefixed key with a big endian sequence number.
func seqKey(bucket string, n uint64) []byte {
	key := make([]byte, len(bucket)+1+8)
	copy(key, bucket+":")
	binary.BigEndian.PutUint64(key[len(bucket)+1:], n)
	return key
}

// iterCase is a test case for iteration
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for n, want := range q.expected {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(want.Key, key) {
				t.Fatalf("want key %X at %d, got %X", want.Key, n, key)
			}
			if !bytes.Equal(want.Value, value) {
				t.Fatalf("want value %q at %d, got %q", want.Value, n, value)
			}
		}
		if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("want ErrIteratorDone, got %+v", err)
		}
		iter.Release()
	}
}

// rangeQuery checks the results of iteration
type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}
