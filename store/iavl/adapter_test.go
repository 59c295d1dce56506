package iavl

import (
	"testing"

	"github.com/iov-one/msig/msigtest/assert"
	"github.com/iov-one/msig/store"
)

// makeTreeStore exposes the working tree of a fresh in-memory commit store,
// so the suite writes straight into iavl and reads back through it.
func makeTreeStore() (store.CacheableKVStore, func()) {
	commit := MockCommitStore()
	return store.BTreeCacheable{KVStore: adapter{tree: commit.tree}}, func() {}
}

func TestCommitStoreSuite(t *testing.T) {
	suite := store.NewTestSuite(makeTreeStore)
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("iterator with conflicts", suite.IteratorWithConflicts)
}

func TestCommitVersions(t *testing.T) {
	commit := MockCommitStore()

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("acct:1"), []byte("one")))
	assert.Nil(t, cache.Write())

	first, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)

	got, err := commit.Get([]byte("acct:1"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), got)

	// a discarded cache does not change the next app hash
	discarded := commit.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("acct:2"), []byte("two")))
	discarded.Discard()

	second, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, first.Hash, second.Hash)
}
