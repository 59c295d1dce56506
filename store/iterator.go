package store

import (
	"bytes"

	"github.com/iov-one/msig/errors"
)

// mergeIterator joins the cached items of a cache wrap with the iterator
// of its parent, taking into consideration overwrites and deletes.
// Both sources must be sorted in the same direction.
type mergeIterator struct {
	items     []keyer
	idx       int
	parent    Iterator
	ascending bool

	// current, not yet returned, value of the parent
	pKey, pValue []byte
	pDone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.advanceParent(); err != nil {
		it.Release()
		return nil, err
	}
	return it, nil
}

func (it *mergeIterator) advanceParent() error {
	if it.pDone {
		return nil
	}
	k, v, err := it.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			it.pDone = true
			it.pKey, it.pValue = nil, nil
			return nil
		}
		return err
	}
	it.pKey, it.pValue = k, v
	return nil
}

// Next returns the next visible key-value pair, skipping deleted entries.
func (it *mergeIterator) Next() (key, value []byte, err error) {
	for {
		hasItem := it.idx < len(it.items)
		switch {
		case !hasItem && it.pDone:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merge iterator")
		case !hasItem:
			k, v := it.pKey, it.pValue
			if err := it.advanceParent(); err != nil {
				return nil, nil, err
			}
			return k, v, nil
		}

		item := it.items[it.idx]
		if !it.pDone {
			cmp := bytes.Compare(it.pKey, item.Key())
			if !it.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				// parent comes first
				k, v := it.pKey, it.pValue
				if err := it.advanceParent(); err != nil {
					return nil, nil, err
				}
				return k, v, nil
			}
			if cmp == 0 {
				// cached item shadows the parent value
				if err := it.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		it.idx++
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted item, keep looking
	}
}

// Release releases the Iterator and its parent.
func (it *mergeIterator) Release() {
	it.parent.Release()
	it.items = nil
}
