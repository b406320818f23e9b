package store

import (
	"bytes"

	"github.com/iov-one/bazaar/errors"
)

// itemIter combines a snapshot of cached btree items with the iterator of
// the backing store. Cached values take precedence and deleted items hide
// the parent entries with the same key.
type itemIter struct {
	items   []keyer
	idx     int
	reverse bool

	parent Iterator
	// peeked parent entry, valid if hasPeek is set
	pk, pv  []byte
	hasPeek bool
	done    bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next entry in the iteration order.
func (i *itemIter) Next() ([]byte, []byte, error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		if i.idx >= len(i.items) {
			if !i.hasPeek {
				return nil, nil, errors.ErrIteratorDone
			}
			return i.takeParent()
		}

		item := i.items[i.idx]
		if i.hasPeek {
			cmp := bytes.Compare(item.Key(), i.pk)
			if i.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				return i.takeParent()
			}
			if cmp == 0 {
				// Cached entry overwrites the parent.
				i.hasPeek = false
			}
		}

		i.idx++
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted item, continue with the next one
	}
}

func (i *itemIter) peekParent() error {
	if i.hasPeek || i.done {
		return nil
	}
	k, v, err := i.parent.Next()
	switch {
	case err == nil:
		i.pk, i.pv, i.hasPeek = k, v, true
		return nil
	case errors.ErrIteratorDone.Is(err):
		i.done = true
		return nil
	default:
		return err
	}
}

func (i *itemIter) takeParent() ([]byte, []byte, error) {
	i.hasPeek = false
	return i.pk, i.pv, nil
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
