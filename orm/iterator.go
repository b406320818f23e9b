package orm

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// queryPrefix returns all key-value pairs stored under keys starting with
// given prefix.
func queryPrefix(db bazaar.ReadOnlyKVStore, prefix []byte) ([]bazaar.Model, error) {
	it, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return consumeIterator(it)
}

// consumeIterator will read all remaining data into an array and release the
// iterator.
func consumeIterator(it bazaar.Iterator) ([]bazaar.Model, error) {
	defer it.Release()

	var res []bazaar.Model
	for {
		switch k, v, err := it.Next(); {
		case err == nil:
			res = append(res, bazaar.Model{Key: k, Value: v})
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// consumeIteratorKeys returns a list of all keys that given iterator returns.
// This function should be used only for iterators when the result size is
// known to be small as all results are kept in memory.
// This function releases the iterator.
func consumeIteratorKeys(it bazaar.Iterator) ([][]byte, error) {
	defer it.Release()

	var keys [][]byte
	for {
		switch k, _, err := it.Next(); {
		case err == nil:
			keys = append(keys, k)
		case errors.ErrIteratorDone.Is(err):
			return keys, nil
		default:
			return keys, err
		}
	}
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)
	// Drop all trailing 0xFF bytes and increment the last remaining one.
	for l := len(end) - 1; l >= 0; l-- {
		if end[l] < 0xFF {
			end[l]++
			return prefix, end[:l+1]
		}
	}
	// Prefix is all 0xFF, there is no upper bound.
	return prefix, nil
}

type failedIterator struct {
	err error
}

var _ bazaar.Iterator = (*failedIterator)(nil)

func (it *failedIterator) Next() ([]byte, []byte, error) {
	return nil, nil, it.err
}

func (failedIterator) Release() {}

type keysIterator struct {
	keys [][]byte
}

var _ bazaar.Iterator = (*keysIterator)(nil)

func (it *keysIterator) Next() ([]byte, []byte, error) {
	if len(it.keys) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	key := it.keys[0]
	it.keys = it.keys[1:]
	return key, nil, nil
}

func (keysIterator) Release() {}
