package orm

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Index is a secondary index maintained next to bucket data.
type Index interface {
	bazaar.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db bazaar.KVStore, prev Object, save Object) error

	// Keys returns an iteator that returns all entity keys that were
	// indexed under given value. Keys are returned in ascending order.
	//
	// Values of returned iterator are always nil to optimize for a lazy
	// loading flows and avoid loading into memory values from the database
	// when they might not be needed.
	Keys(db bazaar.ReadOnlyKVStore, value []byte) bazaar.Iterator
}

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given object. Returning
// nil key means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

// compactIndex is an index implementation that stores all indexed entities as
// a set, serialized and stored under single key.
//
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// Or a sorted MultiRef of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex constructs an index
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return NewMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique, refKey)
}

// NewMultiKeyIndex constructs an index with multi key indexer.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     []byte(compactIdxPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
func (i compactIndex) Update(db bazaar.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

// Keys returns all entity keys that were indexed under given value.
func (i compactIndex) Keys(db bazaar.ReadOnlyKVStore, index []byte) bazaar.Iterator {
	val, err := db.Get(i.indexKey(index))
	if err != nil {
		return &failedIterator{err: err}
	}
	if val == nil {
		return &failedIterator{err: errors.ErrIteratorDone}
	}
	if i.unique {
		return &keysIterator{keys: [][]byte{val}}
	}

	var data MultiRef
	if err := proto.Unmarshal(val, &data); err != nil {
		return &failedIterator{err: errors.Wrap(errors.ErrState, err.Error())}
	}
	return &keysIterator{keys: data.Refs}
}

// getPrefix returns all references that have an index that
// begins with a given prefix
func (i compactIndex) getPrefix(db bazaar.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	itr, err := db.Iterator(prefixRange(i.indexKey(prefix)))
	if err != nil {
		return nil, err
	}
	defer itr.Release()

	var data [][]byte
	_, value, err := itr.Next()
	for err == nil {
		if i.unique {
			data = append(data, value)
		} else {
			var tmp MultiRef
			if err := proto.Unmarshal(value, &tmp); err != nil {
				return nil, errors.Wrap(errors.ErrState, err.Error())
			}
			data = append(data, tmp.Refs...)
		}
		_, value, err = itr.Next()
	}
	if !errors.ErrIteratorDone.Is(err) {
		return nil, err
	}
	return data, nil
}

// Query handles queries from the QueryRouter
func (i compactIndex) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	switch mod {
	case bazaar.KeyQueryMod:
		refs, err := consumeIteratorKeys(i.Keys(db, data))
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case bazaar.PrefixQueryMod:
		refs, err := i.getPrefix(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	default:
		return nil, errors.Wrap(errors.ErrInput, "not implemented: "+mod)
	}
}

func (i compactIndex) loadRefs(db bazaar.ReadOnlyKVStore, refs [][]byte) ([]bazaar.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]bazaar.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = bazaar.Model{Key: key, Value: value}
	}
	return res, nil
}

func (i compactIndex) move(db bazaar.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	keysToAdd := subtract(newKeys, oldKeys)
	keysToRemove := subtract(oldKeys, newKeys)

	// check unique constraints first
	if i.unique {
		for _, newKey := range keysToAdd {
			has, err := db.Has(i.indexKey(newKey))
			if err != nil {
				return err
			}
			if has {
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}

	for _, oldKey := range keysToRemove {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	for _, newKey := range keysToAdd {
		if err := i.insert(db, newKey, prev.Key()); err != nil {
			return err
		}
	}
	return nil
}

// subtract returns all elements of minuend that are not in subtrahend.
func subtract(minuend [][]byte, subtrahend [][]byte) [][]byte {
	var r [][]byte
outer:
	for _, m := range minuend {
		for _, s := range subtrahend {
			if bytes.Equal(m, s) {
				continue outer
			}
		}
		r = append(r, m)
	}
	return r
}

func (i compactIndex) remove(db bazaar.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		// if something else was here, don't delete
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		return db.Delete(key)
	}

	var data MultiRef
	if err := proto.Unmarshal(cur, &data); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	if len(data.Refs) == 0 {
		return db.Delete(key)
	}
	save, err := proto.Marshal(&data)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(key, save)
}

func (i compactIndex) insert(db bazaar.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.indexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	var data MultiRef
	if cur != nil {
		if err := proto.Unmarshal(cur, &data); err != nil {
			return errors.Wrap(errors.ErrState, err.Error())
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	save, err := proto.Marshal(&data)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(key, save)
}
