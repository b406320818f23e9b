package orm

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{})

	_, err := b.Put(db, []byte("c1"), &Counter{Count: 1})
	assert.Nil(t, err)

	var c1 Counter
	assert.Nil(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)

	assert.Nil(t, b.Has(db, []byte("c1")))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("unknown")))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, nil))

	assert.Nil(t, b.Delete(db, []byte("c1")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("c1")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("c1"), &c1))
}

func TestModelBucketPutSequence(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{}, WithIDSequence(NewSequence("cnts", "id")))

	k1, err := b.Put(db, nil, &Counter{Count: 1})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), k1)

	k2, err := b.Put(db, nil, &Counter{Count: 2})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), k2)

	// Explicit key does not consume the sequence.
	k3, err := b.Put(db, []byte("mine"), &Counter{Count: 3})
	assert.Nil(t, err)
	assert.Equal(t, []byte("mine"), k3)

	seq := NewSequence("cnts", "id")
	latest, err := seq.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), latest)

	noseq := NewModelBucket("other", &Counter{})
	_, err = noseq.Put(db, nil, &Counter{Count: 1})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestModelBucketPutWrongModelType(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	_, err := b.Put(db, []byte("a"), &MultiRef{Refs: [][]byte{[]byte("x")}})
	assert.IsErr(t, errors.ErrType, err)

	_, err = b.Put(db, []byte("a"), &Counter{Count: -1})
	assert.IsErr(t, errors.ErrState, err)
}

func TestModelBucketOneWrongModelType(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	_, err := b.Put(db, []byte("a"), &Counter{Count: 1})
	assert.Nil(t, err)

	var ref MultiRef
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("a"), &ref))
}

func TestModelBucketByIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{},
		WithIDSequence(NewSequence("cnts", "id")),
		WithIndex("owner", counterOwner, false))

	for i, owner := range []string{"alice", "bob", "alice", "", "alice"} {
		_, err := b.Put(db, nil, &Counter{Count: int64(i), Owner: []byte(owner)})
		assert.Nil(t, err)
	}

	var byPtr []*Counter
	assert.Nil(t, b.ByIndex(db, "owner", []byte("alice"), &byPtr))
	assert.Equal(t, 3, len(byPtr))
	// Results are ordered by the primary key.
	assert.Equal(t, int64(0), byPtr[0].Count)
	assert.Equal(t, int64(2), byPtr[1].Count)
	assert.Equal(t, int64(4), byPtr[2].Count)

	var byValue []Counter
	assert.Nil(t, b.ByIndex(db, "owner", []byte("bob"), &byValue))
	assert.Equal(t, 1, len(byValue))
	assert.Equal(t, int64(1), byValue[0].Count)

	var none []*Counter
	assert.Nil(t, b.ByIndex(db, "owner", []byte("carol"), &none))
	assert.Equal(t, 0, len(none))

	var wrong []*MultiRef
	assert.IsErr(t, errors.ErrType, b.ByIndex(db, "owner", []byte("bob"), &wrong))
	assert.IsErr(t, errors.ErrType, b.ByIndex(db, "owner", []byte("bob"), byPtr))
	assert.IsErr(t, ErrInvalidIndex, b.ByIndex(db, "unknown", []byte("bob"), &byPtr))
}
