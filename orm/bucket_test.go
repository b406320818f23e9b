package orm

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestBucketName(t *testing.T) {
	obj := NewSimpleObj(nil, &Counter{})

	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", obj)
	})
}

func TestBucketNameCollision(t *testing.T) {
	const bucketName = "mybucket"
	var objkey = []byte("collision-key")

	o1 := NewSimpleObj(objkey, NewCounter(7))
	b1 := NewBucket(bucketName, o1)

	multiref, err := NewMultiRef([]byte("foobar"))
	assert.Nil(t, err)
	o2 := NewSimpleObj(objkey, multiref)
	b2 := NewBucket(bucketName, o2)

	db := store.MemStore()
	assert.Nil(t, b1.Save(db, o1))

	// Buckets do not know about each other. Saving an object under the
	// same key overwrites and because there is no check of stored data,
	// this operation does not fail.
	assert.Nil(t, b2.Save(db, o2))

	// The wire type of the overwriting payload does not match the counter
	// field, so the original counter value cannot be read back. Depending
	// on the payload, decoding either fails or skips the field.
	obj, err := b1.Get(db, objkey)
	if err != nil {
		if !errors.ErrState.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
		return
	}
	if obj == nil {
		t.Fatal("overwritten object must still be present")
	}
	if got := obj.Value().(*Counter); got.Count == 7 {
		t.Fatalf("counter survived the overwrite: %v", got)
	}
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	o := NewSimpleObj([]byte("mykey"), NewCounter(-999))
	b := NewBucket("mybucket", o)

	db := store.MemStore()
	if err := b.Save(db, o); !errors.ErrState.Is(err) {
		t.Fatalf("invalid object must not save: %s", err)
	}
	if err := b.Save(db, NewSimpleObj(nil, NewCounter(1))); !errors.ErrEmpty.Is(err) {
		t.Fatalf("object without a key must not save: %s", err)
	}
}

func TestBucketGetSaveDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter)))

	obj, err := b.Get(db, []byte("a"))
	assert.Nil(t, err)
	if obj != nil {
		t.Fatalf("unexpected object: %v", obj)
	}

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), NewCounter(848))))

	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("a"), obj.Key())
	assert.Equal(t, int64(848), obj.Value().(*Counter).Count)

	ok, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// Other bucket with a similar prefix must not see the data.
	other := NewBucket("cnt", NewSimpleObj(nil, new(Counter)))
	obj, err = other.Get(db, []byte("a"))
	assert.Nil(t, err)
	if obj != nil {
		t.Fatalf("unexpected object: %v", obj)
	}

	assert.Nil(t, b.Delete(db, []byte("a")))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	if obj != nil {
		t.Fatalf("object not deleted: %v", obj)
	}
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter))).
		WithIndex("owner", counterOwner, false)

	for _, key := range []string{"aa", "ab", "b"} {
		c := NewCounter(1)
		c.Owner = []byte("alice")
		assert.Nil(t, b.Save(db, NewSimpleObj([]byte(key), c)))
	}

	qr := bazaar.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("bucket not registered")
	}
	res, err := h.Query(db, bazaar.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	res, err = h.Query(db, bazaar.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, bazaar.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	_, err = h.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)

	idx := qr.Handler("/counters/owner")
	if idx == nil {
		t.Fatal("index not registered")
	}
	res, err = idx.Query(db, bazaar.KeyQueryMod, []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))
	assert.Equal(t, b.DBKey([]byte("aa")), res[0].Key)
	assert.Equal(t, b.DBKey([]byte("b")), res[2].Key)
}

func TestBucketIndexUpdates(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(Counter))).
		WithIndex("owner", counterOwner, true)

	c := NewCounter(1)
	c.Owner = []byte("alice")
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("one"), c)))

	// Unique index must not allow to index another object under the same
	// value.
	err := b.Save(db, NewSimpleObj([]byte("two"), c.Copy()))
	assert.IsErr(t, errors.ErrDuplicate, err)

	// Moving to another owner releases the index value.
	moved := c.Copy().(*Counter)
	moved.Owner = []byte("bob")
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("one"), moved)))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("two"), c.Copy())))

	objs, err := b.GetIndexed(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))
	assert.Equal(t, []byte("one"), objs[0].Key())

	objs, err = b.GetIndexed(db, "owner", []byte("carol"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))

	_, err = b.GetIndexed(db, "nope", []byte("bob"))
	assert.IsErr(t, ErrInvalidIndex, err)

	assert.Nil(t, b.Delete(db, []byte("one")))
	objs, err = b.GetIndexed(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		start  []byte
		end    []byte
	}{
		"empty prefix": {
			prefix: nil,
		},
		"simple prefix": {
			prefix: []byte("ab"),
			start:  []byte("ab"),
			end:    []byte("ac"),
		},
		"trailing overflow": {
			prefix: []byte{1, 0xff, 0xff},
			start:  []byte{1, 0xff, 0xff},
			end:    []byte{2},
		},
		"no upper bound": {
			prefix: []byte{0xff, 0xff},
			start:  []byte{0xff, 0xff},
			end:    nil,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
