package orm

import (
	"reflect"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db bazaar.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists. It
	// returns ErrNotFound otherwise.
	Has(db bazaar.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all entities that are indexed under given key by the
	// named index. Result is loaded into given destination, that must be a
	// pointer to a slice of models. Entities are returned in ascending
	// primary key order.
	ByIndex(db bazaar.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) error

	// Put saves given model in the database. If key is nil, a new key is
	// generated using the sequence the bucket was declared with. The key
	// that the model was stored under is returned.
	Put(db bazaar.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db bazaar.KVStore, key []byte) error

	// Register registers this bucket and all its indexes in the query
	// router.
	Register(name string, r bazaar.QueryRouter)
}

// ModelSlicePtr represents a pointer to a slice of models. For example
// *[]*Asset or *[]Asset.
type ModelSlicePtr interface{}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

// WithIDSequence configures the bucket to use the given sequence instance
// for generating IDs when Put is called with a nil key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = &s
	}
}

// NewModelBucket returns a ModelBucket instance storing entities of the same
// type as the given model.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, m))
	tp := reflect.TypeOf(m)
	if tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	mb := &modelBucket{
		b:     b,
		model: tp,
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b     Bucket
	idSeq *Sequence

	// model is referencing the structure type. Event if the structure
	// pointer is implementing Model interface, this variable references
	// the structure directly and not the structure's pointer type.
	model reflect.Type
}

func (mb *modelBucket) Register(name string, r bazaar.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db bazaar.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s with key %X", mb.model.Name(), key)
	}
	res := obj.Value()

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db bazaar.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s with key %X", mb.model.Name(), key)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db bazaar.ReadOnlyKVStore, indexName string, key []byte, destination ModelSlicePtr) error {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil {
		return err
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	dest = dest.Elem()
	if dest.Kind() != reflect.Slice {
		return errors.Wrap(errors.ErrType, "destination must point to a slice")
	}

	elem := dest.Type().Elem()
	byPtr := elem.Kind() == reflect.Ptr
	if byPtr {
		elem = elem.Elem()
	}
	if elem != mb.model {
		return errors.Wrapf(errors.ErrType, "this bucket operates on %s model and cannot return %s", mb.model, elem)
	}

	res := reflect.MakeSlice(dest.Type(), 0, len(objs))
	for _, obj := range objs {
		val := reflect.ValueOf(obj.Value())
		if !byPtr {
			val = val.Elem()
		}
		res = reflect.Append(res, val)
	}
	dest.Set(res)
	return nil
}

func (mb *modelBucket) Put(db bazaar.KVStore, key []byte, m Model) ([]byte, error) {
	mTp := reflect.TypeOf(m)
	if mTp.Kind() != reflect.Ptr {
		return nil, errors.Wrap(errors.ErrType, "model destination must be a pointer")
	}
	if mb.model != mTp.Elem() {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T type in this bucket", m)
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		if mb.idSeq == nil {
			return nil, errors.Wrap(errors.ErrInput, "no key and no ID sequence configured")
		}
		var err error
		key, err = mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
	}

	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db bazaar.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

var _ ModelBucket = (*modelBucket)(nil)
