package utils

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ bazaar.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *bazaar.CheckResult
	err := Atomic(store, func(db bazaar.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *bazaar.DeliverResult
	err := Atomic(store, func(db bazaar.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// Atomic runs fn on a cache wrap of the store. Changes are written only if
// fn succeeds. Stores that cannot be cache wrapped are used directly.
func Atomic(store bazaar.KVStore, fn func(bazaar.KVStore) error) error {
	cstore, ok := store.(bazaar.CacheableKVStore)
	if !ok {
		return fn(store)
	}

	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
