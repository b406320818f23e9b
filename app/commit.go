package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed bazaar.CommitKVStore
	deliver   bazaar.KVCacheWrap
	check     bazaar.KVCacheWrap
}

// NewCommitStore loads the latest version of the CommitKVStore and sets up
// the deliver and check caches.
func NewCommitStore(store bazaar.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (bazaar.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches.
//
// Callers serialize access, see Ledger.
func (cs *CommitStore) Commit() (bazaar.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return bazaar.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() bazaar.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() bazaar.CacheableKVStore {
	return cs.deliver
}

// CommittedStore returns a read only view of the last committed state.
func (cs *CommitStore) CommittedStore() bazaar.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// _bz: is a prefix for ledger internal data
const chainIDKey = "_bz:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv bazaar.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv bazaar.KVStore, chainID string) error {
	if !bazaar.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
