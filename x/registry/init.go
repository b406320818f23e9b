package registry

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const optKey = "registry"

// GenesisAsset declares an asset minted at chain initialization.
type GenesisAsset struct {
	Owner       bazaar.Address `json:"owner"`
	MetadataURI string         `json:"metadata_uri"`
}

// Genesis fulfils the Initializer interface and mints all assets declared
// in the genesis file, in order.
type Genesis struct{}

var _ bazaar.Initializer = Genesis{}

func (Genesis) FromGenesis(opts bazaar.Options, db bazaar.KVStore) error {
	var assets []GenesisAsset
	if err := opts.ReadOptions(optKey, &assets); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %q genesis: %s", optKey, err)
	}
	ctrl := NewController(NewBucket())
	for i, a := range assets {
		if _, err := ctrl.Mint(db, a.Owner, a.MetadataURI); err != nil {
			return errors.Wrapf(err, "asset %d", i)
		}
	}
	return nil
}
