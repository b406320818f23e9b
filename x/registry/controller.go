package registry

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Controller exposes the registry operations to other extensions. It does
// not perform any authentication, callers are responsible for that.
type Controller interface {
	// Mint creates a new asset owned by creator and returns its ID.
	Mint(db bazaar.KVStore, creator bazaar.Address, metadataURI string) ([]byte, error)
	// Transfer changes the owner of an asset. It fails unless from is the
	// current owner.
	Transfer(db bazaar.KVStore, assetID []byte, from, to bazaar.Address) error
	// OwnerOf returns the current holder of an asset.
	OwnerOf(db bazaar.ReadOnlyKVStore, assetID []byte) (bazaar.Address, error)
	// Asset returns the full asset state.
	Asset(db bazaar.ReadOnlyKVStore, assetID []byte) (*Asset, error)
	// Count returns the number of assets ever minted.
	Count(db bazaar.ReadOnlyKVStore) (int64, error)
}

// BaseController implements Controller on top of a Bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Mint(db bazaar.KVStore, creator bazaar.Address, metadataURI string) ([]byte, error) {
	if err := validateMetadataURI(metadataURI); err != nil {
		return nil, err
	}
	if err := creator.Validate(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	id, err := c.bucket.ids.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "next asset id")
	}
	asset := Asset{
		Metadata:    &bazaar.Metadata{Schema: 1},
		ID:          id,
		Owner:       creator,
		MetadataURI: metadataURI,
	}
	if _, err := c.bucket.Put(db, id, &asset); err != nil {
		return nil, errors.Wrap(err, "cannot store asset")
	}
	return id, nil
}

func (c BaseController) Transfer(db bazaar.KVStore, assetID []byte, from, to bazaar.Address) error {
	asset, err := c.Asset(db, assetID)
	if err != nil {
		return err
	}
	if !asset.Owner.Equals(from) {
		return errors.Wrapf(ErrNotOwner, "asset %X is not owned by %s", assetID, from)
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	asset.Owner = to
	if _, err := c.bucket.Put(db, assetID, asset); err != nil {
		return errors.Wrap(err, "cannot store asset")
	}
	return nil
}

func (c BaseController) OwnerOf(db bazaar.ReadOnlyKVStore, assetID []byte) (bazaar.Address, error) {
	asset, err := c.Asset(db, assetID)
	if err != nil {
		return nil, err
	}
	return asset.Owner, nil
}

func (c BaseController) Asset(db bazaar.ReadOnlyKVStore, assetID []byte) (*Asset, error) {
	var asset Asset
	switch err := c.bucket.One(db, assetID, &asset); {
	case err == nil:
		return &asset, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrUnknownAsset, "asset %X", assetID)
	default:
		return nil, errors.Wrap(err, "cannot load asset")
	}
}

func (c BaseController) Count(db bazaar.ReadOnlyKVStore) (int64, error) {
	return c.bucket.ids.Latest(db)
}
