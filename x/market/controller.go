package market

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/iov-one/bazaar/x/utils"
)

// Controller exposes the market operations. It does not authenticate the
// caller, handlers are responsible for that.
type Controller interface {
	// CreateListing escrows the asset and the listing fee and returns the
	// new listing ID.
	CreateListing(db bazaar.KVStore, seller bazaar.Address, assetID []byte, price, feePaid coin.Coin) ([]byte, error)
	// Purchase settles an active listing.
	Purchase(db bazaar.KVStore, buyer bazaar.Address, listingID []byte, amountPaid coin.Coin) error

	FetchUnsoldListings(db bazaar.ReadOnlyKVStore) ([]*Listing, error)
	FetchListingsByOwner(db bazaar.ReadOnlyKVStore, owner bazaar.Address) ([]*Listing, error)
	FetchListingsBySeller(db bazaar.ReadOnlyKVStore, seller bazaar.Address) ([]*Listing, error)
	Listing(db bazaar.ReadOnlyKVStore, listingID []byte) (*Listing, error)
	Stats(db bazaar.ReadOnlyKVStore) (*Stats, error)
	ListingFee(db bazaar.ReadOnlyKVStore) (coin.Coin, error)
}

// BaseController implements Controller using the registry for asset custody
// and cash for payments.
type BaseController struct {
	bucket Bucket
	assets registry.Controller
	cash   cash.CoinMover
}

var _ Controller = BaseController{}

// NewController returns a controller storing listings in given bucket.
func NewController(bucket Bucket, assets registry.Controller, cash cash.CoinMover) BaseController {
	return BaseController{
		bucket: bucket,
		assets: assets,
		cash:   cash,
	}
}

func (c BaseController) CreateListing(db bazaar.KVStore, seller bazaar.Address, assetID []byte, price, feePaid coin.Coin) ([]byte, error) {
	if err := validatePrice(&price); err != nil {
		return nil, err
	}
	owner, err := c.assets.OwnerOf(db, assetID)
	if err != nil {
		return nil, err
	}
	if !owner.Equals(seller) {
		return nil, errors.Wrapf(registry.ErrNotOwner, "asset %X is not owned by %s", assetID, seller)
	}
	fee, err := c.ListingFee(db)
	if err != nil {
		return nil, err
	}
	if !feePaid.Equals(fee) {
		return nil, errors.Wrapf(ErrWrongFee, "listing fee is %s, got %s", fee.String(), feePaid.String())
	}

	var id []byte
	err = utils.Atomic(db, func(db bazaar.KVStore) error {
		if !fee.IsZero() {
			if err := c.cash.MoveCoins(db, seller, CustodyAddress, fee); err != nil {
				return errors.Wrap(err, "pay listing fee")
			}
		}
		if err := c.assets.Transfer(db, assetID, seller, CustodyAddress); err != nil {
			return errors.Wrap(err, "escrow asset")
		}
		var err error
		if id, err = c.bucket.ids.NextVal(db); err != nil {
			return errors.Wrap(err, "next listing id")
		}
		listing := Listing{
			Metadata: &bazaar.Metadata{Schema: 1},
			ID:       id,
			AssetID:  assetID,
			Seller:   seller,
			Owner:    CustodyAddress,
			Price:    &price,
			Fee:      &fee,
			State:    ListingState_Active,
		}
		if _, err := c.bucket.Put(db, id, &listing); err != nil {
			return errors.Wrap(err, "cannot store listing")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

func (c BaseController) Purchase(db bazaar.KVStore, buyer bazaar.Address, listingID []byte, amountPaid coin.Coin) error {
	if err := buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	listing, err := c.Listing(db, listingID)
	if err != nil {
		return err
	}
	if listing.Sold() {
		return errors.Wrapf(ErrAlreadySold, "listing %X", listingID)
	}
	if !amountPaid.Equals(*listing.Price) {
		return errors.Wrapf(ErrWrongAmount, "price is %s, got %s", listing.Price.String(), amountPaid.String())
	}

	return utils.Atomic(db, func(db bazaar.KVStore) error {
		if err := c.cash.MoveCoins(db, buyer, listing.Seller, *listing.Price); err != nil {
			return errors.Wrap(err, "pay seller")
		}
		if !coin.IsEmpty(listing.Fee) {
			conf, err := loadConf(db)
			if err != nil {
				return err
			}
			if err := c.cash.MoveCoins(db, CustodyAddress, conf.Owner, *listing.Fee); err != nil {
				return errors.Wrap(err, "pay listing fee to the administrator")
			}
		}
		if err := c.assets.Transfer(db, listing.AssetID, CustodyAddress, buyer); err != nil {
			return errors.Wrap(err, "release asset")
		}
		listing.Owner = buyer
		listing.State = ListingState_Sold
		if _, err := c.bucket.Put(db, listingID, listing); err != nil {
			return errors.Wrap(err, "cannot store listing")
		}
		if _, err := c.bucket.sold.NextInt(db); err != nil {
			return errors.Wrap(err, "sold counter")
		}
		return nil
	})
}

func (c BaseController) FetchUnsoldListings(db bazaar.ReadOnlyKVStore) ([]*Listing, error) {
	return c.byIndex(db, "unsold", unsoldKey)
}

func (c BaseController) FetchListingsByOwner(db bazaar.ReadOnlyKVStore, owner bazaar.Address) ([]*Listing, error) {
	return c.byIndex(db, "owner", owner)
}

func (c BaseController) FetchListingsBySeller(db bazaar.ReadOnlyKVStore, seller bazaar.Address) ([]*Listing, error) {
	return c.byIndex(db, "seller", seller)
}

// byIndex returns listings in ascending ID order.
func (c BaseController) byIndex(db bazaar.ReadOnlyKVStore, index string, key []byte) ([]*Listing, error) {
	if len(key) == 0 {
		return nil, nil
	}
	var listings []*Listing
	if err := c.bucket.ByIndex(db, index, key, &listings); err != nil {
		return nil, errors.Wrapf(err, "listings by %s", index)
	}
	return listings, nil
}

func (c BaseController) Listing(db bazaar.ReadOnlyKVStore, listingID []byte) (*Listing, error) {
	var listing Listing
	switch err := c.bucket.One(db, listingID, &listing); {
	case err == nil:
		return &listing, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrUnknownListing, "listing %X", listingID)
	default:
		return nil, errors.Wrap(err, "cannot load listing")
	}
}

func (c BaseController) Stats(db bazaar.ReadOnlyKVStore) (*Stats, error) {
	total, err := c.bucket.ids.Latest(db)
	if err != nil {
		return nil, errors.Wrap(err, "total listings")
	}
	sold, err := c.bucket.sold.Latest(db)
	if err != nil {
		return nil, errors.Wrap(err, "total sold")
	}
	return &Stats{TotalListings: total, TotalSold: sold}, nil
}

func (c BaseController) ListingFee(db bazaar.ReadOnlyKVStore) (coin.Coin, error) {
	conf, err := loadConf(db)
	if err != nil {
		return coin.Coin{}, err
	}
	return *conf.ListingFee, nil
}
