package market

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where the listings are stored.
const BucketName = "listing"

// CustodyAddress holds assets and fees of active listings. It is derived
// from a condition no key can sign for, so nothing leaves custody other than
// through a purchase.
var CustodyAddress = bazaar.NewCondition("market", "custody", []byte("ledger")).Address()

// ListingState is the sale state of a listing.
type ListingState int32

const (
	ListingState_Invalid ListingState = 0
	ListingState_Active  ListingState = 1
	ListingState_Sold    ListingState = 2
)

func (s ListingState) String() string {
	switch s {
	case ListingState_Active:
		return "active"
	case ListingState_Sold:
		return "sold"
	default:
		return "invalid"
	}
}

// Listing offers a single asset for a fixed price.
type Listing struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ID       []byte           `protobuf:"bytes,2,opt,name=id,proto3" json:"id,omitempty"`
	AssetID  []byte           `protobuf:"bytes,3,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Seller   bazaar.Address   `protobuf:"bytes,4,opt,name=seller,proto3" json:"seller,omitempty"`
	// Owner is the custody address while the listing is active and the
	// buyer once it is sold.
	Owner bazaar.Address `protobuf:"bytes,5,opt,name=owner,proto3" json:"owner,omitempty"`
	Price *coin.Coin     `protobuf:"bytes,6,opt,name=price,proto3" json:"price,omitempty"`
	// Fee is the listing fee paid by the seller. It is escrowed until the
	// listing is sold.
	Fee   *coin.Coin   `protobuf:"bytes,7,opt,name=fee,proto3" json:"fee,omitempty"`
	State ListingState `protobuf:"varint,8,opt,name=state,proto3" json:"state,omitempty"`
}

func (m *Listing) Reset()         { *m = Listing{} }
func (m *Listing) String() string { return proto.CompactTextString(m) }
func (*Listing) ProtoMessage()    {}

var _ orm.CloneableData = (*Listing)(nil)

// Sold returns true once the listing was purchased.
func (l *Listing) Sold() bool {
	return l.State == ListingState_Sold
}

func (l *Listing) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", l.Metadata.Validate())
	errs = errors.AppendField(errs, "ID", orm.ValidateSequence(l.ID))
	errs = errors.AppendField(errs, "AssetID", orm.ValidateSequence(l.AssetID))
	errs = errors.AppendField(errs, "Seller", l.Seller.Validate())
	errs = errors.AppendField(errs, "Owner", l.Owner.Validate())
	errs = errors.AppendField(errs, "Price", validatePrice(l.Price))
	errs = errors.AppendField(errs, "Fee", validateFee(l.Fee))
	switch l.State {
	case ListingState_Active, ListingState_Sold:
	default:
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "unknown state %d", l.State))
	}
	return errs
}

func (l *Listing) Copy() orm.CloneableData {
	return &Listing{
		Metadata: l.Metadata.Copy(),
		ID:       copyBytes(l.ID),
		AssetID:  copyBytes(l.AssetID),
		Seller:   copyBytes(l.Seller),
		Owner:    copyBytes(l.Owner),
		Price:    l.Price.Clone(),
		Fee:      l.Fee.Clone(),
		State:    l.State,
	}
}

func validatePrice(price *coin.Coin) error {
	if price == nil {
		return errors.Wrap(ErrInvalidPrice, "price required")
	}
	if err := price.Validate(); err != nil {
		return errors.Wrapf(ErrInvalidPrice, "%s", err)
	}
	if !price.IsPositive() {
		return errors.Wrap(ErrInvalidPrice, "price must be positive")
	}
	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// Stats holds the market counters.
type Stats struct {
	TotalListings int64 `protobuf:"varint,1,opt,name=total_listings,json=totalListings,proto3" json:"total_listings"`
	TotalSold     int64 `protobuf:"varint,2,opt,name=total_sold,json=totalSold,proto3" json:"total_sold"`
}

func (m *Stats) Reset()         { *m = Stats{} }
func (m *Stats) String() string { return proto.CompactTextString(m) }
func (*Stats) ProtoMessage()    {}

// unsoldKey is the only value the unsold index holds.
var unsoldKey = []byte{1}

// Bucket stores listings by ID. Listings are indexed by seller, owner,
// asset and, while active, in the unsold index.
type Bucket struct {
	orm.ModelBucket
	ids  orm.Sequence
	sold orm.Sequence
}

// NewBucket returns a bucket for managing listings.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Listing{},
			orm.WithIndex("seller", listingIndexer(func(l *Listing) []byte { return l.Seller }), false),
			orm.WithIndex("owner", listingIndexer(func(l *Listing) []byte { return l.Owner }), false),
			orm.WithIndex("asset", listingIndexer(func(l *Listing) []byte { return l.AssetID }), false),
			orm.WithIndex("unsold", listingIndexer(unsoldIndex), false),
		),
		ids:  orm.NewSequence(BucketName, "id"),
		sold: orm.NewSequence(BucketName, "sold"),
	}
}

func unsoldIndex(l *Listing) []byte {
	if l.State == ListingState_Active {
		return unsoldKey
	}
	return nil
}

func listingIndexer(fn func(*Listing) []byte) orm.Indexer {
	return func(obj orm.Object) ([]byte, error) {
		if obj == nil || obj.Value() == nil {
			return nil, nil
		}
		l, ok := obj.Value().(*Listing)
		if !ok {
			return nil, errors.Wrapf(errors.ErrState, "expected listing, got %T", obj.Value())
		}
		return fn(l), nil
	}
}
