package market

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const confPkg = "market"

// Configuration declares who administers the market and what it costs to
// create a listing.
type Configuration struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is the market administrator. It receives listing fees and is
	// the only one allowed to change this configuration.
	Owner bazaar.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	// ListingFee is charged to the seller when a listing is created.
	ListingFee *coin.Coin `protobuf:"bytes,3,opt,name=listing_fee,json=listingFee,proto3" json:"listing_fee,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() bazaar.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "ListingFee", validateFee(c.ListingFee))
	return errs
}

func validateFee(fee *coin.Coin) error {
	if fee == nil {
		return errors.Wrap(errors.ErrEmpty, "fee required")
	}
	if err := fee.Validate(); err != nil {
		return err
	}
	if !fee.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "fee cannot be negative")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load market configuration")
	}
	return &conf, nil
}
