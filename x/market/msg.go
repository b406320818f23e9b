package market

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// CreateListingMsg puts an asset on sale. The seller must sign and must
// attach the current listing fee.
type CreateListingMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Seller   bazaar.Address   `protobuf:"bytes,2,opt,name=seller,proto3" json:"seller,omitempty"`
	AssetID  []byte           `protobuf:"bytes,3,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	Price    *coin.Coin       `protobuf:"bytes,4,opt,name=price,proto3" json:"price,omitempty"`
	Fee      *coin.Coin       `protobuf:"bytes,5,opt,name=fee,proto3" json:"fee,omitempty"`
}

func (m *CreateListingMsg) Reset()         { *m = CreateListingMsg{} }
func (m *CreateListingMsg) String() string { return proto.CompactTextString(m) }
func (*CreateListingMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*CreateListingMsg)(nil)

func (CreateListingMsg) Path() string {
	return "market/create"
}

func (m *CreateListingMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Seller", m.Seller.Validate())
	errs = errors.AppendField(errs, "AssetID", orm.ValidateSequence(m.AssetID))
	errs = errors.AppendField(errs, "Price", validatePrice(m.Price))
	errs = errors.AppendField(errs, "Fee", validateFee(m.Fee))
	return errs
}

// PurchaseMsg buys a listing. The buyer must sign and pay exactly the
// listing price.
type PurchaseMsg struct {
	Metadata  *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Buyer     bazaar.Address   `protobuf:"bytes,2,opt,name=buyer,proto3" json:"buyer,omitempty"`
	ListingID []byte           `protobuf:"bytes,3,opt,name=listing_id,json=listingId,proto3" json:"listing_id,omitempty"`
	Amount    *coin.Coin       `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *PurchaseMsg) Reset()         { *m = PurchaseMsg{} }
func (m *PurchaseMsg) String() string { return proto.CompactTextString(m) }
func (*PurchaseMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*PurchaseMsg)(nil)

func (PurchaseMsg) Path() string {
	return "market/purchase"
}

func (m *PurchaseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Buyer", m.Buyer.Validate())
	errs = errors.AppendField(errs, "ListingID", orm.ValidateSequence(m.ListingID))
	if m.Amount == nil {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrEmpty, "amount required"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}

// UpdateConfigurationMsg changes the market configuration. Only the
// configuration owner may send it. Zero fields of the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration   `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "market/update_conf"
}

// Validate skips any zero fields of the patch and validates the set ones.
func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		return errors.Append(errs, errors.Field("Patch", errors.ErrEmpty, "patch required"))
	}
	if m.Patch.Metadata != nil {
		errs = errors.AppendField(errs, "Patch.Metadata", m.Patch.Metadata.Validate())
	}
	if len(m.Patch.Owner) != 0 {
		errs = errors.AppendField(errs, "Patch.Owner", m.Patch.Owner.Validate())
	}
	if m.Patch.ListingFee != nil {
		errs = errors.AppendField(errs, "Patch.ListingFee", validateFee(m.Patch.ListingFee))
	}
	return errs
}
