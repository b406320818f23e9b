package registry

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// MintMsg creates a new asset owned by the creator. The creator must sign
// the transaction.
type MintMsg struct {
	Metadata    *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Creator     bazaar.Address   `protobuf:"bytes,2,opt,name=creator,proto3" json:"creator,omitempty"`
	MetadataURI string           `protobuf:"bytes,3,opt,name=metadata_uri,json=metadataUri,proto3" json:"metadata_uri,omitempty"`
}

func (m *MintMsg) Reset()         { *m = MintMsg{} }
func (m *MintMsg) String() string { return proto.CompactTextString(m) }
func (*MintMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return "registry/mint"
}

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Creator", m.Creator.Validate())
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(m.MetadataURI))
	return errs
}

// TransferMsg moves an asset from its current owner to another address.
// The current owner must sign the transaction.
type TransferMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	AssetID  []byte           `protobuf:"bytes,2,opt,name=asset_id,json=assetId,proto3" json:"asset_id,omitempty"`
	From     bazaar.Address   `protobuf:"bytes,3,opt,name=from,proto3" json:"from,omitempty"`
	To       bazaar.Address   `protobuf:"bytes,4,opt,name=to,proto3" json:"to,omitempty"`
}

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return "registry/transfer"
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "AssetID", orm.ValidateSequence(m.AssetID))
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	return errs
}
