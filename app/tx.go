package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/iov-one/bazaar/x/sigs"
)

// Tx is the transaction envelope understood by the ledger. Exactly one of
// the message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	SendMsg                *cash.SendMsg                  `protobuf:"bytes,51,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	MintMsg                *registry.MintMsg              `protobuf:"bytes,61,opt,name=mint_msg,json=mintMsg,proto3" json:"mint_msg,omitempty"`
	TransferMsg            *registry.TransferMsg          `protobuf:"bytes,62,opt,name=transfer_msg,json=transferMsg,proto3" json:"transfer_msg,omitempty"`
	CreateListingMsg       *market.CreateListingMsg       `protobuf:"bytes,71,opt,name=create_listing_msg,json=createListingMsg,proto3" json:"create_listing_msg,omitempty"`
	PurchaseMsg            *market.PurchaseMsg            `protobuf:"bytes,72,opt,name=purchase_msg,json=purchaseMsg,proto3" json:"purchase_msg,omitempty"`
	UpdateConfigurationMsg *market.UpdateConfigurationMsg `protobuf:"bytes,73,opt,name=update_configuration_msg,json=updateConfigurationMsg,proto3" json:"update_configuration_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

var _ bazaar.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a single message into a transaction without signatures.
func NewTx(msg bazaar.Msg) (*Tx, error) {
	var tx Tx
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *registry.MintMsg:
		tx.MintMsg = m
	case *registry.TransferMsg:
		tx.TransferMsg = m
	case *market.CreateListingMsg:
		tx.CreateListingMsg = m
	case *market.PurchaseMsg:
		tx.PurchaseMsg = m
	case *market.UpdateConfigurationMsg:
		tx.UpdateConfigurationMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	return &tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (m *Tx) GetMsg() (bazaar.Msg, error) {
	var msgs []bazaar.Msg
	if m.SendMsg != nil {
		msgs = append(msgs, m.SendMsg)
	}
	if m.MintMsg != nil {
		msgs = append(msgs, m.MintMsg)
	}
	if m.TransferMsg != nil {
		msgs = append(msgs, m.TransferMsg)
	}
	if m.CreateListingMsg != nil {
		msgs = append(msgs, m.CreateListingMsg)
	}
	if m.PurchaseMsg != nil {
		msgs = append(msgs, m.PurchaseMsg)
	}
	if m.UpdateConfigurationMsg != nil {
		msgs = append(msgs, m.UpdateConfigurationMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction carries no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction carries %d messages", len(msgs))
	}
}

// GetSignatures returns the signatures attached to the transaction.
func (m *Tx) GetSignatures() []*sigs.StdSignature {
	return m.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (m *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *m
	unsigned.Signatures = nil
	raw, err := proto.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// DecodeTx is the bazaar.TxDecoder for Tx.
func DecodeTx(raw []byte) (bazaar.Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, nil
}

var _ bazaar.TxDecoder = DecodeTx
