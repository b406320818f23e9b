package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

const maxMemoSize int = 128

// SendMsg requests to move coins from one account to another. The source
// account owner must sign the transaction.
type SendMsg struct {
	Metadata    *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      bazaar.Address   `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Destination bazaar.Address   `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      *coin.Coin       `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	// Memo is an optional human readable message.
	Memo string `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}
