package gconf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

type myconfig struct {
	Owner bazaar.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Num   int64          `protobuf:"varint,2,opt,name=num,proto3" json:"num,omitempty"`
	Str   string         `protobuf:"bytes,3,opt,name=str,proto3" json:"str,omitempty"`
	Cn    *coin.Coin     `protobuf:"bytes,4,opt,name=cn,proto3" json:"cn,omitempty"`
}

func (c *myconfig) Reset()         { *c = myconfig{} }
func (c *myconfig) String() string { return proto.CompactTextString(c) }
func (*myconfig) ProtoMessage()    {}

func (c *myconfig) GetOwner() bazaar.Address { return c.Owner }

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if c.Cn != nil {
		if err := c.Cn.Validate(); err != nil {
			return errors.Wrap(err, "coin")
		}
	}
	return nil
}

type myconfigMsg struct {
	Patch *myconfig `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

var _ bazaar.Msg = (*myconfigMsg)(nil)

func (m *myconfigMsg) Reset()         { *m = myconfigMsg{} }
func (m *myconfigMsg) String() string { return proto.CompactTextString(m) }
func (*myconfigMsg) ProtoMessage()    {}
func (*myconfigMsg) Path() string     { return "myconfig" }

func (m *myconfigMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}
