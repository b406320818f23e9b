package bazaartest

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
)

// Tx represents a transaction with a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg bazaar.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ bazaar.Tx = (*Tx)(nil)

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return "bazaartest.Tx" }
func (*Tx) ProtoMessage()     {}

func (tx *Tx) GetMsg() (bazaar.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message that carries serialized data only.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string `protobuf:"bytes,1,opt,name=route_path,proto3" json:"route_path,omitempty"`
	// Serialized represents the serialized form of this message.
	Serialized []byte `protobuf:"bytes,2,opt,name=serialized,proto3" json:"serialized,omitempty"`
	// Err if set is returned by the Validate call.
	Err error `json:"-"`
}

var _ bazaar.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return proto.CompactTextString(m) }
func (*Msg) ProtoMessage()    {}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
