package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar/errors"
)

// Counter is a minimal model used by the tests of this package.
type Counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
	Owner []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

var _ Model = (*Counter)(nil)

func NewCounter(count int64) *Counter {
	return &Counter{Count: count}
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count, Owner: append([]byte(nil), c.Owner...)}
}

// counterOwner indexes counters by their owner. Counters without an owner
// are not indexed.
func counterOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	if len(c.Owner) == 0 {
		return nil, nil
	}
	return c.Owner, nil
}
