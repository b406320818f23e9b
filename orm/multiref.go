package orm

import (
	"bytes"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar/errors"
)

// MultiRef contains a sorted set of references. It is the value stored by
// a non unique index.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs,omitempty"`
}

func (m *MultiRef) Reset()         { *m = MultiRef{} }
func (m *MultiRef) String() string { return proto.CompactTextString(m) }
func (*MultiRef) ProtoMessage()    {}

var _ CloneableData = (*MultiRef)(nil)

// NewMultiRef creates a MultiRef with any number of initial references
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts this reference in the multiref, sorted by order.
// Returns an error if already there
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.findRef(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove removes this reference from the multiref.
// Returns an error if not there
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.findRef(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// findRef returns (index, found) where found is true if the ref was in the
// set, index is where it is (or where it should be)
func (m *MultiRef) findRef(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Copy does a shallow copy of the slice of refs and creates a new MultiRef
func (m *MultiRef) Copy() CloneableData {
	refs := make([][]byte, len(m.Refs))
	copy(refs, m.Refs)
	return &MultiRef{Refs: refs}
}

// Validate just returns an error if empty
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
