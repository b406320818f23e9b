package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the balance of a single account. Coins are kept in the normalized
// form: sorted by ticker, no duplicates and no zero values.
type Set struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Coins    []*coin.Coin     `protobuf:"bytes,2,rep,name=coins,proto3" json:"coins,omitempty"`
}

func (m *Set) Reset()         { *m = Set{} }
func (m *Set) String() string { return proto.CompactTextString(m) }
func (*Set) ProtoMessage()    {}

var _ orm.CloneableData = (*Set)(nil)

// Validate requires that all coins are in alphabetical order and positive.
func (s *Set) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	errs = errors.AppendField(errs, "Coins", coin.Coins(s.Coins).Validate())
	if !coin.Coins(s.Coins).IsNonNegative() {
		errs = errors.Append(errs, errors.Field("Coins", errors.ErrAmount, "negative balance"))
	}
	return errs
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    coin.Coins(s.Coins).Clone(),
	}
}

// Bucket stores a Set for every address that ever held coins.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Set{}),
	}
}

// GetOrCreate returns the balance of an address. An empty balance is
// returned for addresses that never held any coins.
func (b Bucket) GetOrCreate(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Set, error) {
	var s Set
	switch err := b.One(db, addr, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &Set{Metadata: &bazaar.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
