package registry

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

const (
	// BucketName is where the assets are stored.
	BucketName = "asset"

	maxMetadataURILength = 2048
)

// Asset is a unique, non fungible item.
type Asset struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// ID is the sequence value assigned at mint time.
	ID []byte `protobuf:"bytes,2,opt,name=id,proto3" json:"id,omitempty"`
	// Owner is the current holder.
	Owner bazaar.Address `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
	// MetadataURI points to the off-ledger description of the asset. It
	// is set at mint time and never changes.
	MetadataURI string `protobuf:"bytes,4,opt,name=metadata_uri,json=metadataUri,proto3" json:"metadata_uri,omitempty"`
}

func (m *Asset) Reset()         { *m = Asset{} }
func (m *Asset) String() string { return proto.CompactTextString(m) }
func (*Asset) ProtoMessage()    {}

var _ orm.CloneableData = (*Asset)(nil)

func (a *Asset) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "ID", orm.ValidateSequence(a.ID))
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(a.MetadataURI))
	return errs
}

func (a *Asset) Copy() orm.CloneableData {
	return &Asset{
		Metadata:    a.Metadata.Copy(),
		ID:          copyBytes(a.ID),
		Owner:       copyBytes(a.Owner),
		MetadataURI: a.MetadataURI,
	}
}

func validateMetadataURI(uri string) error {
	switch n := len(uri); {
	case n == 0:
		return errors.Wrap(ErrInvalidMetadata, "metadata uri required")
	case n > maxMetadataURILength:
		return errors.Wrapf(ErrInvalidMetadata, "metadata uri too long: %d > %d", n, maxMetadataURILength)
	}
	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// Bucket stores assets by ID. Assets are indexed by owner.
type Bucket struct {
	orm.ModelBucket
	ids orm.Sequence
}

// NewBucket returns a bucket for managing assets.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Asset{},
			orm.WithIndex("owner", ownerIndexer, false),
		),
		ids: orm.NewSequence(BucketName, "id"),
	}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	a, ok := obj.Value().(*Asset)
	if !ok {
		return nil, errors.Wrapf(errors.ErrState, "expected asset, got %T", obj.Value())
	}
	return a.Owner, nil
}
