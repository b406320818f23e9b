package registry

import "github.com/iov-one/bazaar/errors"

var (
	ErrUnknownAsset    = errors.Register(1100, "unknown asset")
	ErrNotOwner        = errors.Register(1101, "not the asset owner")
	ErrInvalidMetadata = errors.Register(1102, "invalid asset metadata")
	ErrReservedOwner   = errors.Register(1103, "reserved asset owner")
)
