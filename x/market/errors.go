package market

import "github.com/iov-one/bazaar/errors"

var (
	ErrInvalidPrice   = errors.Register(1200, "invalid price")
	ErrWrongFee       = errors.Register(1201, "wrong listing fee")
	ErrUnknownListing = errors.Register(1202, "unknown listing")
	ErrAlreadySold    = errors.Register(1203, "listing already sold")
	ErrWrongAmount    = errors.Register(1204, "wrong payment amount")
)
