package sigs

import "github.com/iov-one/bazaar/errors"

// x/sigs reserves 1000 ~ 1009.
var (
	// ErrInvalidSequence is returned when a signature nonce does not match
	// the one stored for the signer.
	ErrInvalidSequence = errors.Register(1000, "invalid sequence number")
)
