package bazaartest

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() bazaar.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an ID encoded as if it was generated by the sequence
// of a bucket.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
