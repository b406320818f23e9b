// Package bech32 encodes addresses in a human friendly, checksummed form.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/bazaar/errors"
)

// Decode converts given bech32 encoded representation into raw payload and a
// human readable part.
func Decode(raw string) (string, []byte, error) {
	hrp, payload, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err = bech32.ConvertBits(payload, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	return hrp, payload, nil
}

// DecodeExpected works like Decode but fails unless the human readable part
// of the representation is hrp.
func DecodeExpected(hrp, raw string) ([]byte, error) {
	got, payload, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInput, "want %q prefix, got %q", hrp, got)
	}
	return payload, nil
}

// Encode converts given bytes into bech32 encoded representation.
func Encode(hrp string, payload []byte) ([]byte, error) {
	payload, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	raw, err := bech32.Encode(hrp, payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return []byte(raw), nil
}
