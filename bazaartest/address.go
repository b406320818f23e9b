package bazaartest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/bazaar"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation. The test fails if the address cannot be parsed.
func ParseAddress(t testing.TB, encodedAddress string) bazaar.Address {
	t.Helper()

	addr, err := bazaar.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) bazaar.Address {
	t.Helper()

	raw := make([]byte, bazaar.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := bazaar.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid address: %s", err)
	}
	return a
}
