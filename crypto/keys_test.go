package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	bz, err := proto.Marshal(sig)
	assert.Nil(t, err)
	bz2, err := proto.Marshal(sig2)
	assert.Nil(t, err)

	if bytes.Equal(bz, bz2) {
		t.Fatal("marshaling different signatures produce the same binary representation")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, &Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}

	other := GenPrivKeyEd25519().PublicKey()
	if other.Verify(msg, sig) {
		t.Fatal("verified a signature with the wrong public key")
	}
}

func TestEd25519Condition(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed).PublicKey()
	b := PrivKeyEd25519FromSeed(seed).PublicKey()

	assert.Equal(t, a.Condition(), b.Condition())
	assert.Equal(t, a.Address(), b.Address())
	assert.Nil(t, a.Address().Validate())

	ext, typ, data, err := a.Condition().Parse()
	assert.Nil(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, a.Ed25519, data)

	c := GenPrivKeyEd25519().PublicKey()
	if a.Address().Equals(c.Address()) {
		t.Fatal("different keys produce the same address")
	}
}

func TestPublicKeyValidate(t *testing.T) {
	assert.Nil(t, GenPrivKeyEd25519().PublicKey().Validate())

	var missing *PublicKey
	assert.IsErr(t, errors.ErrEmpty, missing.Validate())
	assert.IsErr(t, errors.ErrInput, (&PublicKey{Ed25519: []byte{1, 2}}).Validate())

	_, err := (&PrivateKey{Ed25519: []byte{1}}).Sign([]byte("x"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDerivePrivKeyEd25519(t *testing.T) {
	// SLIP-0010 ed25519 test vector 1.
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	assert.Nil(t, err)

	key, err := DerivePrivKeyEd25519(seed, "m/0'")
	assert.Nil(t, err)
	want, err := hex.DecodeString("68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3")
	assert.Nil(t, err)
	assert.Equal(t, want, key.Ed25519[:32])

	again, err := DerivePrivKeyEd25519(seed, "m/0'")
	assert.Nil(t, err)
	assert.Equal(t, key.PublicKey(), again.PublicKey())

	other, err := DerivePrivKeyEd25519(seed, "m/1'")
	assert.Nil(t, err)
	if bytes.Equal(key.Ed25519, other.Ed25519) {
		t.Fatal("different paths derived the same key")
	}

	_, err = DerivePrivKeyEd25519(seed, "not a path")
	assert.IsErr(t, errors.ErrInput, err)
}
