package registry

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestMintHandler(t *testing.T) {
	creator := bazaartest.NewCondition()

	cases := map[string]struct {
		Signers    []bazaar.Condition
		Msg        bazaar.Msg
		WantErr    *errors.Error
		WantResult []byte
	}{
		"creator mints an asset": {
			Signers:    []bazaar.Condition{creator},
			Msg:        &MintMsg{Metadata: &bazaar.Metadata{Schema: 1}, Creator: creator.Address(), MetadataURI: "ipfs://a"},
			WantResult: bazaartest.SequenceID(1),
		},
		"creator must sign": {
			Signers: []bazaar.Condition{bazaartest.NewCondition()},
			Msg:     &MintMsg{Metadata: &bazaar.Metadata{Schema: 1}, Creator: creator.Address(), MetadataURI: "ipfs://a"},
			WantErr: errors.ErrUnauthorized,
		},
		"metadata uri is required": {
			Signers: []bazaar.Condition{creator},
			Msg:     &MintMsg{Metadata: &bazaar.Metadata{Schema: 1}, Creator: creator.Address()},
			WantErr: ErrInvalidMetadata,
		},
		"message metadata is required": {
			Signers: []bazaar.Condition{creator},
			Msg:     &MintMsg{Creator: creator.Address(), MetadataURI: "ipfs://a"},
			WantErr: errors.ErrMetadata,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			auth := &bazaartest.Auth{Signers: tc.Signers}
			h := &mintHandler{auth: auth, ctrl: NewController(NewBucket())}
			tx := &bazaartest.Tx{Msg: tc.Msg}

			if _, err := h.Check(context.Background(), db.CacheWrap(), tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			res, err := h.Deliver(context.Background(), db, tx)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, tc.WantResult, res.Data)
			}
		})
	}
}

func TestTransferHandler(t *testing.T) {
	owner := bazaartest.NewCondition()
	other := bazaartest.NewCondition()
	recipient := bazaartest.RandomAddr(t)
	escrow := bazaartest.RandomAddr(t)

	cases := map[string]struct {
		Signers   []bazaar.Condition
		Msg       *TransferMsg
		WantErr   *errors.Error
		WantOwner bazaar.Address
	}{
		"owner transfers": {
			Signers:   []bazaar.Condition{owner},
			Msg:       &TransferMsg{Metadata: &bazaar.Metadata{Schema: 1}, AssetID: bazaartest.SequenceID(1), From: owner.Address(), To: recipient},
			WantOwner: recipient,
		},
		"sender must sign": {
			Signers:   []bazaar.Condition{other},
			Msg:       &TransferMsg{Metadata: &bazaar.Metadata{Schema: 1}, AssetID: bazaartest.SequenceID(1), From: owner.Address(), To: recipient},
			WantErr:   errors.ErrUnauthorized,
			WantOwner: owner.Address(),
		},
		"sender must own the asset": {
			Signers:   []bazaar.Condition{other},
			Msg:       &TransferMsg{Metadata: &bazaar.Metadata{Schema: 1}, AssetID: bazaartest.SequenceID(1), From: other.Address(), To: recipient},
			WantErr:   ErrNotOwner,
			WantOwner: owner.Address(),
		},
		"reserved recipient": {
			Signers:   []bazaar.Condition{owner},
			Msg:       &TransferMsg{Metadata: &bazaar.Metadata{Schema: 1}, AssetID: bazaartest.SequenceID(1), From: owner.Address(), To: escrow},
			WantErr:   ErrReservedOwner,
			WantOwner: owner.Address(),
		},
		"unknown asset": {
			Signers:   []bazaar.Condition{owner},
			Msg:       &TransferMsg{Metadata: &bazaar.Metadata{Schema: 1}, AssetID: bazaartest.SequenceID(9), From: owner.Address(), To: recipient},
			WantErr:   ErrUnknownAsset,
			WantOwner: owner.Address(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			_, err := ctrl.Mint(db, owner.Address(), "ipfs://asset")
			assert.Nil(t, err)

			auth := &bazaartest.Auth{Signers: tc.Signers}
			h := &transferHandler{auth: auth, ctrl: ctrl, reserved: []bazaar.Address{escrow}}
			tx := &bazaartest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := h.Check(context.Background(), cache, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()
			if _, err := h.Deliver(context.Background(), db, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			got, err := ctrl.OwnerOf(db, bazaartest.SequenceID(1))
			assert.Nil(t, err)
			assert.Equal(t, tc.WantOwner, got)
		})
	}
}
