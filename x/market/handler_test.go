package market

import (
	"context"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/registry"
)

func TestCreateListingHandler(t *testing.T) {
	fee := coin.NewCoin(0, 25000000, "ETH")

	cases := map[string]struct {
		Signers        func(*fixture) []bazaar.Condition
		Msg            func(f *fixture, asset []byte) *CreateListingMsg
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
	}{
		"seller lists an asset": {
			Signers: func(f *fixture) []bazaar.Condition { return []bazaar.Condition{f.seller} },
			Msg: func(f *fixture, asset []byte) *CreateListingMsg {
				return &CreateListingMsg{
					Metadata: &bazaar.Metadata{Schema: 1},
					Seller:   f.seller.Address(),
					AssetID:  asset,
					Price:    coin.NewCoinp(1, 0, "ETH"),
					Fee:      &fee,
				}
			},
		},
		"seller must sign": {
			Signers: func(f *fixture) []bazaar.Condition { return []bazaar.Condition{f.buyer} },
			Msg: func(f *fixture, asset []byte) *CreateListingMsg {
				return &CreateListingMsg{
					Metadata: &bazaar.Metadata{Schema: 1},
					Seller:   f.seller.Address(),
					AssetID:  asset,
					Price:    coin.NewCoinp(1, 0, "ETH"),
					Fee:      &fee,
				}
			},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"wrong fee is rejected on check": {
			Signers: func(f *fixture) []bazaar.Condition { return []bazaar.Condition{f.seller} },
			Msg: func(f *fixture, asset []byte) *CreateListingMsg {
				return &CreateListingMsg{
					Metadata: &bazaar.Metadata{Schema: 1},
					Seller:   f.seller.Address(),
					AssetID:  asset,
					Price:    coin.NewCoinp(1, 0, "ETH"),
					Fee:      coin.NewCoinp(1, 0, "ETH"),
				}
			},
			WantCheckErr:   ErrWrongFee,
			WantDeliverErr: ErrWrongFee,
		},
		"a signer cannot list an asset of someone else": {
			Signers: func(f *fixture) []bazaar.Condition { return []bazaar.Condition{f.buyer} },
			Msg: func(f *fixture, asset []byte) *CreateListingMsg {
				return &CreateListingMsg{
					Metadata: &bazaar.Metadata{Schema: 1},
					Seller:   f.buyer.Address(),
					AssetID:  asset,
					Price:    coin.NewCoinp(1, 0, "ETH"),
					Fee:      &fee,
				}
			},
			WantDeliverErr: registry.ErrNotOwner,
		},
		"price must be positive": {
			Signers: func(f *fixture) []bazaar.Condition { return []bazaar.Condition{f.seller} },
			Msg: func(f *fixture, asset []byte) *CreateListingMsg {
				return &CreateListingMsg{
					Metadata: &bazaar.Metadata{Schema: 1},
					Seller:   f.seller.Address(),
					AssetID:  asset,
					Price:    coin.NewCoinp(0, 0, "ETH"),
					Fee:      &fee,
				}
			},
			WantCheckErr:   ErrInvalidPrice,
			WantDeliverErr: ErrInvalidPrice,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, fee)
			asset := f.mint(t)
			auth := &bazaartest.Auth{Signers: tc.Signers(f)}
			h := &createListingHandler{auth: auth, ctrl: f.ctrl}
			tx := &bazaartest.Tx{Msg: tc.Msg(f, asset)}

			cache := f.db.CacheWrap()
			if _, err := h.Check(context.Background(), cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			res, err := h.Deliver(context.Background(), f.db, tx)
			if !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantDeliverErr == nil {
				assert.Equal(t, bazaartest.SequenceID(1), res.Data)
			}
		})
	}
}

func TestPurchaseHandler(t *testing.T) {
	fee := coin.NewCoin(0, 25000000, "ETH")
	f := newFixture(t, fee)
	id := f.list(t, coin.NewCoin(3, 0, "ETH"))

	auth := &bazaartest.Auth{Signer: f.buyer}
	h := &purchaseHandler{auth: auth, ctrl: f.ctrl}
	msg := &PurchaseMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Buyer:     f.buyer.Address(),
		ListingID: id,
		Amount:    coin.NewCoinp(3, 0, "ETH"),
	}
	tx := &bazaartest.Tx{Msg: msg}

	_, err := h.Check(context.Background(), f.db.CacheWrap(), tx)
	assert.Nil(t, err)
	res, err := h.Deliver(context.Background(), f.db, tx)
	assert.Nil(t, err)
	assert.Equal(t, id, res.Data)

	// Sold listings are rejected already on check.
	_, err = h.Check(context.Background(), f.db.CacheWrap(), tx)
	assert.IsErr(t, ErrAlreadySold, err)
	_, err = h.Deliver(context.Background(), f.db, tx)
	assert.IsErr(t, ErrAlreadySold, err)

	// Somebody else cannot buy on behalf of the buyer.
	other := &purchaseHandler{auth: &bazaartest.Auth{Signer: f.seller}, ctrl: f.ctrl}
	_, err = other.Check(context.Background(), f.db.CacheWrap(), tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestUpdateConfigurationHandler(t *testing.T) {
	fee := coin.NewCoin(0, 25000000, "ETH")
	f := newFixture(t, fee)

	msg := &UpdateConfigurationMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Patch:    &Configuration{ListingFee: coin.NewCoinp(0, 50000000, "ETH")},
	}
	tx := &bazaartest.Tx{Msg: msg}

	// Only the administrator can change the fee.
	_, err := NewConfigHandler(&bazaartest.Auth{Signer: f.seller}).Deliver(context.Background(), f.db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = NewConfigHandler(&bazaartest.Auth{Signer: f.admin}).Deliver(context.Background(), f.db, tx)
	assert.Nil(t, err)

	got, err := f.ctrl.ListingFee(f.db)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(0, 50000000, "ETH"), got)

	conf, err := loadConf(f.db)
	assert.Nil(t, err)
	assert.Equal(t, f.admin.Address(), conf.Owner)
}

func TestStatsQuery(t *testing.T) {
	f := newFixture(t, coin.NewCoin(0, 0, "ETH"))
	id := f.list(t, coin.NewCoin(1, 0, "ETH"))
	f.list(t, coin.NewCoin(1, 0, "ETH"))
	assert.Nil(t, f.ctrl.Purchase(f.db, f.buyer.Address(), id, coin.NewCoin(1, 0, "ETH")))

	qr := bazaar.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/market/stats").Query(f.db, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var stats Stats
	assert.Nil(t, proto.Unmarshal(models[0].Value, &stats))
	assert.Equal(t, Stats{TotalListings: 2, TotalSold: 1}, stats)

	models, err = qr.Handler("/listings/unsold").Query(f.db, "", unsoldKey)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var listing Listing
	assert.Nil(t, proto.Unmarshal(models[0].Value, &listing))
	assert.Equal(t, bazaartest.SequenceID(2), listing.ID)
}

func TestConfigurationQuery(t *testing.T) {
	f := newFixture(t, coin.NewCoin(0, 25000000, "ETH"))

	qr := bazaar.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/market/conf").Query(f.db, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var conf Configuration
	assert.Nil(t, proto.Unmarshal(models[0].Value, &conf))
	assert.Equal(t, f.admin.Address(), conf.Owner)
	assert.Equal(t, coin.NewCoinp(0, 25000000, "ETH"), conf.ListingFee)
}
