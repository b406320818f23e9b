package market

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/stretchr/testify/require"
)

// fixture is a market with a configured administrator and listing fee and
// two funded participants.
type fixture struct {
	db     bazaar.CacheableKVStore
	ctrl   BaseController
	assets registry.BaseController
	cash   cash.BaseController

	admin  bazaar.Condition
	seller bazaar.Condition
	buyer  bazaar.Condition
	fee    coin.Coin
}

func newFixture(t testing.TB, fee coin.Coin) *fixture {
	t.Helper()

	f := &fixture{
		db:     store.MemStore(),
		assets: registry.NewController(registry.NewBucket()),
		cash:   cash.NewController(cash.NewBucket()),
		admin:  bazaartest.NewCondition(),
		seller: bazaartest.NewCondition(),
		buyer:  bazaartest.NewCondition(),
		fee:    fee,
	}
	f.ctrl = NewController(NewBucket(), f.assets, f.cash)

	conf := Configuration{
		Metadata:   &bazaar.Metadata{Schema: 1},
		Owner:      f.admin.Address(),
		ListingFee: &fee,
	}
	require.NoError(t, gconf.Save(f.db, confPkg, &conf))
	require.NoError(t, f.cash.CoinMint(f.db, f.seller.Address(), coin.NewCoin(10, 0, "ETH")))
	require.NoError(t, f.cash.CoinMint(f.db, f.buyer.Address(), coin.NewCoin(100, 0, "ETH")))
	return f
}

// mint creates an asset owned by the seller.
func (f *fixture) mint(t testing.TB) []byte {
	t.Helper()
	id, err := f.assets.Mint(f.db, f.seller.Address(), "ipfs://asset")
	require.NoError(t, err)
	return id
}

// list mints an asset and lists it for given price.
func (f *fixture) list(t testing.TB, price coin.Coin) []byte {
	t.Helper()
	id, err := f.ctrl.CreateListing(f.db, f.seller.Address(), f.mint(t), price, f.fee)
	require.NoError(t, err)
	return id
}

func (f *fixture) balance(t testing.TB, addr bazaar.Address) coin.Coin {
	t.Helper()
	b, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	return b.Get("ETH")
}
