package app

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/stretchr/testify/require"
)

const testChainID = "bazaar-test"

// testChain drives a ledger with signed transactions, committing after
// every delivered transaction.
type testChain struct {
	t      testing.TB
	ledger *Ledger
	nonces map[string]int64
}

func newTestChain(t testing.TB, gen Genesis) (*testChain, func()) {
	t.Helper()

	db, cleanup := bazaartest.CommitKVStore(t)
	ledger, err := NewLedger("bazaar", db, Stack(), QueryRouter(), DecodeTx)
	require.NoError(t, err)
	require.NoError(t, ledger.InitChain(gen, Initializers()))
	_, err = ledger.Commit()
	require.NoError(t, err)
	return &testChain{t: t, ledger: ledger, nonces: make(map[string]int64)}, cleanup
}

func (c *testChain) signedTx(msg bazaar.Msg, signers ...*crypto.PrivateKey) []byte {
	c.t.Helper()

	tx, err := NewTx(msg)
	require.NoError(c.t, err)
	for _, key := range signers {
		addr := key.PublicKey().Address().String()
		sig, err := sigs.SignTx(key, tx, testChainID, c.nonces[addr])
		require.NoError(c.t, err)
		tx.Signatures = append(tx.Signatures, sig)
		c.nonces[addr]++
	}
	raw, err := proto.Marshal(tx)
	require.NoError(c.t, err)
	return raw
}

func (c *testChain) deliver(raw []byte) TxResult {
	c.t.Helper()
	res := c.ledger.DeliverTx(raw)
	_, err := c.ledger.Commit()
	require.NoError(c.t, err)
	return res
}

func (c *testChain) balance(addr bazaar.Address) coin.Coin {
	c.t.Helper()
	models, err := c.ledger.Query("/wallets", addr)
	require.NoError(c.t, err)
	if len(models) == 0 {
		return coin.NewCoin(0, 0, "ETH")
	}
	var set cash.Set
	require.NoError(c.t, proto.Unmarshal(models[0].Value, &set))
	return coin.Coins(set.Coins).Get("ETH")
}

func marketGenesis(t testing.TB, admin, seller, buyer bazaar.Address) Genesis {
	t.Helper()

	accounts, err := json.Marshal([]cash.GenesisAccount{
		{Address: seller, Coins: coin.Coins{coin.NewCoinp(10, 0, "ETH")}},
		{Address: buyer, Coins: coin.Coins{coin.NewCoinp(100, 0, "ETH")}},
	})
	require.NoError(t, err)
	conf, err := json.Marshal(map[string]*market.Configuration{
		"market": {
			Metadata:   &bazaar.Metadata{Schema: 1},
			Owner:      admin,
			ListingFee: coin.NewCoinp(0, 25000000, "ETH"),
		},
	})
	require.NoError(t, err)
	return Genesis{
		ChainID: testChainID,
		AppState: bazaar.Options{
			"cash": accounts,
			"conf": conf,
		},
	}
}

func TestMarketplaceFlow(t *testing.T) {
	admin, seller, buyer := bazaartest.NewKey(), bazaartest.NewKey(), bazaartest.NewKey()
	adminAddr := admin.PublicKey().Address()
	sellerAddr := seller.PublicKey().Address()
	buyerAddr := buyer.PublicKey().Address()

	chain, cleanup := newTestChain(t, marketGenesis(t, adminAddr, sellerAddr, buyerAddr))
	defer cleanup()

	// mint
	mint := &registry.MintMsg{
		Metadata:    &bazaar.Metadata{Schema: 1},
		Creator:     sellerAddr,
		MetadataURI: "ipfs://QmAsset",
	}
	res := chain.deliver(chain.signedTx(mint, seller))
	require.True(t, res.IsOK(), res.Log)
	assetID := res.Data
	require.Equal(t, bazaartest.SequenceID(1), assetID)

	// list
	create := &market.CreateListingMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Seller:   sellerAddr,
		AssetID:  assetID,
		Price:    coin.NewCoinp(5, 0, "ETH"),
		Fee:      coin.NewCoinp(0, 25000000, "ETH"),
	}
	raw := chain.signedTx(create, seller)
	require.True(t, chain.ledger.CheckTx(raw).IsOK())
	res = chain.deliver(raw)
	require.True(t, res.IsOK(), res.Log)
	listingID := res.Data

	models, err := chain.ledger.Query("/assets", assetID)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var asset registry.Asset
	require.NoError(t, proto.Unmarshal(models[0].Value, &asset))
	require.Equal(t, market.CustodyAddress, asset.Owner)

	models, err = chain.ledger.Query("/listings/unsold", []byte{1})
	require.NoError(t, err)
	require.Len(t, models, 1)

	// purchase
	buy := &market.PurchaseMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Buyer:     buyerAddr,
		ListingID: listingID,
		Amount:    coin.NewCoinp(5, 0, "ETH"),
	}
	res = chain.deliver(chain.signedTx(buy, buyer))
	require.True(t, res.IsOK(), res.Log)

	require.NoError(t, proto.Unmarshal(mustQueryOne(t, chain.ledger, "/assets", assetID), &asset))
	require.Equal(t, buyerAddr, asset.Owner)

	require.Equal(t, coin.NewCoin(14, 975000000, "ETH"), chain.balance(sellerAddr))
	require.Equal(t, coin.NewCoin(95, 0, "ETH"), chain.balance(buyerAddr))
	require.Equal(t, coin.NewCoin(0, 25000000, "ETH"), chain.balance(adminAddr))

	var stats market.Stats
	require.NoError(t, proto.Unmarshal(mustQueryOne(t, chain.ledger, "/market/stats", nil), &stats))
	require.Equal(t, int64(1), stats.TotalListings)
	require.Equal(t, int64(1), stats.TotalSold)

	models, err = chain.ledger.Query("/listings/unsold", []byte{1})
	require.NoError(t, err)
	require.Len(t, models, 0)
	models, err = chain.ledger.Query("/listings/owner", buyerAddr)
	require.NoError(t, err)
	require.Len(t, models, 1)

	// the listing cannot be bought twice
	again := &market.PurchaseMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Buyer:     sellerAddr,
		ListingID: listingID,
		Amount:    coin.NewCoinp(5, 0, "ETH"),
	}
	res = chain.deliver(chain.signedTx(again, seller))
	require.Equal(t, market.ErrAlreadySold.ABCICode(), res.Code)
}

func TestLedgerRejectsInvalidTransactions(t *testing.T) {
	admin, seller, buyer := bazaartest.NewKey(), bazaartest.NewKey(), bazaartest.NewKey()
	sellerAddr := seller.PublicKey().Address()
	chain, cleanup := newTestChain(t, marketGenesis(t,
		admin.PublicKey().Address(), sellerAddr, buyer.PublicKey().Address()))
	defer cleanup()

	mint := &registry.MintMsg{
		Metadata:    &bazaar.Metadata{Schema: 1},
		Creator:     sellerAddr,
		MetadataURI: "ipfs://QmAsset",
	}

	// unsigned
	res := chain.deliver(chain.signedTx(mint))
	require.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// signed by someone else than the creator
	res = chain.deliver(chain.signedTx(mint, buyer))
	require.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// replayed
	raw := chain.signedTx(mint, seller)
	require.True(t, chain.deliver(raw).IsOK())
	res = chain.deliver(raw)
	require.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res.Code)

	// garbage
	res = chain.ledger.DeliverTx([]byte("not a transaction"))
	require.False(t, res.IsOK())

	// a failed transaction does not change the state
	count, err := registry.NewController(registry.NewBucket()).Count(chain.ledger.store.CommittedStore())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestLedgerRequiresGenesis(t *testing.T) {
	db, cleanup := bazaartest.CommitKVStore(t)
	defer cleanup()

	ledger, err := NewLedger("bazaar", db, Stack(), QueryRouter(), DecodeTx)
	require.NoError(t, err)
	res := ledger.CheckTx(nil)
	require.Equal(t, errors.ErrState.ABCICode(), res.Code)

	_, err = ledger.Query("/no/such/path", nil)
	require.True(t, errors.ErrNotFound.Is(err))
}

// ledgerState is the part of the committed state a marketplace
// transaction may touch.
type ledgerState struct {
	Balances map[string]coin.Coin
	Owners   map[string]bazaar.Address
	Stats    market.Stats
	Unsold   int
}

func (c *testChain) state(accounts []bazaar.Address, assets ...[]byte) ledgerState {
	c.t.Helper()

	st := ledgerState{
		Balances: make(map[string]coin.Coin),
		Owners:   make(map[string]bazaar.Address),
	}
	for _, a := range append(accounts, market.CustodyAddress) {
		st.Balances[a.String()] = c.balance(a)
	}
	for _, id := range assets {
		var asset registry.Asset
		require.NoError(c.t, proto.Unmarshal(mustQueryOne(c.t, c.ledger, "/assets", id), &asset))
		st.Owners[string(id)] = asset.Owner
	}
	require.NoError(c.t, proto.Unmarshal(mustQueryOne(c.t, c.ledger, "/market/stats", nil), &st.Stats))
	unsold, err := c.ledger.Query("/listings/unsold", []byte{1})
	require.NoError(c.t, err)
	st.Unsold = len(unsold)
	return st
}

func TestFailedTransactionsLeaveNoTrace(t *testing.T) {
	admin, seller, buyer, pauper := bazaartest.NewKey(), bazaartest.NewKey(), bazaartest.NewKey(), bazaartest.NewKey()
	adminAddr := admin.PublicKey().Address()
	sellerAddr := seller.PublicKey().Address()
	buyerAddr := buyer.PublicKey().Address()
	pauperAddr := pauper.PublicKey().Address()
	accounts := []bazaar.Address{adminAddr, sellerAddr, buyerAddr, pauperAddr}

	chain, cleanup := newTestChain(t, marketGenesis(t, adminAddr, sellerAddr, buyerAddr))
	defer cleanup()

	mintAndList := func(key *crypto.PrivateKey, uri string, price coin.Coin) (asset, listing []byte, res TxResult) {
		owner := key.PublicKey().Address()
		mint := &registry.MintMsg{Metadata: &bazaar.Metadata{Schema: 1}, Creator: owner, MetadataURI: uri}
		minted := chain.deliver(chain.signedTx(mint, key))
		require.True(t, minted.IsOK(), minted.Log)
		create := &market.CreateListingMsg{
			Metadata: &bazaar.Metadata{Schema: 1},
			Seller:   owner,
			AssetID:  minted.Data,
			Price:    &price,
			Fee:      coin.NewCoinp(0, 25000000, "ETH"),
		}
		res = chain.deliver(chain.signedTx(create, key))
		return minted.Data, res.Data, res
	}

	cheapAsset, cheap, res := mintAndList(seller, "ipfs://cheap", coin.NewCoin(5, 0, "ETH"))
	require.True(t, res.IsOK(), res.Log)
	dearAsset, dear, res := mintAndList(seller, "ipfs://dear", coin.NewCoin(500, 0, "ETH"))
	require.True(t, res.IsOK(), res.Log)

	before := chain.state(accounts, cheapAsset, dearAsset)
	require.Equal(t, int64(2), before.Stats.TotalListings)
	require.Equal(t, 2, before.Unsold)
	require.Equal(t, coin.NewCoin(0, 50000000, "ETH"), before.Balances[market.CustodyAddress.String()])

	// the price must be paid exactly
	wrong := &market.PurchaseMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Buyer:     buyerAddr,
		ListingID: cheap,
		Amount:    coin.NewCoinp(4, 0, "ETH"),
	}
	res = chain.deliver(chain.signedTx(wrong, buyer))
	require.Equal(t, market.ErrWrongAmount.ABCICode(), res.Code, res.Log)
	require.Equal(t, before, chain.state(accounts, cheapAsset, dearAsset))

	// the buyer cannot afford the asset
	broke := &market.PurchaseMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Buyer:     buyerAddr,
		ListingID: dear,
		Amount:    coin.NewCoinp(500, 0, "ETH"),
	}
	res = chain.deliver(chain.signedTx(broke, buyer))
	require.Equal(t, errors.ErrInsufficientAmount.ABCICode(), res.Code, res.Log)
	require.Equal(t, before, chain.state(accounts, cheapAsset, dearAsset))

	// a seller without funds keeps the asset when the listing fee fails
	poorAsset, _, res := mintAndList(pauper, "ipfs://poor", coin.NewCoin(1, 0, "ETH"))
	require.Equal(t, errors.ErrEmpty.ABCICode(), res.Code, res.Log)
	after := chain.state(accounts, cheapAsset, dearAsset, poorAsset)
	require.Equal(t, pauperAddr, after.Owners[string(poorAsset)])
	delete(after.Owners, string(poorAsset))
	require.Equal(t, before, after)

	// custody only receives assets through a listing
	stash := &registry.TransferMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		AssetID:  poorAsset,
		From:     pauperAddr,
		To:       market.CustodyAddress,
	}
	res = chain.deliver(chain.signedTx(stash, pauper))
	require.Equal(t, registry.ErrReservedOwner.ABCICode(), res.Code, res.Log)
	after = chain.state(accounts, cheapAsset, dearAsset, poorAsset)
	require.Equal(t, pauperAddr, after.Owners[string(poorAsset)])

	// a valid purchase still goes through afterwards
	buy := &market.PurchaseMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		Buyer:     buyerAddr,
		ListingID: cheap,
		Amount:    coin.NewCoinp(5, 0, "ETH"),
	}
	res = chain.deliver(chain.signedTx(buy, buyer))
	require.True(t, res.IsOK(), res.Log)
	after = chain.state(accounts, cheapAsset, dearAsset)
	require.Equal(t, buyerAddr, after.Owners[string(cheapAsset)])
	require.Equal(t, int64(1), after.Stats.TotalSold)
	require.Equal(t, 1, after.Unsold)
}

func mustQueryOne(t testing.TB, l *Ledger, path string, data []byte) []byte {
	t.Helper()
	models, err := l.Query(path, data)
	require.NoError(t, err)
	require.Len(t, models, 1)
	return models[0].Value
}
