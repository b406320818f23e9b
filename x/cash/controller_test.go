package cash

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/stretchr/testify/require"
)

func TestMoveCoins(t *testing.T) {
	alice := bazaartest.RandomAddr(t)
	bob := bazaartest.RandomAddr(t)

	cases := map[string]struct {
		Funds   []coin.Coin
		Move    coin.Coin
		WantErr *errors.Error
		// Expected balances after the move.
		WantAlice coin.Coins
		WantBob   coin.Coins
	}{
		"move part of the funds": {
			Funds:     []coin.Coin{coin.NewCoin(10, 0, "ETH")},
			Move:      coin.NewCoin(2, 500000000, "ETH"),
			WantAlice: coin.Coins{coin.NewCoinp(7, 500000000, "ETH")},
			WantBob:   coin.Coins{coin.NewCoinp(2, 500000000, "ETH")},
		},
		"move everything": {
			Funds:     []coin.Coin{coin.NewCoin(3, 0, "ETH")},
			Move:      coin.NewCoin(3, 0, "ETH"),
			WantAlice: coin.Coins{},
			WantBob:   coin.Coins{coin.NewCoinp(3, 0, "ETH")},
		},
		"insufficient funds": {
			Funds:     []coin.Coin{coin.NewCoin(1, 0, "ETH")},
			Move:      coin.NewCoin(1, 1, "ETH"),
			WantErr:   errors.ErrInsufficientAmount,
			WantAlice: coin.Coins{coin.NewCoinp(1, 0, "ETH")},
		},
		"wrong currency": {
			Funds:     []coin.Coin{coin.NewCoin(5, 0, "ETH")},
			Move:      coin.NewCoin(1, 0, "BTC"),
			WantErr:   errors.ErrInsufficientAmount,
			WantAlice: coin.Coins{coin.NewCoinp(5, 0, "ETH")},
		},
		"empty account": {
			Move:    coin.NewCoin(1, 0, "ETH"),
			WantErr: errors.ErrEmpty,
		},
		"zero amount": {
			Funds:     []coin.Coin{coin.NewCoin(5, 0, "ETH")},
			Move:      coin.NewCoin(0, 0, "ETH"),
			WantErr:   errors.ErrAmount,
			WantAlice: coin.Coins{coin.NewCoinp(5, 0, "ETH")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			for _, c := range tc.Funds {
				require.NoError(t, ctrl.CoinMint(db, alice, c))
			}

			err := ctrl.MoveCoins(db, alice, bob, tc.Move)
			require.True(t, tc.WantErr.Is(err), "unexpected error: %+v", err)

			got, err := ctrl.Balance(db, alice)
			require.NoError(t, err)
			require.True(t, tc.WantAlice.Equals(got), "alice balance: %v", got)

			got, err = ctrl.Balance(db, bob)
			require.NoError(t, err)
			require.True(t, tc.WantBob.Equals(got), "bob balance: %v", got)
		})
	}
}

func TestMoveCoinsToSelf(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	alice := bazaartest.RandomAddr(t)

	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(4, 0, "ETH")))
	require.NoError(t, ctrl.MoveCoins(db, alice, alice, coin.NewCoin(1, 0, "ETH")))

	got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	require.Equal(t, coin.NewCoin(4, 0, "ETH"), got.Get("ETH"))
}

func TestCoinMint(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	alice := bazaartest.RandomAddr(t)

	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(1, 0, "ETH")))
	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(0, 500, "ETH")))
	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewCoin(2, 0, "BTC")))

	got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	require.Equal(t, coin.Coins{coin.NewCoinp(2, 0, "BTC"), coin.NewCoinp(1, 500, "ETH")}, got)

	err = ctrl.CoinMint(db, alice, coin.NewCoin(-1, 0, "ETH"))
	require.True(t, errors.ErrAmount.Is(err))
	err = ctrl.CoinMint(db, alice, coin.NewCoin(1, 0, "x"))
	require.True(t, errors.ErrCurrency.Is(err))
}
