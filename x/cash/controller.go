package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

// Controller is the functionality needed by cash.Handler and by other
// extensions that charge or pay coins.
type Controller interface {
	CoinMover
	CoinMinter
	Balance(bazaar.ReadOnlyKVStore, bazaar.Address) (coin.Coins, error)
}

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account. This operation is atomic.
	MoveCoins(db bazaar.KVStore, src bazaar.Address, dest bazaar.Address, amount coin.Coin) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	CoinMint(db bazaar.KVStore, dest bazaar.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of the controller. Wallets are
// stored in the given bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the coins held by given address. An address that never
// held coins has an empty balance.
func (c BaseController) Balance(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (coin.Coins, error) {
	s, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return coin.Coins(s.Coins), nil
}

// MoveCoins moves the given amount from src to dest. If src doesn't exist,
// or doesn't have sufficient coins, it fails.
func (c BaseController) MoveCoins(db bazaar.KVStore, src bazaar.Address, dest bazaar.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount.String())
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if len(sender.Coins) == 0 {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if !coin.Coins(sender.Coins).Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s cannot pay %s", src, amount.String())
	}
	if sender.Coins, err = coin.Coins(sender.Coins).Subtract(amount); err != nil {
		return err
	}
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Load the recipient only after the sender is saved so that moving
	// coins to self does not duplicate them.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient.Coins, err = coin.Coins(recipient.Coins).Add(amount); err != nil {
		return err
	}
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db bazaar.KVStore, dest bazaar.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount.String())
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient.Coins, err = coin.Coins(recipient.Coins).Add(amount); err != nil {
		return err
	}
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}
