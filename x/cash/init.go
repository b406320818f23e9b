package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file. Address is
// hex encoded.
type GenesisAccount struct {
	Address bazaar.Address `json:"address"`
	Coins   coin.Coins     `json:"coins"`
}

// Genesis fulfils the Initializer interface to load data from the genesis
// file.
type Genesis struct{}

var _ bazaar.Initializer = Genesis{}

// FromGenesis will parse initial account info from genesis and save it to
// the database.
func (Genesis) FromGenesis(opts bazaar.Options, db bazaar.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %q genesis: %s", optKey, err)
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := control.CoinMint(db, acct.Address, *c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
