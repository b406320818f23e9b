package market

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/gconf"
)

// Genesis fulfils the Initializer interface. It loads the market
// configuration from the "conf.market" section of the genesis file.
type Genesis struct{}

var _ bazaar.Initializer = Genesis{}

func (Genesis) FromGenesis(opts bazaar.Options, db bazaar.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
