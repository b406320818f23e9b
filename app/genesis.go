package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Genesis is the file format used to bootstrap a ledger.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState bazaar.Options `json:"app_state"`
}

// LoadGenesis reads and parses a genesis file.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(err, "read genesis file")
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...bazaar.Initializer) bazaar.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []bazaar.Initializer
}

var _ bazaar.Initializer = chainInitializer{}

// FromGenesis passes the options to all initializers in order, aborting at
// the first error.
func (c chainInitializer) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
