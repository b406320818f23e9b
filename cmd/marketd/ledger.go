package main

import (
	"fmt"

	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/store/sqlite"
	"github.com/tendermint/tendermint/libs/log"
)

// openLedger opens the ledger stored in the home directory. A ledger that
// was never initialized is bootstrapped from the genesis file.
func openLedger(cfg Config, logger log.Logger) (*app.Ledger, func() error, error) {
	db, err := sqlite.NewCommitStore(cfg.stateFile())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open state: %s", err)
	}
	ledger, err := app.NewLedger("bazaar", db, app.Stack(), app.QueryRouter(), app.DecodeTx)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("cannot load ledger: %s", err)
	}
	ledger.WithLogger(logger)

	if ledger.ChainID() == "" {
		gen, err := app.LoadGenesis(cfg.genesisFile())
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("cannot load genesis: %s", err)
		}
		if err := ledger.InitChain(gen, app.Initializers()); err != nil {
			db.Close()
			return nil, nil, err
		}
		if _, err := ledger.Commit(); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return ledger, db.Close, nil
}
