package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create the genesis and actors files in the home directory.

Every actor is funded with the same amount. The admin actor owns the market
configuration and receives listing fees. This command fails if a genesis
file already exists.
`)
		fl.PrintDefaults()
	}
	cfg.bindFlags(fl)
	var (
		actorsFl = fl.String("actors", "admin,alice,bob", "Comma separated list of actor names.")
		adminFl  = fl.String("admin", "admin", "Name of the actor administrating the market.")
		fundFl   = fl.String("fund", "100 ETH", "Amount each actor is funded with.")
		feeFl    = fl.String("fee", "0.025 ETH", "Listing fee.")
		chainFl  = fl.String("chain-id", cfg.ChainID, "Chain ID. You can use MARKETD_CHAIN_ID environment variable to set it.")
	)
	fl.Parse(args)

	if _, err := os.Stat(cfg.genesisFile()); !os.IsNotExist(err) {
		return fmt.Errorf("genesis file %q already exists", cfg.genesisFile())
	}
	if err := os.MkdirAll(cfg.Home, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}

	actors, err := newActors(strings.Split(*actorsFl, ","))
	if err != nil {
		return err
	}
	fund, err := coin.ParseHumanFormat(*fundFl)
	if err != nil {
		return fmt.Errorf("invalid fund amount: %s", err)
	}
	fee, err := coin.ParseHumanFormat(*feeFl)
	if err != nil {
		return fmt.Errorf("invalid listing fee: %s", err)
	}
	admin, err := actors.Address(cfg.Seed, *adminFl)
	if err != nil {
		return err
	}

	gen, err := buildGenesis(cfg, *chainFl, actors, admin, fund, fee)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize genesis: %s", err)
	}
	if err := os.WriteFile(cfg.genesisFile(), raw, 0600); err != nil {
		return fmt.Errorf("cannot write genesis file: %s", err)
	}
	if err := actors.save(cfg.actorsFile()); err != nil {
		return err
	}
	fmt.Fprintln(output, cfg.genesisFile())
	return nil
}

func buildGenesis(cfg Config, chainID string, actors Actors, admin bazaar.Address, fund, fee coin.Coin) (app.Genesis, error) {
	var accounts []cash.GenesisAccount
	for _, name := range actors.Names() {
		addr, err := actors.Address(cfg.Seed, name)
		if err != nil {
			return app.Genesis{}, err
		}
		accounts = append(accounts, cash.GenesisAccount{
			Address: addr,
			Coins:   coin.Coins{fund.Clone()},
		})
	}
	rawAccounts, err := json.Marshal(accounts)
	if err != nil {
		return app.Genesis{}, fmt.Errorf("cannot serialize accounts: %s", err)
	}

	conf := market.Configuration{
		Metadata:   &bazaar.Metadata{Schema: 1},
		Owner:      admin,
		ListingFee: fee.Clone(),
	}
	if err := conf.Validate(); err != nil {
		return app.Genesis{}, fmt.Errorf("invalid market configuration: %s", err)
	}
	rawConf, err := json.Marshal(map[string]market.Configuration{"market": conf})
	if err != nil {
		return app.Genesis{}, fmt.Errorf("cannot serialize configuration: %s", err)
	}

	return app.Genesis{
		ChainID: chainID,
		AppState: bazaar.Options{
			"cash": rawAccounts,
			"conf": rawConf,
		},
	}, nil
}
