package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/iov-one/bazaar/x/sigs"
)

// queryModels maps a query path root to the model stored under it.
var queryModels = map[string]func() proto.Message{
	"/assets":       func() proto.Message { return &registry.Asset{} },
	"/auth":         func() proto.Message { return &sigs.UserData{} },
	"/listings":     func() proto.Message { return &market.Listing{} },
	"/market/conf":  func() proto.Message { return &market.Configuration{} },
	"/market/stats": func() proto.Message { return &market.Stats{} },
	"/wallets":      func() proto.Message { return &cash.Set{} },
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the last committed state and print the result as JSON.

Examples:

  marketd query -path /listings/unsold -data 01
  marketd query -path /listings/seller -actor alice
  marketd query -path /assets -id 1
  marketd query -path /market/stats
`)
		fl.PrintDefaults()
	}
	cfg.bindFlags(fl)
	var (
		pathFl  = fl.String("path", "", "Query path, optionally followed by ?prefix.")
		dataFl  = fl.String("data", "", "Hex encoded query data.")
		actorFl = fl.String("actor", "", "Use the address of the named actor as query data.")
		idFl    = fl.Uint64("id", 0, "Use the given asset or listing id as query data.")
	)
	fl.Parse(args)

	var data []byte
	switch {
	case *actorFl != "":
		actors, err := loadActors(cfg.actorsFile())
		if err != nil {
			return err
		}
		data, err = actors.Address(cfg.Seed, *actorFl)
		if err != nil {
			return err
		}
	case *idFl != 0:
		data = sequenceID(*idFl)
	case *dataFl != "":
		data, err = hex.DecodeString(*dataFl)
		if err != nil {
			return fmt.Errorf("invalid data: %s", err)
		}
	}

	logger, err := cfg.logger()
	if err != nil {
		return err
	}
	ledger, closeLedger, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	models, err := ledger.Query(*pathFl, data)
	if err != nil {
		return err
	}
	results, err := decodeModels(*pathFl, models)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

type queryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// decodeModels unmarshals query results into the model registered for the
// path. Unknown paths are returned hex encoded.
func decodeModels(path string, models []bazaar.Model) ([]queryResult, error) {
	path = strings.SplitN(path, "?", 2)[0]
	var newModel func() proto.Message
	for root, fn := range queryModels {
		if path == root || strings.HasPrefix(path, root+"/") {
			newModel = fn
			break
		}
	}

	results := make([]queryResult, 0, len(models))
	for _, m := range models {
		res := queryResult{Key: hex.EncodeToString(m.Key)}
		if newModel == nil {
			res.Value = hex.EncodeToString(m.Value)
		} else {
			obj := newModel()
			if err := proto.Unmarshal(m.Value, obj); err != nil {
				return nil, fmt.Errorf("cannot parse %x: %s", m.Key, err)
			}
			res.Value = obj
		}
		results = append(results, res)
	}
	return results, nil
}
