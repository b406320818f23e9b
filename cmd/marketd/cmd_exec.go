package main

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/iov-one/bazaar/x/sigs"
)

func cmdExec(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Execute a scenario of marketplace operations read from standard input.

A scenario is a JSON list of operations, for example

  [
    {"op": "mint", "signer": "alice", "uri": "ipfs://QmAsset"},
    {"op": "list", "signer": "alice", "asset": 1, "price": "5 ETH"},
    {"op": "buy", "signer": "bob", "listing": 1}
  ]

Supported operations are mint, transfer, list, buy, send and set_fee. Each
operation is signed by the named actor, delivered and committed as its own
block. One result line is written per operation.
`)
		fl.PrintDefaults()
	}
	cfg.bindFlags(fl)
	var (
		stopFl = fl.Bool("stop-on-error", false, "Stop at the first failed operation.")
	)
	fl.Parse(args)

	var ops []operation
	if err := json.NewDecoder(input).Decode(&ops); err != nil {
		return fmt.Errorf("cannot parse scenario: %s", err)
	}

	logger, err := cfg.logger()
	if err != nil {
		return err
	}
	actors, err := loadActors(cfg.actorsFile())
	if err != nil {
		return err
	}
	ledger, closeLedger, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	r := runner{cfg: cfg, actors: actors, ledger: ledger}
	enc := json.NewEncoder(output)
	for i, op := range ops {
		res, err := r.run(op)
		if err != nil {
			return fmt.Errorf("operation %d (%s): %s", i, op.Op, err)
		}
		if err := enc.Encode(opResult{Op: op.Op, Code: res.Code, Log: res.Log, Data: hex.EncodeToString(res.Data)}); err != nil {
			return fmt.Errorf("cannot write result: %s", err)
		}
		if !res.IsOK() && *stopFl {
			return fmt.Errorf("operation %d (%s) failed: %s", i, op.Op, res.Log)
		}
	}
	return nil
}

// operation is a single scenario step. Which attributes are required
// depends on the operation kind.
type operation struct {
	Op      string     `json:"op"`
	Signer  string     `json:"signer"`
	URI     string     `json:"uri,omitempty"`
	Asset   uint64     `json:"asset,omitempty"`
	Listing uint64     `json:"listing,omitempty"`
	To      string     `json:"to,omitempty"`
	Price   *coin.Coin `json:"price,omitempty"`
	Amount  *coin.Coin `json:"amount,omitempty"`
	Fee     *coin.Coin `json:"fee,omitempty"`
}

type opResult struct {
	Op   string `json:"op"`
	Code uint32 `json:"code"`
	Log  string `json:"log,omitempty"`
	Data string `json:"data,omitempty"`
}

type runner struct {
	cfg    Config
	actors Actors
	ledger *app.Ledger
}

// run signs, delivers and commits a single operation. An error is returned
// only if the operation cannot be built. Rejected transactions are
// reported through the result.
func (r runner) run(op operation) (app.TxResult, error) {
	key, err := r.actors.Key(r.cfg.Seed, op.Signer)
	if err != nil {
		return app.TxResult{}, err
	}
	msg, err := r.buildMsg(op, key.PublicKey().Address())
	if err != nil {
		return app.TxResult{}, err
	}
	raw, err := r.sign(msg, key)
	if err != nil {
		return app.TxResult{}, err
	}
	res := r.ledger.DeliverTx(raw)
	if _, err := r.ledger.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

func (r runner) buildMsg(op operation, signer bazaar.Address) (bazaar.Msg, error) {
	meta := &bazaar.Metadata{Schema: 1}
	switch op.Op {
	case "mint":
		return &registry.MintMsg{Metadata: meta, Creator: signer, MetadataURI: op.URI}, nil
	case "transfer":
		to, err := r.actors.Address(r.cfg.Seed, op.To)
		if err != nil {
			return nil, err
		}
		return &registry.TransferMsg{Metadata: meta, AssetID: sequenceID(op.Asset), From: signer, To: to}, nil
	case "list":
		fee := op.Fee
		if fee == nil {
			conf, err := r.configuration()
			if err != nil {
				return nil, err
			}
			fee = conf.ListingFee
		}
		return &market.CreateListingMsg{
			Metadata: meta,
			Seller:   signer,
			AssetID:  sequenceID(op.Asset),
			Price:    op.Price,
			Fee:      fee,
		}, nil
	case "buy":
		amount := op.Amount
		if amount == nil {
			listing, err := r.listing(op.Listing)
			if err != nil {
				return nil, err
			}
			amount = listing.Price
		}
		return &market.PurchaseMsg{Metadata: meta, Buyer: signer, ListingID: sequenceID(op.Listing), Amount: amount}, nil
	case "send":
		to, err := r.actors.Address(r.cfg.Seed, op.To)
		if err != nil {
			return nil, err
		}
		return &cash.SendMsg{Metadata: meta, Source: signer, Destination: to, Amount: op.Amount}, nil
	case "set_fee":
		if op.Fee == nil {
			return nil, fmt.Errorf("fee required")
		}
		return &market.UpdateConfigurationMsg{Metadata: meta, Patch: &market.Configuration{ListingFee: op.Fee}}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op.Op)
	}
}

// sign wraps the message into a transaction signed with the next nonce of
// the key.
func (r runner) sign(msg bazaar.Msg, key *crypto.PrivateKey) ([]byte, error) {
	tx, err := app.NewTx(msg)
	if err != nil {
		return nil, err
	}
	var nonce int64
	models, err := r.ledger.Query("/auth", key.PublicKey().Address())
	if err != nil {
		return nil, fmt.Errorf("cannot query nonce: %s", err)
	}
	if len(models) == 1 {
		var user sigs.UserData
		if err := proto.Unmarshal(models[0].Value, &user); err != nil {
			return nil, fmt.Errorf("cannot parse nonce: %s", err)
		}
		nonce = user.Sequence
	}
	sig, err := sigs.SignTx(key, tx, r.ledger.ChainID(), nonce)
	if err != nil {
		return nil, fmt.Errorf("cannot sign: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)
	return proto.Marshal(tx)
}

func (r runner) configuration() (*market.Configuration, error) {
	models, err := r.ledger.Query("/market/conf", nil)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("market not configured")
	}
	var conf market.Configuration
	if err := proto.Unmarshal(models[0].Value, &conf); err != nil {
		return nil, fmt.Errorf("cannot parse configuration: %s", err)
	}
	return &conf, nil
}

func (r runner) listing(id uint64) (*market.Listing, error) {
	models, err := r.ledger.Query("/listings", sequenceID(id))
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("listing %d not found", id)
	}
	var listing market.Listing
	if err := proto.Unmarshal(models[0].Value, &listing); err != nil {
		return nil, fmt.Errorf("cannot parse listing: %s", err)
	}
	return &listing, nil
}

// sequenceID encodes a numeric id the way the ledger sequences do.
func sequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
