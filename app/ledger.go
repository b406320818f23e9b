package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger owns the marketplace state. It decodes transactions, runs them
// through the handler stack and commits the results.
//
// All operations are serialized, so a Ledger can be shared between
// goroutines.
type Ledger struct {
	mu sync.Mutex

	name    string
	store   *CommitStore
	handler bazaar.Handler
	queries bazaar.QueryRouter
	decoder bazaar.TxDecoder
	logger  log.Logger
	debug   bool

	chainID string
	// height of the last committed block
	height int64
}

// NewLedger loads the latest committed state and returns a ledger processing
// transactions with the given handler.
func NewLedger(name string, db bazaar.CommitKVStore, handler bazaar.Handler, queries bazaar.QueryRouter, decoder bazaar.TxDecoder) (*Ledger, error) {
	store, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	info, err := store.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	chainID, err := loadChainID(store.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Ledger{
		name:    name,
		store:   store,
		handler: handler,
		queries: queries,
		decoder: decoder,
		logger:  log.NewNopLogger(),
		chainID: chainID,
		height:  info.Version,
	}, nil
}

// WithLogger sets the logger used for this ledger and all its transactions.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger.With("module", l.name)
	return l
}

// WithDebug enables full error messages in transaction results.
func (l *Ledger) WithDebug(debug bool) *Ledger {
	l.debug = debug
	return l
}

// ChainID returns the chain id set at genesis, or an empty string.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// Height returns the height of the last committed block.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// InitChain stores the chain id and runs all initializers. The state is
// written only if every initializer succeeds. Call Commit to persist it.
func (l *Ledger) InitChain(gen Genesis, init bazaar.Initializer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", l.chainID)
	}
	err := utils.Atomic(l.store.DeliverStore(), func(db bazaar.KVStore) error {
		if err := saveChainID(db, gen.ChainID); err != nil {
			return err
		}
		if init == nil {
			return nil
		}
		return init.FromGenesis(gen.AppState, db)
	})
	if err != nil {
		return errors.Wrap(err, "init chain")
	}
	l.chainID = gen.ChainID
	l.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// CheckTx validates a transaction against the check state without
// modifying the state that is committed.
func (l *Ledger) CheckTx(raw []byte) TxResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ctx, err := l.prepare(raw)
	if err != nil {
		return errorResult(err, l.debug)
	}
	res, err := l.handler.Check(ctx, l.store.CheckStore(), tx)
	if err != nil {
		return errorResult(err, l.debug)
	}
	return checkResult(res)
}

// DeliverTx executes a transaction. Its changes become durable on the next
// Commit.
func (l *Ledger) DeliverTx(raw []byte) TxResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ctx, err := l.prepare(raw)
	if err != nil {
		return errorResult(err, l.debug)
	}
	res, err := l.handler.Deliver(ctx, l.store.DeliverStore(), tx)
	if err != nil {
		return errorResult(err, l.debug)
	}
	return deliverResult(res)
}

func (l *Ledger) prepare(raw []byte) (bazaar.Tx, bazaar.Context, error) {
	if l.chainID == "" {
		return nil, nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	tx, err := l.decoder(raw)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode transaction")
	}
	height := l.height + 1
	ctx := context.Background()
	ctx = bazaar.WithHeight(ctx, height)
	ctx = bazaar.WithChainID(ctx, l.chainID)
	ctx = bazaar.WithBlockTime(ctx, time.Now().UTC())
	ctx = bazaar.WithLogger(ctx, l.logger.With("height", height))
	return tx, ctx, nil
}

// Commit persists all delivered transactions as a new version.
func (l *Ledger) Commit() (bazaar.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	l.height = id.Version
	l.logger.Info("commit synced", "height", id.Version, "hash", id.Hash)
	return id, nil
}

// Query runs a query against the last committed state. The path may carry
// a query mode after a question mark, for example "/listings/seller?prefix".
func (l *Ledger) Query(path string, data []byte) ([]bazaar.Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	path, mod := splitPath(path)
	qh := l.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for path %q", path)
	}
	return qh.Query(l.store.CommittedStore(), mod, data)
}

// splitPath splits out the mod from a query path.
func splitPath(path string) (string, string) {
	if i := strings.Index(path, "?"); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, bazaar.KeyQueryMod
}
