package utils

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Recovery converts a panic raised further down the stack into an ErrPanic
// result, so a single bad transaction cannot halt the ledger. Every recovered
// panic is logged together with the message path.
type Recovery struct{}

var _ bazaar.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (res *bazaar.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (res *bazaar.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Deliver(ctx, db, tx)
}

func recoverTx(ctx bazaar.Context, tx bazaar.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	bazaar.GetLogger(ctx).Error("transaction panicked", "path", bazaar.GetPath(tx), "panic", r)
}
