package utils

import (
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ bazaar.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx bazaar.Context, tx bazaar.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := bazaar.GetLogger(ctx).With(
		"path", bazaar.GetPath(tx),
		"duration", delta/time.Microsecond,
	)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		code, log := errors.ABCIInfo(err, false)
		logger.With("code", code).Error(msg, "err", log)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
