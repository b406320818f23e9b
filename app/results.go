package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// TxResult is the outcome of processing a single transaction. A zero Code
// means success.
type TxResult struct {
	Code uint32            `json:"code"`
	Log  string            `json:"log,omitempty"`
	Data []byte            `json:"data,omitempty"`
	Tags []bazaar.KeyValue `json:"tags,omitempty"`
}

// IsOK returns true if the transaction was processed without an error.
func (r TxResult) IsOK() bool {
	return r.Code == errors.SuccessABCICode
}

// errorResult converts an error into a failed result. Internal errors are
// only described in debug mode.
func errorResult(err error, debug bool) TxResult {
	code, log := errors.ABCIInfo(err, debug)
	return TxResult{Code: code, Log: log}
}

func checkResult(res *bazaar.CheckResult) TxResult {
	if res == nil {
		return TxResult{}
	}
	return TxResult{Data: res.Data, Log: res.Log}
}

func deliverResult(res *bazaar.DeliverResult) TxResult {
	if res == nil {
		return TxResult{}
	}
	return TxResult{Data: res.Data, Log: res.Log, Tags: res.Tags}
}
