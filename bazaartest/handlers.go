package bazaartest

import "github.com/iov-one/bazaar"

// Handler is a mock implementation of the bazaar.Handler interface.
//
// Each method call is counted. Configured result and error are returned.
// If Key is set, the key-value pair is written to the store before
// returning.
type Handler struct {
	checkCall   int
	CheckResult bazaar.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult bazaar.DeliverResult
	DeliverErr    error

	// Key and Value are written to the store on every call when Key is
	// not empty.
	Key   []byte
	Value []byte
}

var _ bazaar.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db bazaar.KVStore) error {
	if len(h.Key) == 0 {
		return nil
	}
	return db.Set(h.Key, h.Value)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// PanicHandler is a bazaar.Handler that always panics with given value.
type PanicHandler struct {
	Value interface{}
}

var _ bazaar.Handler = PanicHandler{}

func (p PanicHandler) Check(bazaar.Context, bazaar.KVStore, bazaar.Tx) (*bazaar.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(bazaar.Context, bazaar.KVStore, bazaar.Tx) (*bazaar.DeliverResult, error) {
	panic(p.Value)
}
