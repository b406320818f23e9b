package market

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/x"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateListingMsg{}, &createListingHandler{auth: auth, ctrl: ctrl})
	r.Handle(&PurchaseMsg{}, &purchaseHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// RegisterQuery exposes listings under "/listings" with all their indexes,
// the market counters under "/market/stats" and the configuration under
// "/market/conf".
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("listings", qr)
	qr.Register("/market/stats", statsQuery{bucket: NewBucket()})
	qr.Register("/market/conf", gconf.NewQuery(confPkg))
}

// NewConfigHandler returns a handler of UpdateConfigurationMsg.
func NewConfigHandler(auth x.Authenticator) bazaar.Handler {
	return gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth)
}

type createListingHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ bazaar.Handler = (*createListingHandler)(nil)

func (h *createListingHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h *createListingHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.CreateListing(db, msg.Seller, msg.AssetID, *msg.Price, *msg.Fee)
	if err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("listing created",
		"listing", id, "asset", msg.AssetID, "seller", msg.Seller, "price", msg.Price.String())
	return &bazaar.DeliverResult{Data: id}, nil
}

func (h *createListingHandler) validate(ctx bazaar.Context, db bazaar.ReadOnlyKVStore, tx bazaar.Tx) (*CreateListingMsg, error) {
	var msg CreateListingMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Seller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "seller signature required")
	}
	fee, err := h.ctrl.ListingFee(db)
	if err != nil {
		return nil, err
	}
	if !msg.Fee.Equals(fee) {
		return nil, errors.Wrapf(ErrWrongFee, "listing fee is %s", fee.String())
	}
	return &msg, nil
}

type purchaseHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ bazaar.Handler = (*purchaseHandler)(nil)

func (h *purchaseHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h *purchaseHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Purchase(db, msg.Buyer, msg.ListingID, *msg.Amount); err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("listing sold", "listing", msg.ListingID, "buyer", msg.Buyer)
	return &bazaar.DeliverResult{Data: msg.ListingID}, nil
}

func (h *purchaseHandler) validate(ctx bazaar.Context, db bazaar.ReadOnlyKVStore, tx bazaar.Tx) (*PurchaseMsg, error) {
	var msg PurchaseMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Buyer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "buyer signature required")
	}
	listing, err := h.ctrl.Listing(db, msg.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Sold() {
		return nil, errors.Wrapf(ErrAlreadySold, "listing %X", msg.ListingID)
	}
	return &msg, nil
}

// statsQuery returns the market counters as a single model stored under the
// "stats" key.
type statsQuery struct {
	bucket Bucket
}

func (q statsQuery) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	if mod != bazaar.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	stats, err := NewController(q.bucket, nil, nil).Stats(db)
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(stats)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "marshal stats: %s", err)
	}
	return []bazaar.Model{bazaar.Pair([]byte("stats"), raw)}, nil
}
