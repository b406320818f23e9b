package registry

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
)

// RegisterRoutes will instantiate and register all handlers in this package.
// Reserved addresses, such as an escrow account, can never be the recipient
// of a direct transfer.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, ctrl Controller, reserved ...bazaar.Address) {
	r.Handle(&MintMsg{}, &mintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ctrl: ctrl, reserved: reserved})
}

// RegisterQuery exposes assets under "/assets" and "/assets/owner".
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("assets", qr)
}

type mintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ bazaar.Handler = (*mintHandler)(nil)

func (h *mintHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h *mintHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.Mint(db, msg.Creator, msg.MetadataURI)
	if err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("asset minted", "asset", id, "owner", msg.Creator)
	return &bazaar.DeliverResult{Data: id}, nil
}

func (h *mintHandler) validate(ctx bazaar.Context, tx bazaar.Tx) (*MintMsg, error) {
	var msg MintMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Creator) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "creator signature required")
	}
	return &msg, nil
}

type transferHandler struct {
	auth     x.Authenticator
	ctrl     Controller
	reserved []bazaar.Address
}

var _ bazaar.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h *transferHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.AssetID, msg.From, msg.To); err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("asset transferred", "asset", msg.AssetID, "from", msg.From, "to", msg.To)
	return &bazaar.DeliverResult{Data: msg.AssetID}, nil
}

func (h *transferHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.From) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	for _, a := range h.reserved {
		if a.Equals(msg.To) {
			return nil, errors.Wrapf(ErrReservedOwner, "cannot transfer to %s", msg.To)
		}
	}
	owner, err := h.ctrl.OwnerOf(db, msg.AssetID)
	if err != nil {
		return nil, err
	}
	if !owner.Equals(msg.From) {
		return nil, errors.Wrapf(ErrNotOwner, "asset %X is not owned by %s", msg.AssetID, msg.From)
	}
	return &msg, nil
}
