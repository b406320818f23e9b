package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// isMsgPath checks that a path is alphanumeric with slashes and underscores.
var isMsgPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router dispatches a transaction to the Handler registered for the path of
// the message it carries.
type Router struct {
	routes map[string]bazaar.Handler
}

var _ bazaar.Registry = (*Router)(nil)
var _ bazaar.Handler = (*Router)(nil)

// NewRouter returns a router without any handlers registered.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]bazaar.Handler),
	}
}

// Handle registers a handler for the path of the given message. Registering
// two handlers for the same path or using a malformed path panics.
func (r *Router) Handle(msg bazaar.Msg, h bazaar.Handler) {
	path := msg.Path()
	if !isMsgPath(path) {
		panic(fmt.Sprintf("invalid message path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the handler registered for the path of the message, or
// a handler that always fails with ErrNotFound.
func (r *Router) handler(path string) bazaar.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the handler for the message path.
func (r *Router) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	return r.handler(bazaar.GetPath(tx)).Check(ctx, store, tx)
}

// Deliver dispatches to the handler for the message path.
func (r *Router) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	return r.handler(bazaar.GetPath(tx)).Deliver(ctx, store, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(bazaar.Context, bazaar.KVStore, bazaar.Tx) (*bazaar.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(bazaar.Context, bazaar.KVStore, bazaar.Tx) (*bazaar.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
