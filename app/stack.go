package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/market"
	"github.com/iov-one/bazaar/x/registry"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/utils"
)

// Authenticator returns the authentication used by all marketplace handlers.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes through before it
// reaches the router.
func Chain() Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// NewMarketRouter returns a router with all marketplace messages registered.
func NewMarketRouter(authFn x.Authenticator) *Router {
	r := NewRouter()

	coins := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, coins)

	assets := registry.NewController(registry.NewBucket())
	registry.RegisterRoutes(r, authFn, assets, market.CustodyAddress)

	market.RegisterRoutes(r, authFn, market.NewController(market.NewBucket(), assets, coins))
	return r
}

// QueryRouter returns a default query router, allowing access to all
// buckets of the marketplace.
func QueryRouter() bazaar.QueryRouter {
	r := bazaar.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		cash.RegisterQuery,
		registry.RegisterQuery,
		market.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() bazaar.Initializer {
	return ChainInitializers(
		cash.Genesis{},
		registry.Genesis{},
		market.Genesis{},
	)
}

// Stack wires the complete transaction pipeline.
func Stack() bazaar.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(NewMarketRouter(authFn))
}
