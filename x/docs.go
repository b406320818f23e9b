/*
Package x contains the standard extensions of the marketplace ledger.

Extensions implement common functionality (Handler, Decorator,
Initializer) and are combined together by the app package to construct
the ledger.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `market.CreateListingMsg` in place of
`market.MarketCreateListingMsg`.
*/
package x
