/*
Package market implements a ledger of sale listings for assets kept by the
registry.

Listing an asset moves it into the custody of the market and charges the
seller the listing fee that is currently configured. A listing is sold
exactly once: the buyer pays the exact price to the seller, the escrowed fee
is paid out to the market administrator and the asset is released from
custody to the buyer. There is no way to cancel a listing.

The market administrator and the listing fee are kept in a gconf managed
Configuration.
*/
package market
