/*
Package cash keeps the coin balances of all accounts and moves coins between
them.

There is no logic in the coins (tokens), except that the balance of any coin
may not go below zero. Other extensions use the Controller to charge fees and
settle payments, clients send coins directly with SendMsg.
*/
package cash
