/*
Package registry keeps track of unique assets and of the current holder of
each of them.

An asset is created by minting. Every asset gets an identifier from a
sequence that starts at 1 and is never reused. The only way an asset changes
hands is a transfer performed by its current owner, either signed directly or
executed on the owner's behalf by another extension through the Controller.
*/
package registry
