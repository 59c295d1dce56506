/*
Package app hosts the account ledger as an ABCI application.

It decodes transactions, routes them through the decorator stack to the
handlers of x/multisig and keeps three views of the state: the committed
store, a deliver cache holding the block in progress and a check cache
for the mempool. Every transaction runs in its own cache wrap on top of
one of those and is written only if its handler succeeds, so a failed
transaction leaves no trace.
*/
package app
