/*
Package msig defines the interfaces shared by the multisignature account
ledger: storage, transactions, handlers, queries, events and public keys.

The state transition engine itself lives in x/multisig. It is driven by a
host (see package app) that hands every operation an exclusive KVStore for
the duration of the call and persists the result only when the call
succeeds.
*/
package msig
