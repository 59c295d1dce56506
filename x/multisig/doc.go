/*
Package multisig implements accounts whose funds are controlled by a set of
keys and a threshold.

An account holds a balance, a nonce and a description. A key index, kept in
two prefixed buckets that are always exact inverses of each other, answers
which keys an account trusts and which accounts trust a key.

Anybody may deposit funds into an account. Transferring funds out of an
account or changing its keys, threshold or description requires an
aggregate signature of at least threshold distinct authorized keys over the
canonical message of the operation, together with the next nonce of the
account. The list of signing keys is not part of the signed message, so
each signer signs independently and the submitter aggregates afterwards.

Deposits do not change the nonce of an account. Only operations that are
authorized against the nonce (transfer and change account) increment it.
*/
package multisig
