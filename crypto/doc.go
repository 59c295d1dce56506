/*
Package crypto provides the signature primitive that authorizes operations
on multisignature accounts.

Each authorized signer signs the canonical message of an operation on its
own. Whoever submits the operation collects the signatures and joins them
into one aggregate, in the order of the presented keys. The message never
contains the signer list, so signers need no coordination before signing.
*/
package crypto
