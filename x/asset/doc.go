/*
Package asset is the fungible asset ledger the multisig engine holds its
funds on.

Every public key owns a wallet with a balance and a sequence. The multisig
engine owns a single custody balance: deposits move value from a payer
wallet into custody and transfers credit it back out to a wallet.

A transaction that needs funds carries a Funding section signed by the
payer. The FundingDecorator verifies it, reserves the amount for the
duration of the transaction and refunds whatever the handler did not claim.
*/
package asset
