/*
Package client reads accounts and wallets from a running node and submits
transactions to it.

The client only needs the abci part of the tendermint rpc interface, so a
node can be reached over http with NewHTTPConnection or in process.
*/
package client
