package asset

import (
	"github.com/iov-one/msig"
)

// RegisterQuery will register the wallets as "/wallets" and the custody as
// "/custody".
func RegisterQuery(qr msig.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewCustodyBucket().Register("custody", qr)
}
