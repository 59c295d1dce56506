package msigtest

import (
	"fmt"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
)

// PrivKey returns a deterministic key derived from name, so that tests
// produce the same state on every run.
func PrivKey(name string) *crypto.PrivateKey {
	return crypto.PrivKeyFromSeed([]byte("msigtest/" + name))
}

// PrivKeys returns n distinct deterministic keys.
func PrivKeys(n int) []*crypto.PrivateKey {
	keys := make([]*crypto.PrivateKey, n)
	for i := range keys {
		keys[i] = PrivKey(fmt.Sprintf("key-%d", i))
	}
	return keys
}

// PublicKeys returns the public keys of the given private keys, in order.
func PublicKeys(privs ...*crypto.PrivateKey) []msig.PublicKey {
	res := make([]msig.PublicKey, len(privs))
	for i, p := range privs {
		res[i] = p.PublicKey()
	}
	return res
}
