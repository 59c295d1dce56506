package crypto

import (
	"crypto/sha512"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"golang.org/x/crypto/ed25519"
)

// SignatureLength is the size of a single ed25519 signature.
const SignatureLength = ed25519.SignatureSize

// Verifier is the signature verification primitive used to authorize
// operations on multisignature accounts.
type Verifier interface {
	// VerifyMultisig returns true if sig is a valid aggregate signature of
	// msg by exactly the given keys.
	VerifyMultisig(msg []byte, keys []msig.PublicKey, sig []byte) bool
}

// Ed25519Verifier verifies aggregates of ed25519 signatures. An aggregate is
// the concatenation of one signature per key, in the order of the keys.
type Ed25519Verifier struct{}

var _ Verifier = Ed25519Verifier{}

// VerifyMultisig implements Verifier.
func (Ed25519Verifier) VerifyMultisig(msg []byte, keys []msig.PublicKey, sig []byte) bool {
	if len(keys) == 0 || len(sig) != len(keys)*SignatureLength {
		return false
	}
	for i, k := range keys {
		part := sig[i*SignatureLength : (i+1)*SignatureLength]
		if !ed25519.Verify(ed25519.PublicKey(k[:]), msg, part) {
			return false
		}
	}
	return true
}

// PrivateKey is an ed25519 private key able to co-sign operations.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivateKey returns a random new private key.
func GenPrivateKey() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return &PrivateKey{key: priv}, nil
}

// PrivKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases. Any seed length is accepted,
// it is hashed into the ed25519 seed.
func PrivKeyFromSeed(seed []byte) *PrivateKey {
	h := sha512.Sum512(seed)
	return &PrivateKey{key: ed25519.NewKeyFromSeed(h[:ed25519.SeedSize])}
}

// RestorePrivateKey returns the key a Seed call returned seed for.
func RestorePrivateKey(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the canonical public key of this private key.
func (p *PrivateKey) PublicKey() msig.PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return msig.MustPublicKey(pub)
}

// Sign returns the signature of the message.
func (p *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(p.key, msg)
}

// Seed returns the seed the key can be restored from with
// ed25519.NewKeyFromSeed.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// AggregateSignature joins signatures produced independently by each signer
// into the aggregate expected by Ed25519Verifier. The order of sigs must be
// the order of the keys presented with the operation.
func AggregateSignature(sigs ...[]byte) []byte {
	agg := make([]byte, 0, len(sigs)*SignatureLength)
	for _, s := range sigs {
		agg = append(agg, s...)
	}
	return agg
}

// SignMultisig lets every signer sign msg and aggregates the result. It
// returns the signer keys in the order matching the aggregate.
func SignMultisig(msg []byte, signers ...*PrivateKey) ([]msig.PublicKey, []byte) {
	keys := make([]msig.PublicKey, len(signers))
	sigs := make([][]byte, len(signers))
	for i, s := range signers {
		keys[i] = s.PublicKey()
		sigs[i] = s.Sign(msg)
	}
	return keys, AggregateSignature(sigs...)
}
