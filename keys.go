package msig

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/iov-one/msig/crypto/bech32"
	"github.com/iov-one/msig/errors"
)

const (
	// PublicKeyLength is the size of the canonical encoding of a key.
	PublicKeyLength = 32

	// PublicKeyHRP is the human readable part of the bech32 form of a key.
	PublicKeyHRP = "msigpub"
)

// PublicKey is the canonical, fixed length encoding of a public key. Keys
// are values: two keys are equal when their bytes are equal, and they are
// ordered by their bytes. This makes them usable as map keys and set
// members.
type PublicKey [PublicKeyLength]byte

// NewPublicKey copies raw into a PublicKey. raw must have exactly
// PublicKeyLength bytes.
func NewPublicKey(raw []byte) (PublicKey, error) {
	var k PublicKey
	if len(raw) != PublicKeyLength {
		return k, errors.Wrapf(errors.ErrInput, "public key must be %d bytes, got %d", PublicKeyLength, len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// MustPublicKey is like NewPublicKey but panics on invalid input.
func MustPublicKey(raw []byte) PublicKey {
	k, err := NewPublicKey(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// Bytes returns a copy of the canonical encoding.
func (k PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeyLength)
	copy(b, k[:])
	return b
}

// Compare returns an integer comparing two keys by their canonical bytes.
// The result is 0 if k == o, -1 if k < o, and +1 if k > o.
func (k PublicKey) Compare(o PublicKey) int {
	return bytes.Compare(k[:], o[:])
}

// Equals returns true if both keys have the same encoding.
func (k PublicKey) Equals(o PublicKey) bool {
	return k == o
}

// IsZero returns true for the all zero key, which is never valid.
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// Validate returns an error if the key cannot belong to anyone.
func (k PublicKey) Validate() error {
	if k.IsZero() {
		return errors.Wrap(errors.ErrInput, "empty public key")
	}
	return nil
}

// String returns the bech32 form of the key.
func (k PublicKey) String() string {
	s, err := bech32.Encode(PublicKeyHRP, k[:])
	if err != nil {
		// Encoding 32 bytes with a constant prefix cannot fail.
		return hex.EncodeToString(k[:])
	}
	return s
}

// ParsePublicKey reads a key in its bech32 form. The hex form, prefixed
// with "hex:", is accepted as well.
func ParsePublicKey(s string) (PublicKey, error) {
	if strings.HasPrefix(s, "hex:") {
		raw, err := hex.DecodeString(s[4:])
		if err != nil {
			return PublicKey{}, errors.Wrap(errors.ErrInput, err.Error())
		}
		return NewPublicKey(raw)
	}
	raw, err := bech32.DecodePrefixed(PublicKeyHRP, s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "public key")
	}
	return NewPublicKey(raw)
}

// MarshalJSON encodes the key as a bech32 string.
func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a bech32 (or "hex:" prefixed) string.
func (k *PublicKey) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	parsed, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// PublicKeys is a list of keys. Use the helpers to treat it as a set.
type PublicKeys []PublicKey

// Sorted returns a sorted copy of the list.
func (ks PublicKeys) Sorted() PublicKeys {
	cp := make(PublicKeys, len(ks))
	copy(cp, ks)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Compare(cp[j]) < 0 })
	return cp
}

// Duplicate returns the first key that is present more than once.
func (ks PublicKeys) Duplicate() (PublicKey, bool) {
	seen := make(map[PublicKey]struct{}, len(ks))
	for _, k := range ks {
		if _, ok := seen[k]; ok {
			return k, true
		}
		seen[k] = struct{}{}
	}
	return PublicKey{}, false
}

// Contains returns true if k is a member of the list.
func (ks PublicKeys) Contains(k PublicKey) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

// Validate checks every key of the list and that no key is repeated.
func (ks PublicKeys) Validate() error {
	for i, k := range ks {
		if err := k.Validate(); err != nil {
			return errors.Wrapf(err, "key %d", i)
		}
	}
	if k, ok := ks.Duplicate(); ok {
		return errors.Wrapf(errors.ErrInput, "duplicate key %s", k)
	}
	return nil
}
