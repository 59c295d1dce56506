package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/msig/errors"
)

// Encode returns the bech32 text of payload under the human readable
// prefix hrp.
func Encode(hrp string, payload []byte) (string, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	s, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return s, nil
}

// Decode returns the prefix and the payload of a bech32 text. Any failure,
// including a bad checksum, is an ErrInput.
func Decode(s string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return hrp, payload, nil
}

// DecodePrefixed is Decode for a text that must carry the prefix hrp.
func DecodePrefixed(hrp, s string) ([]byte, error) {
	got, payload, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInput, "want prefix %q, got %q", hrp, got)
	}
	return payload, nil
}
