package asset

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a funding signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// Funding authorizes the ledger to take Amount out of the payer wallet for
// the transaction it is attached to.
type Funding struct {
	Payer     msig.PublicKey
	Amount    uint64
	Sequence  uint64
	Signature []byte
}

// FundedTx is implemented by transactions that can carry funds.
type FundedTx interface {
	msig.Tx
	// GetFunding returns the funding section or nil.
	GetFunding() *Funding
	// GetSignBytes returns the bytes the payer signs. It must cover
	// everything in the transaction but the funding signature.
	GetSignBytes() ([]byte, error)
}

// Validate checks the funding is complete.
func (f *Funding) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Payer", f.Payer.Validate())
	if f.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrEmpty, "amount"))
	}
	if len(f.Signature) != crypto.SignatureLength {
		errs = errors.AppendField(errs, "Signature", errors.Wrapf(errors.ErrInput, "signature must be %d bytes", crypto.SignatureLength))
	}
	return errs
}

// Marshal encodes the funding in the protobuf wire format.
func (f *Funding) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		Bytes(1, f.Payer[:]).
		Uint64(2, f.Amount).
		Uint64(3, f.Sequence).
		Bytes(4, f.Signature).
		Result()
}

// Unmarshal decodes a funding section.
func (f *Funding) Unmarshal(raw []byte) error {
	*f = Funding{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				f.Payer, err = msig.NewPublicKey(b)
			}
		case 2:
			f.Amount, err = d.Uint64()
		case 3:
			f.Sequence, err = d.Uint64()
		case 4:
			f.Signature, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | sequence           | payer    | amount             | signBytes
4bytes  | uint8        | ascii string | uint64 (bigendian) | 32 bytes | uint64 (bigendian) | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, f *Funding) ([]byte, error) {
	if !msig.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	var num [8]byte
	output := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+msig.PublicKeyLength+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	binary.BigEndian.PutUint64(num[:], f.Sequence)
	output = append(output, num[:]...)
	output = append(output, f.Payer[:]...)
	binary.BigEndian.PutUint64(num[:], f.Amount)
	output = append(output, num[:]...)
	output = append(output, signBytes...)

	// constant length output to feed into eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// SignFunding fills in the sequence and signature of a funding section
// attached to tx. The funding must already be attached, with payer and
// amount set.
func SignFunding(tx FundedTx, chainID string, seq uint64, payer *crypto.PrivateKey) error {
	f := tx.GetFunding()
	if f == nil {
		return errors.Wrap(errors.ErrInput, "no funding")
	}
	f.Payer = payer.PublicKey()
	f.Sequence = seq
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return err
	}
	toSign, err := BuildSignBytes(signBytes, chainID, f)
	if err != nil {
		return err
	}
	f.Signature = payer.Sign(toSign)
	return nil
}
