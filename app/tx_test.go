package app

import (
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/orm"
	"github.com/iov-one/msig/x/asset"
	"github.com/iov-one/msig/x/multisig"
	"github.com/stretchr/testify/require"
)

func TestTxCodec(t *testing.T) {
	keys := msigtest.PublicKeys(msigtest.PrivKeys(2)...)

	cases := map[string]*Tx{
		"create account": {
			Msg: &multisig.CreateAccountMsg{Keys: keys, Threshold: 1, Description: "ops"},
		},
		"deposit encoding to no bytes": {
			Msg:     &multisig.DepositMsg{},
			Funding: &asset.Funding{Payer: keys[0], Amount: 1, Signature: make([]byte, 64)},
		},
		"change account": {
			Msg: &multisig.ChangeAccountMsg{
				AccountID: 1,
				Nonce:     1,
				Changes:   []multisig.Change{multisig.NewRemoveKey(keys[1])},
			},
		},
	}

	for testName, tx := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := tx.Marshal()
			require.NoError(t, err)

			decoded, err := DecodeTx(raw)
			require.NoError(t, err)
			require.Equal(t, tx, decoded)
			require.Equal(t, tx.Msg.Path(), msig.GetPath(decoded))
		})
	}
}

func TestTxDecodeErrors(t *testing.T) {
	unknown, err := orm.NewEncoder().
		String(1, "nowhere/msg").
		RepeatedBytes(2, [][]byte{nil}).
		Result()
	require.NoError(t, err)
	_, err = DecodeTx(unknown)
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)

	noMsg, err := orm.NewEncoder().String(1, "multisig/deposit").Result()
	require.NoError(t, err)
	_, err = DecodeTx(noMsg)
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)

	_, err = (&Tx{}).Marshal()
	require.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)
}

func TestTxSignBytesSkipSignature(t *testing.T) {
	payer := msigtest.PrivKey("payer")
	tx := &Tx{
		Msg:     &multisig.DepositMsg{AccountID: 1, Amount: 10},
		Funding: &asset.Funding{Amount: 10},
	}
	before, err := tx.GetSignBytes()
	require.NoError(t, err)

	require.NoError(t, asset.SignFunding(tx, msigtest.ChainID, 3, payer))
	require.Len(t, tx.Funding.Signature, 64)

	// Signing sets payer and sequence, which are covered.
	after, err := tx.GetSignBytes()
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	tx.Funding.Signature = []byte("anything else")
	again, err := tx.GetSignBytes()
	require.NoError(t, err)
	require.Equal(t, after, again)
}

func TestRegisterMsgTwicePanics(t *testing.T) {
	require.Panics(t, func() {
		RegisterMsg(func() msig.Msg { return &multisig.DepositMsg{} })
	})
}
