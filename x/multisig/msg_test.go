package multisig

import (
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountMsgValidationOrder(t *testing.T) {
	k := msigtest.PublicKeys(msigtest.PrivKeys(2)...)

	cases := map[string]struct {
		msg     CreateAccountMsg
		wantErr *errors.Error
		wantMsg string
	}{
		"valid": {
			msg: CreateAccountMsg{Keys: k, Threshold: 2},
		},
		"missing keys are reported before the threshold": {
			msg:     CreateAccountMsg{Threshold: 0},
			wantErr: errors.ErrInput,
			wantMsg: "at least one key required",
		},
		"zero threshold": {
			msg:     CreateAccountMsg{Keys: k, Threshold: 0},
			wantErr: errors.ErrInput,
			wantMsg: "threshold must be at least 1",
		},
		"threshold above keys is reported before duplicates": {
			msg:     CreateAccountMsg{Keys: []msig.PublicKey{k[0], k[0]}, Threshold: 3},
			wantErr: errors.ErrInput,
			wantMsg: "threshold 3 greater than 2 keys",
		},
		"duplicate key": {
			msg:     CreateAccountMsg{Keys: []msig.PublicKey{k[0], k[0]}, Threshold: 1},
			wantErr: errors.ErrInput,
			wantMsg: "duplicate key",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			require.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestChangeAccountMsgValidate(t *testing.T) {
	key := msigtest.PrivKey("a").PublicKey()

	valid := ChangeAccountMsg{Changes: []Change{
		NewAddKey(key),
		NewRemoveKey(key),
		NewSetThreshold(0),
		NewSetDescription(""),
	}}
	require.NoError(t, valid.Validate())

	invalid := ChangeAccountMsg{Changes: []Change{
		NewSetDescription("ok"),
		NewAddKey(msig.PublicKey{}),
		{Kind: ChangeKind(9)},
	}}
	err := invalid.Validate()
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
	require.Empty(t, errors.FieldErrors(err, "Changes.0"))
	require.Len(t, errors.FieldErrors(err, "Changes.1"), 1)
	require.Len(t, errors.FieldErrors(err, "Changes.2"), 1)
}

func TestTransferMsgValidate(t *testing.T) {
	msg := TransferMsg{AccountID: 1, Amount: 1}
	err := msg.Validate()
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
	require.Len(t, errors.FieldErrors(err, "Receiver"), 1)

	msg.Receiver = msigtest.PrivKey("r").PublicKey()
	require.NoError(t, msg.Validate())
}

func TestMsgCodec(t *testing.T) {
	k := msigtest.PublicKeys(msigtest.PrivKeys(3)...)

	cases := map[string]struct {
		msg   msig.Msg
		empty msig.Msg
	}{
		"create account": {
			msg:   &CreateAccountMsg{Keys: k, Threshold: 2, Description: "treasury"},
			empty: &CreateAccountMsg{},
		},
		"deposit": {
			msg:   &DepositMsg{AccountID: 7, Amount: 1 << 40, Memo: "salary"},
			empty: &DepositMsg{},
		},
		"transfer": {
			msg: &TransferMsg{
				AccountID: 3,
				Keys:      k[:2],
				Signature: []byte("signature"),
				Receiver:  k[2],
				Amount:    10,
				Nonce:     4,
				Memo:      "rent",
			},
			empty: &TransferMsg{},
		},
		"change account": {
			msg: &ChangeAccountMsg{
				AccountID: 3,
				Keys:      k[:1],
				Signature: []byte("signature"),
				Changes: []Change{
					NewSetDescription(""),
					NewAddKey(k[1]),
					NewRemoveKey(k[2]),
					NewSetThreshold(2),
					NewSetDescription("ops"),
				},
				Nonce: 9,
			},
			empty: &ChangeAccountMsg{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := tc.msg.Marshal()
			require.NoError(t, err)
			require.NoError(t, tc.empty.Unmarshal(raw))
			require.Equal(t, tc.msg, tc.empty)
		})
	}
}

func TestChangeKindString(t *testing.T) {
	require.Equal(t, "add_key", AddKey.String())
	require.Equal(t, "set_description", SetDescription.String())
	require.Equal(t, "unknown", ChangeKind(42).String())
}
