package app

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/commands"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/store/iavl"
	"github.com/iov-one/msig/x/asset"
	"github.com/iov-one/msig/x/multisig"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultBalance is what the genesis key is funded with unless given.
const DefaultBalance = 1000000

// Name is reported by the application in abci.Info.
const Name = "msigd"

// GenInitOptions returns the app_state of a development chain. The key
// given as first argument is funded with the balance given as second
// argument and is the only member of account 1.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key, create one with keygen")
	}
	key, err := msig.ParsePublicKey(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "key")
	}
	balance := uint64(DefaultBalance)
	if len(args) > 1 {
		balance, err = strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "balance")
		}
	}

	type assetState struct {
		Wallets []asset.GenesisWallet `json:"wallets"`
	}
	type multisigState struct {
		Accounts []multisig.GenesisAccount `json:"accounts"`
	}
	state := struct {
		Conf     map[string]interface{} `json:"conf"`
		Asset    assetState             `json:"asset"`
		Multisig multisigState          `json:"multisig"`
	}{
		Conf: map[string]interface{}{
			"multisig": multisig.DefaultConfiguration(),
		},
		Asset: assetState{
			Wallets: []asset.GenesisWallet{{Key: key, Balance: balance}},
		},
		Multisig: multisigState{
			Accounts: []multisig.GenesisAccount{
				{Keys: []msig.PublicKey{key}, Threshold: 1, Description: "genesis"},
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home, dbName string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	store := iavl.NewCommitStore(filepath.Join(home, "data"), dbName)
	a, err := NewApplication(Name, store, LedgerStack(), logger, metrics, debug)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Examples returns transactions of every message type with a fixed set of
// keys, to be written out by the testgen command.
func Examples() []commands.Example {
	signers := []*crypto.PrivateKey{
		crypto.PrivKeyFromSeed([]byte("alice")),
		crypto.PrivKeyFromSeed([]byte("bob")),
	}
	payer := crypto.PrivKeyFromSeed([]byte("payer"))
	receiver := crypto.PrivKeyFromSeed([]byte("receiver")).PublicKey()
	members := []msig.PublicKey{signers[0].PublicKey(), signers[1].PublicKey()}

	create := &multisig.CreateAccountMsg{Keys: members, Threshold: 2, Description: "treasury"}
	deposit := &multisig.DepositMsg{AccountID: 1, Amount: 500, Memo: "seed funds"}

	transfer := &multisig.TransferMsg{AccountID: 1, Receiver: receiver, Amount: 200, Nonce: 1, Memo: "invoice 17"}
	transfer.Keys, transfer.Signature = crypto.SignMultisig(transfer.SignBytes(), signers...)

	change := &multisig.ChangeAccountMsg{
		AccountID: 1,
		Nonce:     2,
		Changes: []multisig.Change{
			multisig.NewSetThreshold(1),
			multisig.NewSetDescription("petty cash"),
		},
	}
	change.Keys, change.Signature = crypto.SignMultisig(change.SignBytes(), signers...)

	fundedDeposit := &Tx{
		Msg:     deposit,
		Funding: &asset.Funding{Payer: payer.PublicKey(), Amount: deposit.Amount},
	}
	if err := asset.SignFunding(fundedDeposit, "msig-example-chain", 0, payer); err != nil {
		panic(err)
	}

	return []commands.Example{
		{Filename: "create_account_msg", Obj: create},
		{Filename: "deposit_msg", Obj: deposit},
		{Filename: "transfer_msg", Obj: transfer},
		{Filename: "change_account_msg", Obj: change},
		{Filename: "create_account_tx", Obj: &Tx{Msg: create}},
		{Filename: "deposit_tx", Obj: fundedDeposit},
		{Filename: "transfer_tx", Obj: &Tx{Msg: transfer}},
		{Filename: "change_account_tx", Obj: &Tx{Msg: change}},
	}
}
