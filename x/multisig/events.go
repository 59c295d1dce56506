package multisig

import (
	"strconv"

	"github.com/iov-one/msig"
	"github.com/tendermint/tendermint/libs/common"
)

func accountTag(id uint64) common.KVPair {
	return common.KVPair{Key: []byte("account"), Value: []byte(strconv.FormatUint(id, 10))}
}

// CreateAccountEvent is emitted when an account is created.
type CreateAccountEvent struct {
	AccountID   uint64
	Keys        []msig.PublicKey
	Threshold   uint32
	Description string
}

var _ msig.Event = (*CreateAccountEvent)(nil)

func (CreateAccountEvent) EventName() string { return "create_account" }

func (e CreateAccountEvent) Tags() []common.KVPair {
	return []common.KVPair{accountTag(e.AccountID)}
}

// DepositEvent is emitted when an account receives funds.
type DepositEvent struct {
	AccountID uint64
	Amount    uint64
	Memo      string
}

var _ msig.Event = (*DepositEvent)(nil)

func (DepositEvent) EventName() string { return "deposit" }

func (e DepositEvent) Tags() []common.KVPair {
	return []common.KVPair{accountTag(e.AccountID)}
}

// TransferEvent is emitted when funds leave an account. Keys are the
// distinct keys that authorized the transfer.
type TransferEvent struct {
	AccountID uint64
	Keys      []msig.PublicKey
	Receiver  msig.PublicKey
	Amount    uint64
	Memo      string
}

var _ msig.Event = (*TransferEvent)(nil)

func (TransferEvent) EventName() string { return "transfer" }

func (e TransferEvent) Tags() []common.KVPair {
	return []common.KVPair{
		accountTag(e.AccountID),
		{Key: []byte("receiver"), Value: []byte(e.Receiver.String())},
	}
}

// ChangeAccountEvent is emitted when an account is reconfigured. Added and
// Removed are the net difference between the key sets before and after
// the operation.
type ChangeAccountEvent struct {
	AccountID   uint64
	Added       []msig.PublicKey
	Removed     []msig.PublicKey
	Threshold   uint32
	Description string
}

var _ msig.Event = (*ChangeAccountEvent)(nil)

func (ChangeAccountEvent) EventName() string { return "change_account" }

func (e ChangeAccountEvent) Tags() []common.KVPair {
	return []common.KVPair{accountTag(e.AccountID)}
}
