package multisig

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

const (
	createAccountCost int64 = 300
	depositCost       int64 = 50
	transferCost      int64 = 100
	changeAccountCost int64 = 150

	// Each presented signature costs extra to verify.
	signatureCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r msig.Registry, ctrl Controller) {
	r.Handle(pathCreateAccountMsg, CreateAccountHandler{ctrl})
	r.Handle(pathDepositMsg, DepositHandler{ctrl})
	r.Handle(pathTransferMsg, TransferHandler{ctrl})
	r.Handle(pathChangeAccountMsg, ChangeAccountHandler{ctrl})
}

// loadMsg loads the message of tx into msg and checks it against the
// stored configuration. Transfers and changes are only decoded: the
// controller validates them once the account is known to exist.
func loadMsg(db msig.ReadOnlyKVStore, tx msig.Tx, msg msig.Msg) error {
	switch msg.(type) {
	case *TransferMsg, *ChangeAccountMsg:
		return errors.Wrap(msig.DecodeMsg(tx, msg), "load msg")
	}
	if err := msig.LoadMsg(tx, msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	return checkMsg(db, msg)
}

// checkMsg verifies msg against the stored configuration.
func checkMsg(db msig.ReadOnlyKVStore, msg msig.Msg) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	return conf.check(msg)
}

// CreateAccountHandler creates accounts.
type CreateAccountHandler struct {
	ctrl Controller
}

var _ msig.Handler = CreateAccountHandler{}

// Check verifies the message is valid.
func (h CreateAccountHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg CreateAccountMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: createAccountCost}, nil
}

// Deliver creates the account and returns its id, as 8 big endian bytes,
// in the result data.
func (h CreateAccountHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg CreateAccountMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	id, err := h.ctrl.CreateAccount(ctx, db, msg.Keys, msg.Threshold, msg.Description)
	if err != nil {
		return nil, err
	}
	msig.GetLogger(ctx).Debug("account created", "account", id, "keys", len(msg.Keys))
	return &msig.DeliverResult{Data: AccountKey(id)}, nil
}

// DepositHandler funds accounts.
type DepositHandler struct {
	ctrl Controller
}

var _ msig.Handler = DepositHandler{}

// Check verifies the account exists and can hold the amount. Whether the
// transaction is funded well enough is known only once it is delivered.
func (h DepositHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg DepositMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	if _, err := h.ctrl.checkDeposit(db, msg.AccountID, msg.Amount); err != nil {
		return nil, err
	}
	return &msig.CheckResult{GasAllocated: depositCost}, nil
}

// Deliver moves the funds into the account.
func (h DepositHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg DepositMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	if err := h.ctrl.Deposit(ctx, db, msg.AccountID, msg.Amount, msg.Memo); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{}, nil
}

// TransferHandler moves funds out of accounts.
type TransferHandler struct {
	ctrl Controller
}

var _ msig.Handler = TransferHandler{}

// Check runs every check of the transfer, including the signature.
func (h TransferHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg TransferMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	if _, err := h.ctrl.checkTransfer(db, &msg); err != nil {
		return nil, err
	}
	gas := transferCost + signatureCost*int64(len(msg.Keys))
	return &msig.CheckResult{GasAllocated: gas}, nil
}

// Deliver transfers the funds.
func (h TransferHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg TransferMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(ctx, db, &msg); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{}, nil
}

// ChangeAccountHandler reconfigures accounts.
type ChangeAccountHandler struct {
	ctrl Controller
}

var _ msig.Handler = ChangeAccountHandler{}

// Check runs every check of the change, including applying the change
// list in memory.
func (h ChangeAccountHandler) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	var msg ChangeAccountMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	if _, err := h.ctrl.checkChange(db, &msg); err != nil {
		return nil, err
	}
	gas := changeAccountCost + signatureCost*int64(len(msg.Keys))
	return &msig.CheckResult{GasAllocated: gas}, nil
}

// Deliver applies the changes.
func (h ChangeAccountHandler) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	var msg ChangeAccountMsg
	if err := loadMsg(db, tx, &msg); err != nil {
		return nil, err
	}
	if err := h.ctrl.ChangeAccount(ctx, db, &msg); err != nil {
		return nil, err
	}
	return &msig.DeliverResult{}, nil
}
