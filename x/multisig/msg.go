package multisig

import (
	"fmt"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
)

const (
	pathCreateAccountMsg = "multisig/create_account"
	pathDepositMsg       = "multisig/deposit"
	pathTransferMsg      = "multisig/transfer"
	pathChangeAccountMsg = "multisig/change_account"
)

// CreateAccountMsg creates a new account authorized by Keys.
type CreateAccountMsg struct {
	Keys        []msig.PublicKey
	Threshold   uint32
	Description string
}

var _ msig.Msg = (*CreateAccountMsg)(nil)

// Path fulfills msig.Msg interface to allow routing
func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

// Validate performs the checks of account creation, in order.
func (m *CreateAccountMsg) Validate() error {
	if len(m.Keys) == 0 {
		return errors.Wrap(errors.ErrInput, "at least one key required")
	}
	if m.Threshold < 1 {
		return errors.Wrap(errors.ErrInput, "threshold must be at least 1")
	}
	if int(m.Threshold) > len(m.Keys) {
		return errors.Wrapf(errors.ErrInput, "threshold %d greater than %d keys", m.Threshold, len(m.Keys))
	}
	if err := msig.PublicKeys(m.Keys).Validate(); err != nil {
		return errors.Wrap(err, "keys")
	}
	return nil
}

// Marshal encodes the message in the protobuf wire format.
func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		RepeatedBytes(1, keysToBytes(m.Keys)).
		Uint32(2, m.Threshold).
		String(3, m.Description).
		Result()
}

// Unmarshal decodes the message.
func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Keys, err = appendKey(d, m.Keys)
		case 2:
			m.Threshold, err = d.Uint32()
		case 3:
			m.Description, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// DepositMsg funds an account. No authorization is needed. The funds are
// taken from the funding attached to the transaction.
type DepositMsg struct {
	AccountID uint64
	Amount    uint64
	Memo      string
}

var _ msig.Msg = (*DepositMsg)(nil)

// Path fulfills msig.Msg interface to allow routing
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate has nothing to check without the state. A deposit of zero is
// a valid, if useless, operation.
func (m *DepositMsg) Validate() error {
	return nil
}

// Marshal encodes the message in the protobuf wire format.
func (m *DepositMsg) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		Uint64(1, m.AccountID).
		Uint64(2, m.Amount).
		String(3, m.Memo).
		Result()
}

// Unmarshal decodes the message.
func (m *DepositMsg) Unmarshal(raw []byte) error {
	*m = DepositMsg{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.AccountID, err = d.Uint64()
		case 2:
			m.Amount, err = d.Uint64()
		case 3:
			m.Memo, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// TransferMsg moves funds from an account to the wallet of Receiver on the
// asset ledger.
type TransferMsg struct {
	AccountID uint64
	// Keys are the signers, in the order of their signatures in the
	// aggregate.
	Keys      []msig.PublicKey
	Signature []byte
	Receiver  msig.PublicKey
	Amount    uint64
	Nonce     uint64
	Memo      string
}

var _ msig.Msg = (*TransferMsg)(nil)

// Path fulfills msig.Msg interface to allow routing
func (TransferMsg) Path() string {
	return pathTransferMsg
}

// Validate checks the receiver. Everything else depends on the account
// and is checked, in a fixed order, when the transfer is applied.
func (m *TransferMsg) Validate() error {
	return errors.Field("Receiver", m.Receiver.Validate(), "")
}

// Marshal encodes the message in the protobuf wire format.
func (m *TransferMsg) Marshal() ([]byte, error) {
	return orm.NewEncoder().
		Uint64(1, m.AccountID).
		RepeatedBytes(2, keysToBytes(m.Keys)).
		Bytes(3, m.Signature).
		Bytes(4, m.Receiver[:]).
		Uint64(5, m.Amount).
		Uint64(6, m.Nonce).
		String(7, m.Memo).
		Result()
}

// Unmarshal decodes the message.
func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.AccountID, err = d.Uint64()
		case 2:
			m.Keys, err = appendKey(d, m.Keys)
		case 3:
			m.Signature, err = d.Bytes()
		case 4:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				m.Receiver, err = msig.NewPublicKey(b)
			}
		case 5:
			m.Amount, err = d.Uint64()
		case 6:
			m.Nonce, err = d.Uint64()
		case 7:
			m.Memo, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// ChangeKind selects what a Change does. The values are the tag bytes of
// the canonical change message.
type ChangeKind uint8

const (
	AddKey         ChangeKind = 0
	RemoveKey      ChangeKind = 1
	SetThreshold   ChangeKind = 2
	SetDescription ChangeKind = 3
)

func (k ChangeKind) String() string {
	switch k {
	case AddKey:
		return "add_key"
	case RemoveKey:
		return "remove_key"
	case SetThreshold:
		return "set_threshold"
	case SetDescription:
		return "set_description"
	default:
		return "unknown"
	}
}

// Change is a single step of an account reconfiguration. Only the field
// matching Kind is used.
type Change struct {
	Kind        ChangeKind
	Key         msig.PublicKey
	Threshold   uint32
	Description string
}

// NewAddKey returns a change authorizing key.
func NewAddKey(key msig.PublicKey) Change {
	return Change{Kind: AddKey, Key: key}
}

// NewRemoveKey returns a change revoking key.
func NewRemoveKey(key msig.PublicKey) Change {
	return Change{Kind: RemoveKey, Key: key}
}

// NewSetThreshold returns a change setting the threshold.
func NewSetThreshold(threshold uint32) Change {
	return Change{Kind: SetThreshold, Threshold: threshold}
}

// NewSetDescription returns a change replacing the description.
func NewSetDescription(description string) Change {
	return Change{Kind: SetDescription, Description: description}
}

// Validate checks the change is well formed.
func (c *Change) Validate() error {
	switch c.Kind {
	case AddKey, RemoveKey:
		return errors.Wrap(c.Key.Validate(), "key")
	case SetThreshold, SetDescription:
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "unknown change kind %d", c.Kind)
	}
}

// Marshal encodes the change in the protobuf wire format.
func (c *Change) Marshal() ([]byte, error) {
	e := orm.NewEncoder().Uint32(1, uint32(c.Kind))
	switch c.Kind {
	case AddKey, RemoveKey:
		e.Bytes(2, c.Key[:])
	case SetThreshold:
		e.Uint32(3, c.Threshold)
	case SetDescription:
		e.String(4, c.Description)
	}
	return e.Result()
}

// Unmarshal decodes a change.
func (c *Change) Unmarshal(raw []byte) error {
	*c = Change{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			var k uint32
			if k, err = d.Uint32(); err == nil {
				if k > 0xff {
					err = errors.Wrapf(errors.ErrInput, "unknown change kind %d", k)
				}
				c.Kind = ChangeKind(k)
			}
		case 2:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				c.Key, err = msig.NewPublicKey(b)
			}
		case 3:
			c.Threshold, err = d.Uint32()
		case 4:
			c.Description, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// ChangeAccountMsg applies Changes, in order, to an account.
type ChangeAccountMsg struct {
	AccountID uint64
	// Keys are the signers, in the order of their signatures in the
	// aggregate.
	Keys      []msig.PublicKey
	Signature []byte
	Changes   []Change
	Nonce     uint64
}

var _ msig.Msg = (*ChangeAccountMsg)(nil)

// Path fulfills msig.Msg interface to allow routing
func (ChangeAccountMsg) Path() string {
	return pathChangeAccountMsg
}

// Validate checks every change is well formed.
func (m *ChangeAccountMsg) Validate() error {
	var errs error
	for i := range m.Changes {
		errs = errors.AppendField(errs, fieldName("Changes", i), m.Changes[i].Validate())
	}
	return errs
}

// Marshal encodes the message in the protobuf wire format.
func (m *ChangeAccountMsg) Marshal() ([]byte, error) {
	e := orm.NewEncoder().
		Uint64(1, m.AccountID).
		RepeatedBytes(2, keysToBytes(m.Keys)).
		Bytes(3, m.Signature)
	for i := range m.Changes {
		raw, err := m.Changes[i].Marshal()
		if err != nil {
			return nil, err
		}
		// Empty changes must be kept to preserve their position.
		e.RepeatedBytes(4, [][]byte{raw})
	}
	return e.Uint64(5, m.Nonce).Result()
}

// Unmarshal decodes the message.
func (m *ChangeAccountMsg) Unmarshal(raw []byte) error {
	*m = ChangeAccountMsg{}
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.AccountID, err = d.Uint64()
		case 2:
			m.Keys, err = appendKey(d, m.Keys)
		case 3:
			m.Signature, err = d.Bytes()
		case 4:
			var c Change
			if err = d.Message(&c); err == nil {
				m.Changes = append(m.Changes, c)
			}
		case 5:
			m.Nonce, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

func keysToBytes(keys []msig.PublicKey) [][]byte {
	res := make([][]byte, len(keys))
	for i := range keys {
		res[i] = keys[i][:]
	}
	return res
}

func appendKey(d *orm.Decoder, keys []msig.PublicKey) ([]msig.PublicKey, error) {
	b, err := d.Bytes()
	if err != nil {
		return keys, err
	}
	k, err := msig.NewPublicKey(b)
	if err != nil {
		return keys, err
	}
	return append(keys, k), nil
}

func fieldName(name string, i int) string {
	return fmt.Sprintf("%s.%d", name, i)
}
