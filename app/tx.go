package app

import (
	"fmt"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/orm"
	"github.com/iov-one/msig/x/asset"
)

// msgs maps a route to the constructor of its message.
var msgs = make(map[string]func() msig.Msg)

// RegisterMsg makes the message returned by newMsg decodable. The route is
// read from a fresh instance. Registering a route twice panics.
//
// Use this function only during a program startup phase.
func RegisterMsg(newMsg func() msig.Msg) {
	path := newMsg().Path()
	if _, ok := msgs[path]; ok {
		panic(fmt.Sprintf("message %q already registered", path))
	}
	msgs[path] = newMsg
}

// Tx is the transaction envelope. It carries exactly one message and an
// optional funding section paying for deposits.
type Tx struct {
	Msg     msig.Msg
	Funding *asset.Funding
}

var _ asset.FundedTx = (*Tx)(nil)

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (msig.Msg, error) {
	return tx.Msg, nil
}

// GetFunding returns the funding section or nil.
func (tx *Tx) GetFunding() *asset.Funding {
	return tx.Funding
}

// GetSignBytes returns the transaction serialized without the funding
// signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cp := *tx
	if tx.Funding != nil {
		f := *tx.Funding
		f.Signature = nil
		cp.Funding = &f
	}
	return cp.Marshal()
}

// Marshal encodes the route, the message and the funding section.
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "no message")
	}
	raw, err := tx.Msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	e := orm.NewEncoder().
		String(1, tx.Msg.Path()).
		RepeatedBytes(2, [][]byte{raw})
	if tx.Funding != nil {
		e.Message(3, tx.Funding)
	}
	return e.Result()
}

// Unmarshal decodes a transaction. The message route must be registered.
func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	var (
		route  string
		msgRaw []byte
		hasMsg bool
	)
	d := orm.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			route, err = d.String()
		case 2:
			msgRaw, err = d.Bytes()
			hasMsg = true
		case 3:
			var f asset.Funding
			if err = d.Message(&f); err == nil {
				tx.Funding = &f
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	if err := d.Err(); err != nil {
		return err
	}
	if !hasMsg {
		return errors.Wrap(errors.ErrInput, "no message")
	}
	newMsg, ok := msgs[route]
	if !ok {
		return errors.Wrapf(errors.ErrInput, "unknown message route %q", route)
	}
	msg := newMsg()
	if err := msg.Unmarshal(msgRaw); err != nil {
		return errors.Wrap(err, "unmarshal message")
	}
	tx.Msg = msg
	return nil
}

// DecodeTx is the msig.TxDecoder of the ledger.
func DecodeTx(raw []byte) (msig.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &tx, nil
}

var _ msig.TxDecoder = DecodeTx
