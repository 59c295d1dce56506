package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/msig/errors"
)

// Protobuf wire types used by the codec.
const (
	WireVarint = 0
	WireBytes  = 2
)

// Encoder writes fields in the protobuf wire format. Zero values are
// omitted the same way proto3 does it, so the output of an Encoder is
// readable by any protobuf implementation.
//
// Fields must be written in ascending field number order to produce the
// canonical encoding.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) tag(field, wire int) {
	if e.err == nil {
		e.err = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
	}
}

// Uint64 writes a varint field.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.tag(field, WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
	return e
}

// Uint32 writes a varint field.
func (e *Encoder) Uint32(field int, v uint32) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Bytes writes a length delimited field.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	if len(b) == 0 {
		return e
	}
	e.tag(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
	return e
}

// RepeatedBytes writes every element as a separate length delimited field.
// Empty elements are written too, so the number of elements is preserved.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) *Encoder {
	for _, b := range list {
		e.tag(field, WireBytes)
		if e.err == nil {
			e.err = e.buf.EncodeRawBytes(b)
		}
	}
	return e
}

// String writes a length delimited field.
func (e *Encoder) String(field int, s string) *Encoder {
	if s == "" {
		return e
	}
	e.tag(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeStringBytes(s)
	}
	return e
}

// Message writes an embedded message. A nil message is omitted.
func (e *Encoder) Message(field int, m interface{ Marshal() ([]byte, error) }) *Encoder {
	if m == nil || e.err != nil {
		return e
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return e
	}
	e.tag(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
	return e
}

// Result returns the encoded bytes or the first error encountered.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(errors.ErrState, e.err.Error())
	}
	return e.buf.Bytes(), nil
}

// Decoder reads fields written in the protobuf wire format.
//
//   d := NewDecoder(raw)
//   for d.Next() {
//     switch d.Field() {
//     case 1:
//       x.ID, err = d.Uint64()
//     default:
//       err = d.Skip()
//     }
//   }
//   return d.Err()
type Decoder struct {
	raw   []byte
	pos   int
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading raw.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{raw: raw}
}

// Next reads the next field header. It returns false at the end of the
// input or on the first error.
func (d *Decoder) Next() bool {
	if d.err != nil || d.pos >= len(d.raw) {
		return false
	}
	key, err := d.varint()
	if err != nil {
		d.err = err
		return false
	}
	d.field = int(key >> 3)
	d.wire = int(key & 0x7)
	if d.field <= 0 {
		d.err = errors.Wrapf(errors.ErrInput, "illegal field number %d", d.field)
		return false
	}
	return true
}

// Field returns the number of the current field.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) varint() (uint64, error) {
	v, n := proto.DecodeVarint(d.raw[d.pos:])
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) expect(wire int) error {
	if d.wire != wire {
		err := errors.Wrapf(errors.ErrInput, "field %d: unexpected wire type %d", d.field, d.wire)
		d.err = err
		return err
	}
	return nil
}

// Uint64 reads the current field as a varint.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.expect(WireVarint); err != nil {
		return 0, err
	}
	v, err := d.varint()
	if err != nil {
		d.err = err
	}
	return v, err
}

// Uint32 reads the current field as a varint that must fit 32 bits.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		d.err = errors.Wrapf(errors.ErrOverflow, "field %d", d.field)
		return 0, d.err
	}
	return uint32(v), nil
}

// Bytes reads the current field as a length delimited value. The result is
// a copy.
func (d *Decoder) Bytes() ([]byte, error) {
	if err := d.expect(WireBytes); err != nil {
		return nil, err
	}
	n, err := d.varint()
	if err != nil {
		d.err = err
		return nil, err
	}
	if n > uint64(len(d.raw)-d.pos) {
		d.err = errors.Wrapf(errors.ErrInput, "field %d: truncated", d.field)
		return nil, d.err
	}
	b := make([]byte, n)
	copy(b, d.raw[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return b, nil
}

// String reads the current field as a length delimited string.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	return string(b), err
}

// Message reads the current field into an embedded message.
func (d *Decoder) Message(m interface{ Unmarshal([]byte) error }) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := m.Unmarshal(b); err != nil {
		d.err = err
		return err
	}
	return nil
}

// Skip discards the value of an unknown field.
func (d *Decoder) Skip() error {
	switch d.wire {
	case WireVarint:
		_, err := d.Uint64()
		return err
	case WireBytes:
		_, err := d.Bytes()
		return err
	default:
		d.err = errors.Wrapf(errors.ErrInput, "field %d: unsupported wire type %d", d.field, d.wire)
		return d.err
	}
}
