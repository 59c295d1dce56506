package multisig

import (
	"encoding/binary"
)

// Canonical messages are what the keys of an account sign to authorize an
// operation. Numbers are little endian with a fixed width, keys use their
// fixed length encoding. The signing keys are never part of the message.

// SignBytes returns the canonical transfer message:
//
//   account id (8) | receiver (32) | amount (8) | nonce (8) | memo
func (m *TransferMsg) SignBytes() []byte {
	b := make([]byte, 0, 8+len(m.Receiver)+8+8+len(m.Memo))
	b = appendUint64(b, m.AccountID)
	b = append(b, m.Receiver[:]...)
	b = appendUint64(b, m.Amount)
	b = appendUint64(b, m.Nonce)
	b = append(b, m.Memo...)
	return b
}

// SignBytes returns the canonical change message:
//
//   account id (8) | nonce (8) | change...
//
// where each change is a tag byte followed by its payload:
//
//   0x00 add key         key (32)
//   0x01 remove key      key (32)
//   0x02 set threshold   threshold (4)
//   0x03 set description length (4) | description
func (m *ChangeAccountMsg) SignBytes() []byte {
	b := make([]byte, 0, 16+len(m.Changes)*33)
	b = appendUint64(b, m.AccountID)
	b = appendUint64(b, m.Nonce)
	for _, c := range m.Changes {
		b = append(b, byte(c.Kind))
		switch c.Kind {
		case AddKey, RemoveKey:
			b = append(b, c.Key[:]...)
		case SetThreshold:
			b = appendUint32(b, c.Threshold)
		case SetDescription:
			b = appendUint32(b, uint32(len(c.Description)))
			b = append(b, c.Description...)
		}
	}
	return b
}

func appendUint64(b []byte, v uint64) []byte {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], v)
	return append(b, raw[:]...)
}

func appendUint32(b []byte, v uint32) []byte {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	return append(b, raw[:]...)
}
