package orm

import (
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest/assert"
)

func TestCodecSkipsUnknownFields(t *testing.T) {
	raw, err := NewEncoder().
		Uint64(1, 300).
		Bytes(3, []byte("ignored")).
		String(2, "label").
		Uint64(9, 1).
		Result()
	assert.Nil(t, err)

	var c counter
	assert.Nil(t, c.Unmarshal(raw))
	assert.Equal(t, counter{Count: 300, Label: "label"}, c)
}

func TestCodecOmitsZeroValues(t *testing.T) {
	raw, err := NewEncoder().Uint64(1, 0).String(2, "").Bytes(3, nil).Result()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(raw))
}

func TestCodecRepeatedBytes(t *testing.T) {
	raw, err := NewEncoder().RepeatedBytes(1, [][]byte{{1}, {}, {2, 3}}).Result()
	assert.Nil(t, err)

	var got [][]byte
	d := NewDecoder(raw)
	for d.Next() {
		b, err := d.Bytes()
		assert.Nil(t, err)
		got = append(got, b)
	}
	assert.Nil(t, d.Err())
	assert.Equal(t, [][]byte{{1}, {}, {2, 3}}, got)
}

func TestCodecMalformedInput(t *testing.T) {
	cases := map[string][]byte{
		"truncated bytes":   {0x12, 0x05, 'a'},
		"truncated varint":  {0x08, 0xff},
		"wrong wire type":   {0x0a, 0x01, 'a'},
		"zero field number": {0x00, 0x01},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var c counter
			assert.IsErr(t, errors.ErrInput, c.Unmarshal(raw))
		})
	}
}
