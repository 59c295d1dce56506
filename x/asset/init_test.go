package asset

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/store"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	key := msigtest.PrivKey("genesis").PublicKey()
	genesis := fmt.Sprintf(`{"asset": {"wallets": [{"key": %q, "balance": 5000}]}}`, key.String())

	var opts msig.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	w, err := NewLedger().Wallet(db, key)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), w.Balance)
	require.Equal(t, uint64(0), w.Sequence)
}

func TestGenesisInvalidKey(t *testing.T) {
	var opts msig.Options
	require.NoError(t, json.Unmarshal([]byte(`{"asset": {"wallets": [{"key": "msigpub1xyz", "balance": 1}]}}`), &opts))
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}
