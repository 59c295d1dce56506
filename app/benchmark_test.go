package app

import (
	"testing"

	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/x/multisig"
	"github.com/stretchr/testify/require"
)

func BenchmarkDeliverTransfer(b *testing.B) {
	f := newFundedFixture(b, uint64(b.N))
	res := f.app.DeliverTx(f.deposit(b, 1, uint64(b.N), 0))
	require.Equal(b, uint32(0), res.Code, res.Log)
	f.commit()

	receiver := msigtest.PrivKey("receiver").PublicKey()
	txs := make([][]byte, b.N)
	for i := range txs {
		txs[i] = f.transfer(b, 1, 1, uint64(i+1), receiver, f.signers[0], f.signers[1])
	}

	b.ResetTimer()
	for i, tx := range txs {
		if res := f.app.DeliverTx(tx); res.Code != 0 {
			b.Fatalf("transfer %d: %s", i, res.Log)
		}
		if i%100 == 99 {
			f.commit()
		}
	}
}

func BenchmarkCreateAccount(b *testing.B) {
	f := newFixture(b)
	keys := msigtest.PublicKeys(msigtest.PrivKeys(8)...)
	tx := f.marshal(b, &Tx{Msg: &multisig.CreateAccountMsg{Keys: keys, Threshold: 5}})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := f.app.DeliverTx(tx); res.Code != 0 {
			b.Fatalf("create %d: %s", i, res.Log)
		}
		if i%100 == 99 {
			f.commit()
		}
	}
}

func BenchmarkQueryKeyAccounts(b *testing.B) {
	f := newFixture(b)
	key := f.signers[0].PublicKey()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		models := f.query(b, "/key_accounts", key[:])
		if len(models) != 1 {
			b.Fatalf("want 1 account, got %d", len(models))
		}
	}
}
