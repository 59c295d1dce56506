package app

import (
	"github.com/iov-one/msig"
	"github.com/iov-one/msig/crypto"
	"github.com/iov-one/msig/x/asset"
	"github.com/iov-one/msig/x/multisig"
)

func init() {
	RegisterMsg(func() msig.Msg { return &multisig.CreateAccountMsg{} })
	RegisterMsg(func() msig.Msg { return &multisig.DepositMsg{} })
	RegisterMsg(func() msig.Msg { return &multisig.TransferMsg{} })
	RegisterMsg(func() msig.Msg { return &multisig.ChangeAccountMsg{} })
}

// LedgerStack wires the multisig accounts to the asset ledger: deposits
// draw on the funding attached to the transaction and transfers pay out to
// wallets.
func LedgerStack() Stack {
	ledger := asset.NewLedger()
	ctrl := multisig.NewController(ledger, crypto.Ed25519Verifier{})

	router := NewRouter()
	multisig.RegisterRoutes(router, ctrl)

	queries := msig.NewQueryRouter()
	queries.RegisterAll(
		asset.RegisterQuery,
		func(qr msig.QueryRouter) { multisig.RegisterQuery(qr, ctrl) },
	)

	return Stack{
		Decoder: DecodeTx,
		Handler: ChainDecorators(
			asset.NewFundingDecorator(),
		).WithHandler(router),
		Queries: queries,
		Initializer: msig.ChainInitializers(
			asset.Initializer{},
			multisig.Initializer{Ctrl: ctrl},
		),
	}
}
