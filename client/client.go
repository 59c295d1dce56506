package client

import (
	"context"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/app"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/x/asset"
	"github.com/iov-one/msig/x/multisig"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// TransactionID is the hash of a transaction as reported by the node.
type TransactionID = cmn.HexBytes

// CommitResult is the outcome of a transaction included in a block.
type CommitResult struct {
	ID     TransactionID
	Height int64
	// Data is what the handler returned, eg. the key of a created account.
	Data []byte
	Tags []cmn.KVPair
}

// Client is a tendermint client wrapped to provide simple access to the
// accounts and wallets of the ledger.
type Client struct {
	conn rpcclient.ABCIClient
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn rpcclient.ABCIClient) *Client {
	return &Client{conn: conn}
}

// NewHTTPConnection connects to a node over http.
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// SubmitTx will submit the tx to the mempool and return once it passed
// the check. The returned id can be used to find the result later.
func (c *Client) SubmitTx(ctx context.Context, tx msig.Tx) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err.Error())
	}
	// a failed check never reaches the mempool
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits the tx and waits until it is included in a block.
func (c *Client) CommitTx(ctx context.Context, tx msig.Tx) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err.Error())
	}
	if res.CheckTx.Code != 0 {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.DeliverTx.Code != 0 {
		return nil, errors.ABCIError(res.DeliverTx.Code, res.DeliverTx.Log)
	}
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Data:   res.DeliverTx.Data,
		Tags:   res.DeliverTx.Tags,
	}, nil
}

// Query runs an abci query against the committed state and returns the
// matching models.
func (c *Client) Query(path string, data []byte) ([]msig.Model, error) {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query: %s", err.Error())
	}
	if res.Response.Code != 0 {
		return nil, errors.ABCIError(res.Response.Code, res.Response.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Response.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Response.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// Account returns the account with the given id. An account that does not
// exist is returned with all fields zero.
func (c *Client) Account(ctx context.Context, id uint64) (*multisig.Account, error) {
	models, err := c.Query("/accounts", multisig.AccountKey(id))
	if err != nil {
		return nil, err
	}
	var acct multisig.Account
	if len(models) == 1 {
		if err := acct.Unmarshal(models[0].Value); err != nil {
			return nil, err
		}
	}
	return &acct, nil
}

// NextNonce returns the nonce the next transfer or change of the account
// must carry.
func (c *Client) NextNonce(ctx context.Context, id uint64) (uint64, error) {
	acct, err := c.Account(ctx, id)
	if err != nil {
		return 0, err
	}
	if acct.ID == 0 {
		return 0, errors.Wrapf(errors.ErrNotFound, "account %d", id)
	}
	return acct.Nonce + 1, nil
}

// AccountKeys returns the keys authorized on an account, in ascending order.
func (c *Client) AccountKeys(ctx context.Context, id uint64) ([]msig.PublicKey, error) {
	models, err := c.Query("/account_keys", multisig.AccountKey(id))
	if err != nil {
		return nil, err
	}
	keys := make([]msig.PublicKey, 0, len(models))
	for _, m := range models {
		k, err := msig.NewPublicKey(m.Value)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// KeyAccounts returns the ids of the accounts a key is authorized on, in
// ascending order.
func (c *Client) KeyAccounts(ctx context.Context, key msig.PublicKey) ([]uint64, error) {
	models, err := c.Query("/key_accounts", key.Bytes())
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(models))
	for _, m := range models {
		id, err := multisig.ParseAccountKey(m.Value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Wallet returns the wallet of key. A key that never held funds has an
// empty wallet.
func (c *Client) Wallet(ctx context.Context, key msig.PublicKey) (*asset.Wallet, error) {
	models, err := c.Query("/wallets", key.Bytes())
	if err != nil {
		return nil, err
	}
	w := asset.Wallet{Key: key}
	if len(models) == 1 {
		if err := w.Unmarshal(models[0].Value); err != nil {
			return nil, err
		}
	}
	return &w, nil
}
