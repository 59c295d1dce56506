package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Stack is what the application runs transactions, queries and the
// genesis with.
type Stack struct {
	Decoder     msig.TxDecoder
	Handler     msig.Handler
	Queries     msig.QueryRouter
	Initializer msig.Initializer
}

// Application is the ABCI application of the ledger.
//
// Errors on ABCI steps that take no user input (InitChain, Commit) cannot
// be handled gracefully and panic.
type Application struct {
	// name is what is returned from abci.Info
	name    string
	logger  log.Logger
	debug   bool
	metrics *Metrics

	store *CommitStore
	stack Stack

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// blockContext contains context info that is valid for the
	// current block (eg. height), reset on BeginBlock
	blockContext msig.Context
}

var _ abci.Application = (*Application)(nil)

// NewApplication loads the latest state of store. A nil metrics records
// nothing.
func NewApplication(name string, store msig.CommitKVStore, stack Stack, logger log.Logger, metrics *Metrics, debug bool) (*Application, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	a := &Application{
		name:    name,
		logger:  logger,
		debug:   debug,
		metrics: metrics,
		store:   cs,
		stack:   stack,
		chainID: chainID,
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, err
	}
	a.blockContext = a.newBlockContext(info.Version)
	logger.Debug("Application loaded",
		"height", info.Version,
		"queries", strings.Join(stack.Queries.Paths(), ","))
	return a, nil
}

func (a *Application) newBlockContext(height int64) msig.Context {
	ctx := msig.WithLogger(context.Background(), a.logger)
	if a.chainID != "" {
		ctx = msig.WithChainID(ctx, a.chainID)
	}
	return msig.WithHeight(ctx, height)
}

// GetChainID returns the current chainID
func (a *Application) GetChainID() string {
	return a.chainID
}

// Logger returns the application base logger
func (a *Application) Logger() log.Logger {
	return a.logger
}

// DeliverStore returns the cache of the block in progress.
func (a *Application) DeliverStore() msig.CacheableKVStore {
	return a.store.DeliverStore()
}

// CheckStore returns the cache of the mempool.
func (a *Application) CheckStore() msig.CacheableKVStore {
	return a.store.CheckStore()
}

//----------------------- ABCI ---------------------

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name.
func (a *Application) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := a.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	a.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             a.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (a *Application) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain stores the chain id and loads the app state of the genesis.
func (a *Application) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := a.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (a *Application) initChain(chainID string, appState []byte) error {
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", a.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json")
	}
	var opts msig.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db := a.store.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	a.chainID = chainID
	a.blockContext = a.newBlockContext(0)

	if err := a.stack.Initializer.FromGenesis(opts, db); err != nil {
		return errors.Wrap(err, "genesis")
	}
	return nil
}

// BeginBlock sets the height of the block context.
func (a *Application) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.blockContext = a.newBlockContext(req.Header.Height)
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing, the ledger has no end of block logic.
func (a *Application) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// DeliverTx runs the transaction on top of the block in progress.
func (a *Application) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	start := time.Now()
	res, path, err := a.deliver(txBytes)
	resp := msig.DeliverOrError(res, err, a.debug)
	a.metrics.observeTx("deliver", path, resp.Code, start)
	return resp
}

func (a *Application) deliver(txBytes []byte) (res *msig.DeliverResult, path string, err error) {
	defer errors.Recover(&err)

	tx, err := a.stack.Decoder(txBytes)
	if err != nil {
		return nil, "", err
	}
	path = msig.GetPath(tx)

	events := &msig.EventBuffer{}
	ctx := msig.WithEventSink(a.blockContext, events)
	ctx = msig.WithLogInfo(ctx, "call", "deliver_tx", "path", path)

	db := a.store.DeliverStore().CacheWrap()
	res, err = a.stack.Handler.Deliver(ctx, db, tx)
	if err != nil {
		db.Discard()
		return nil, path, err
	}
	if err := db.Write(); err != nil {
		return nil, path, errors.Wrap(err, "write tx cache")
	}
	res.Tags = append(res.Tags, events.Tags()...)
	return res, path, nil
}

// CheckTx runs the transaction on top of the mempool state, so that a
// sequence of transactions can be checked before they are delivered.
func (a *Application) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	start := time.Now()
	res, path, err := a.check(txBytes)
	resp := msig.CheckOrError(res, err, a.debug)
	a.metrics.observeTx("check", path, resp.Code, start)
	return resp
}

func (a *Application) check(txBytes []byte) (res *msig.CheckResult, path string, err error) {
	defer errors.Recover(&err)

	tx, err := a.stack.Decoder(txBytes)
	if err != nil {
		return nil, "", err
	}
	path = msig.GetPath(tx)
	ctx := msig.WithLogInfo(a.blockContext, "call", "check_tx", "path", path)

	db := a.store.CheckStore().CacheWrap()
	res, err = a.stack.Handler.Check(ctx, db, tx)
	if err != nil {
		db.Discard()
		return nil, path, err
	}
	if err := db.Write(); err != nil {
		return nil, path, errors.Wrap(err, "write tx cache")
	}
	return res, path, nil
}

// Commit implements abci.Application
func (a *Application) Commit() abci.ResponseCommit {
	id, err := a.store.Commit()
	if err != nil {
		panic(err)
	}
	a.metrics.observeCommit(id.Version)
	a.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash),
	)
	return abci.ResponseCommit{Data: id.Hash}
}

/*
Query gets data from the last committed state.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path

Path is "/<bucket>" or a query path registered by an extension, for
example "/key_accounts". It may be followed by "?prefix" to make a
prefix query.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They must be the
same size.
*/
func (a *Application) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	qh := a.stack.Queries.Handler(path)
	if qh == nil {
		return a.queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", req.Path))
	}

	info, err := a.store.CommitInfo()
	if err != nil {
		return a.queryError(err)
	}
	models, err := qh.Query(a.store.CommittedStore(), mod, req.Data)
	if err != nil {
		return a.queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return a.queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return a.queryError(err)
	}
	return res
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

func (a *Application) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, a.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
