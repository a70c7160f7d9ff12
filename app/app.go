package app

import (
	"context"

	"github.com/calehh/valreg-app/config"
	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/tx/handler"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/store"
	"github.com/ethereum/go-ethereum/common"
)

type finalizeBlock struct {
	Height uint64
	Hash   common.Hash
}

func (b *finalizeBlock) Set(blk *abcitypes.RequestFinalizeBlock) {
	b.Height = uint64(blk.Height)
	b.Hash = common.BytesToHash(blk.Hash)
}

var _ abcitypes.Application = &ValregApp{}

type ValregApp struct {
	abcitypes.BaseApplication

	cfg    *config.AppConfig
	logger cmtlog.Logger

	db       *state.StateDB
	lastBlk  finalizeBlock
	txHdlrs  map[tx.RegTxType]handler.TxHandler
	queriers map[string]Querier
	metrics  *Metrics

	st *state.State
}

func NewValregApp(cfg *config.AppConfig, logger cmtlog.Logger) (app *ValregApp, err error) {
	db, err := state.NewStateDB(cfg.DataDir(), cfg.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	return newValregApp(cfg, db, logger), nil
}

func newValregApp(cfg *config.AppConfig, db *state.StateDB, logger cmtlog.Logger) (app *ValregApp) {
	logger = logger.With("module", "app")
	app = &ValregApp{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		queriers: make(map[string]Querier),
		metrics:  DefaultMetrics(),
	}
	app.registerTxHandler()
	app.registerQuerier()
	return
}

func (app *ValregApp) Start(bs *store.BlockStore) {
	height := app.db.Header().Height
	if height > 0 {
		blk := bs.LoadBlock(int64(height))
		if blk == nil {
			panic("unexpected BlockStore")
		}
		app.lastBlk.Height = height
		app.lastBlk.Hash = common.BytesToHash(blk.Hash())
	}
}

func (app *ValregApp) Stop() {
	err := app.db.Close()
	if err != nil {
		app.logger.Error("close db fail", "err", err)
	}
	app.logger.Info("valreg app stopped")
}

func (app *ValregApp) registerTxHandler() {
	app.txHdlrs = handler.Handlers(app.logger)
}

func (app *ValregApp) registerQuerier() {
	app.queriers["/profile/"] = NewProfileQuerier(app.db, app.logger)
	app.queriers["/validator/"] = NewValidatorQuerier(app.db, app.logger)
	app.queriers["/mint/"] = NewMintQuerier(app.db, app.logger)
	app.queriers["/token/"] = NewTokenQuerier(app.db, app.logger)
	app.queriers["/pool/"] = NewPoolQuerier(app.db, app.logger)
	app.queriers["/stakevault/"] = NewStakeVaultQuerier(app.db, app.logger)
	app.queriers["/proposal/"] = NewProposalQuerier(app.db, app.logger)
	app.queriers["/votes/"] = NewTallyQuerier(app.db, app.logger)
	app.queriers["/nonce/"] = NewNonceQuerier(app.db, app.logger)
}

func (app *ValregApp) InitChain(_ context.Context, chain *abcitypes.RequestInitChain) (res *abcitypes.ResponseInitChain, err error) {
	st := app.db.NewState()
	st.SetChainId(chain.ChainId)
	st.SetBlockTime(uint64(chain.Time.Unix()))
	_, err = st.Update()
	if err != nil {
		app.logger.Error("InitChain update state fail", "err", err)
		return nil, err
	}
	h, err := app.db.SetState(st)
	if err != nil {
		app.logger.Error("InitChain apply state fail", "err", err)
		return nil, err
	}
	app.logger.Info("InitChain", "chainId", chain.ChainId, "validators", len(chain.Validators))
	return &abcitypes.ResponseInitChain{
		AppHash: h.Bytes(),
	}, nil
}

func (app *ValregApp) Info(ctx context.Context, info *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	header := app.db.Header()
	return &abcitypes.ResponseInfo{
		LastBlockHeight:  int64(header.Height),
		LastBlockAppHash: header.Hash,
	}, nil
}
