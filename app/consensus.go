package app

import (
	"context"
	"time"

	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/tx"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/pkg/errors"
)

var ErrUnexpectedTxProcess = errors.New("unexpected tx process")

func txType(btx *tx.RegTx) tx.RegTxType {
	if btx == nil {
		return tx.RegTxTypeUnknown
	}
	return btx.Type
}

func (app *ValregApp) getState() (st *state.State) {
	st = app.db.NewState()
	app.st = st
	return
}

func (app *ValregApp) parseTx(st *state.State, txDat []byte, allowNonceGap bool) (btx *tx.RegTx, err error) {
	btx, err = tx.UnmarshalRegTx(txDat)
	if err != nil {
		return
	}
	_, err = st.Verify(btx, allowNonceGap)
	return
}

// execTx runs one tx on st. A rejected tx is reported through the result code.
func (app *ValregApp) execTx(ctx context.Context, st *state.State, txDat []byte, now uint64) (btx *tx.RegTx, res *abcitypes.ExecTxResult, err error) {
	btx, err = app.parseTx(st, txDat, false)
	if err != nil {
		res = &abcitypes.ExecTxResult{Code: state.ErrorCode(err), Log: err.Error()}
		return btx, res, nil
	}
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		err = errors.Wrapf(tx.ErrUnsupportedTxType, "type %d", btx.Type)
		res = &abcitypes.ExecTxResult{Code: state.ErrorCode(err), Log: err.Error()}
		return btx, res, nil
	}
	res, err = h.Process(ctx, st, btx, now)
	if err != nil {
		return nil, nil, err
	}
	if res == nil {
		return nil, nil, ErrUnexpectedTxProcess
	}
	return
}

func (app *ValregApp) CheckTx(ctx context.Context, check *abcitypes.RequestCheckTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: state.CodeOK}
	st := app.db.State().Clone()
	btx, err := app.parseTx(st, check.Tx, true)
	if err != nil {
		app.logger.Error("parse tx fail", "err", err)
		res.Code = state.ErrorCode(err)
		res.Log = err.Error()
		err = nil
		return
	}
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		app.logger.Error("unsupported tx", "type", btx.Type)
		res.Code = state.ErrorCode(tx.ErrUnsupportedTxType)
		res.Log = tx.ErrUnsupportedTxType.Error()
		return
	}
	res, err = h.Check(ctx, st, btx, uint64(time.Now().Unix()))
	if err != nil {
		app.logger.Error("check tx fail", "type", btx.Type, "err", err)
		res = &abcitypes.ResponseCheckTx{Code: state.CodeGeneric, Log: err.Error()}
		err = nil
	}
	return
}

func (app *ValregApp) PrepareProposal(ctx context.Context, proposal *abcitypes.RequestPrepareProposal) (res *abcitypes.ResponsePrepareProposal, err error) {
	app.logger.Info("PrepareProposal", "height", proposal.Height, "txs", len(proposal.Txs))
	st := app.getState()
	now := uint64(proposal.Time.Unix())
	txs := make([][]byte, 0, len(proposal.Txs))
	var size int64
	for _, stx := range proposal.Txs {
		if proposal.MaxTxBytes > 0 && size+int64(len(stx)) > proposal.MaxTxBytes {
			break
		}
		stTmp := st.Clone()
		btx, err := app.parseTx(stTmp, stx, false)
		if err != nil {
			app.logger.Error("drop tx, parse fail", "err", err)
			continue
		}
		h, ok := app.txHdlrs[btx.Type]
		if !ok {
			app.logger.Error("drop unsupported tx", "type", btx.Type)
			continue
		}
		result, err := h.Prepare(ctx, stTmp, btx, now)
		if err != nil {
			app.logger.Error("prepare tx fail", "type", btx.Type, "err", err)
			continue
		}
		if result == nil || result.Code != state.CodeOK {
			app.logger.Info("drop failing tx", "type", btx.Type, "log", result.GetLog())
			continue
		}
		st = stTmp
		size += int64(len(stx))
		txs = append(txs, stx)
	}
	return &abcitypes.ResponsePrepareProposal{Txs: txs}, nil
}

func (app *ValregApp) ProcessProposal(ctx context.Context, proposal *abcitypes.RequestProcessProposal) (res *abcitypes.ResponseProcessProposal, err error) {
	app.logger.Info("ProcessProposal", "height", proposal.Height, "txs", len(proposal.Txs))
	res = &abcitypes.ResponseProcessProposal{Status: abcitypes.ResponseProcessProposal_REJECT}
	if len(proposal.Txs) == 0 {
		res.Status = abcitypes.ResponseProcessProposal_ACCEPT
		return res, nil
	}
	st := app.getState()
	now := uint64(proposal.Time.Unix())
	for _, stx := range proposal.Txs {
		btx, result, err := app.execTx(ctx, st, stx, now)
		if err != nil {
			app.logger.Error("process tx fail", "err", err)
			return res, nil
		}
		if result.Code != state.CodeOK {
			app.logger.Error("reject proposal, tx fails", "type", txType(btx), "code", result.Code, "log", result.Log)
			return res, nil
		}
	}
	res.Status = abcitypes.ResponseProcessProposal_ACCEPT
	return res, nil
}

func (app *ValregApp) FinalizeBlock(ctx context.Context, req *abcitypes.RequestFinalizeBlock) (*abcitypes.ResponseFinalizeBlock, error) {
	app.logger.Info("FinalizeBlock", "height", req.Height, "txs", len(req.Txs))
	app.lastBlk.Set(req)
	st := app.getState()
	now := uint64(req.Time.Unix())
	st.SetBlockTime(now)
	res := make([]*abcitypes.ExecTxResult, len(req.Txs))
	for i, stx := range req.Txs {
		btx, result, err := app.execTx(ctx, st, stx, now)
		if err != nil {
			app.logger.Error("finalize tx fail", "err", err)
			return nil, err
		}
		app.metrics.observe(btx, result)
		res[i] = result
	}
	h, err := st.Update()
	if err != nil {
		app.logger.Error("state update hash fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseFinalizeBlock{
		TxResults: res,
		AppHash:   h.Bytes(),
	}, nil
}

func (app *ValregApp) Commit(ctx context.Context, commit *abcitypes.RequestCommit) (*abcitypes.ResponseCommit, error) {
	h, err := app.db.SetState(app.st)
	if err != nil {
		return nil, err
	}
	app.st = nil
	app.logger.Info("Commit", "height", app.lastBlk.Height, "hash", h)
	return &abcitypes.ResponseCommit{}, nil
}
