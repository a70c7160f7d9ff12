package handler

import (
	"context"

	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/pkg/errors"
)

// TxHandler executes one tx type against a working state. An operation
// failure is reported through the result code and leaves st untouched; err
// is only set when the state itself could not be read or written.
type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ResponseCheckTx, err error)
	Prepare(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ExecTxResult, err error)
	Process(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ExecTxResult, err error)
}

type applyFunc[T any] func(st *state.State, signer types.Address, stx *T, now uint64) (abcitypes.Event, error)

// encoded adapts a state operation and its event encoder into an applyFunc.
func encoded[T, E any](op func(*state.State, types.Address, *T, uint64) (*E, error), enc func(*E) abcitypes.Event) applyFunc[T] {
	return func(st *state.State, signer types.Address, stx *T, now uint64) (abcitypes.Event, error) {
		event, err := op(st, signer, stx, now)
		if err != nil {
			return abcitypes.Event{}, err
		}
		return enc(event), nil
	}
}

type txHandler[T any] struct {
	logger cmtlog.Logger
	apply  applyFunc[T]
}

func newTxHandler[T any](logger cmtlog.Logger, module string, apply applyFunc[T]) *txHandler[T] {
	return &txHandler[T]{
		logger: logger.With("module", module),
		apply:  apply,
	}
}

func (h *txHandler[T]) handle(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ExecTxResult, err error) {
	res = &abcitypes.ExecTxResult{}
	stx, ok := btx.Tx.(*T)
	if !ok {
		err = errors.Wrapf(tx.ErrInvalidTx, "payload %T for %s", btx.Tx, btx.Type)
		return
	}
	signer, err := btx.SignerAddress()
	if err != nil {
		return
	}
	var (
		event abcitypes.Event
		opErr error
	)
	err = st.Atomic(func() error {
		if event, opErr = h.apply(st, signer, stx, now); opErr != nil {
			return opErr
		}
		return st.IncNonce(signer)
	})
	if opErr != nil {
		h.logger.Info("tx rejected", "type", btx.Type, "signer", signer, "err", opErr)
		res.Code = state.ErrorCode(opErr)
		res.Log = opErr.Error()
		return res, nil
	}
	if err != nil {
		return
	}
	res.Events = []abcitypes.Event{event}
	return
}

func (h *txHandler[T]) Check(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ResponseCheckTx, err error) {
	result, err := h.handle(ctx, st, btx, now)
	if err != nil {
		return
	}
	res = &abcitypes.ResponseCheckTx{Code: result.Code, Log: result.Log}
	return
}

func (h *txHandler[T]) Prepare(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx, now)
}

func (h *txHandler[T]) Process(ctx context.Context, st *state.State, btx *tx.RegTx, now uint64) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx, now)
}

// Handlers returns a handler for every supported tx type.
func Handlers(logger cmtlog.Logger) map[tx.RegTxType]TxHandler {
	return map[tx.RegTxType]TxHandler{
		tx.RegTxTypeCreateMint:            NewCreateMintTxHandler(logger),
		tx.RegTxTypeInitProfile:           NewInitProfileTxHandler(logger),
		tx.RegTxTypeInitValidator:         NewInitValidatorTxHandler(logger),
		tx.RegTxTypeUpdateValidator:       NewUpdateValidatorTxHandler(logger),
		tx.RegTxTypeCloseValidator:        NewCloseValidatorTxHandler(logger),
		tx.RegTxTypeTransfer:              NewTransferTxHandler(logger),
		tx.RegTxTypeBurn:                  NewBurnTxHandler(logger),
		tx.RegTxTypeReassignMintAuthority: NewReassignMintAuthorityTxHandler(logger),
		tx.RegTxTypeInitStakingPool:       NewInitStakingPoolTxHandler(logger),
		tx.RegTxTypeRefillPool:            NewRefillPoolTxHandler(logger),
		tx.RegTxTypeUpdatePoolConfig:      NewUpdatePoolConfigTxHandler(logger),
		tx.RegTxTypeStake:                 NewStakeTxHandler(logger),
		tx.RegTxTypeClaimReward:           NewClaimRewardTxHandler(logger),
		tx.RegTxTypeUnstake:               NewUnstakeTxHandler(logger),
		tx.RegTxTypeCreateProposal:        NewCreateProposalTxHandler(logger),
		tx.RegTxTypeVote:                  NewVoteTxHandler(logger),
	}
}
