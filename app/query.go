package app

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

const (
	QueryCodeNotFound   uint32 = 1
	QueryCodeBadRequest uint32 = 2
	QueryCodeNoRoute    uint32 = 404
)

func (app *ValregApp) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = QueryCodeNoRoute
		return
	}
	res, err = q.Query(ctx, req)
	return
}

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

// queryAddress accepts a raw 32 byte address or its hex form.
func queryAddress(data []byte) (types.Address, bool) {
	if len(data) == types.AddressLength {
		return types.BytesToAddress(data), true
	}
	a, err := types.HexToAddress(string(data))
	return a, err == nil
}

type recordQuerier[T any] struct {
	logger cmtlog.Logger
	get    func(types.Address) (*T, uint64, error)
}

func newRecordQuerier[T any](logger cmtlog.Logger, name string, get func(types.Address) (*T, uint64, error)) *recordQuerier[T] {
	return &recordQuerier[T]{
		logger: logger.With("querier", name),
		get:    get,
	}
}

func (q *recordQuerier[T]) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	addr, ok := queryAddress(req.Data)
	if !ok {
		res.Code = QueryCodeBadRequest
		res.Log = "invalid address"
		return
	}
	rec, height, err := q.get(addr)
	if err != nil {
		q.logger.Error("query fail", "addr", addr, "err", err)
		res.Code = QueryCodeNotFound
		res.Log = err.Error()
		return res, nil
	}
	res.Height = int64(height)
	if rec == nil {
		res.Code = QueryCodeNotFound
		res.Log = state.ErrNotFound.Error()
		return
	}
	res.Key = addr.Bytes()
	res.Value, err = json.Marshal(rec)
	return
}

func NewProfileQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "profile", db.GetProfile)
}

func NewValidatorQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "validator", db.GetValidator)
}

func NewMintQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "mint", db.GetMint)
}

func NewTokenQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "token", db.GetTokenAccount)
}

func NewPoolQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "pool", db.GetPool)
}

func NewStakeVaultQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "stakevault", db.GetStakeVault)
}

func NewProposalQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "proposal", db.GetProposal)
}

func NewTallyQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "votes", db.GetTally)
}

func NewNonceQuerier(db *state.StateDB, logger cmtlog.Logger) Querier {
	return newRecordQuerier(logger, "nonce", func(addr types.Address) (*uint64, uint64, error) {
		nonce, height, err := db.GetNonce(addr)
		return &nonce, height, err
	})
}
