package handler

import (
	"context"
	"testing"

	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 uint64 = 1_700_000_000

func newTestState(t *testing.T) *state.State {
	db, err := state.NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	return db.NewState()
}

func profileTx(t *testing.T, name string) (*tx.RegTx, types.Address) {
	pub := ed25519.GenPrivKey().PubKey().Bytes()
	signer := types.BytesToAddress(pub)
	profile, _ := types.ProfileAddress(signer)
	btx := &tx.RegTx{
		Version: tx.RegTxVersion1,
		Type:    tx.RegTxTypeInitProfile,
		Signer:  pub,
		Tx:      &tx.InitProfileTx{Name: name, Profile: profile},
	}
	return btx, signer
}

func nonce(t *testing.T, st *state.State, addr types.Address) uint64 {
	n, err := st.Nonce(addr)
	require.NoError(t, err)
	return n
}

func TestHandlerBumpsNonceOnSuccess(t *testing.T) {
	st := newTestState(t)
	btx, signer := profileTx(t, "Kartik")

	res, err := NewInitProfileTxHandler(cmtlog.NewNopLogger()).Process(context.Background(), st, btx, t0)
	require.NoError(t, err)
	assert.Equal(t, state.CodeOK, res.Code)
	require.Len(t, res.Events, 1)
	assert.Equal(t, types.EventInitProfileType, res.Events[0].Type)
	assert.Equal(t, uint64(1), nonce(t, st, signer))

	profile, _ := types.ProfileAddress(signer)
	p, err := st.GetProfile(profile)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestHandlerRejectedTxKeepsNonce(t *testing.T) {
	st := newTestState(t)
	btx, signer := profileTx(t, "Kartik")
	btx.Tx.(*tx.InitProfileTx).Profile = types.Address{9}

	res, err := NewInitProfileTxHandler(cmtlog.NewNopLogger()).Process(context.Background(), st, btx, t0)
	require.NoError(t, err)
	assert.Equal(t, state.ErrorCode(state.ErrAddressMismatch), res.Code)
	assert.Empty(t, res.Events)
	assert.Equal(t, uint64(0), nonce(t, st, signer))
}

func TestHandlerDropsPartialWrites(t *testing.T) {
	st := newTestState(t)
	btx, signer := profileTx(t, "Kartik")
	failLate := func(st *state.State, signer types.Address, stx *tx.InitProfileTx, now uint64) (abcitypes.Event, error) {
		_, err := st.InitProfile(signer, stx, now)
		require.NoError(t, err)
		return abcitypes.Event{}, errors.New("late failure")
	}

	res, err := newTxHandler(cmtlog.NewNopLogger(), "test", failLate).Process(context.Background(), st, btx, t0)
	require.NoError(t, err)
	assert.Equal(t, state.CodeGeneric, res.Code)
	assert.Equal(t, uint64(0), nonce(t, st, signer))

	profile, _ := types.ProfileAddress(signer)
	p, err := st.GetProfile(profile)
	require.NoError(t, err)
	assert.Nil(t, p)
}
