package state

import (
	"testing"

	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMintOnce(t *testing.T) {
	e := newTestEnv(t)
	alice := identity(1)
	e.createMint(alice)

	m, err := e.st.Ledger().Mint(types.MintAddress())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, uint8(types.MintDecimals), m.Decimals)
	assert.Equal(t, types.MintAuthorityAddress(), m.MintAuthority)

	_, err = e.st.CreateMint(identity(2), &tx.CreateMintTx{Mint: types.MintAddress(), MintAuthority: types.MintAuthorityAddress()}, t0)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	admin, err := e.st.mintAdmin()
	require.NoError(t, err)
	assert.Equal(t, alice, admin)

	_, err = e.st.CreateMint(alice, &tx.CreateMintTx{Mint: identity(9), MintAuthority: types.MintAuthorityAddress()}, t0)
	assert.ErrorIs(t, err, ErrAddressMismatch)
}

func TestTransferTokens(t *testing.T) {
	e := newTestEnv(t)
	alice, bob, carol := identity(1), identity(2), identity(3)
	e.createMint(alice)
	e.register(alice, "Alice")
	e.register(bob, "Bob")

	before := e.balance(ata(alice)) + e.balance(ata(bob))
	event, err := e.st.TransferTokens(alice, &tx.TransferTx{Amount: 1_000, From: ata(alice), To: ata(bob)}, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), event.Amount)
	assert.Equal(t, types.ValidatorInitialMint-1_000, e.balance(ata(alice)))
	assert.Equal(t, types.ValidatorInitialMint+1_000, e.balance(ata(bob)))
	assert.Equal(t, before, e.balance(ata(alice))+e.balance(ata(bob)))

	_, err = e.st.TransferTokens(alice, &tx.TransferTx{Amount: types.ValidatorInitialMint, From: ata(alice), To: ata(bob)}, t0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, types.ValidatorInitialMint-1_000, e.balance(ata(alice)))

	_, err = e.st.TransferTokens(bob, &tx.TransferTx{Amount: 1, From: ata(alice), To: ata(bob)}, t0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = e.st.TransferTokens(alice, &tx.TransferTx{Amount: 5, From: ata(alice), To: ata(carol)}, t0)
	assert.ErrorIs(t, err, ErrAccountNotInitialized)

	_, err = e.st.TransferTokens(alice, &tx.TransferTx{Amount: 5, From: ata(alice), To: ata(carol), Recipient: carol}, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), e.balance(ata(carol)))
	account, err := e.st.Ledger().Account(ata(carol))
	require.NoError(t, err)
	assert.Equal(t, carol, account.Owner)

	_, err = e.st.TransferTokens(alice, &tx.TransferTx{Amount: 5, From: ata(alice), To: ata(alice)}, t0)
	require.NoError(t, err)
	assert.Equal(t, types.ValidatorInitialMint-1_005, e.balance(ata(alice)))
}

func TestBurnTokens(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := identity(1), identity(2)
	e.createMint(alice)
	e.register(alice, "Alice")

	_, err := e.st.BurnTokens(alice, &tx.BurnTx{Amount: 400, Account: ata(alice), Mint: types.MintAddress()}, t0)
	require.NoError(t, err)
	assert.Equal(t, types.ValidatorInitialMint-400, e.balance(ata(alice)))

	_, err = e.st.BurnTokens(alice, &tx.BurnTx{Amount: types.ValidatorInitialMint, Account: ata(alice), Mint: types.MintAddress()}, t0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = e.st.BurnTokens(bob, &tx.BurnTx{Amount: 1, Account: ata(alice), Mint: types.MintAddress()}, t0)
	assert.ErrorIs(t, err, ErrOwnerMismatch)

	_, err = e.st.BurnTokens(alice, &tx.BurnTx{Amount: 1, Account: ata(alice), Mint: identity(7)}, t0)
	assert.ErrorIs(t, err, ErrAccountNotInitialized)
	assert.Equal(t, types.ValidatorInitialMint-400, e.balance(ata(alice)))
}

func TestReassignMintAuthority(t *testing.T) {
	e := newTestEnv(t)
	admin, bob, external := identity(1), identity(2), identity(3)
	e.createMint(admin)
	require.NoError(t, e.initProfile(bob, "Bob"))

	reassign := &tx.ReassignMintAuthorityTx{NewAuthority: external, Mint: types.MintAddress(), MintAuthority: types.MintAuthorityAddress()}
	_, err := e.st.ReassignMintAuthority(bob, reassign, t0)
	assert.ErrorIs(t, err, ErrOwnerMismatch)

	event, err := e.st.ReassignMintAuthority(admin, reassign, t0)
	require.NoError(t, err)
	assert.Equal(t, types.MintAuthorityAddress(), event.OldAuthority)
	assert.Equal(t, external, event.NewAuthority)

	// the engine can no longer mint the initial validator balance
	assert.ErrorIs(t, e.initValidator(bob, 1, "node"), ErrOwnerMismatch)
	validator, _ := types.ValidatorAddress(bob, 1)
	v, err := e.st.GetValidator(validator)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = e.st.ReassignMintAuthority(admin, reassign, t0)
	assert.ErrorIs(t, err, ErrOwnerMismatch)

	back := &tx.ReassignMintAuthorityTx{NewAuthority: types.MintAuthorityAddress(), Mint: types.MintAddress(), MintAuthority: external}
	_, err = e.st.ReassignMintAuthority(admin, back, t0)
	assert.ErrorIs(t, err, ErrOwnerMismatch)
	_, err = e.st.ReassignMintAuthority(external, back, t0)
	require.NoError(t, err)
	require.NoError(t, e.initValidator(bob, 1, "node"))
}
