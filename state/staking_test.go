package state

import (
	"math"
	"testing"

	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolFixture struct {
	*testEnv
	admin types.Address
	user  types.Address
	pool  types.Address
	vault types.Address
}

func newPoolFixture(t *testing.T, id, rate, lock uint64) *poolFixture {
	e := newTestEnv(t)
	f := &poolFixture{testEnv: e, admin: identity(1), user: identity(2)}
	e.createMint(f.admin)
	e.register(f.admin, "Kartik")
	e.register(f.user, "User")
	f.pool, _ = types.PoolAddress(f.admin, id)
	f.vault = types.RewardVaultAddress(f.pool, types.MintAddress())
	_, err := e.st.InitStakingPool(f.admin, &tx.InitStakingPoolTx{
		ID:                id,
		Name:              "pool",
		RewardPerSecond:   rate,
		LockPeriodSeconds: lock,
		Pool:              f.pool,
		StakeMint:         types.MintAddress(),
		RewardMint:        types.MintAddress(),
		RewardVault:       f.vault,
	}, t0)
	require.NoError(t, err)
	return f
}

func (f *poolFixture) refill(amount uint64) (*types.EventRefillPool, error) {
	return f.st.RefillPool(f.admin, &tx.RefillPoolTx{Amount: amount, Pool: f.pool, Source: ata(f.admin), RewardVault: f.vault}, t0)
}

func (f *poolFixture) stakeVault() types.Address {
	return types.StakeVaultAddress(f.user)
}

func (f *poolFixture) holding() types.Address {
	return types.StakeHoldingAddress(f.stakeVault(), f.pool)
}

func (f *poolFixture) stake(amount, now uint64) (*types.EventStake, error) {
	profile, _ := types.ProfileAddress(f.user)
	return f.st.StakeTokens(f.user, &tx.StakeTx{
		Amount:     amount,
		Profile:    profile,
		StakeVault: f.stakeVault(),
		Pool:       f.pool,
		Source:     ata(f.user),
		Holding:    f.holding(),
	}, now)
}

func (f *poolFixture) claim(now uint64) (*types.EventStake, error) {
	return f.st.ClaimReward(f.user, &tx.ClaimRewardTx{
		StakeVault:  f.stakeVault(),
		Pool:        f.pool,
		Holding:     f.holding(),
		RewardVault: f.vault,
		Destination: ata(f.user),
	}, now)
}

func (f *poolFixture) unstake(now uint64) (*types.EventStake, error) {
	return f.st.UnstakeTokens(f.user, &tx.UnstakeTx{
		StakeVault:  f.stakeVault(),
		Pool:        f.pool,
		Holding:     f.holding(),
		Destination: ata(f.user),
	}, now)
}

func (f *poolFixture) poolRecord() *types.StakingPool {
	p, err := f.st.GetPool(f.pool)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return p
}

func (f *poolFixture) vaultRecord() *types.StakeVault {
	v, err := f.st.GetStakeVault(f.stakeVault())
	require.NoError(f.t, err)
	require.NotNil(f.t, v)
	return v
}

func TestInitStakingPool(t *testing.T) {
	f := newPoolFixture(t, 99, 10, 100)
	p := f.poolRecord()
	assert.Equal(t, uint64(99), p.ID)
	assert.Equal(t, f.admin, p.Authority)
	assert.Equal(t, f.vault, p.RewardVault)
	assert.Equal(t, uint64(0), p.RewardBalance)

	vault, err := f.st.Ledger().Account(f.vault)
	require.NoError(t, err)
	require.NotNil(t, vault)
	assert.Equal(t, types.RewardVaultAuthority(f.pool), vault.Owner)

	_, err = f.st.InitStakingPool(f.admin, &tx.InitStakingPoolTx{
		ID: 99, Name: "pool", Pool: f.pool, StakeMint: types.MintAddress(), RewardMint: types.MintAddress(), RewardVault: f.vault,
	}, t0)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	other, _ := types.PoolAddress(f.admin, 5)
	_, err = f.st.InitStakingPool(f.admin, &tx.InitStakingPoolTx{
		ID: 5, Name: "pool", Pool: other, StakeMint: types.MintAddress(), RewardMint: types.MintAddress(), RewardVault: f.vault,
	}, t0)
	assert.ErrorIs(t, err, ErrAddressMismatch)
}

func TestRefillPool(t *testing.T) {
	f := newPoolFixture(t, 99, 10, 100)

	event, err := f.refill(1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), event.RewardBalance)
	assert.Equal(t, uint64(1_000), f.balance(f.vault))
	assert.Equal(t, types.ValidatorInitialMint-1_000, f.balance(ata(f.admin)))

	_, err = f.refill(0)
	assert.ErrorIs(t, err, ErrZeroAmount)

	_, err = f.refill(types.ValidatorInitialMint)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(1_000), f.poolRecord().RewardBalance)

	_, err = f.st.RefillPool(f.user, &tx.RefillPoolTx{Amount: 1, Pool: f.pool, Source: ata(f.user), RewardVault: f.vault}, t0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdatePoolConfig(t *testing.T) {
	f := newPoolFixture(t, 99, 10, 100)
	_, err := f.st.UpdatePoolConfig(f.user, &tx.UpdatePoolConfigTx{RewardPerSecond: 1, Pool: f.pool}, t0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.st.UpdatePoolConfig(f.admin, &tx.UpdatePoolConfigTx{RewardPerSecond: 7, LockPeriodSeconds: 30, Pool: f.pool}, t0)
	require.NoError(t, err)
	p := f.poolRecord()
	assert.Equal(t, uint64(7), p.RewardPerSecond)
	assert.Equal(t, uint64(30), p.LockPeriodSeconds)
}

func TestStakingLifecycle(t *testing.T) {
	f := newPoolFixture(t, 99, 10, 100)
	_, err := f.refill(1_000)
	require.NoError(t, err)

	_, err = f.stake(0, t0)
	assert.ErrorIs(t, err, ErrZeroAmount)

	event, err := f.stake(500, t0)
	require.NoError(t, err)
	assert.Equal(t, t0, event.StartStakeTime)
	assert.Equal(t, types.ValidatorInitialMint-500, f.balance(ata(f.user)))
	assert.Equal(t, uint64(500), f.balance(f.holding()))
	v := f.vaultRecord()
	assert.Equal(t, uint64(500), v.Amount)
	assert.Equal(t, f.user, v.Owner)

	_, err = f.stake(10, t0+1)
	assert.ErrorIs(t, err, ErrAlreadyStaked)

	claimed, err := f.claim(t0 + 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), claimed.Amount)
	assert.Equal(t, uint64(900), f.poolRecord().RewardBalance)
	assert.Equal(t, t0+10, f.vaultRecord().StartStakeTime)
	assert.Equal(t, types.ValidatorInitialMint-400, f.balance(ata(f.user)))

	_, err = f.claim(t0 + 10)
	assert.ErrorIs(t, err, ErrNoRewardAvailable)

	_, err = f.unstake(t0 + 50)
	assert.ErrorIs(t, err, ErrStakeLocked)
	assert.Equal(t, uint64(500), f.vaultRecord().Amount)

	unstaked, err := f.unstake(t0 + 110)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), unstaked.Amount)
	v = f.vaultRecord()
	assert.True(t, v.Empty())
	assert.Equal(t, types.ValidatorInitialMint+100, f.balance(ata(f.user)))
	assert.Equal(t, uint64(0), f.balance(f.holding()))

	_, err = f.claim(t0 + 200)
	assert.ErrorIs(t, err, ErrNothingStaked)
	_, err = f.unstake(t0 + 200)
	assert.ErrorIs(t, err, ErrNothingStaked)

	_, err = f.stake(50, t0+300)
	require.NoError(t, err)
}

func TestClaimNeverExceedsRewardBalance(t *testing.T) {
	f := newPoolFixture(t, 99, math.MaxUint64, 0)
	_, err := f.refill(50)
	require.NoError(t, err)
	_, err = f.stake(500, t0)
	require.NoError(t, err)

	claimed, err := f.claim(t0 + 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), claimed.Amount)
	assert.Equal(t, uint64(0), f.poolRecord().RewardBalance)
	assert.Equal(t, uint64(0), f.balance(f.vault))

	_, err = f.claim(t0 + 2_000)
	assert.ErrorIs(t, err, ErrNoRewardAvailable)
}

func TestUnstakeLockOverflow(t *testing.T) {
	f := newPoolFixture(t, 99, 1, math.MaxUint64)
	_, err := f.stake(500, t0)
	require.NoError(t, err)
	_, err = f.unstake(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestStakeInOtherPoolIsNotClaimable(t *testing.T) {
	f := newPoolFixture(t, 99, 10, 0)
	_, err := f.stake(500, t0)
	require.NoError(t, err)

	other, _ := types.PoolAddress(f.admin, 100)
	_, err = f.st.InitStakingPool(f.admin, &tx.InitStakingPoolTx{
		ID: 100, Name: "other", RewardPerSecond: 10, Pool: other,
		StakeMint: types.MintAddress(), RewardMint: types.MintAddress(),
		RewardVault: types.RewardVaultAddress(other, types.MintAddress()),
	}, t0)
	require.NoError(t, err)

	_, err = f.st.UnstakeTokens(f.user, &tx.UnstakeTx{
		StakeVault:  f.stakeVault(),
		Pool:        other,
		Holding:     types.StakeHoldingAddress(f.stakeVault(), other),
		Destination: ata(f.user),
	}, t0+10)
	assert.ErrorIs(t, err, ErrNothingStaked)
}

func TestStakeBoundToItsPool(t *testing.T) {
	const lock = 1_000_000
	f := newPoolFixture(t, 99, 1, lock)
	profile, _ := types.ProfileAddress(f.user)

	other, _ := types.PoolAddress(f.admin, 100)
	otherVault := types.RewardVaultAddress(other, types.MintAddress())
	otherHolding := types.StakeHoldingAddress(f.stakeVault(), other)
	_, err := f.st.InitStakingPool(f.admin, &tx.InitStakingPoolTx{
		ID: 100, Name: "other", RewardPerSecond: 1_000, Pool: other,
		StakeMint: types.MintAddress(), RewardMint: types.MintAddress(),
		RewardVault: otherVault,
	}, t0)
	require.NoError(t, err)
	_, err = f.st.RefillPool(f.admin, &tx.RefillPoolTx{Amount: 1_000_000, Pool: other, Source: ata(f.admin), RewardVault: otherVault}, t0)
	require.NoError(t, err)

	// open the holding account of the other pool with a short round trip
	_, err = f.st.StakeTokens(f.user, &tx.StakeTx{
		Amount: 1, Profile: profile, StakeVault: f.stakeVault(), Pool: other, Source: ata(f.user), Holding: otherHolding,
	}, t0)
	require.NoError(t, err)
	otherUnstake := &tx.UnstakeTx{StakeVault: f.stakeVault(), Pool: other, Holding: otherHolding, Destination: ata(f.user)}
	_, err = f.st.UnstakeTokens(f.user, otherUnstake, t0)
	require.NoError(t, err)

	_, err = f.stake(500, t0+1)
	require.NoError(t, err)
	_, err = f.st.TransferTokens(f.user, &tx.TransferTx{Amount: 500, From: ata(f.user), To: otherHolding}, t0+1)
	require.NoError(t, err)
	require.Equal(t, uint64(500), f.balance(otherHolding))

	_, err = f.st.ClaimReward(f.user, &tx.ClaimRewardTx{
		StakeVault: f.stakeVault(), Pool: other, Holding: otherHolding, RewardVault: otherVault, Destination: ata(f.user),
	}, t0+100)
	assert.ErrorIs(t, err, ErrNothingStaked)
	_, err = f.st.UnstakeTokens(f.user, otherUnstake, t0+100)
	assert.ErrorIs(t, err, ErrNothingStaked)

	v := f.vaultRecord()
	assert.Equal(t, uint64(500), v.Amount)
	assert.Equal(t, t0+1, v.StartStakeTime)
	assert.Equal(t, uint64(500), f.balance(f.holding()))

	_, err = f.unstake(t0 + 100)
	assert.ErrorIs(t, err, ErrStakeLocked)
	unstaked, err := f.unstake(t0 + 1 + lock)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), unstaked.Amount)
	assert.True(t, f.vaultRecord().Empty())

	_, err = f.st.UnstakeTokens(f.user, otherUnstake, t0+2+lock)
	assert.ErrorIs(t, err, ErrNothingStaked)
}

func TestFailedStakeLeavesNoState(t *testing.T) {
	f := newPoolFixture(t, 99, 10, 100)
	_, err := f.stake(types.ValidatorInitialMint+1, t0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	holding, err := f.st.Ledger().Account(f.holding())
	require.NoError(t, err)
	assert.Nil(t, holding)
	v, err := f.st.GetStakeVault(f.stakeVault())
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, types.ValidatorInitialMint, f.balance(ata(f.user)))
}
