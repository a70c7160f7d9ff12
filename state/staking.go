package state

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
)

func (s *State) mustPool(addr types.Address) (*types.StakingPool, error) {
	pool, err := s.GetPool(addr)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errors.Wrapf(ErrAccountNotInitialized, "pool %s", addr)
	}
	return pool, nil
}

// sourceAccount loads a token account the signer pays from.
func (s *State) sourceAccount(signer, addr, mint types.Address) (*types.TokenAccount, error) {
	a, err := stateLedger{s: s}.mustAccount(addr)
	if err != nil {
		return nil, err
	}
	if a.Owner != signer {
		return nil, errors.Wrapf(ErrUnauthorized, "token account %s", addr)
	}
	if a.Mint != mint {
		return nil, errors.Wrapf(ErrMintMismatch, "token account %s holds %s want %s", addr, a.Mint, mint)
	}
	return a, nil
}

func (s *State) InitStakingPool(signer types.Address, stx *tx.InitStakingPoolTx, now uint64) (event *types.EventInitPool, err error) {
	s.logger.Debug("apply init pool", "signer", signer, "id", stx.ID, "height", s.header.Height)
	err = s.transact(func() error {
		if err := checkName("pool name", stx.Name, types.MaxNameLen); err != nil {
			return err
		}
		addr, _ := types.PoolAddress(signer, stx.ID)
		if err := expectAddress("pool", stx.Pool, addr); err != nil {
			return err
		}
		key := recordKey(KeyPool, addr)
		exists, err := s.has(key)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrAlreadyInitialized, "pool %s", addr)
		}
		l := stateLedger{s: s}
		if _, err = l.mustMint(stx.StakeMint); err != nil {
			return err
		}
		if _, err = l.mustMint(stx.RewardMint); err != nil {
			return err
		}
		vault := types.RewardVaultAddress(addr, stx.RewardMint)
		if err = expectAddress("reward vault", stx.RewardVault, vault); err != nil {
			return err
		}
		if err = s.ensureTokenAccount(vault, types.RewardVaultAuthority(addr), stx.RewardMint); err != nil {
			return err
		}
		pool := &types.StakingPool{
			ID:                stx.ID,
			Name:              stx.Name,
			Authority:         signer,
			StakeMint:         stx.StakeMint,
			RewardMint:        stx.RewardMint,
			RewardPerSecond:   stx.RewardPerSecond,
			LockPeriodSeconds: stx.LockPeriodSeconds,
			RewardVault:       vault,
		}
		if err = s.put(key, pool); err != nil {
			return err
		}
		event = &types.EventInitPool{
			Pool:              addr,
			Authority:         signer,
			ID:                stx.ID,
			Name:              stx.Name,
			RewardPerSecond:   stx.RewardPerSecond,
			LockPeriodSeconds: stx.LockPeriodSeconds,
			RewardVault:       vault,
		}
		return nil
	})
	return
}

func (s *State) RefillPool(signer types.Address, stx *tx.RefillPoolTx, now uint64) (event *types.EventRefillPool, err error) {
	s.logger.Debug("apply refill pool", "signer", signer, "pool", stx.Pool, "amount", stx.Amount, "height", s.header.Height)
	err = s.transact(func() error {
		if stx.Amount == 0 {
			return ErrZeroAmount
		}
		pool, err := s.mustPool(stx.Pool)
		if err != nil {
			return err
		}
		if pool.Authority != signer {
			return errors.Wrapf(ErrUnauthorized, "pool %s", stx.Pool)
		}
		if err = expectAddress("reward vault", stx.RewardVault, pool.RewardVault); err != nil {
			return err
		}
		if _, err = s.sourceAccount(signer, stx.Source, pool.RewardMint); err != nil {
			return err
		}
		if pool.RewardBalance, err = addAmount(pool.RewardBalance, stx.Amount); err != nil {
			return err
		}
		if err = s.Ledger().Transfer(stx.Source, pool.RewardVault, signer, stx.Amount); err != nil {
			return err
		}
		if err = s.put(recordKey(KeyPool, stx.Pool), pool); err != nil {
			return err
		}
		event = &types.EventRefillPool{Pool: stx.Pool, Amount: stx.Amount, RewardBalance: pool.RewardBalance}
		return nil
	})
	return
}

func (s *State) UpdatePoolConfig(signer types.Address, stx *tx.UpdatePoolConfigTx, now uint64) (event *types.EventUpdatePool, err error) {
	s.logger.Debug("apply update pool", "signer", signer, "pool", stx.Pool, "height", s.header.Height)
	err = s.transact(func() error {
		pool, err := s.mustPool(stx.Pool)
		if err != nil {
			return err
		}
		if pool.Authority != signer {
			return errors.Wrapf(ErrUnauthorized, "pool %s", stx.Pool)
		}
		pool.RewardPerSecond = stx.RewardPerSecond
		pool.LockPeriodSeconds = stx.LockPeriodSeconds
		if err = s.put(recordKey(KeyPool, stx.Pool), pool); err != nil {
			return err
		}
		event = &types.EventUpdatePool{Pool: stx.Pool, RewardPerSecond: pool.RewardPerSecond, LockPeriodSeconds: pool.LockPeriodSeconds}
		return nil
	})
	return
}

func (s *State) StakeTokens(signer types.Address, stx *tx.StakeTx, now uint64) (event *types.EventStake, err error) {
	s.logger.Debug("apply stake", "signer", signer, "pool", stx.Pool, "amount", stx.Amount, "height", s.header.Height)
	err = s.transact(func() error {
		if stx.Amount == 0 {
			return ErrZeroAmount
		}
		profile, _, err := s.signerProfile(signer, stx.Profile)
		if err != nil {
			return err
		}
		vaultAddr := types.StakeVaultAddress(signer)
		if err = expectAddress("stake vault", stx.StakeVault, vaultAddr); err != nil {
			return err
		}
		pool, err := s.mustPool(stx.Pool)
		if err != nil {
			return err
		}
		holding := types.StakeHoldingAddress(vaultAddr, stx.Pool)
		if err = expectAddress("stake holding", stx.Holding, holding); err != nil {
			return err
		}
		vault, err := s.GetStakeVault(vaultAddr)
		if err != nil {
			return err
		}
		if vault != nil && !vault.Empty() {
			return errors.Wrapf(ErrAlreadyStaked, "stake vault %s holds %d", vaultAddr, vault.Amount)
		}
		if _, err = s.sourceAccount(signer, stx.Source, pool.StakeMint); err != nil {
			return err
		}
		if err = s.ensureTokenAccount(holding, vaultAddr, pool.StakeMint); err != nil {
			return err
		}
		if err = s.Ledger().Transfer(stx.Source, holding, signer, stx.Amount); err != nil {
			return err
		}
		vault = &types.StakeVault{Owner: signer, Profile: profile, Amount: stx.Amount, StartStakeTime: now}
		if err = s.put(recordKey(KeyStakeVault, vaultAddr), vault); err != nil {
			return err
		}
		if err = s.put(recordKey(KeyStakePool, vaultAddr), stx.Pool); err != nil {
			return err
		}
		event = &types.EventStake{Owner: signer, Pool: stx.Pool, Amount: stx.Amount, StartStakeTime: now}
		return nil
	})
	return
}

// activeStake loads the signer's stake in pool. The vault must have been
// staked into that pool and the principal must sit in its holding account.
func (s *State) activeStake(signer, vaultAddr, poolAddr, holding types.Address) (*types.StakeVault, *types.StakingPool, error) {
	want := types.StakeVaultAddress(signer)
	if err := expectAddress("stake vault", vaultAddr, want); err != nil {
		return nil, nil, err
	}
	pool, err := s.mustPool(poolAddr)
	if err != nil {
		return nil, nil, err
	}
	if err = expectAddress("stake holding", holding, types.StakeHoldingAddress(vaultAddr, poolAddr)); err != nil {
		return nil, nil, err
	}
	vault, err := s.GetStakeVault(vaultAddr)
	if err != nil {
		return nil, nil, err
	}
	if vault == nil || vault.Empty() {
		return nil, nil, errors.Wrapf(ErrNothingStaked, "stake vault %s", vaultAddr)
	}
	if vault.Owner != signer {
		return nil, nil, errors.Wrapf(ErrUnauthorized, "stake vault %s", vaultAddr)
	}
	stakedIn, err := loadRecord[types.Address](s, recordKey(KeyStakePool, vaultAddr))
	if err != nil {
		return nil, nil, err
	}
	if stakedIn == nil || *stakedIn != poolAddr {
		return nil, nil, errors.Wrapf(ErrNothingStaked, "stake vault %s has no stake in pool %s", vaultAddr, poolAddr)
	}
	held, err := s.Ledger().Account(holding)
	if err != nil {
		return nil, nil, err
	}
	if held == nil || held.Amount < vault.Amount {
		return nil, nil, errors.Wrapf(ErrNothingStaked, "no stake in pool %s", poolAddr)
	}
	return vault, pool, nil
}

func (s *State) ClaimReward(signer types.Address, stx *tx.ClaimRewardTx, now uint64) (event *types.EventStake, err error) {
	s.logger.Debug("apply claim reward", "signer", signer, "pool", stx.Pool, "height", s.header.Height)
	err = s.transact(func() error {
		vault, pool, err := s.activeStake(signer, stx.StakeVault, stx.Pool, stx.Holding)
		if err != nil {
			return err
		}
		if err = expectAddress("reward vault", stx.RewardVault, pool.RewardVault); err != nil {
			return err
		}
		dest := types.TokenAccountAddress(signer, pool.RewardMint)
		if err = expectAddress("reward destination", stx.Destination, dest); err != nil {
			return err
		}
		var elapsed uint64
		if now > vault.StartStakeTime {
			elapsed = now - vault.StartStakeTime
		}
		payout, err := accrued(elapsed, pool.RewardPerSecond, pool.RewardBalance)
		if err != nil {
			return err
		}
		rv, err := stateLedger{s: s}.mustAccount(pool.RewardVault)
		if err != nil {
			return err
		}
		payout = min(payout, rv.Amount)
		if payout == 0 {
			return errors.Wrapf(ErrNoRewardAvailable, "pool %s after %d seconds", stx.Pool, elapsed)
		}
		if err = s.ensureTokenAccount(dest, signer, pool.RewardMint); err != nil {
			return err
		}
		if err = s.Ledger().Transfer(pool.RewardVault, dest, types.RewardVaultAuthority(stx.Pool), payout); err != nil {
			return err
		}
		pool.RewardBalance -= payout
		if err = s.put(recordKey(KeyPool, stx.Pool), pool); err != nil {
			return err
		}
		vault.StartStakeTime = now
		if err = s.put(recordKey(KeyStakeVault, stx.StakeVault), vault); err != nil {
			return err
		}
		event = &types.EventStake{Owner: signer, Pool: stx.Pool, Amount: payout, StartStakeTime: now}
		return nil
	})
	return
}

func (s *State) UnstakeTokens(signer types.Address, stx *tx.UnstakeTx, now uint64) (event *types.EventStake, err error) {
	s.logger.Debug("apply unstake", "signer", signer, "pool", stx.Pool, "height", s.header.Height)
	err = s.transact(func() error {
		vault, pool, err := s.activeStake(signer, stx.StakeVault, stx.Pool, stx.Holding)
		if err != nil {
			return err
		}
		unlock, err := addAmount(vault.StartStakeTime, pool.LockPeriodSeconds)
		if err != nil {
			return err
		}
		if now < unlock {
			return errors.Wrapf(ErrStakeLocked, "unlocks at %d, now %d", unlock, now)
		}
		dest := types.TokenAccountAddress(signer, pool.StakeMint)
		if err = expectAddress("unstake destination", stx.Destination, dest); err != nil {
			return err
		}
		if err = s.ensureTokenAccount(dest, signer, pool.StakeMint); err != nil {
			return err
		}
		if err = s.Ledger().Transfer(stx.Holding, dest, stx.StakeVault, vault.Amount); err != nil {
			return err
		}
		event = &types.EventStake{Owner: signer, Pool: stx.Pool, Amount: vault.Amount, StartStakeTime: vault.StartStakeTime}
		vault.Amount = 0
		vault.StartStakeTime = 0
		s.del(recordKey(KeyStakePool, stx.StakeVault))
		return s.put(recordKey(KeyStakeVault, stx.StakeVault), vault)
	})
	if err != nil {
		event = nil
	}
	return
}
