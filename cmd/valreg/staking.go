package main

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/spf13/cobra"
)

type poolArguments struct {
	txFlags
	ID         uint64
	Authority  string
	Name       string
	Rate       uint64
	Lock       uint64
	StakeMint  string
	RewardMint string
	Amount     uint64
}

var poolArgs poolArguments

var initPoolCmd = &cobra.Command{
	Use:   "init-pool",
	Short: "Create a staking pool owned by the signer",
	Args:  cobra.NoArgs,
	RunE:  initPoolRun,
}

var refillPoolCmd = &cobra.Command{
	Use:   "refill-pool",
	Short: "Move reward tokens into the pool reward vault",
	Args:  cobra.NoArgs,
	RunE:  refillPoolRun,
}

var updatePoolCmd = &cobra.Command{
	Use:   "update-pool",
	Short: "Change the reward rate and lock period of a pool",
	Args:  cobra.NoArgs,
	RunE:  updatePoolRun,
}

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Stake tokens into a pool",
	Args:  cobra.NoArgs,
	RunE:  stakeRun,
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim accrued staking rewards",
	Args:  cobra.NoArgs,
	RunE:  claimRun,
}

var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "Withdraw the staked principal after the lock period",
	Args:  cobra.NoArgs,
	RunE:  unstakeRun,
}

func init() {
	for _, cmd := range []*cobra.Command{initPoolCmd, refillPoolCmd, updatePoolCmd, stakeCmd, claimCmd, unstakeCmd} {
		poolArgs.register(cmd)
		cmd.Flags().Uint64VarP(&poolArgs.ID, "pool-id", "p", 0, "pool id")
		cmd.Flags().StringVarP(&poolArgs.Authority, "pool-authority", "", "", "pool authority, the signer when empty")
	}
	initPoolCmd.Flags().StringVarP(&poolArgs.Name, "name", "", "", "pool name")
	initPoolCmd.Flags().StringVarP(&poolArgs.StakeMint, "stake-mint", "", "", "stake mint, the validator token when empty")
	initPoolCmd.Flags().StringVarP(&poolArgs.RewardMint, "reward-mint", "", "", "reward mint, the validator token when empty")
	for _, cmd := range []*cobra.Command{initPoolCmd, updatePoolCmd} {
		cmd.Flags().Uint64VarP(&poolArgs.Rate, "rate", "", 0, "reward per second")
		cmd.Flags().Uint64VarP(&poolArgs.Lock, "lock", "", 0, "lock period in seconds")
	}
	refillPoolCmd.Flags().Uint64VarP(&poolArgs.Amount, "amount", "a", 0, "token amount")
	stakeCmd.Flags().Uint64VarP(&poolArgs.Amount, "amount", "a", 0, "token amount")
}

func mintOrDefault(name, s string) (types.Address, error) {
	if s == "" {
		return types.MintAddress(), nil
	}
	return parseAddress(name, s)
}

func poolAddress(signer types.Address) (types.Address, error) {
	authority := signer
	if poolArgs.Authority != "" {
		var err error
		if authority, err = parseAddress("pool authority", poolArgs.Authority); err != nil {
			return authority, err
		}
	}
	pool, _ := types.PoolAddress(authority, poolArgs.ID)
	return pool, nil
}

func queryPool(signer types.Address) (types.Address, *types.StakingPool, error) {
	addr, err := poolAddress(signer)
	if err != nil {
		return addr, nil, err
	}
	var pool types.StakingPool
	if err = queryRecord(poolArgs.Url, "/pool/", addr, &pool); err != nil {
		return addr, nil, err
	}
	return addr, &pool, nil
}

func initPoolRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(poolArgs.Skey)
	if err != nil {
		return err
	}
	stakeMint, err := mintOrDefault("stake mint", poolArgs.StakeMint)
	if err != nil {
		return err
	}
	rewardMint, err := mintOrDefault("reward mint", poolArgs.RewardMint)
	if err != nil {
		return err
	}
	pool, _ := types.PoolAddress(pv.Address(), poolArgs.ID)
	return sendTx(&poolArgs.txFlags, pv, tx.RegTxTypeInitStakingPool, &tx.InitStakingPoolTx{
		ID:                poolArgs.ID,
		Name:              poolArgs.Name,
		RewardPerSecond:   poolArgs.Rate,
		LockPeriodSeconds: poolArgs.Lock,
		Pool:              pool,
		StakeMint:         stakeMint,
		RewardMint:        rewardMint,
		RewardVault:       types.RewardVaultAddress(pool, rewardMint),
	})
}

func refillPoolRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(poolArgs.Skey)
	if err != nil {
		return err
	}
	addr, pool, err := queryPool(pv.Address())
	if err != nil {
		return err
	}
	return sendTx(&poolArgs.txFlags, pv, tx.RegTxTypeRefillPool, &tx.RefillPoolTx{
		Amount:      poolArgs.Amount,
		Pool:        addr,
		Source:      types.TokenAccountAddress(pv.Address(), pool.RewardMint),
		RewardVault: pool.RewardVault,
	})
}

func updatePoolRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(poolArgs.Skey)
	if err != nil {
		return err
	}
	addr, err := poolAddress(pv.Address())
	if err != nil {
		return err
	}
	return sendTx(&poolArgs.txFlags, pv, tx.RegTxTypeUpdatePoolConfig, &tx.UpdatePoolConfigTx{
		RewardPerSecond:   poolArgs.Rate,
		LockPeriodSeconds: poolArgs.Lock,
		Pool:              addr,
	})
}

func stakeRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(poolArgs.Skey)
	if err != nil {
		return err
	}
	signer := pv.Address()
	addr, pool, err := queryPool(signer)
	if err != nil {
		return err
	}
	profile, _ := types.ProfileAddress(signer)
	vault := types.StakeVaultAddress(signer)
	return sendTx(&poolArgs.txFlags, pv, tx.RegTxTypeStake, &tx.StakeTx{
		Amount:     poolArgs.Amount,
		Profile:    profile,
		StakeVault: vault,
		Pool:       addr,
		Source:     types.TokenAccountAddress(signer, pool.StakeMint),
		Holding:    types.StakeHoldingAddress(vault, addr),
	})
}

func claimRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(poolArgs.Skey)
	if err != nil {
		return err
	}
	signer := pv.Address()
	addr, pool, err := queryPool(signer)
	if err != nil {
		return err
	}
	vault := types.StakeVaultAddress(signer)
	return sendTx(&poolArgs.txFlags, pv, tx.RegTxTypeClaimReward, &tx.ClaimRewardTx{
		StakeVault:  vault,
		Pool:        addr,
		Holding:     types.StakeHoldingAddress(vault, addr),
		RewardVault: pool.RewardVault,
		Destination: types.TokenAccountAddress(signer, pool.RewardMint),
	})
}

func unstakeRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(poolArgs.Skey)
	if err != nil {
		return err
	}
	signer := pv.Address()
	addr, pool, err := queryPool(signer)
	if err != nil {
		return err
	}
	vault := types.StakeVaultAddress(signer)
	return sendTx(&poolArgs.txFlags, pv, tx.RegTxTypeUnstake, &tx.UnstakeTx{
		StakeVault:  vault,
		Pool:        addr,
		Holding:     types.StakeHoldingAddress(vault, addr),
		Destination: types.TokenAccountAddress(signer, pool.StakeMint),
	})
}
