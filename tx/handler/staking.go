package handler

import (
	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

func NewInitStakingPoolTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "initPoolTx", encoded((*state.State).InitStakingPool, types.EncodeEventInitPool))
}

func NewRefillPoolTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "refillPoolTx", encoded((*state.State).RefillPool, types.EncodeEventRefillPool))
}

func NewUpdatePoolConfigTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "updatePoolTx", encoded((*state.State).UpdatePoolConfig, types.EncodeEventUpdatePool))
}

func NewStakeTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "stakeTx", encoded((*state.State).StakeTokens, types.EncodeEventStake))
}

func NewClaimRewardTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "claimRewardTx", encoded((*state.State).ClaimReward, types.EncodeEventClaimReward))
}

func NewUnstakeTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "unstakeTx", encoded((*state.State).UnstakeTokens, types.EncodeEventUnstake))
}
