package tx

import (
	"github.com/pkg/errors"
)

type RegTxType uint8

const (
	RegTxTypeUnknown               RegTxType = 0
	RegTxTypeCreateMint            RegTxType = 1
	RegTxTypeInitProfile           RegTxType = 2
	RegTxTypeInitValidator         RegTxType = 3
	RegTxTypeUpdateValidator       RegTxType = 4
	RegTxTypeCloseValidator        RegTxType = 5
	RegTxTypeTransfer              RegTxType = 6
	RegTxTypeBurn                  RegTxType = 7
	RegTxTypeReassignMintAuthority RegTxType = 8
	RegTxTypeInitStakingPool       RegTxType = 9
	RegTxTypeRefillPool            RegTxType = 10
	RegTxTypeStake                 RegTxType = 11
	RegTxTypeClaimReward           RegTxType = 12
	RegTxTypeUnstake               RegTxType = 13
	RegTxTypeCreateProposal        RegTxType = 14
	RegTxTypeVote                  RegTxType = 15
	RegTxTypeUpdatePoolConfig      RegTxType = 16
)

var txTypeNames = map[RegTxType]string{
	RegTxTypeCreateMint:            "create_mint",
	RegTxTypeInitProfile:           "init_profile",
	RegTxTypeInitValidator:         "init_validator",
	RegTxTypeUpdateValidator:       "update_validator",
	RegTxTypeCloseValidator:        "close_validator",
	RegTxTypeTransfer:              "transfer",
	RegTxTypeBurn:                  "burn",
	RegTxTypeReassignMintAuthority: "reassign_mint_authority",
	RegTxTypeInitStakingPool:       "init_staking_pool",
	RegTxTypeRefillPool:            "refill_pool",
	RegTxTypeStake:                 "stake",
	RegTxTypeClaimReward:           "claim_reward",
	RegTxTypeUnstake:               "unstake",
	RegTxTypeCreateProposal:        "create_proposal",
	RegTxTypeVote:                  "vote",
	RegTxTypeUpdatePoolConfig:      "update_pool_config",
}

func (t RegTxType) String() string {
	if n, ok := txTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

const (
	RegTxVersion0 uint8 = 0
	RegTxVersion1 uint8 = 1
)

var (
	ErrInvalidTx            = errors.New("invalid tx")
	ErrUnsupportedTxType    = errors.New("unsupported tx type")
	ErrUnsupportedTxVersion = errors.New("unsupported tx version")
	ErrInvalidSigner        = errors.New("invalid signer")
)
