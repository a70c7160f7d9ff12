package tx

import (
	"encoding/json"

	"github.com/calehh/valreg-app/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/pkg/errors"
)

type RegTx struct {
	Version uint8     `json:"version"`
	Type    RegTxType `json:"type"`
	Nonce   uint64    `json:"nonce"`
	Signer  []byte    `json:"signer"`
	Tx      any       `json:"tx"`
	Sig     [][]byte  `json:"sig"`
}

type CreateMintTx struct {
	Mint          types.Address `json:"mint"`
	MintAuthority types.Address `json:"mintAuthority"`
}

type InitProfileTx struct {
	Name    string        `json:"name"`
	Profile types.Address `json:"profile"`
}

type InitValidatorTx struct {
	ID             uint64        `json:"id"`
	Name           string        `json:"name"`
	Profile        types.Address `json:"profile"`
	Validator      types.Address `json:"validator"`
	ValidatorToken types.Address `json:"validatorToken"`
	Mint           types.Address `json:"mint"`
	MintAuthority  types.Address `json:"mintAuthority"`
}

type UpdateValidatorTx struct {
	Name      string        `json:"name"`
	IsActive  bool          `json:"isActive"`
	Profile   types.Address `json:"profile"`
	Validator types.Address `json:"validator"`
}

type CloseValidatorTx struct {
	Profile   types.Address `json:"profile"`
	Validator types.Address `json:"validator"`
}

// TransferTx creates the destination when it is the recipient's associated
// token account and does not exist yet.
type TransferTx struct {
	Amount    uint64        `json:"amount"`
	From      types.Address `json:"from"`
	To        types.Address `json:"to"`
	Recipient types.Address `json:"recipient"`
}

type BurnTx struct {
	Amount  uint64        `json:"amount"`
	Account types.Address `json:"account"`
	Mint    types.Address `json:"mint"`
}

type ReassignMintAuthorityTx struct {
	NewAuthority  types.Address `json:"newAuthority"`
	Mint          types.Address `json:"mint"`
	MintAuthority types.Address `json:"mintAuthority"`
}

type InitStakingPoolTx struct {
	ID                uint64        `json:"id"`
	Name              string        `json:"name"`
	RewardPerSecond   uint64        `json:"rewardPerSecond"`
	LockPeriodSeconds uint64        `json:"lockPeriodSeconds"`
	Pool              types.Address `json:"pool"`
	StakeMint         types.Address `json:"stakeMint"`
	RewardMint        types.Address `json:"rewardMint"`
	RewardVault       types.Address `json:"rewardVault"`
}

type RefillPoolTx struct {
	Amount      uint64        `json:"amount"`
	Pool        types.Address `json:"pool"`
	Source      types.Address `json:"source"`
	RewardVault types.Address `json:"rewardVault"`
}

type UpdatePoolConfigTx struct {
	RewardPerSecond   uint64        `json:"rewardPerSecond"`
	LockPeriodSeconds uint64        `json:"lockPeriodSeconds"`
	Pool              types.Address `json:"pool"`
}

type StakeTx struct {
	Amount     uint64        `json:"amount"`
	Profile    types.Address `json:"profile"`
	StakeVault types.Address `json:"stakeVault"`
	Pool       types.Address `json:"pool"`
	Source     types.Address `json:"source"`
	Holding    types.Address `json:"holding"`
}

type ClaimRewardTx struct {
	StakeVault  types.Address `json:"stakeVault"`
	Pool        types.Address `json:"pool"`
	Holding     types.Address `json:"holding"`
	RewardVault types.Address `json:"rewardVault"`
	Destination types.Address `json:"destination"`
}

type UnstakeTx struct {
	StakeVault  types.Address `json:"stakeVault"`
	Pool        types.Address `json:"pool"`
	Holding     types.Address `json:"holding"`
	Destination types.Address `json:"destination"`
}

type CreateProposalTx struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Deadline    uint64        `json:"deadline"`
	Profile     types.Address `json:"profile"`
	Proposal    types.Address `json:"proposal"`
}

type VoteTx struct {
	Vote       bool          `json:"vote"`
	Profile    types.Address `json:"profile"`
	Validator  types.Address `json:"validator"`
	Proposal   types.Address `json:"proposal"`
	VoteRecord types.Address `json:"voteRecord"`
}

type regTxTmpl[Tx any] struct {
	Version uint8     `json:"version"`
	Type    RegTxType `json:"type"`
	Nonce   uint64    `json:"nonce"`
	Signer  []byte    `json:"signer"`
	Tx      Tx        `json:"tx"`
	Sig     [][]byte  `json:"sig"`
}

// SigData is the envelope with the signatures replaced by ext.
func (tx *RegTx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

// SignerAddress is the identity of the signing key.
func (tx *RegTx) SignerAddress() (addr types.Address, err error) {
	if len(tx.Signer) != ed25519.PubKeySize {
		return addr, errors.Wrapf(ErrInvalidSigner, "key length %d", len(tx.Signer))
	}
	return types.BytesToAddress(tx.Signer), nil
}

func (tx *RegTx) Verify(chainId string) (bool, error) {
	if len(tx.Sig) != 1 || len(tx.Signer) != ed25519.PubKeySize {
		return false, nil
	}
	dat, err := tx.SigData([]byte(chainId))
	if err != nil {
		return false, err
	}
	return ed25519.PubKey(tx.Signer).VerifySignature(dat, tx.Sig[0]), nil
}

func parseRegTxType(dat []byte) RegTxType {
	var tx struct {
		Type RegTxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return RegTxTypeUnknown
	}
	return tx.Type
}

func unmarshalRegTx[Tx any](dat []byte) (btx *RegTx, err error) {
	var txt regTxTmpl[Tx]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidTx, err.Error())
	}
	if txt.Version != RegTxVersion1 {
		return nil, ErrUnsupportedTxVersion
	}
	btx = new(RegTx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Signer = txt.Signer
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalRegTx(dat []byte) (btx *RegTx, err error) {
	tp := parseRegTxType(dat)
	switch tp {
	case RegTxTypeCreateMint:
		return unmarshalRegTx[CreateMintTx](dat)
	case RegTxTypeInitProfile:
		return unmarshalRegTx[InitProfileTx](dat)
	case RegTxTypeInitValidator:
		return unmarshalRegTx[InitValidatorTx](dat)
	case RegTxTypeUpdateValidator:
		return unmarshalRegTx[UpdateValidatorTx](dat)
	case RegTxTypeCloseValidator:
		return unmarshalRegTx[CloseValidatorTx](dat)
	case RegTxTypeTransfer:
		return unmarshalRegTx[TransferTx](dat)
	case RegTxTypeBurn:
		return unmarshalRegTx[BurnTx](dat)
	case RegTxTypeReassignMintAuthority:
		return unmarshalRegTx[ReassignMintAuthorityTx](dat)
	case RegTxTypeInitStakingPool:
		return unmarshalRegTx[InitStakingPoolTx](dat)
	case RegTxTypeRefillPool:
		return unmarshalRegTx[RefillPoolTx](dat)
	case RegTxTypeStake:
		return unmarshalRegTx[StakeTx](dat)
	case RegTxTypeClaimReward:
		return unmarshalRegTx[ClaimRewardTx](dat)
	case RegTxTypeUnstake:
		return unmarshalRegTx[UnstakeTx](dat)
	case RegTxTypeCreateProposal:
		return unmarshalRegTx[CreateProposalTx](dat)
	case RegTxTypeVote:
		return unmarshalRegTx[VoteTx](dat)
	case RegTxTypeUpdatePoolConfig:
		return unmarshalRegTx[UpdatePoolConfigTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalRegTx(btx *RegTx) (dat []byte, err error) {
	return json.Marshal(btx)
}
