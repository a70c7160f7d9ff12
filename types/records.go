package types

const (
	MintDecimals = 9

	ValidatorInitialMint uint64 = 100_000_000_000

	MaxNameLen        = 32
	MaxTitleLen       = 64
	MaxDescriptionLen = 256
)

type Profile struct {
	Authority   Address `json:"authority"`
	DisplayName string  `json:"displayName"`
	AddressBump uint8   `json:"addressBump"`
}

type ValidatorInfo struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	IsActive    bool    `json:"isActive"`
	Authority   Address `json:"authority"`
	Profile     Address `json:"profile"`
	AddressBump uint8   `json:"addressBump"`
}

type Mint struct {
	Address       Address `json:"address"`
	Decimals      uint8   `json:"decimals"`
	MintAuthority Address `json:"mintAuthority"`
}

type TokenAccount struct {
	Address Address `json:"address"`
	Mint    Address `json:"mint"`
	Owner   Address `json:"owner"`
	Amount  uint64  `json:"amount"`
}

type StakingPool struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Authority         Address `json:"authority"`
	StakeMint         Address `json:"stakeMint"`
	RewardMint        Address `json:"rewardMint"`
	RewardPerSecond   uint64  `json:"rewardPerSecond"`
	LockPeriodSeconds uint64  `json:"lockPeriodSeconds"`
	RewardVault       Address `json:"rewardVault"`
	RewardBalance     uint64  `json:"rewardBalance"`
}

// StakeVault with zero Amount and zero StartStakeTime is empty.
type StakeVault struct {
	Owner          Address `json:"owner"`
	Profile        Address `json:"profile"`
	Amount         uint64  `json:"amount"`
	StartStakeTime uint64  `json:"startStakeTime"`
}

func (v *StakeVault) Empty() bool {
	return v.Amount == 0 && v.StartStakeTime == 0
}

type Proposal struct {
	ID          uint64  `json:"id"`
	Profile     Address `json:"profile"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CreatedAt   uint64  `json:"createdAt"`
	Deadline    uint64  `json:"deadline"`
	AddressBump uint8   `json:"addressBump"`
}

type VoteRecord struct {
	Proposal  Address `json:"proposal"`
	Validator Address `json:"validator"`
	Vote      bool    `json:"vote"`
	Timestamp uint64  `json:"timestamp"`
}

type Tally struct {
	Proposal Address      `json:"proposal"`
	Yes      uint64       `json:"yes"`
	No       uint64       `json:"no"`
	Votes    []VoteRecord `json:"votes"`
}
