package agent

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primary_key" json:"id"`
	Height uint64 `json:"height"`
}

type Validator struct {
	Address      string `gorm:"primary_key" json:"address"`
	Authority    string `gorm:"index" json:"authority"`
	Profile      string `json:"profile"`
	ValidatorId  uint64 `json:"validator_id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active"`
	Closed       bool   `json:"closed"`
	TokenAccount string `json:"token_account"`
	Minted       uint64 `json:"minted"`
	Height       uint64 `json:"height"`
}

type Proposal struct {
	Address    string `gorm:"primary_key" json:"address"`
	Profile    string `json:"profile"`
	Authority  string `gorm:"index" json:"authority"`
	ProposalId uint64 `json:"proposal_id"`
	Title      string `json:"title"`
	CreateTime uint64 `json:"create_time"`
	Deadline   uint64 `json:"deadline"`
	Height     uint64 `gorm:"index" json:"height"`
}

type Vote struct {
	Address   string `gorm:"primary_key" json:"address"`
	Proposal  string `gorm:"index" json:"proposal"`
	Validator string `gorm:"index" json:"validator"`
	Authority string `json:"authority"`
	Vote      bool   `json:"vote"`
	Timestamp uint64 `json:"timestamp"`
	Height    uint64 `json:"height"`
}

type StakeActivity struct {
	Id             uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Kind           string `json:"kind"`
	Owner          string `gorm:"index" json:"owner"`
	Pool           string `json:"pool"`
	Amount         uint64 `json:"amount"`
	StartStakeTime uint64 `json:"start_stake_time"`
	Height         uint64 `json:"height"`
}
