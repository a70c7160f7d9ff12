package types

import (
	"fmt"
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	EventCreateMintType            = "create_mint"
	EventInitProfileType           = "init_profile"
	EventInitValidatorType         = "init_validator"
	EventUpdateValidatorType       = "update_validator"
	EventCloseValidatorType        = "close_validator"
	EventTransferType              = "transfer"
	EventBurnType                  = "burn"
	EventReassignMintAuthorityType = "reassign_mint_authority"
	EventInitPoolType              = "init_pool"
	EventRefillPoolType            = "refill_pool"
	EventUpdatePoolType            = "update_pool"
	EventStakeType                 = "stake"
	EventClaimRewardType           = "claim_reward"
	EventUnstakeType               = "unstake"
	EventCreateProposalType        = "create_proposal"
	EventVoteType                  = "vote"
)

func attr(key string, value any, index bool) abci.EventAttribute {
	return abci.EventAttribute{Key: key, Value: fmt.Sprintf("%v", value), Index: index}
}

type attrReader struct {
	vals map[string]string
	err  error
}

func newAttrReader(event abci.Event) *attrReader {
	r := &attrReader{vals: make(map[string]string, len(event.Attributes))}
	for _, v := range event.Attributes {
		r.vals[v.Key] = v.Value
	}
	return r
}

func (r *attrReader) address(key string) (a Address) {
	if r.err != nil {
		return
	}
	a, r.err = HexToAddress(r.vals[key])
	return
}

func (r *attrReader) uint64(key string) (v uint64) {
	if r.err != nil {
		return
	}
	v, r.err = strconv.ParseUint(r.vals[key], 10, 64)
	return
}

func (r *attrReader) bool(key string) (v bool) {
	if r.err != nil {
		return
	}
	v, r.err = strconv.ParseBool(r.vals[key])
	return
}

func (r *attrReader) string(key string) string {
	return r.vals[key]
}

type EventCreateMint struct {
	Mint          Address `json:"mint"`
	MintAuthority Address `json:"mintAuthority"`
	Admin         Address `json:"admin"`
}

func EncodeEventCreateMint(event *EventCreateMint) abci.Event {
	return abci.Event{
		Type: EventCreateMintType,
		Attributes: []abci.EventAttribute{
			attr("mint", event.Mint, true),
			attr("mintAuthority", event.MintAuthority, false),
			attr("admin", event.Admin, false),
		},
	}
}

type EventInitProfile struct {
	Profile   Address `json:"profile"`
	Authority Address `json:"authority"`
	Name      string  `json:"name"`
}

func EncodeEventInitProfile(event *EventInitProfile) abci.Event {
	return abci.Event{
		Type: EventInitProfileType,
		Attributes: []abci.EventAttribute{
			attr("profile", event.Profile, true),
			attr("authority", event.Authority, true),
			attr("name", event.Name, false),
		},
	}
}

type EventInitValidator struct {
	Validator    Address `json:"validator"`
	Authority    Address `json:"authority"`
	Profile      Address `json:"profile"`
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	TokenAccount Address `json:"tokenAccount"`
	Minted       uint64  `json:"minted"`
}

func EncodeEventInitValidator(event *EventInitValidator) abci.Event {
	return abci.Event{
		Type: EventInitValidatorType,
		Attributes: []abci.EventAttribute{
			attr("validator", event.Validator, true),
			attr("authority", event.Authority, true),
			attr("profile", event.Profile, false),
			attr("id", event.ID, false),
			attr("name", event.Name, false),
			attr("tokenAccount", event.TokenAccount, false),
			attr("minted", event.Minted, false),
		},
	}
}

func DecodeEventInitValidator(originEvent abci.Event) *EventInitValidator {
	r := newAttrReader(originEvent)
	event := &EventInitValidator{
		Validator:    r.address("validator"),
		Authority:    r.address("authority"),
		Profile:      r.address("profile"),
		ID:           r.uint64("id"),
		Name:         r.string("name"),
		TokenAccount: r.address("tokenAccount"),
		Minted:       r.uint64("minted"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventUpdateValidator struct {
	Validator Address `json:"validator"`
	Authority Address `json:"authority"`
	Name      string  `json:"name"`
	IsActive  bool    `json:"isActive"`
}

func EncodeEventUpdateValidator(event *EventUpdateValidator) abci.Event {
	return abci.Event{
		Type: EventUpdateValidatorType,
		Attributes: []abci.EventAttribute{
			attr("validator", event.Validator, true),
			attr("authority", event.Authority, true),
			attr("name", event.Name, false),
			attr("isActive", event.IsActive, false),
		},
	}
}

func DecodeEventUpdateValidator(originEvent abci.Event) *EventUpdateValidator {
	r := newAttrReader(originEvent)
	event := &EventUpdateValidator{
		Validator: r.address("validator"),
		Authority: r.address("authority"),
		Name:      r.string("name"),
		IsActive:  r.bool("isActive"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventCloseValidator struct {
	Validator Address `json:"validator"`
	Authority Address `json:"authority"`
	ID        uint64  `json:"id"`
}

func EncodeEventCloseValidator(event *EventCloseValidator) abci.Event {
	return abci.Event{
		Type: EventCloseValidatorType,
		Attributes: []abci.EventAttribute{
			attr("validator", event.Validator, true),
			attr("authority", event.Authority, true),
			attr("id", event.ID, false),
		},
	}
}

func DecodeEventCloseValidator(originEvent abci.Event) *EventCloseValidator {
	r := newAttrReader(originEvent)
	event := &EventCloseValidator{
		Validator: r.address("validator"),
		Authority: r.address("authority"),
		ID:        r.uint64("id"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventTransfer struct {
	From   Address `json:"from"`
	To     Address `json:"to"`
	Amount uint64  `json:"amount"`
}

func EncodeEventTransfer(event *EventTransfer) abci.Event {
	return abci.Event{
		Type: EventTransferType,
		Attributes: []abci.EventAttribute{
			attr("from", event.From, true),
			attr("to", event.To, true),
			attr("amount", event.Amount, false),
		},
	}
}

type EventBurn struct {
	Account Address `json:"account"`
	Mint    Address `json:"mint"`
	Amount  uint64  `json:"amount"`
}

func EncodeEventBurn(event *EventBurn) abci.Event {
	return abci.Event{
		Type: EventBurnType,
		Attributes: []abci.EventAttribute{
			attr("account", event.Account, true),
			attr("mint", event.Mint, false),
			attr("amount", event.Amount, false),
		},
	}
}

type EventReassignMintAuthority struct {
	Mint         Address `json:"mint"`
	OldAuthority Address `json:"oldAuthority"`
	NewAuthority Address `json:"newAuthority"`
}

func EncodeEventReassignMintAuthority(event *EventReassignMintAuthority) abci.Event {
	return abci.Event{
		Type: EventReassignMintAuthorityType,
		Attributes: []abci.EventAttribute{
			attr("mint", event.Mint, true),
			attr("oldAuthority", event.OldAuthority, false),
			attr("newAuthority", event.NewAuthority, true),
		},
	}
}

type EventInitPool struct {
	Pool              Address `json:"pool"`
	Authority         Address `json:"authority"`
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	RewardPerSecond   uint64  `json:"rewardPerSecond"`
	LockPeriodSeconds uint64  `json:"lockPeriodSeconds"`
	RewardVault       Address `json:"rewardVault"`
}

func EncodeEventInitPool(event *EventInitPool) abci.Event {
	return abci.Event{
		Type: EventInitPoolType,
		Attributes: []abci.EventAttribute{
			attr("pool", event.Pool, true),
			attr("authority", event.Authority, true),
			attr("id", event.ID, false),
			attr("name", event.Name, false),
			attr("rewardPerSecond", event.RewardPerSecond, false),
			attr("lockPeriodSeconds", event.LockPeriodSeconds, false),
			attr("rewardVault", event.RewardVault, false),
		},
	}
}

type EventRefillPool struct {
	Pool          Address `json:"pool"`
	Amount        uint64  `json:"amount"`
	RewardBalance uint64  `json:"rewardBalance"`
}

func EncodeEventRefillPool(event *EventRefillPool) abci.Event {
	return abci.Event{
		Type: EventRefillPoolType,
		Attributes: []abci.EventAttribute{
			attr("pool", event.Pool, true),
			attr("amount", event.Amount, false),
			attr("rewardBalance", event.RewardBalance, false),
		},
	}
}

type EventUpdatePool struct {
	Pool              Address `json:"pool"`
	RewardPerSecond   uint64  `json:"rewardPerSecond"`
	LockPeriodSeconds uint64  `json:"lockPeriodSeconds"`
}

func EncodeEventUpdatePool(event *EventUpdatePool) abci.Event {
	return abci.Event{
		Type: EventUpdatePoolType,
		Attributes: []abci.EventAttribute{
			attr("pool", event.Pool, true),
			attr("rewardPerSecond", event.RewardPerSecond, false),
			attr("lockPeriodSeconds", event.LockPeriodSeconds, false),
		},
	}
}

// EventStake is emitted by stake, unstake and claim with the matching type.
type EventStake struct {
	Owner          Address `json:"owner"`
	Pool           Address `json:"pool"`
	Amount         uint64  `json:"amount"`
	StartStakeTime uint64  `json:"startStakeTime"`
}

func encodeEventStake(tp string, event *EventStake) abci.Event {
	return abci.Event{
		Type: tp,
		Attributes: []abci.EventAttribute{
			attr("owner", event.Owner, true),
			attr("pool", event.Pool, true),
			attr("amount", event.Amount, false),
			attr("startStakeTime", event.StartStakeTime, false),
		},
	}
}

func EncodeEventStake(event *EventStake) abci.Event {
	return encodeEventStake(EventStakeType, event)
}

func EncodeEventUnstake(event *EventStake) abci.Event {
	return encodeEventStake(EventUnstakeType, event)
}

func EncodeEventClaimReward(event *EventStake) abci.Event {
	return encodeEventStake(EventClaimRewardType, event)
}

func DecodeEventStake(originEvent abci.Event) *EventStake {
	r := newAttrReader(originEvent)
	event := &EventStake{
		Owner:          r.address("owner"),
		Pool:           r.address("pool"),
		Amount:         r.uint64("amount"),
		StartStakeTime: r.uint64("startStakeTime"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventCreateProposal struct {
	Proposal  Address `json:"proposal"`
	Profile   Address `json:"profile"`
	Authority Address `json:"authority"`
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	CreatedAt uint64  `json:"createdAt"`
	Deadline  uint64  `json:"deadline"`
}

func EncodeEventCreateProposal(event *EventCreateProposal) abci.Event {
	return abci.Event{
		Type: EventCreateProposalType,
		Attributes: []abci.EventAttribute{
			attr("proposal", event.Proposal, true),
			attr("profile", event.Profile, true),
			attr("authority", event.Authority, false),
			attr("id", event.ID, false),
			attr("title", event.Title, false),
			attr("createdAt", event.CreatedAt, false),
			attr("deadline", event.Deadline, false),
		},
	}
}

func DecodeEventCreateProposal(originEvent abci.Event) *EventCreateProposal {
	r := newAttrReader(originEvent)
	event := &EventCreateProposal{
		Proposal:  r.address("proposal"),
		Profile:   r.address("profile"),
		Authority: r.address("authority"),
		ID:        r.uint64("id"),
		Title:     r.string("title"),
		CreatedAt: r.uint64("createdAt"),
		Deadline:  r.uint64("deadline"),
	}
	if r.err != nil {
		return nil
	}
	return event
}

type EventVote struct {
	VoteRecord Address `json:"voteRecord"`
	Proposal   Address `json:"proposal"`
	Validator  Address `json:"validator"`
	Authority  Address `json:"authority"`
	Vote       bool    `json:"vote"`
	Timestamp  uint64  `json:"timestamp"`
}

func EncodeEventVote(event *EventVote) abci.Event {
	return abci.Event{
		Type: EventVoteType,
		Attributes: []abci.EventAttribute{
			attr("voteRecord", event.VoteRecord, false),
			attr("proposal", event.Proposal, true),
			attr("validator", event.Validator, true),
			attr("authority", event.Authority, false),
			attr("vote", event.Vote, false),
			attr("timestamp", event.Timestamp, false),
		},
	}
}

func DecodeEventVote(originEvent abci.Event) *EventVote {
	r := newAttrReader(originEvent)
	event := &EventVote{
		VoteRecord: r.address("voteRecord"),
		Proposal:   r.address("proposal"),
		Validator:  r.address("validator"),
		Authority:  r.address("authority"),
		Vote:       r.bool("vote"),
		Timestamp:  r.uint64("timestamp"),
	}
	if r.err != nil {
		return nil
	}
	return event
}
