package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedAddresses(t *testing.T) {
	alice, bob := Address{1}, Address{2}

	p1, bump := ProfileAddress(alice)
	p2, _ := ProfileAddress(alice)
	assert.Equal(t, p1, p2)
	assert.Equal(t, CanonicalBump, bump)
	p3, _ := ProfileAddress(bob)
	assert.NotEqual(t, p1, p3)

	v1, _ := ValidatorAddress(alice, 1)
	v2, _ := ValidatorAddress(alice, 2)
	assert.NotEqual(t, v1, v2)
	assert.Equal(t, v1, CreateAddress(CanonicalBump, SeedValidator, alice.Bytes(), IDSeed(1)))

	// length prefixes keep shifted component boundaries apart
	assert.NotEqual(t,
		CreateAddress(CanonicalBump, "ab", []byte("c")),
		CreateAddress(CanonicalBump, "a", []byte("bc")))
	assert.NotEqual(t, CreateAddress(1, "x"), CreateAddress(2, "x"))

	assert.NotEqual(t, MintAddress(), MintAuthorityAddress())
	assert.Equal(t, TokenAccountAddress(RewardVaultAuthority(p1), MintAddress()), RewardVaultAddress(p1, MintAddress()))
	assert.NotEqual(t, VoteAddress(p1, v1), VoteAddress(p1, v2))
}

func TestAddressText(t *testing.T) {
	a := MintAddress()
	parsed, err := HexToAddress("0x" + a.Hex())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = HexToAddress("abcd")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = HexToAddress("zz")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	dat, err := json.Marshal(struct{ A Address }{a})
	require.NoError(t, err)
	var out struct{ A Address }
	require.NoError(t, json.Unmarshal(dat, &out))
	assert.Equal(t, a, out.A)
	assert.True(t, Address{}.IsZero())
}

func TestEventCodec(t *testing.T) {
	vote := &EventVote{
		VoteRecord: Address{1},
		Proposal:   Address{2},
		Validator:  Address{3},
		Authority:  Address{4},
		Vote:       true,
		Timestamp:  1_700_000_000,
	}
	ev := EncodeEventVote(vote)
	assert.Equal(t, EventVoteType, ev.Type)
	assert.Equal(t, vote, DecodeEventVote(ev))

	stake := &EventStake{Owner: Address{5}, Pool: Address{6}, Amount: 42, StartStakeTime: 9}
	assert.Equal(t, EventClaimRewardType, EncodeEventClaimReward(stake).Type)
	assert.Equal(t, stake, DecodeEventStake(EncodeEventUnstake(stake)))

	ev.Attributes[0].Value = "bad"
	assert.Nil(t, DecodeEventVote(ev))
}
