package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/calehh/valreg-app/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func testIndexer(t *testing.T) *ChainIndexer {
	db, err := openIndexDB(filepath.Join(t.TempDir(), "index", "indexer.db"))
	require.NoError(t, err)
	c, err := newChainIndexer(cmtlog.NewNopLogger(), db)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func txResult(events ...abci.Event) *abci.ExecTxResult {
	return &abci.ExecTxResult{Code: 0, Events: events}
}

func TestIndexValidatorLifecycle(t *testing.T) {
	c := testIndexer(t)
	ctx := context.Background()
	val, auth := addr(1), addr(2)

	require.NoError(t, c.indexBlock(ctx, 1, []*abci.ExecTxResult{txResult(
		types.EncodeEventInitValidator(&types.EventInitValidator{
			Validator: val, Authority: auth, Profile: addr(3), ID: 7, Name: "alpha", TokenAccount: addr(4), Minted: 100,
		}),
	)}))
	vals, err := c.getValidators(auth.Hex())
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, "alpha", vals[0].Name)
	assert.True(t, vals[0].IsActive)
	assert.Equal(t, uint64(100), vals[0].Minted)

	require.NoError(t, c.indexBlock(ctx, 2, []*abci.ExecTxResult{txResult(
		types.EncodeEventUpdateValidator(&types.EventUpdateValidator{Validator: val, Authority: auth, Name: "beta", IsActive: false}),
	)}))
	vals, err = c.getValidators("")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, "beta", vals[0].Name)
	assert.False(t, vals[0].IsActive)

	require.NoError(t, c.indexBlock(ctx, 3, []*abci.ExecTxResult{txResult(
		types.EncodeEventCloseValidator(&types.EventCloseValidator{Validator: val, Authority: auth, ID: 7}),
	)}))
	vals, err = c.getValidators(auth.Hex())
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestIndexSkipsFailedTx(t *testing.T) {
	c := testIndexer(t)
	failed := txResult(types.EncodeEventInitValidator(&types.EventInitValidator{Validator: addr(1), Authority: addr(2)}))
	failed.Code = 5
	require.NoError(t, c.indexBlock(context.Background(), 1, []*abci.ExecTxResult{failed, nil}))

	vals, err := c.getValidators("")
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestIndexProposalAndVotes(t *testing.T) {
	c := testIndexer(t)
	ctx := context.Background()
	proposal := addr(9)

	events := []abci.Event{
		types.EncodeEventCreateProposal(&types.EventCreateProposal{
			Proposal: proposal, Profile: addr(3), Authority: addr(2), ID: 1, Title: "raise rate", CreatedAt: 10, Deadline: 100,
		}),
		types.EncodeEventVote(&types.EventVote{VoteRecord: addr(20), Proposal: proposal, Validator: addr(21), Authority: addr(2), Vote: true, Timestamp: 11}),
		types.EncodeEventVote(&types.EventVote{VoteRecord: addr(22), Proposal: proposal, Validator: addr(23), Authority: addr(5), Vote: true, Timestamp: 12}),
		types.EncodeEventVote(&types.EventVote{VoteRecord: addr(24), Proposal: proposal, Validator: addr(25), Authority: addr(6), Vote: false, Timestamp: 13}),
	}
	require.NoError(t, c.indexBlock(ctx, 4, []*abci.ExecTxResult{txResult(events...)}))

	p, err := c.getProposal(proposal.Hex())
	require.NoError(t, err)
	assert.Equal(t, "raise rate", p.Title)
	assert.Equal(t, uint64(100), p.Deadline)
	assert.Equal(t, uint64(4), p.Height)

	yes, no, err := c.tally(proposal.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), yes)
	assert.Equal(t, uint64(1), no)

	votes, err := c.getVotesByProposal(proposal.Hex(), 0, 2)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, uint64(11), votes[0].Timestamp)

	votes, err = c.getVotesByValidator(addr(25).Hex(), 0, 10)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.False(t, votes[0].Vote)

	_, err = c.getProposal(addr(99).Hex())
	assert.Error(t, err)
}

func TestIndexStakeActivity(t *testing.T) {
	c := testIndexer(t)
	ctx := context.Background()
	owner, pool := addr(1), addr(8)

	require.NoError(t, c.indexBlock(ctx, 1, []*abci.ExecTxResult{txResult(
		types.EncodeEventStake(&types.EventStake{Owner: owner, Pool: pool, Amount: 50, StartStakeTime: 1000}),
	)}))
	require.NoError(t, c.indexBlock(ctx, 2, []*abci.ExecTxResult{txResult(
		types.EncodeEventClaimReward(&types.EventStake{Owner: owner, Pool: pool, Amount: 5, StartStakeTime: 1100}),
		types.EncodeEventUnstake(&types.EventStake{Owner: owner, Pool: pool, Amount: 50, StartStakeTime: 1100}),
	)}))

	stakes, total, err := c.getStakesByOwner(owner.Hex(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, stakes, 3)
	assert.Equal(t, types.EventUnstakeType, stakes[0].Kind)
	assert.Equal(t, types.EventStakeType, stakes[2].Kind)
}

func TestIndexerResumesHeight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexer.db")
	db, err := openIndexDB(path)
	require.NoError(t, err)
	c, err := newChainIndexer(cmtlog.NewNopLogger(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Height)
	require.NoError(t, c.indexBlock(context.Background(), 1, nil))
	require.NoError(t, c.indexBlock(context.Background(), 2, nil))
	require.NoError(t, c.Close())

	db, err = openIndexDB(path)
	require.NoError(t, err)
	c, err = newChainIndexer(cmtlog.NewNopLogger(), db)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, int64(3), c.Height)
}

func TestIndexBlockIsAllOrNothing(t *testing.T) {
	c := testIndexer(t)
	ctx := context.Background()
	owner, pool := addr(1), addr(8)
	block := []*abci.ExecTxResult{txResult(
		types.EncodeEventStake(&types.EventStake{Owner: owner, Pool: pool, Amount: 50, StartStakeTime: 1000}),
		types.EncodeEventVote(&types.EventVote{VoteRecord: addr(20), Proposal: addr(9), Validator: addr(21), Authority: addr(2), Vote: true, Timestamp: 11}),
	)}

	require.NoError(t, c.db.DropTable(&Vote{}).Error)
	require.Error(t, c.indexBlock(ctx, 1, block))

	_, total, err := c.getStakesByOwner(owner.Hex(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	resumed, err := newChainIndexer(cmtlog.NewNopLogger(), c.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resumed.Height)

	// retrying the block after the failure stores each event once
	require.NoError(t, c.db.AutoMigrate(&Vote{}).Error)
	require.NoError(t, c.indexBlock(ctx, 1, block))
	_, total, err = c.getStakesByOwner(owner.Hex(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	votes, err := c.getVotesByProposal(addr(9).Hex(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
	resumed, err = newChainIndexer(cmtlog.NewNopLogger(), c.db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resumed.Height)
}
