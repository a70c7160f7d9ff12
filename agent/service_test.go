package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calehh/valreg-app/types"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) (*Service, *ChainIndexer) {
	gin.SetMode(gin.TestMode)
	c := testIndexer(t)
	return NewService("127.0.0.1:0", c), c
}

func post(t *testing.T, s *Service, path string, body any, out any) int {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func seedProposal(t *testing.T, c *ChainIndexer) types.Address {
	proposal := addr(9)
	require.NoError(t, c.indexBlock(context.Background(), 1, []*abci.ExecTxResult{txResult(
		types.EncodeEventCreateProposal(&types.EventCreateProposal{Proposal: proposal, Profile: addr(3), Authority: addr(2), ID: 1, Title: "t", CreatedAt: 1, Deadline: 50}),
		types.EncodeEventVote(&types.EventVote{VoteRecord: addr(20), Proposal: proposal, Validator: addr(21), Vote: true, Timestamp: 2}),
		types.EncodeEventVote(&types.EventVote{VoteRecord: addr(22), Proposal: proposal, Validator: addr(23), Vote: false, Timestamp: 3}),
	)}))
	return proposal
}

func TestServiceGetProposals(t *testing.T) {
	s, c := testService(t)
	proposal := seedProposal(t, c)

	var list GetProposalsResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{}, &list))
	assert.Equal(t, uint64(1), list.Total)
	require.Len(t, list.Proposals, 1)
	assert.Equal(t, uint64(1), list.Proposals[0].Yes)
	assert.Equal(t, uint64(1), list.Proposals[0].No)
	assert.Empty(t, list.Proposals[0].Votes)

	var one GetProposalsResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getProposals", GetProposalsReq{Address: proposal.Hex()}, &one))
	require.Len(t, one.Proposals, 1)
	assert.Len(t, one.Proposals[0].Votes, 2)

	assert.Equal(t, http.StatusNotFound, post(t, s, "/getProposals", GetProposalsReq{Address: addr(1).Hex()}, nil))
}

func TestServiceGetVotes(t *testing.T) {
	s, c := testService(t)
	proposal := seedProposal(t, c)

	var res GetVotesResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getVotes", GetVotesReq{Proposal: proposal.Hex()}, &res))
	assert.Len(t, res.Votes, 2)

	require.Equal(t, http.StatusOK, post(t, s, "/getVotes", GetVotesReq{Validator: addr(23).Hex()}, &res))
	require.Len(t, res.Votes, 1)
	assert.False(t, res.Votes[0].Vote)

	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getVotes", GetVotesReq{}, nil))
}

func TestServiceGetValidatorsAndStakes(t *testing.T) {
	s, c := testService(t)
	require.NoError(t, c.indexBlock(context.Background(), 1, []*abci.ExecTxResult{txResult(
		types.EncodeEventInitValidator(&types.EventInitValidator{Validator: addr(1), Authority: addr(2), Name: "v"}),
		types.EncodeEventStake(&types.EventStake{Owner: addr(2), Pool: addr(8), Amount: 10}),
	)}))

	var vals GetValidatorsResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getValidators", GetValidatorsReq{Authority: addr(2).Hex()}, &vals))
	require.Len(t, vals.Validators, 1)
	assert.Equal(t, "v", vals.Validators[0].Name)

	require.Equal(t, http.StatusOK, post(t, s, "/getValidators", GetValidatorsReq{Authority: addr(7).Hex()}, &vals))
	assert.Empty(t, vals.Validators)

	var stakes GetStakesResponse
	require.Equal(t, http.StatusOK, post(t, s, "/getStakes", GetStakesReq{Owner: addr(2).Hex()}, &stakes))
	assert.Equal(t, uint64(1), stakes.Total)
	require.Len(t, stakes.Stakes, 1)
	assert.Equal(t, uint64(10), stakes.Stakes[0].Amount)

	assert.Equal(t, http.StatusBadRequest, post(t, s, "/getStakes", map[string]string{}, nil))
}
