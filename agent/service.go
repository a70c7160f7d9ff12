package agent

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

type Service struct {
	engine     *gin.Engine
	indexer    *ChainIndexer
	listenAddr string
	srv        *http.Server
}

func NewService(listenAddr string, indexer *ChainIndexer) *Service {
	r := gin.New()
	r.Use(gin.Recovery())
	s := &Service{
		engine:     r,
		indexer:    indexer,
		listenAddr: listenAddr,
	}
	s.engine.POST("/getProposals", s.handleGetProposals)
	s.engine.POST("/getVotes", s.handleGetVotes)
	s.engine.POST("/getValidators", s.handleGetValidators)
	s.engine.POST("/getStakes", s.handleGetStakes)
	return s
}

func (s *Service) Start() error {
	s.srv = &http.Server{Addr: s.listenAddr, Handler: s.engine}
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Service) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func pageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	return size
}

type ProposalInfo struct {
	Proposal Proposal `json:"proposal"`
	Yes      uint64   `json:"yes"`
	No       uint64   `json:"no"`
	Votes    []Vote   `json:"votes,omitempty"`
}

type GetProposalsReq struct {
	Address  string `json:"address"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetProposalsResponse struct {
	Proposals []ProposalInfo `json:"proposals"`
	Total     uint64         `json:"total"`
}

func (s *Service) proposalInfo(p Proposal, withVotes bool) (info ProposalInfo, err error) {
	info.Proposal = p
	if info.Yes, info.No, err = s.indexer.tally(p.Address); err != nil {
		return
	}
	if withVotes {
		info.Votes, err = s.indexer.getVotesByProposal(p.Address, 0, 1000)
	}
	return
}

func (s *Service) handleGetProposals(c *gin.Context) {
	var response GetProposalsResponse
	response.Proposals = make([]ProposalInfo, 0)
	var requestData GetProposalsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if requestData.Address != "" {
		p, err := s.indexer.getProposal(requestData.Address)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		info, err := s.proposalInfo(*p, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Proposals = append(response.Proposals, info)
		response.Total = 1
		c.JSON(http.StatusOK, response)
		return
	}

	proposals, total, err := s.indexer.getProposals(requestData.Page, pageSize(requestData.PageSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Total = total
	for _, p := range proposals {
		info, err := s.proposalInfo(p, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Proposals = append(response.Proposals, info)
	}
	c.JSON(http.StatusOK, response)
}

type GetVotesReq struct {
	Proposal  string `json:"proposal"`
	Validator string `json:"validator"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

type GetVotesResponse struct {
	Votes []Vote `json:"votes"`
}

func (s *Service) handleGetVotes(c *gin.Context) {
	var requestData GetVotesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var votes []Vote
	var err error
	switch {
	case requestData.Proposal != "":
		votes, err = s.indexer.getVotesByProposal(requestData.Proposal, requestData.Page, pageSize(requestData.PageSize))
	case requestData.Validator != "":
		votes, err = s.indexer.getVotesByValidator(requestData.Validator, requestData.Page, pageSize(requestData.PageSize))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "proposal or validator required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if votes == nil {
		votes = make([]Vote, 0)
	}
	c.JSON(http.StatusOK, GetVotesResponse{Votes: votes})
}

type GetValidatorsReq struct {
	Authority string `json:"authority"`
}

type GetValidatorsResponse struct {
	Validators []Validator `json:"validators"`
}

func (s *Service) handleGetValidators(c *gin.Context) {
	var requestData GetValidatorsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	validators, err := s.indexer.getValidators(requestData.Authority)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if validators == nil {
		validators = make([]Validator, 0)
	}
	c.JSON(http.StatusOK, GetValidatorsResponse{Validators: validators})
}

type GetStakesReq struct {
	Owner    string `json:"owner" binding:"required"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetStakesResponse struct {
	Stakes []StakeActivity `json:"stakes"`
	Total  uint64          `json:"total"`
}

func (s *Service) handleGetStakes(c *gin.Context) {
	var requestData GetStakesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stakes, total, err := s.indexer.getStakesByOwner(requestData.Owner, requestData.Page, pageSize(requestData.PageSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stakes == nil {
		stakes = make([]StakeActivity, 0)
	}
	c.JSON(http.StatusOK, GetStakesResponse{Stakes: stakes, Total: total})
}
