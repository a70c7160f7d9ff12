package handler

import (
	"github.com/calehh/valreg-app/state"
	"github.com/calehh/valreg-app/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

func NewCreateProposalTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "createProposalTx", encoded((*state.State).CreateProposal, types.EncodeEventCreateProposal))
}

func NewVoteTxHandler(logger cmtlog.Logger) TxHandler {
	return newTxHandler(logger, "voteTx", encoded((*state.State).VoteOnProposal, types.EncodeEventVote))
}
