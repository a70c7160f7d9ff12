package main

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/spf13/cobra"
)

type proposalArguments struct {
	txFlags
	ID          uint64
	Title       string
	Description string
	Deadline    uint64
}

var proposalArgs proposalArguments

var createProposalCmd = &cobra.Command{
	Use:   "create-proposal",
	Short: "Open a proposal under the signer's profile",
	Args:  cobra.NoArgs,
	RunE:  createProposalRun,
}

type voteArguments struct {
	txFlags
	Proposal  string
	Validator uint64
	No        bool
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Vote on a proposal with one of the signer's validators",
	Args:  cobra.NoArgs,
	RunE:  voteRun,
}

func init() {
	proposalArgs.register(createProposalCmd)
	createProposalCmd.Flags().Uint64VarP(&proposalArgs.ID, "id", "i", 0, "proposal id")
	createProposalCmd.Flags().StringVarP(&proposalArgs.Title, "title", "t", "", "proposal title")
	createProposalCmd.Flags().StringVarP(&proposalArgs.Description, "description", "", "", "proposal description")
	createProposalCmd.Flags().Uint64VarP(&proposalArgs.Deadline, "deadline", "", 0, "voting deadline, unix seconds")

	voteArgs.register(voteCmd)
	voteCmd.Flags().StringVarP(&voteArgs.Proposal, "proposal", "p", "", "proposal address")
	voteCmd.Flags().Uint64VarP(&voteArgs.Validator, "validator-id", "i", 0, "id of the voting validator")
	voteCmd.Flags().BoolVarP(&voteArgs.No, "no", "", false, "vote against")
}

func createProposalRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(proposalArgs.Skey)
	if err != nil {
		return err
	}
	profile, _ := types.ProfileAddress(pv.Address())
	proposal, _ := types.ProposalAddress(profile, proposalArgs.ID)
	return sendTx(&proposalArgs.txFlags, pv, tx.RegTxTypeCreateProposal, &tx.CreateProposalTx{
		ID:          proposalArgs.ID,
		Title:       proposalArgs.Title,
		Description: proposalArgs.Description,
		Deadline:    proposalArgs.Deadline,
		Profile:     profile,
		Proposal:    proposal,
	})
}

func voteRun(cmd *cobra.Command, args []string) error {
	pv, err := loadSigner(voteArgs.Skey)
	if err != nil {
		return err
	}
	proposal, err := parseAddress("proposal", voteArgs.Proposal)
	if err != nil {
		return err
	}
	signer := pv.Address()
	profile, _ := types.ProfileAddress(signer)
	validator, _ := types.ValidatorAddress(signer, voteArgs.Validator)
	return sendTx(&voteArgs.txFlags, pv, tx.RegTxTypeVote, &tx.VoteTx{
		Vote:       !voteArgs.No,
		Profile:    profile,
		Validator:  validator,
		Proposal:   proposal,
		VoteRecord: types.VoteAddress(proposal, validator),
	})
}
