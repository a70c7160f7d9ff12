package state

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
)

func (s *State) CreateProposal(signer types.Address, stx *tx.CreateProposalTx, now uint64) (event *types.EventCreateProposal, err error) {
	s.logger.Debug("apply create proposal", "signer", signer, "id", stx.ID, "height", s.header.Height)
	err = s.transact(func() error {
		if err := checkName("proposal title", stx.Title, types.MaxTitleLen); err != nil {
			return err
		}
		if err := checkName("proposal description", stx.Description, types.MaxDescriptionLen); err != nil {
			return err
		}
		profile, _, err := s.signerProfile(signer, stx.Profile)
		if err != nil {
			return err
		}
		addr, bump := types.ProposalAddress(profile, stx.ID)
		if err = expectAddress("proposal", stx.Proposal, addr); err != nil {
			return err
		}
		key := recordKey(KeyProposal, addr)
		exists, err := s.has(key)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrAlreadyInitialized, "proposal %s", addr)
		}
		if stx.Deadline <= now {
			return errors.Wrapf(ErrInvalidDeadline, "deadline %d, now %d", stx.Deadline, now)
		}
		p := &types.Proposal{
			ID:          stx.ID,
			Profile:     profile,
			Title:       stx.Title,
			Description: stx.Description,
			CreatedAt:   now,
			Deadline:    stx.Deadline,
			AddressBump: bump,
		}
		if err = s.put(key, p); err != nil {
			return err
		}
		event = &types.EventCreateProposal{
			Proposal:  addr,
			Profile:   profile,
			Authority: signer,
			ID:        stx.ID,
			Title:     stx.Title,
			CreatedAt: now,
			Deadline:  stx.Deadline,
		}
		return nil
	})
	return
}

func (s *State) VoteOnProposal(signer types.Address, stx *tx.VoteTx, now uint64) (event *types.EventVote, err error) {
	s.logger.Debug("apply vote", "signer", signer, "proposal", stx.Proposal, "vote", stx.Vote, "height", s.header.Height)
	err = s.transact(func() error {
		profile, _, err := s.signerProfile(signer, stx.Profile)
		if err != nil {
			return err
		}
		v, err := s.GetValidator(stx.Validator)
		if err != nil {
			return err
		}
		if v == nil {
			return errors.Wrapf(ErrAccountNotInitialized, "validator %s", stx.Validator)
		}
		if v.Authority != signer {
			return errors.Wrapf(ErrUnauthorized, "validator %s", stx.Validator)
		}
		if stx.Validator != types.CreateAddress(v.AddressBump, types.SeedValidator, signer.Bytes(), types.IDSeed(v.ID)) {
			return errors.Wrapf(ErrAddressMismatch, "validator %s", stx.Validator)
		}
		if v.Profile != profile {
			return errors.Wrapf(ErrUnauthorized, "validator %s is linked to profile %s", stx.Validator, v.Profile)
		}
		p, err := s.GetProposal(stx.Proposal)
		if err != nil {
			return err
		}
		if p == nil {
			return errors.Wrapf(ErrAccountNotInitialized, "proposal %s", stx.Proposal)
		}
		if stx.Proposal != types.CreateAddress(p.AddressBump, types.SeedProposal, p.Profile.Bytes(), types.IDSeed(p.ID)) {
			return errors.Wrapf(ErrAddressMismatch, "proposal %s", stx.Proposal)
		}
		if now > p.Deadline {
			return errors.Wrapf(ErrProposalExpired, "deadline %d, now %d", p.Deadline, now)
		}
		addr := types.VoteAddress(stx.Proposal, stx.Validator)
		if err = expectAddress("vote record", stx.VoteRecord, addr); err != nil {
			return err
		}
		key := recordKey(KeyVote, addr)
		exists, err := s.has(key)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrDuplicateVote, "vote record %s already in use", addr)
		}
		rec := &types.VoteRecord{Proposal: stx.Proposal, Validator: stx.Validator, Vote: stx.Vote, Timestamp: now}
		if err = s.put(key, rec); err != nil {
			return err
		}
		if err = s.put(recordKey(KeyVoteIndex, stx.Proposal, stx.Validator), addr); err != nil {
			return err
		}
		event = &types.EventVote{
			VoteRecord: addr,
			Proposal:   stx.Proposal,
			Validator:  stx.Validator,
			Authority:  signer,
			Vote:       stx.Vote,
			Timestamp:  now,
		}
		return nil
	})
	return
}
