package state

import (
	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
)

func checkName(what, name string, limit int) error {
	if len(name) > limit {
		return errors.Wrapf(ErrNameTooLong, "%s is %d bytes, limit %d", what, len(name), limit)
	}
	return nil
}

func expectAddress(what string, got, want types.Address) error {
	if got != want {
		return errors.Wrapf(ErrAddressMismatch, "%s: got %s want %s", what, got, want)
	}
	return nil
}

func (s *State) GetProfile(addr types.Address) (*types.Profile, error) {
	return loadRecord[types.Profile](s, recordKey(KeyProfile, addr))
}

func (s *State) GetValidator(addr types.Address) (*types.ValidatorInfo, error) {
	return loadRecord[types.ValidatorInfo](s, recordKey(KeyValidator, addr))
}

func (s *State) GetPool(addr types.Address) (*types.StakingPool, error) {
	return loadRecord[types.StakingPool](s, recordKey(KeyPool, addr))
}

func (s *State) GetStakeVault(addr types.Address) (*types.StakeVault, error) {
	return loadRecord[types.StakeVault](s, recordKey(KeyStakeVault, addr))
}

func (s *State) GetProposal(addr types.Address) (*types.Proposal, error) {
	return loadRecord[types.Proposal](s, recordKey(KeyProposal, addr))
}

func (s *State) GetVote(addr types.Address) (*types.VoteRecord, error) {
	return loadRecord[types.VoteRecord](s, recordKey(KeyVote, addr))
}

// signerProfile loads the profile of signer, checking the supplied address when set.
func (s *State) signerProfile(signer, supplied types.Address) (types.Address, *types.Profile, error) {
	addr, _ := types.ProfileAddress(signer)
	if err := expectAddress("profile", supplied, addr); err != nil {
		return addr, nil, err
	}
	p, err := s.GetProfile(addr)
	if err != nil {
		return addr, nil, err
	}
	if p == nil {
		return addr, nil, errors.Wrapf(ErrProfileRequired, "signer %s", signer)
	}
	return addr, p, nil
}
