package state

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
)

func (s *State) InitProfile(signer types.Address, stx *tx.InitProfileTx, now uint64) (event *types.EventInitProfile, err error) {
	s.logger.Debug("apply init profile", "signer", signer, "name", stx.Name, "height", s.header.Height)
	err = s.transact(func() error {
		if err := checkName("profile name", stx.Name, types.MaxNameLen); err != nil {
			return err
		}
		addr, bump := types.ProfileAddress(signer)
		if err := expectAddress("profile", stx.Profile, addr); err != nil {
			return err
		}
		key := recordKey(KeyProfile, addr)
		exists, err := s.has(key)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrAlreadyInitialized, "profile %s", addr)
		}
		p := &types.Profile{Authority: signer, DisplayName: stx.Name, AddressBump: bump}
		if err = s.put(key, p); err != nil {
			return err
		}
		event = &types.EventInitProfile{Profile: addr, Authority: signer, Name: stx.Name}
		return nil
	})
	return
}

func (s *State) InitValidator(signer types.Address, stx *tx.InitValidatorTx, now uint64) (event *types.EventInitValidator, err error) {
	s.logger.Debug("apply init validator", "signer", signer, "id", stx.ID, "height", s.header.Height)
	err = s.transact(func() error {
		if err := checkName("validator name", stx.Name, types.MaxNameLen); err != nil {
			return err
		}
		profile, _, err := s.signerProfile(signer, stx.Profile)
		if err != nil {
			return err
		}
		addr, bump := types.ValidatorAddress(signer, stx.ID)
		if err = expectAddress("validator", stx.Validator, addr); err != nil {
			return err
		}
		if err = expectAddress("mint", stx.Mint, types.MintAddress()); err != nil {
			return err
		}
		if err = expectAddress("mint authority", stx.MintAuthority, types.MintAuthorityAddress()); err != nil {
			return err
		}
		ata := types.TokenAccountAddress(signer, stx.Mint)
		if err = expectAddress("validator token account", stx.ValidatorToken, ata); err != nil {
			return err
		}
		key := recordKey(KeyValidator, addr)
		exists, err := s.has(key)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ErrAlreadyInitialized, "validator %s", addr)
		}
		v := &types.ValidatorInfo{
			ID:          stx.ID,
			Name:        stx.Name,
			IsActive:    true,
			Authority:   signer,
			Profile:     profile,
			AddressBump: bump,
		}
		if err = s.put(key, v); err != nil {
			return err
		}
		if err = s.ensureTokenAccount(ata, signer, stx.Mint); err != nil {
			return err
		}
		if err = s.Ledger().MintTo(stx.Mint, ata, stx.MintAuthority, types.ValidatorInitialMint); err != nil {
			return err
		}
		event = &types.EventInitValidator{
			Validator:    addr,
			Authority:    signer,
			Profile:      profile,
			ID:           stx.ID,
			Name:         stx.Name,
			TokenAccount: ata,
			Minted:       types.ValidatorInitialMint,
		}
		return nil
	})
	return
}

// ownedValidator loads the validator at addr and checks that signer controls
// it through its profile.
func (s *State) ownedValidator(signer, profile, addr types.Address) (*types.ValidatorInfo, error) {
	v, err := s.GetValidator(addr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.Wrapf(ErrAccountNotInitialized, "validator %s", addr)
	}
	profileAddr, _ := types.ProfileAddress(signer)
	p, err := s.GetProfile(profileAddr)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(ErrAccountNotInitialized, "profile %s", profileAddr)
	}
	if v.Authority != signer {
		return nil, errors.Wrapf(ErrUnauthorized, "validator %s", addr)
	}
	if err = expectAddress("profile", profile, profileAddr); err != nil {
		return nil, err
	}
	if addr != types.CreateAddress(v.AddressBump, types.SeedValidator, signer.Bytes(), types.IDSeed(v.ID)) {
		return nil, errors.Wrapf(ErrAddressMismatch, "validator %s", addr)
	}
	if v.Profile != profileAddr {
		return nil, errors.Wrapf(ErrUnauthorized, "validator %s is linked to profile %s", addr, v.Profile)
	}
	return v, nil
}

func (s *State) UpdateValidator(signer types.Address, stx *tx.UpdateValidatorTx, now uint64) (event *types.EventUpdateValidator, err error) {
	s.logger.Debug("apply update validator", "signer", signer, "validator", stx.Validator, "height", s.header.Height)
	err = s.transact(func() error {
		if err := checkName("validator name", stx.Name, types.MaxNameLen); err != nil {
			return err
		}
		v, err := s.ownedValidator(signer, stx.Profile, stx.Validator)
		if err != nil {
			return err
		}
		v.Name = stx.Name
		v.IsActive = stx.IsActive
		if err = s.put(recordKey(KeyValidator, stx.Validator), v); err != nil {
			return err
		}
		event = &types.EventUpdateValidator{Validator: stx.Validator, Authority: signer, Name: v.Name, IsActive: v.IsActive}
		return nil
	})
	return
}

func (s *State) CloseValidator(signer types.Address, stx *tx.CloseValidatorTx, now uint64) (event *types.EventCloseValidator, err error) {
	s.logger.Debug("apply close validator", "signer", signer, "validator", stx.Validator, "height", s.header.Height)
	err = s.transact(func() error {
		v, err := s.ownedValidator(signer, stx.Profile, stx.Validator)
		if err != nil {
			return err
		}
		s.del(recordKey(KeyValidator, stx.Validator))
		event = &types.EventCloseValidator{Validator: stx.Validator, Authority: signer, ID: v.ID}
		return nil
	})
	return
}
