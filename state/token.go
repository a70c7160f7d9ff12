package state

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	"github.com/pkg/errors"
)

// TokenLedger is the fungible token ledger the engine moves balances through.
// Authorities are checked against the stored owner or mint authority and a
// mismatch is ErrOwnerMismatch.
type TokenLedger interface {
	Mint(addr types.Address) (*types.Mint, error)
	Account(addr types.Address) (*types.TokenAccount, error)
	CreateMint(addr, authority types.Address, decimals uint8) (*types.Mint, error)
	OpenAccount(addr, owner, mint types.Address) (*types.TokenAccount, error)
	MintTo(mint, to, authority types.Address, amount uint64) error
	Transfer(from, to, authority types.Address, amount uint64) error
	Burn(account, authority types.Address, amount uint64) error
	SetMintAuthority(mint, current, next types.Address) error
}

type stateLedger struct {
	s *State
}

func (s *State) Ledger() TokenLedger {
	return stateLedger{s: s}
}

func (l stateLedger) Mint(addr types.Address) (*types.Mint, error) {
	return loadRecord[types.Mint](l.s, recordKey(KeyMint, addr))
}

func (l stateLedger) Account(addr types.Address) (*types.TokenAccount, error) {
	return loadRecord[types.TokenAccount](l.s, recordKey(KeyTokenAccount, addr))
}

func (l stateLedger) mustMint(addr types.Address) (*types.Mint, error) {
	m, err := l.Mint(addr)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.Wrapf(ErrAccountNotInitialized, "mint %s", addr)
	}
	return m, nil
}

func (l stateLedger) mustAccount(addr types.Address) (*types.TokenAccount, error) {
	a, err := l.Account(addr)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.Wrapf(ErrAccountNotInitialized, "token account %s", addr)
	}
	return a, nil
}

func (l stateLedger) CreateMint(addr, authority types.Address, decimals uint8) (*types.Mint, error) {
	key := recordKey(KeyMint, addr)
	exists, err := l.s.has(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(ErrAlreadyInitialized, "mint %s", addr)
	}
	m := &types.Mint{Address: addr, Decimals: decimals, MintAuthority: authority}
	return m, l.s.put(key, m)
}

func (l stateLedger) OpenAccount(addr, owner, mint types.Address) (*types.TokenAccount, error) {
	if _, err := l.mustMint(mint); err != nil {
		return nil, err
	}
	key := recordKey(KeyTokenAccount, addr)
	exists, err := l.s.has(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(ErrAlreadyInitialized, "token account %s", addr)
	}
	a := &types.TokenAccount{Address: addr, Mint: mint, Owner: owner}
	return a, l.s.put(key, a)
}

func (l stateLedger) MintTo(mint, to, authority types.Address, amount uint64) error {
	m, err := l.mustMint(mint)
	if err != nil {
		return err
	}
	if m.MintAuthority != authority {
		return errors.Wrapf(ErrOwnerMismatch, "mint authority %s", m.MintAuthority)
	}
	a, err := l.mustAccount(to)
	if err != nil {
		return err
	}
	if a.Mint != mint {
		return errors.Wrapf(ErrMintMismatch, "token account %s", to)
	}
	if a.Amount, err = addAmount(a.Amount, amount); err != nil {
		return err
	}
	return l.s.put(recordKey(KeyTokenAccount, to), a)
}

func (l stateLedger) Transfer(from, to, authority types.Address, amount uint64) error {
	src, err := l.mustAccount(from)
	if err != nil {
		return err
	}
	if src.Owner != authority {
		return errors.Wrapf(ErrOwnerMismatch, "token account %s", from)
	}
	dst, err := l.mustAccount(to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return errors.Wrapf(ErrMintMismatch, "%s -> %s", from, to)
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "token account %s has %d need %d", from, src.Amount, amount)
	}
	if from == to {
		return nil
	}
	if dst.Amount, err = addAmount(dst.Amount, amount); err != nil {
		return err
	}
	src.Amount -= amount
	if err = l.s.put(recordKey(KeyTokenAccount, from), src); err != nil {
		return err
	}
	return l.s.put(recordKey(KeyTokenAccount, to), dst)
}

func (l stateLedger) Burn(account, authority types.Address, amount uint64) error {
	a, err := l.mustAccount(account)
	if err != nil {
		return err
	}
	if a.Owner != authority {
		return errors.Wrapf(ErrOwnerMismatch, "token account %s", account)
	}
	if a.Amount, err = subAmount(a.Amount, amount); err != nil {
		return err
	}
	return l.s.put(recordKey(KeyTokenAccount, account), a)
}

func (l stateLedger) SetMintAuthority(mint, current, next types.Address) error {
	m, err := l.mustMint(mint)
	if err != nil {
		return err
	}
	if m.MintAuthority != current {
		return errors.Wrapf(ErrOwnerMismatch, "mint authority %s", m.MintAuthority)
	}
	m.MintAuthority = next
	return l.s.put(recordKey(KeyMint, mint), m)
}

// ensureTokenAccount opens addr unless it already exists for the same owner and mint.
func (s *State) ensureTokenAccount(addr, owner, mint types.Address) error {
	l := stateLedger{s: s}
	a, err := l.Account(addr)
	if err != nil {
		return err
	}
	if a == nil {
		_, err = l.OpenAccount(addr, owner, mint)
		return err
	}
	if a.Owner != owner {
		return errors.Wrapf(ErrOwnerMismatch, "token account %s", addr)
	}
	if a.Mint != mint {
		return errors.Wrapf(ErrMintMismatch, "token account %s", addr)
	}
	return nil
}

func (s *State) mintAdmin() (types.Address, error) {
	admin, err := loadRecord[types.Address](s, recordKey(KeyMintAdmin, types.MintAdminAddress()))
	if err != nil || admin == nil {
		return types.Address{}, err
	}
	return *admin, nil
}

func (s *State) CreateMint(signer types.Address, stx *tx.CreateMintTx, now uint64) (event *types.EventCreateMint, err error) {
	s.logger.Debug("apply create mint", "signer", signer, "height", s.header.Height)
	err = s.transact(func() error {
		if err := expectAddress("mint", stx.Mint, types.MintAddress()); err != nil {
			return err
		}
		if err := expectAddress("mint authority", stx.MintAuthority, types.MintAuthorityAddress()); err != nil {
			return err
		}
		if _, err := s.Ledger().CreateMint(stx.Mint, stx.MintAuthority, types.MintDecimals); err != nil {
			return err
		}
		if err := s.put(recordKey(KeyMintAdmin, types.MintAdminAddress()), signer); err != nil {
			return err
		}
		event = &types.EventCreateMint{Mint: stx.Mint, MintAuthority: stx.MintAuthority, Admin: signer}
		return nil
	})
	return
}

func (s *State) TransferTokens(signer types.Address, stx *tx.TransferTx, now uint64) (event *types.EventTransfer, err error) {
	s.logger.Debug("apply transfer", "signer", signer, "amount", stx.Amount, "height", s.header.Height)
	err = s.transact(func() error {
		l := s.Ledger()
		from, err := l.Account(stx.From)
		if err != nil {
			return err
		}
		if from == nil {
			return errors.Wrapf(ErrAccountNotInitialized, "token account %s", stx.From)
		}
		if from.Owner != signer {
			return errors.Wrapf(ErrUnauthorized, "token account %s", stx.From)
		}
		to, err := l.Account(stx.To)
		if err != nil {
			return err
		}
		if to == nil {
			if stx.Recipient.IsZero() || stx.To != types.TokenAccountAddress(stx.Recipient, from.Mint) {
				return errors.Wrapf(ErrAccountNotInitialized, "token account %s", stx.To)
			}
			if _, err = l.OpenAccount(stx.To, stx.Recipient, from.Mint); err != nil {
				return err
			}
		}
		if err = l.Transfer(stx.From, stx.To, signer, stx.Amount); err != nil {
			return err
		}
		event = &types.EventTransfer{From: stx.From, To: stx.To, Amount: stx.Amount}
		return nil
	})
	return
}

func (s *State) BurnTokens(signer types.Address, stx *tx.BurnTx, now uint64) (event *types.EventBurn, err error) {
	s.logger.Debug("apply burn", "signer", signer, "amount", stx.Amount, "height", s.header.Height)
	err = s.transact(func() error {
		l := stateLedger{s: s}
		a, err := l.mustAccount(stx.Account)
		if err != nil {
			return err
		}
		if _, err = l.mustMint(stx.Mint); err != nil {
			return err
		}
		if a.Mint != stx.Mint {
			return errors.Wrapf(ErrMintMismatch, "token account %s", stx.Account)
		}
		if err = l.Burn(stx.Account, signer, stx.Amount); err != nil {
			return err
		}
		event = &types.EventBurn{Account: stx.Account, Mint: stx.Mint, Amount: stx.Amount}
		return nil
	})
	return
}

func (s *State) ReassignMintAuthority(signer types.Address, stx *tx.ReassignMintAuthorityTx, now uint64) (event *types.EventReassignMintAuthority, err error) {
	s.logger.Debug("apply reassign mint authority", "signer", signer, "height", s.header.Height)
	err = s.transact(func() error {
		if err := expectAddress("mint", stx.Mint, types.MintAddress()); err != nil {
			return err
		}
		l := stateLedger{s: s}
		m, err := l.mustMint(stx.Mint)
		if err != nil {
			return err
		}
		if stx.MintAuthority != m.MintAuthority {
			return errors.Wrapf(ErrOwnerMismatch, "mint authority %s", stx.MintAuthority)
		}
		if m.MintAuthority == types.MintAuthorityAddress() {
			admin, err := s.mintAdmin()
			if err != nil {
				return err
			}
			if admin != signer {
				return errors.Wrapf(ErrOwnerMismatch, "signer %s is not the mint admin", signer)
			}
		} else if m.MintAuthority != signer {
			return errors.Wrapf(ErrOwnerMismatch, "signer %s is not the mint authority", signer)
		}
		if err = l.SetMintAuthority(stx.Mint, m.MintAuthority, stx.NewAuthority); err != nil {
			return err
		}
		event = &types.EventReassignMintAuthority{Mint: stx.Mint, OldAuthority: m.MintAuthority, NewAuthority: stx.NewAuthority}
		return nil
	})
	return
}
