package state

import (
	"github.com/calehh/valreg-app/tx"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("not found")

	ErrAlreadyInitialized    = errors.New("account already initialized")
	ErrAccountNotInitialized = errors.New("account not initialized")
	ErrProfileRequired       = errors.New("profile required")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrOwnerMismatch         = errors.New("owner does not match")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrStakeLocked           = errors.New("stake is locked")
	ErrNothingStaked         = errors.New("nothing staked")
	ErrProposalExpired       = errors.New("proposal expired")
	ErrOverflow              = errors.New("arithmetic overflow")
	ErrDuplicateVote         = errors.New("duplicate vote: address already in use")

	ErrAddressMismatch   = errors.New("address mismatch")
	ErrMintMismatch      = errors.New("mint mismatch")
	ErrAlreadyStaked     = errors.New("already staked")
	ErrZeroAmount        = errors.New("amount must be greater than zero")
	ErrInvalidDeadline   = errors.New("deadline must be in the future")
	ErrNameTooLong       = errors.New("name too long")
	ErrNoRewardAvailable = errors.New("no reward available")
	ErrTxNonceInvalid    = errors.New("nonce invalid")
	ErrTxSigInvalid      = errors.New("signature invalid")
)

const (
	CodeOK      uint32 = 0
	CodeGeneric uint32 = 1
)

var errCodes = []struct {
	err  error
	code uint32
}{
	{ErrAlreadyInitialized, 2},
	{ErrAccountNotInitialized, 3},
	{ErrProfileRequired, 4},
	{ErrUnauthorized, 5},
	{ErrOwnerMismatch, 6},
	{ErrInsufficientFunds, 7},
	{ErrStakeLocked, 8},
	{ErrNothingStaked, 9},
	{ErrProposalExpired, 10},
	{ErrOverflow, 11},
	{ErrDuplicateVote, 12},
	{ErrAddressMismatch, 13},
	{ErrMintMismatch, 14},
	{ErrAlreadyStaked, 15},
	{ErrZeroAmount, 16},
	{ErrInvalidDeadline, 17},
	{ErrNameTooLong, 18},
	{ErrNoRewardAvailable, 19},
	{ErrTxNonceInvalid, 20},
	{ErrTxSigInvalid, 21},
	{tx.ErrUnsupportedTxType, 22},
	{tx.ErrInvalidTx, 23},
	{tx.ErrUnsupportedTxVersion, 24},
	{tx.ErrInvalidSigner, 25},
}

// ErrorCode maps an operation error to the abci response code reported to clients.
func ErrorCode(err error) uint32 {
	if err == nil {
		return CodeOK
	}
	for _, c := range errCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeGeneric
}

// CodeError returns the sentinel registered for code, if any.
func CodeError(code uint32) error {
	for _, c := range errCodes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
