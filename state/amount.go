package state

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

func addAmount(a, b uint64) (uint64, error) {
	z, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if overflow || !z.IsUint64() {
		return 0, errors.Wrapf(ErrOverflow, "%d + %d", a, b)
	}
	return z.Uint64(), nil
}

func subAmount(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(ErrInsufficientFunds, "need %d have %d", b, a)
	}
	return a - b, nil
}

// accrued is elapsed*rate capped at limit. The product is taken in 256 bits.
func accrued(elapsed, rate, limit uint64) (uint64, error) {
	z, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(elapsed), uint256.NewInt(rate))
	if overflow {
		return 0, errors.Wrapf(ErrOverflow, "%d * %d", elapsed, rate)
	}
	if z.GtUint64(limit) {
		return limit, nil
	}
	return z.Uint64(), nil
}
