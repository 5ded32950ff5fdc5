package types

import (
	"github.com/holiman/uint256"
)

// BasisPoints is the denominator for spread calculations.
const BasisPoints = 10_000

// DecimalScale returns 10^decimals as a uint256.
func DecimalScale(decimals uint8) *uint256.Int {
	scale := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := uint8(0); i < decimals; i++ {
		scale.Mul(scale, ten)
	}

	return scale
}

// MulDiv computes x * y / d with truncating division, rejecting overflow of
// the intermediate product and division by zero.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}

	product, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrAmountOverflow
	}

	return product.Div(product, d), nil
}

// ApplySpread scales an amount up by the issuance spread:
// amount * (10000 + spreadBps) / 10000, truncating.
func ApplySpread(amount *uint256.Int, spreadBps uint64) (*uint256.Int, error) {
	return MulDiv(amount, uint256.NewInt(BasisPoints+spreadBps), uint256.NewInt(BasisPoints))
}

// MinAmount returns the smaller of two amounts.
func MinAmount(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int).Set(a)
	}

	return new(uint256.Int).Set(b)
}
