package token

import (
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

// Format renders an amount of smallest units as a decimal string with the
// token's symbol, e.g. "1.5 ICP". Other tokens have no known decimals and
// print raw units.
func (c Cryptocurrency) Format(units uint128.Uint128) string {
	d := decimal.NewFromBigInt(units.Big(), 0)
	if decimals, ok := c.Decimals(); ok {
		d = decimal.NewFromBigInt(units.Big(), -int32(decimals))
	}
	if c.Symbol() == "" {
		return d.String()
	}
	return d.String() + " " + c.Symbol()
}

// Parse is the inverse of Format's numeric part: it converts a decimal
// amount such as "0.0001" into smallest units.
func (c Cryptocurrency) Parse(amount string) (uint128.Uint128, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return uint128.Zero, err
	}
	if decimals, ok := c.Decimals(); ok {
		d = d.Shift(int32(decimals))
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return uint128.Zero, ErrBadAmount
	}
	b := d.BigInt()
	if b.BitLen() > 128 {
		return uint128.Zero, ErrBadAmount
	}
	return uint128.FromBig(b), nil
}
