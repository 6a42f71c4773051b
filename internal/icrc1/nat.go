package icrc1

import (
	"errors"
	"fmt"
	"math/big"

	"lukechampine.com/uint128"
)

var (
	ErrNegative           = errors.New("icrc1: negative nat")
	ErrAmountOverflow     = errors.New("icrc1: amount exceeds 128 bits")
	ErrBlockIndexOverflow = errors.New("icrc1: block index exceeds 64 bits")
)

// NumTokens and BlockIndex are arbitrary-precision on the wire.
type (
	NumTokens  = *big.Int
	BlockIndex = *big.Int
)

// NarrowAmount converts a wire amount into the in-memory 128-bit form.
func NarrowAmount(n NumTokens) (uint128.Uint128, error) {
	if n == nil {
		return uint128.Zero, nil
	}
	if n.Sign() < 0 {
		return uint128.Zero, fmt.Errorf("%w: %s", ErrNegative, n)
	}
	if n.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("%w: %s", ErrAmountOverflow, n)
	}
	return uint128.FromBig(n), nil
}

// NarrowBlockIndex converts a wire block index into uint64.
func NarrowBlockIndex(n BlockIndex) (uint64, error) {
	if n == nil {
		return 0, nil
	}
	if n.Sign() < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegative, n)
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrBlockIndexOverflow, n)
	}
	return n.Uint64(), nil
}

func WidenAmount(u uint128.Uint128) NumTokens { return u.Big() }

func WidenBlockIndex(i uint64) BlockIndex { return new(big.Int).SetUint64(i) }
