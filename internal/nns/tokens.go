package nns

import (
	"fmt"

	"lukechampine.com/uint128"
)

const e8sPerToken = 100_000_000

// Tokens is an NNS ledger amount: an integer count of e8s (8 fixed decimals).
type Tokens struct {
	e8s uint64
}

func TokensFromE8s(e8s uint64) Tokens { return Tokens{e8s: e8s} }

func (t Tokens) E8s() uint64 { return t.e8s }

// Units widens the amount into the shared smallest-unit space.
func (t Tokens) Units() uint128.Uint128 { return uint128.From64(t.e8s) }

func (t Tokens) String() string {
	return fmt.Sprintf("%d.%08d", t.e8s/e8sPerToken, t.e8s%e8sPerToken)
}

// Memo is the NNS numeric memo tag.
type Memo uint64

// BlockIndex is the NNS ledger height of a committed transfer.
type BlockIndex uint64
