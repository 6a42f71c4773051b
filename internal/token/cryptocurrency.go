// Package token is the compiled-in registry of supported currencies.
package token

import (
	"strings"

	"cryptotx/internal/types"

	"lukechampine.com/uint128"
)

// ICPFee is the protocol-fixed transfer fee of the NNS ledger, in e8s.
const ICPFee uint64 = 10_000

type kind uint8

const (
	kindOther kind = iota
	kindInternetComputer
	kindSNS1
	kindCKBTC
	kindCHAT
	kindKINIC
)

// Cryptocurrency identifies a token. Known tokens come from the registry
// below; anything else is carried as Other(symbol).
type Cryptocurrency struct {
	k     kind
	other string
}

var (
	InternetComputer = Cryptocurrency{k: kindInternetComputer}
	SNS1             = Cryptocurrency{k: kindSNS1}
	CKBTC            = Cryptocurrency{k: kindCKBTC}
	CHAT             = Cryptocurrency{k: kindCHAT}
	KINIC            = Cryptocurrency{k: kindKINIC}
)

func Other(symbol string) Cryptocurrency { return Cryptocurrency{k: kindOther, other: symbol} }

type entry struct {
	symbol   string
	decimals uint8
	fee      uint64
	ledger   types.CanisterID
}

var registry = map[kind]entry{
	kindInternetComputer: {"ICP", 8, ICPFee, types.MustDecodePrincipal("ryjl3-tyaaa-aaaaa-aaaba-cai")},
	kindSNS1:             {"SNS1", 8, 1_000, types.MustDecodePrincipal("zfcdd-tqaaa-aaaaq-aaaga-cai")},
	kindCKBTC:            {"ckBTC", 8, 10, types.MustDecodePrincipal("mxzaz-hqaaa-aaaar-qaada-cai")},
	kindCHAT:             {"CHAT", 8, 100_000, types.MustDecodePrincipal("2ouva-viaaa-aaaaq-aaamq-cai")},
	kindKINIC:            {"KINIC", 8, 100_000, types.MustDecodePrincipal("73mez-iiaaa-aaaaq-aaasq-cai")},
}

// All returns the known tokens in registry order.
func All() []Cryptocurrency {
	return []Cryptocurrency{InternetComputer, SNS1, CKBTC, CHAT, KINIC}
}

// FromSymbol maps a symbol to its registry entry, falling back to Other.
func FromSymbol(symbol string) Cryptocurrency {
	for _, c := range All() {
		if c.Symbol() == symbol {
			return c
		}
	}
	return Other(symbol)
}

func (c Cryptocurrency) IsOther() bool { return c.k == kindOther }

func (c Cryptocurrency) Symbol() string {
	if e, ok := registry[c.k]; ok {
		return e.symbol
	}
	return c.other
}

func (c Cryptocurrency) Decimals() (uint8, bool) {
	e, ok := registry[c.k]
	return e.decimals, ok
}

func (c Cryptocurrency) Fee() (uint128.Uint128, bool) {
	e, ok := registry[c.k]
	if !ok {
		return uint128.Zero, false
	}
	return uint128.From64(e.fee), true
}

func (c Cryptocurrency) LedgerCanisterID() (types.CanisterID, bool) {
	e, ok := registry[c.k]
	return e.ledger, ok
}

func (c Cryptocurrency) String() string { return c.Symbol() }

// Text form is the symbol; Other tokens whose name collides with a known
// symbol are prefixed so they survive a round trip.
const otherPrefix = "other:"

func (c Cryptocurrency) MarshalText() ([]byte, error) {
	if c.IsOther() && (FromSymbol(c.other) != c || strings.HasPrefix(c.other, otherPrefix)) {
		return []byte(otherPrefix + c.other), nil
	}
	return []byte(c.Symbol()), nil
}

func (c *Cryptocurrency) UnmarshalText(b []byte) error {
	s := string(b)
	if rest, ok := strings.CutPrefix(s, otherPrefix); ok {
		*c = Other(rest)
		return nil
	}
	*c = FromSymbol(s)
	return nil
}
