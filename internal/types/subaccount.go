package types

import (
	"encoding/hex"
	"fmt"
)

type Subaccount [32]byte

// DefaultSubaccount is the all-zero subaccount. An absent subaccount means
// the same thing.
var DefaultSubaccount Subaccount

func (s Subaccount) IsDefault() bool { return s == DefaultSubaccount }

// SubaccountFromPrincipal derives a per-principal subaccount: length byte
// followed by the principal bytes, zero padded.
func SubaccountFromPrincipal(p Principal) Subaccount {
	var s Subaccount
	b := p.Bytes()
	s[0] = byte(len(b))
	copy(s[1:], b)
	return s
}

func SubaccountFromUint64(n uint64) Subaccount {
	var s Subaccount
	for i := 0; i < 8; i++ {
		s[31-i] = byte(n >> (8 * i))
	}
	return s
}

func (s Subaccount) String() string { return hex.EncodeToString(s[:]) }

func ParseSubaccount(h string) (Subaccount, error) {
	var s Subaccount
	b, err := hex.DecodeString(h)
	if err != nil {
		return s, fmt.Errorf("subaccount: %w", err)
	}
	if len(b) != len(s) {
		return s, fmt.Errorf("subaccount: want %d bytes, got %d", len(s), len(b))
	}
	copy(s[:], b)
	return s, nil
}
