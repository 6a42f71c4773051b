package types

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

const (
	maxPrincipalLen = 29
	checksumLen     = 4
)

var ErrInvalidPrincipal = errors.New("invalid_principal")

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is an opaque actor or service identifier. The zero value is the
// management principal (no bytes). Principals compare with ==.
type Principal struct {
	raw string
}

// CanisterID addresses a service such as a ledger.
type CanisterID = Principal

var anonymousBytes = []byte{0x04}

func PrincipalFromBytes(b []byte) (Principal, error) {
	if len(b) > maxPrincipalLen {
		return Principal{}, fmt.Errorf("%w: %d bytes", ErrInvalidPrincipal, len(b))
	}
	return Principal{raw: string(b)}, nil
}

func MustPrincipalFromBytes(b []byte) Principal {
	p, err := PrincipalFromBytes(b)
	if err != nil {
		panic(err)
	}
	return p
}

func AnonymousPrincipal() Principal { return Principal{raw: string(anonymousBytes)} }

// DecodePrincipal parses the dashed base32 text form, checking the CRC32 prefix.
func DecodePrincipal(s string) (Principal, error) {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	b, err := principalEncoding.DecodeString(compact)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %q: %v", ErrInvalidPrincipal, s, err)
	}
	if len(b) < checksumLen {
		return Principal{}, fmt.Errorf("%w: %q: too short", ErrInvalidPrincipal, s)
	}
	raw := b[checksumLen:]
	if binary.BigEndian.Uint32(b[:checksumLen]) != crc32.ChecksumIEEE(raw) {
		return Principal{}, fmt.Errorf("%w: %q: checksum mismatch", ErrInvalidPrincipal, s)
	}
	p, err := PrincipalFromBytes(raw)
	if err != nil {
		return Principal{}, err
	}
	if p.String() != strings.ToLower(strings.TrimSpace(s)) {
		return Principal{}, fmt.Errorf("%w: %q: not canonical", ErrInvalidPrincipal, s)
	}
	return p, nil
}

func MustDecodePrincipal(s string) Principal {
	p, err := DecodePrincipal(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Principal) Bytes() []byte { return []byte(p.raw) }

func (p Principal) Len() int { return len(p.raw) }

func (p Principal) IsAnonymous() bool { return p.raw == string(anonymousBytes) }

func (p Principal) String() string {
	buf := make([]byte, checksumLen+len(p.raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE([]byte(p.raw)))
	copy(buf[checksumLen:], p.raw)
	enc := strings.ToLower(principalEncoding.EncodeToString(buf))

	var sb strings.Builder
	for i := 0; i < len(enc); i += 5 {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + 5
		if end > len(enc) {
			end = len(enc)
		}
		sb.WriteString(enc[i:end])
	}
	return sb.String()
}

func (p Principal) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Principal) UnmarshalText(b []byte) error {
	v, err := DecodePrincipal(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// UserID is a user identity. Every user is backed by a principal of the
// same bytes, so conversions in both directions are lossless.
type UserID struct {
	p Principal
}

func UserIDFromPrincipal(p Principal) UserID { return UserID{p: p} }

func (u UserID) Principal() Principal { return u.p }

func (u UserID) String() string { return u.p.String() }

func (u UserID) MarshalText() ([]byte, error) { return u.p.MarshalText() }

func (u *UserID) UnmarshalText(b []byte) error { return u.p.UnmarshalText(b) }
