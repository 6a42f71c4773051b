package nns

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"

	"cryptotx/internal/types"
)

var ErrInvalidAccountIdentifier = errors.New("invalid_account_identifier")

var accountIDDomain = []byte("\x0Aaccount-id")

// AccountIdentifier is the opaque 32-byte NNS address: a CRC32 checksum
// followed by SHA-224(domain || owner || subaccount).
type AccountIdentifier [32]byte

func NewAccountIdentifier(owner types.Principal, sub types.Subaccount) AccountIdentifier {
	h := sha256.New224()
	h.Write(accountIDDomain)
	h.Write(owner.Bytes())
	h.Write(sub[:])
	sum := h.Sum(nil)

	var a AccountIdentifier
	binary.BigEndian.PutUint32(a[:4], crc32.ChecksumIEEE(sum))
	copy(a[4:], sum)
	return a
}

// DefaultAccountIdentifier is the account a user receives on by default.
func DefaultAccountIdentifier(u types.UserID) AccountIdentifier {
	return NewAccountIdentifier(u.Principal(), types.DefaultSubaccount)
}

func AccountIdentifierFromBytes(b []byte) (AccountIdentifier, error) {
	var a AccountIdentifier
	if len(b) != len(a) {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAccountIdentifier, len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAccountIdentifier parses the hex form and verifies the checksum.
func ParseAccountIdentifier(s string) (AccountIdentifier, error) {
	var a AccountIdentifier
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAccountIdentifier, err)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAccountIdentifier, len(a), len(b))
	}
	if binary.BigEndian.Uint32(b[:4]) != crc32.ChecksumIEEE(b[4:]) {
		return a, fmt.Errorf("%w: checksum mismatch", ErrInvalidAccountIdentifier)
	}
	copy(a[:], b)
	return a, nil
}

func (a AccountIdentifier) String() string { return hex.EncodeToString(a[:]) }

func (a AccountIdentifier) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AccountIdentifier) UnmarshalText(b []byte) error {
	v, err := ParseAccountIdentifier(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UserOrAccount is a pending recipient: either a user, resolved to its
// default account at send time, or a raw account identifier.
type UserOrAccount struct {
	isUser  bool
	user    types.UserID
	account AccountIdentifier
}

func ToUser(u types.UserID) UserOrAccount { return UserOrAccount{isUser: true, user: u} }

func ToAccount(a AccountIdentifier) UserOrAccount { return UserOrAccount{account: a} }

func (r UserOrAccount) User() (types.UserID, bool) {
	return r.user, r.isUser
}

func (r UserOrAccount) Account() (AccountIdentifier, bool) {
	return r.account, !r.isUser
}

// AccountIdentifier resolves the recipient to the address the ledger sees.
func (r UserOrAccount) AccountIdentifier() AccountIdentifier {
	if r.isUser {
		return DefaultAccountIdentifier(r.user)
	}
	return r.account
}

func (r UserOrAccount) String() string {
	if r.isUser {
		return "user:" + r.user.String()
	}
	return "account:" + r.account.String()
}

// CryptoAccount is a side of a settled transfer: the minting account or an
// ordinary account.
type CryptoAccount struct {
	mint    bool
	account AccountIdentifier
}

var Mint = CryptoAccount{mint: true}

func Account(a AccountIdentifier) CryptoAccount { return CryptoAccount{account: a} }

func (c CryptoAccount) IsMint() bool { return c.mint }

func (c CryptoAccount) Account() (AccountIdentifier, bool) { return c.account, !c.mint }

func (c CryptoAccount) String() string {
	if c.mint {
		return "mint"
	}
	return c.account.String()
}
