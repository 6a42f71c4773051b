package icrc1

import (
	"encoding/binary"
	"encoding/hex"
)

// Memo is an arbitrary byte string attached to a transfer.
type Memo []byte

// MemoFromUint64 encodes n as 8 big-endian bytes.
func MemoFromUint64(n uint64) Memo {
	m := make(Memo, 8)
	binary.BigEndian.PutUint64(m, n)
	return m
}

func MemoFromBytes(b []byte) Memo { return append(Memo(nil), b...) }

// Uint64 decodes a memo built by MemoFromUint64.
func (m Memo) Uint64() (uint64, bool) {
	if len(m) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(m), true
}

func (m Memo) String() string { return hex.EncodeToString(m) }
