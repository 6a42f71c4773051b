package types

import (
	"encoding/hex"
	"fmt"
	"time"
)

// TimestampNanos is nanoseconds since the Unix epoch.
type TimestampNanos uint64

func Now() TimestampNanos { return TimestampNanos(time.Now().UTC().UnixNano()) }

func (t TimestampNanos) Time() time.Time { return time.Unix(0, int64(t)).UTC() }

// TransactionHash is the ledger's hash of a committed NNS transfer.
type TransactionHash [32]byte

func (h TransactionHash) IsZero() bool { return h == TransactionHash{} }

func (h TransactionHash) String() string { return hex.EncodeToString(h[:]) }

func (h TransactionHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *TransactionHash) UnmarshalText(b []byte) error {
	d, err := hex.DecodeString(string(b))
	if err != nil {
		return fmt.Errorf("transaction hash: %w", err)
	}
	if len(d) != len(h) {
		return fmt.Errorf("transaction hash: want %d bytes, got %d", len(h), len(d))
	}
	copy(h[:], d)
	return nil
}
