package audit

import (
	"encoding/json"
	"errors"

	"cryptotx/internal/codec"
	"cryptotx/internal/tx"

	"github.com/google/uuid"
)

var (
	ErrNotTerminal      = errors.New("audit: only completed or failed transactions are journaled")
	ErrDuplicate        = errors.New("audit: transaction already journaled")
	ErrNotFound         = errors.New("audit: no such entry")
	ErrNothingToCommit  = errors.New("audit: nothing to commit")
	ErrNotCheckpointed  = errors.New("audit: entry not covered by a checkpoint")
	ErrUnsupportedStore = errors.New("audit: unsupported journal version")
)

// Entry is one journaled terminal transaction. Record holds the CBOR
// envelope the fingerprint was computed over.
type Entry struct {
	ID          uuid.UUID         `json:"id"          cbor:"id"`
	Height      uint64            `json:"height"      cbor:"height"`
	Fingerprint codec.Fingerprint `json:"fingerprint" cbor:"fingerprint"`
	State       string            `json:"state"       cbor:"state"`
	Protocol    string            `json:"protocol"    cbor:"protocol"`
	Token       string            `json:"token"       cbor:"token"`
	Units       string            `json:"units"       cbor:"units"`
	Record      []byte            `json:"record"      cbor:"record"`
	TimeUTC     int64             `json:"time_utc"    cbor:"time_utc"`
}

func (e Entry) Transaction() (tx.CryptoTransaction, error) { return codec.DecodeCBOR(e.Record) }

// Checkpoint commits entries FromHeight..ToHeight under a merkle root of
// their fingerprints.
type Checkpoint struct {
	Seq          uint64 `json:"seq"                     cbor:"seq"`
	FromHeight   uint64 `json:"from_height"             cbor:"from_height"`
	ToHeight     uint64 `json:"to_height"               cbor:"to_height"`
	Count        uint64 `json:"count"                   cbor:"count"`
	Root         string `json:"root"                    cbor:"root"`
	TimeUTC      int64  `json:"time_utc"                cbor:"time_utc"`
	SignatureHex string `json:"signature_hex,omitempty" cbor:"signature_hex,omitempty"`
}

// CanonicalBytes is the signed message: every field except the signature.
func (c Checkpoint) CanonicalBytes() []byte {
	c.SignatureHex = ""
	b, _ := json.Marshal(c)
	return b
}

type journalFile struct {
	Version             int          `cbor:"version"`
	Height              uint64       `cbor:"height"`
	LastCommittedHeight uint64       `cbor:"last_committed_height"`
	Entries             []Entry      `cbor:"entries"`
	Checkpoints         []Checkpoint `cbor:"checkpoints"`
}
