package codec

import (
	"encoding/hex"
	"fmt"

	"cryptotx/internal/tx"
)

// Fingerprint is the content hash of t's deterministic CBOR encoding.
// Audit storage keys entries by it.
type Fingerprint [32]byte

func FingerprintOf(t tx.CryptoTransaction) (Fingerprint, error) {
	b, err := EncodeCBOR(t)
	if err != nil {
		return Fingerprint{}, err
	}
	var fp Fingerprint
	copy(fp[:], hashBytes(b))
	return fp, nil
}

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

func (f Fingerprint) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Fingerprint) UnmarshalText(b []byte) error {
	v, err := ParseFingerprint(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(f) {
		return f, fmt.Errorf("%w: fingerprint %q", ErrMalformed, s)
	}
	copy(f[:], b)
	return f, nil
}
