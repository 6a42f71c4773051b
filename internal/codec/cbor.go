package codec

import (
	"fmt"

	"cryptotx/internal/tx"

	"github.com/fxamacker/cbor/v2"
)

// Core deterministic encoding: equal values always produce equal bytes,
// which Fingerprint relies on.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

func EncodeCBOR(t tx.CryptoTransaction) ([]byte, error) {
	env, err := toEnvelope(t)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(env)
}

func DecodeCBOR(b []byte) (tx.CryptoTransaction, error) {
	var env envelope
	if err := decMode.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromEnvelope(env)
}

// Marshal and Unmarshal expose the deterministic CBOR modes to packages
// that persist their own structures alongside transactions.
func Marshal(v any) ([]byte, error) { return encMode.Marshal(v) }

func Unmarshal(b []byte, v any) error { return decMode.Unmarshal(b, v) }
