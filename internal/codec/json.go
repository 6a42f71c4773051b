package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cryptotx/internal/tx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func EncodeJSON(t tx.CryptoTransaction) ([]byte, error) {
	env, err := toEnvelope(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// DecodeJSON strips a leading UTF-8 BOM before parsing.
func DecodeJSON(b []byte) (tx.CryptoTransaction, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromEnvelope(env)
}
