// Package crypto holds the ed25519 key that signs audit checkpoints.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const algoEd25519 = "ed25519"

var ErrBadKeyFile = errors.New("crypto: bad key file")

type keyFile struct {
	Algo string `json:"algo"`
	Priv string `json:"priv_hex"`
	Pub  string `json:"pub_hex"`
}

// LoadOrCreate reads the key at path, or generates and writes a new one
// (mode 0600) when the file does not exist. A corrupt file is an error,
// never silently replaced.
func LoadOrCreate(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		return decode(b)
	case !errors.Is(err, os.ErrNotExist):
		return nil, nil, fmt.Errorf("crypto: read %s: %w", path, err)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	out, err := json.MarshalIndent(keyFile{
		Algo: algoEd25519,
		Priv: hex.EncodeToString(priv),
		Pub:  hex.EncodeToString(pub),
	}, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

func decode(b []byte) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	var kf keyFile
	if err := json.Unmarshal(b, &kf); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBadKeyFile, err)
	}
	if kf.Algo != algoEd25519 {
		return nil, nil, fmt.Errorf("%w: algo %q", ErrBadKeyFile, kf.Algo)
	}
	priv, err1 := hex.DecodeString(kf.Priv)
	pub, err2 := hex.DecodeString(kf.Pub)
	if err1 != nil || err2 != nil || len(priv) != ed25519.PrivateKeySize || len(pub) != ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("%w: key material", ErrBadKeyFile)
	}
	return ed25519.PrivateKey(priv), ed25519.PublicKey(pub), nil
}

func Sign(priv ed25519.PrivateKey, msg []byte) []byte { return ed25519.Sign(priv, msg) }

func Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	return len(pub) == ed25519.PublicKeySize && ed25519.Verify(pub, msg, sig)
}
