//go:build sha256

package codec

import "crypto/sha256"

func hashBytes(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
