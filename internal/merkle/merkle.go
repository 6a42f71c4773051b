// Package merkle commits to an ordered list of audit leaves.
package merkle

import (
	"bytes"
	"crypto/sha256"
)

// Leaf = H(0x00 || data), Inner = H(0x01 || L || R). An odd node at any
// level is paired with itself.
func leafHash(b []byte) []byte {
	s := sha256.Sum256(append([]byte{0x00}, b...))
	return s[:]
}

func innerHash(l, r []byte) []byte {
	buf := make([]byte, 1+len(l)+len(r))
	buf[0] = 0x01
	copy(buf[1:], l)
	copy(buf[1+len(l):], r)
	s := sha256.Sum256(buf)
	return s[:]
}

func emptyRoot() []byte {
	z := sha256.Sum256([]byte{0x00})
	return z[:]
}

func levelUp(level [][]byte) [][]byte {
	if len(level)%2 == 1 {
		level = append(level, level[len(level)-1])
	}
	next := make([][]byte, len(level)/2)
	for i := 0; i < len(level); i += 2 {
		next[i/2] = innerHash(level[i], level[i+1])
	}
	return next
}

func leafLevel(leaves [][]byte) [][]byte {
	level := make([][]byte, len(leaves))
	for i, l := range leaves {
		level[i] = leafHash(l)
	}
	return level
}

func Root(leaves [][]byte) []byte {
	if len(leaves) == 0 {
		return emptyRoot()
	}
	level := leafLevel(leaves)
	for len(level) > 1 {
		level = levelUp(level)
	}
	return level[0]
}

// Step is one sibling on the path from a leaf to the root.
type Step struct {
	Sibling []byte `json:"sibling" cbor:"sibling"`
	Left    bool   `json:"left"    cbor:"left"` // sibling sits on the left
}

// Proof returns the inclusion path of leaves[i]. ok is false when i is out
// of range.
func Proof(leaves [][]byte, i int) (path []Step, ok bool) {
	if i < 0 || i >= len(leaves) {
		return nil, false
	}
	level := leafLevel(leaves)
	for len(level) > 1 {
		sib := i ^ 1
		if sib >= len(level) {
			sib = i
		}
		path = append(path, Step{Sibling: level[sib], Left: sib < i})
		level = levelUp(level)
		i /= 2
	}
	return path, true
}

// Verify checks that leaf is committed under root via path.
func Verify(root, leaf []byte, path []Step) bool {
	h := leafHash(leaf)
	for _, s := range path {
		if s.Left {
			h = innerHash(s.Sibling, h)
		} else {
			h = innerHash(h, s.Sibling)
		}
	}
	return bytes.Equal(h, root)
}
