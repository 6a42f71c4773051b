package merkle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaves(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte(fmt.Sprintf("entry-%d", i))
	}
	return out
}

func TestRoot_Empty(t *testing.T) {
	assert.Equal(t, emptyRoot(), Root(nil))
}

func TestRoot_SingleLeafIsLeafHash(t *testing.T) {
	l := []byte("only")
	assert.Equal(t, leafHash(l), Root([][]byte{l}))
}

func TestRoot_OrderMatters(t *testing.T) {
	a := leaves(2)
	b := [][]byte{a[1], a[0]}
	assert.NotEqual(t, Root(a), Root(b))
}

func TestProof_VerifiesEveryLeaf(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 13} {
		ls := leaves(n)
		root := Root(ls)
		for i := range ls {
			path, ok := Proof(ls, i)
			require.True(t, ok)
			assert.True(t, Verify(root, ls[i], path), "n=%d i=%d", n, i)
			assert.False(t, Verify(root, []byte("forged"), path), "n=%d i=%d", n, i)
		}
	}
}

func TestProof_OutOfRange(t *testing.T) {
	_, ok := Proof(leaves(3), 3)
	assert.False(t, ok)
	_, ok = Proof(leaves(3), -1)
	assert.False(t, ok)
}
