package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePrincipal_RoundTrip(t *testing.T) {
	for _, text := range []string{
		"ryjl3-tyaaa-aaaaa-aaaba-cai",
		"mxzaz-hqaaa-aaaar-qaada-cai",
		"aaaaa-aa",
		"2vxsx-fae",
	} {
		p, err := DecodePrincipal(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, p.String())
	}
}

func TestDecodePrincipal_Anonymous(t *testing.T) {
	p := MustDecodePrincipal("2vxsx-fae")
	assert.True(t, p.IsAnonymous())
	assert.Equal(t, AnonymousPrincipal(), p)
}

func TestDecodePrincipal_Rejects(t *testing.T) {
	cases := map[string]string{
		"checksum":  "ryjl3-tyaaa-aaaaa-aaaba-caa",
		"garbage":   "not a principal!",
		"too short": "aaa",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePrincipal(text)
			assert.ErrorIs(t, err, ErrInvalidPrincipal)
		})
	}
}

func TestPrincipalFromBytes_TooLong(t *testing.T) {
	_, err := PrincipalFromBytes(make([]byte, 30))
	assert.ErrorIs(t, err, ErrInvalidPrincipal)
}

func TestPrincipal_TextMarshal(t *testing.T) {
	p := MustPrincipalFromBytes([]byte{1, 2, 3, 4, 5})
	b, err := p.MarshalText()
	require.NoError(t, err)

	var back Principal
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, p, back)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, back.Bytes())
}

func TestUserID_Principal(t *testing.T) {
	p := MustPrincipalFromBytes([]byte{9, 9, 9})
	u := UserIDFromPrincipal(p)
	assert.Equal(t, p, u.Principal())
	assert.Equal(t, p.String(), u.String())
}

func TestSubaccount(t *testing.T) {
	assert.True(t, DefaultSubaccount.IsDefault())

	s := SubaccountFromUint64(1)
	assert.False(t, s.IsDefault())
	assert.Equal(t, byte(1), s[31])

	back, err := ParseSubaccount(s.String())
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = ParseSubaccount("abcd")
	assert.Error(t, err)

	ps := SubaccountFromPrincipal(MustPrincipalFromBytes([]byte{7, 8}))
	assert.Equal(t, byte(2), ps[0])
	assert.Equal(t, byte(7), ps[1])
	assert.Equal(t, byte(8), ps[2])
}

func TestTransactionHash_Text(t *testing.T) {
	var h TransactionHash
	assert.True(t, h.IsZero())
	h[0] = 0xab
	b, err := h.MarshalText()
	require.NoError(t, err)

	var back TransactionHash
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, h, back)
	assert.Error(t, back.UnmarshalText([]byte("00")))
}
