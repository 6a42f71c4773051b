package codec

import (
	"math/big"
	"testing"

	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/tx"
	"cryptotx/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

var (
	owner = types.MustPrincipalFromBytes([]byte{0x42, 0x42, 0x01})
	other = types.MustPrincipalFromBytes([]byte{0x43})
)

func samples(t *testing.T) map[string]tx.CryptoTransaction {
	t.Helper()
	memo := nns.Memo(7)
	fee := nns.TokensFromE8s(20_000)
	np := nns.NewPending(nns.TokensFromE8s(1_000), nns.ToUser(types.UserIDFromPrincipal(owner)), &memo, 1_700_000_000_000)
	np.Fee = &fee
	nPending := tx.PendingNNS(np)

	nAccount := tx.PendingNNS(nns.NewPending(nns.TokensFromE8s(5), nns.ToAccount(nns.NewAccountIdentifier(owner, types.SubaccountFromUint64(2))), nil, 3))

	nCompleted, err := nPending.CompleteNNS(nns.Receipt{
		From:            nns.NewAccountIdentifier(other, types.DefaultSubaccount),
		TransactionHash: types.TransactionHash{1, 2, 3},
		BlockIndex:      9_000,
	})
	require.NoError(t, err)
	nFailed, err := nPending.FailNNS(nns.Rejection{ErrorMessage: "insufficient funds"})
	require.NoError(t, err)

	ip, ok := icrc1.NewPending(token.CHAT, uint128.New(5, 1), icrc1.NewAccount(owner, types.SubaccountFromUint64(1)), icrc1.MemoFromUint64(77), 11)
	require.True(t, ok)
	iPending := tx.PendingICRC1(ip)
	iCompleted, err := iPending.CompleteICRC1(icrc1.AccountFromPrincipal(other), 1<<40)
	require.NoError(t, err)
	iFailed, err := iPending.FailICRC1(icrc1.AccountFromPrincipal(other), (&icrc1.TransferError{Kind: icrc1.TooOld}).Error())
	require.NoError(t, err)

	mint := tx.CompletedICRC1(icrc1.CompletedCryptoTransaction{
		Ledger: ip.Ledger, Token: token.Other("NEW"), Amount: uint128.From64(1),
		From: icrc1.Mint, To: icrc1.ToAccount(icrc1.AccountFromPrincipal(owner)), BlockIndex: 1,
	})

	return map[string]tx.CryptoTransaction{
		"nns pending user":    nPending,
		"nns pending account": nAccount,
		"nns completed":       nCompleted,
		"nns failed":          nFailed,
		"icrc1 pending":       iPending,
		"icrc1 completed":     iCompleted,
		"icrc1 failed":        iFailed,
		"icrc1 mint":          mint,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, want := range samples(t) {
		t.Run(name, func(t *testing.T) {
			b, err := EncodeJSON(want)
			require.NoError(t, err)
			got, err := DecodeJSON(b)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			b, err = EncodeCBOR(want)
			require.NoError(t, err)
			got, err = DecodeCBOR(b)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEncode_PointerPending(t *testing.T) {
	p := samples(t)["icrc1 pending"].(tx.PendingCryptoTransaction)
	p.SetRecipient(other, types.DefaultSubaccount)

	b, err := EncodeCBOR(&p)
	require.NoError(t, err)
	got, err := DecodeCBOR(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeJSON_StripsBOM(t *testing.T) {
	b, err := EncodeJSON(samples(t)["nns failed"])
	require.NoError(t, err)
	got, err := DecodeJSON(append([]byte{0xEF, 0xBB, 0xBF}, b...))
	require.NoError(t, err)
	f, ok := got.(tx.FailedCryptoTransaction)
	require.True(t, ok)
	assert.Equal(t, "insufficient funds", f.ErrorMessage())
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"garbage":      {`{`, ErrMalformed},
		"version":      {`{"version":2,"state":"pending","protocol":"nns"}`, ErrMalformed},
		"protocol":     {`{"version":1,"state":"pending","protocol":"erc20"}`, ErrUnknownProtocol},
		"state":        {`{"version":1,"state":"lost","protocol":"nns","nns":{"ledger":"ryjl3-tyaaa-aaaaa-aaaba-cai","token":"ICP","amount_e8s":1,"created":1}}`, ErrUnknownState},
		"missing nns":  {`{"version":1,"state":"pending","protocol":"nns"}`, ErrMalformed},
		"bad ledger":   {`{"version":1,"state":"pending","protocol":"icrc1","icrc1":{"ledger":"xx","token":"CHAT","amount":1,"fee":1,"to":{},"created":1}}`, ErrMalformed},
		"amount range": {`{"version":1,"state":"pending","protocol":"icrc1","icrc1":{"ledger":"2ouva-viaaa-aaaaq-aaamq-cai","token":"CHAT","amount":340282366920938463463374607431768211456,"fee":1,"to":{"owner":"aaaaa-aa"},"created":1}}`, ErrMalformed},
		"no block":     {`{"version":1,"state":"completed","protocol":"icrc1","icrc1":{"ledger":"2ouva-viaaa-aaaaq-aaamq-cai","token":"CHAT","amount":1,"fee":1,"from":{"mint":true},"to":{"owner":"aaaaa-aa"},"created":1}}`, ErrMalformed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tc.body))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecode_AmountOverflowIsNarrowingError(t *testing.T) {
	body := `{"version":1,"state":"pending","protocol":"icrc1","icrc1":{"ledger":"2ouva-viaaa-aaaaq-aaamq-cai","token":"CHAT","amount":340282366920938463463374607431768211456,"fee":1,"to":{"owner":"aaaaa-aa"},"created":1}}`
	_, err := DecodeJSON([]byte(body))
	assert.ErrorIs(t, err, icrc1.ErrAmountOverflow)
}

func TestDecodeCBOR_BlockIndexOverflow(t *testing.T) {
	ledger, _ := token.CHAT.LedgerCanisterID()
	env := envelope{
		Version:  envelopeVersion,
		State:    tx.StateCompleted.String(),
		Protocol: tx.ProtocolICRC1.String(),
		ICRC1: &icrc1Record{
			Ledger:     ledger.String(),
			Token:      "CHAT",
			Amount:     big.NewInt(1),
			Fee:        big.NewInt(1),
			From:       &icrc1Account{Mint: true},
			To:         icrc1Account{Owner: owner.String()},
			BlockIndex: new(big.Int).Lsh(big.NewInt(1), 64),
		},
	}
	b, err := Marshal(env)
	require.NoError(t, err)
	_, err = DecodeCBOR(b)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, icrc1.ErrBlockIndexOverflow)
}

func TestEncode_Nil(t *testing.T) {
	_, err := EncodeJSON(nil)
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestFingerprint(t *testing.T) {
	s := samples(t)
	a, err := FingerprintOf(s["icrc1 completed"])
	require.NoError(t, err)
	b, err := FingerprintOf(s["icrc1 completed"])
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := FingerprintOf(s["icrc1 failed"])
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	back, err := ParseFingerprint(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, back)

	_, err = ParseFingerprint("abc")
	assert.ErrorIs(t, err, ErrMalformed)
}
