package audit

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cryptotx/internal/codec"
	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/tx"
	"cryptotx/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"lukechampine.com/uint128"
)

var payer = types.MustPrincipalFromBytes([]byte{0x55, 0x01})

func completed(t *testing.T, block uint64) tx.CompletedCryptoTransaction {
	t.Helper()
	p, ok := icrc1.NewPending(token.CKBTC, uint128.From64(1_000+block), icrc1.AccountFromPrincipal(payer), nil, 1)
	require.True(t, ok)
	c, err := tx.PendingICRC1(p).CompleteICRC1(icrc1.AccountFromPrincipal(payer), block)
	require.NoError(t, err)
	return c
}

func failed(t *testing.T) tx.FailedCryptoTransaction {
	t.Helper()
	p := nns.NewPending(nns.TokensFromE8s(0), nns.ToUser(types.UserIDFromPrincipal(payer)), nil, 1)
	f, err := tx.PendingNNS(p).FailNNS(nns.Rejection{ErrorMessage: "insufficient funds"})
	require.NoError(t, err)
	return f
}

func newKey(t *testing.T) (ed25519.PrivateKey, ed25519.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return priv, pub
}

func TestRecord_RejectsPending(t *testing.T) {
	j := NewJournal(nil, nil)
	p := tx.PendingNNS(nns.NewPending(nns.TokensFromE8s(1), nns.ToAccount(nns.AccountIdentifier{}), nil, 1))

	_, err := j.Record(p)
	assert.ErrorIs(t, err, ErrNotTerminal)
	_, err = j.Record(nil)
	assert.ErrorIs(t, err, ErrNotTerminal)
	assert.Equal(t, 0, j.Len())
}

func TestRecord_AndGet(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	j := NewJournal(zap.New(core), nil)

	e, err := j.Record(failed(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.Height)
	assert.Equal(t, "failed", e.State)
	assert.Equal(t, "nns", e.Protocol)
	assert.Equal(t, "ICP", e.Token)
	assert.Equal(t, "0", e.Units)

	got, ok := j.Get(e.Fingerprint)
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)

	back, err := got.Transaction()
	require.NoError(t, err)
	f, ok := back.(tx.FailedCryptoTransaction)
	require.True(t, ok)
	assert.Equal(t, "insufficient funds", f.ErrorMessage())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit: recorded", entry.Message)
	assert.Equal(t, "insufficient funds", entry.ContextMap()["error_message"])
}

func TestRecord_Duplicate(t *testing.T) {
	j := NewJournal(nil, nil)
	c := completed(t, 1)
	_, err := j.Record(c)
	require.NoError(t, err)
	_, err = j.Record(c)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, j.Len())
}

func TestCheckpoint_SignedAndProvable(t *testing.T) {
	priv, pub := newKey(t)
	j := NewJournal(nil, priv)
	j.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	_, err := j.Checkpoint()
	assert.ErrorIs(t, err, ErrNothingToCommit)

	var fps []codec.Fingerprint
	for i := uint64(1); i <= 3; i++ {
		e, err := j.Record(completed(t, i))
		require.NoError(t, err)
		fps = append(fps, e.Fingerprint)
	}
	cp, err := j.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cp.Seq)
	assert.Equal(t, uint64(1), cp.FromHeight)
	assert.Equal(t, uint64(3), cp.ToHeight)
	assert.Equal(t, uint64(3), cp.Count)
	assert.Equal(t, int64(1_700_000_000), cp.TimeUTC)
	assert.True(t, VerifyCheckpoint(pub, cp))

	tampered := cp
	tampered.Root = "00"
	assert.False(t, VerifyCheckpoint(pub, tampered))

	for _, fp := range fps {
		got, path, err := j.Prove(fp)
		require.NoError(t, err)
		assert.Equal(t, cp, got)
		assert.True(t, VerifyInclusion(cp, fp, path))
	}

	e, err := j.Record(failed(t))
	require.NoError(t, err)
	_, _, err = j.Prove(e.Fingerprint)
	assert.ErrorIs(t, err, ErrNotCheckpointed)
	_, _, err = j.Prove(codec.Fingerprint{})
	assert.ErrorIs(t, err, ErrNotFound)

	cp2, err := j.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), cp2.FromHeight)
	assert.Equal(t, uint64(2), cp2.Seq)

	latest, ok := j.LatestCheckpoint()
	require.True(t, ok)
	assert.Equal(t, cp2, latest)
}

func TestCheckpoint_Unsigned(t *testing.T) {
	_, pub := newKey(t)
	j := NewJournal(nil, nil)
	_, err := j.Record(completed(t, 1))
	require.NoError(t, err)
	cp, err := j.Checkpoint()
	require.NoError(t, err)
	assert.Empty(t, cp.SignatureHex)
	assert.False(t, VerifyCheckpoint(pub, cp))
}

func TestSubscribe(t *testing.T) {
	j := NewJournal(nil, nil)
	ch, stop := j.Subscribe()

	e, err := j.Record(completed(t, 9))
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, e.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no entry delivered")
	}

	stop()
	_, open := <-ch
	assert.False(t, open)
	stop()
}

func TestSaveOpen_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.cbor")
	priv, pub := newKey(t)

	j := NewJournal(nil, priv)
	c, err := j.Record(completed(t, 5))
	require.NoError(t, err)
	_, err = j.Record(failed(t))
	require.NoError(t, err)
	cp, err := j.Checkpoint()
	require.NoError(t, err)
	require.NoError(t, j.Save(path))

	back, err := Open(path, nil, priv)
	require.NoError(t, err)
	assert.Equal(t, j.Entries(), back.Entries())
	assert.Equal(t, j.Checkpoints(), back.Checkpoints())
	assert.Equal(t, uint64(2), back.Height())

	got, ok := back.Get(c.Fingerprint)
	require.True(t, ok)
	assert.Equal(t, c.ID, got.ID)

	_, path2, err := back.Prove(c.Fingerprint)
	require.NoError(t, err)
	assert.True(t, VerifyInclusion(cp, c.Fingerprint, path2))
	assert.True(t, VerifyCheckpoint(pub, cp))

	_, err = back.Record(completed(t, 5))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestOpen_Missing(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "none.cbor"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, j.Len())
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cbor")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0x00}, 0o644))
	_, err := Open(path, nil, nil)
	assert.Error(t, err)
}
