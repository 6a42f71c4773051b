package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"cryptotx/internal/audit"
	"cryptotx/internal/codec"
	"cryptotx/internal/config"
	"cryptotx/internal/tx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) (*App, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.DataDir = filepath.Join(dir, "data")
	out := &bytes.Buffer{}
	return New(cfg, nil, out), out, dir
}

func TestRun_Usage(t *testing.T) {
	a, out, _ := testApp(t)
	assert.ErrorIs(t, a.Run(nil), ErrUsage)
	assert.Contains(t, out.String(), "usage:")
	assert.ErrorIs(t, a.Run([]string{"bogus"}), ErrUsage)
	assert.ErrorIs(t, a.Run([]string{"inspect"}), ErrUsage)
}

func TestRun_Version(t *testing.T) {
	a, out, _ := testApp(t)
	require.NoError(t, a.Run([]string{"version"}))
	assert.True(t, strings.HasPrefix(out.String(), "cryptotx "))
}

func TestGen_ICRC1JSON(t *testing.T) {
	a, out, dir := testApp(t)
	file := filepath.Join(dir, "tx.json")
	require.NoError(t, a.Run([]string{"gen", "-token", "CHAT", "-amount", "2", "-outcome", "failed", "-error", "TooOld", "-out", file}))
	assert.Contains(t, out.String(), file)

	got, err := ReadTransaction(file)
	require.NoError(t, err)
	f, ok := got.(tx.FailedCryptoTransaction)
	require.True(t, ok)
	assert.Equal(t, tx.ProtocolICRC1, f.Protocol())
	assert.Equal(t, "TooOld", f.ErrorMessage())
	assert.True(t, f.Units().Equals64(200_000_000))
	assert.True(t, f.Fee().Equals64(100_000))
}

func TestGen_NNSSubaccountRedirect(t *testing.T) {
	a, _, dir := testApp(t)
	file := filepath.Join(dir, "p.cbor")
	require.NoError(t, a.Run([]string{"gen", "-outcome", "pending", "-subaccount",
		"0000000000000000000000000000000000000000000000000000000000000001", "-out", file}))

	got, err := ReadTransaction(file)
	require.NoError(t, err)
	p, ok := got.(tx.PendingCryptoTransaction)
	require.True(t, ok)
	assert.Equal(t, tx.ProtocolNNS, p.Protocol())
	_, ok = p.UserID()
	assert.False(t, ok)
}

func TestGen_Errors(t *testing.T) {
	a, _, dir := testApp(t)
	out := filepath.Join(dir, "x.cbor")
	assert.Error(t, a.Run([]string{"gen", "-token", "DOGE", "-out", out}))
	assert.ErrorIs(t, a.Run([]string{"gen", "-outcome", "lost", "-out", out}), ErrUsage)
	assert.Error(t, a.Run([]string{"gen", "-to", "nope", "-out", out}))
}

func TestInspect(t *testing.T) {
	a, out, dir := testApp(t)
	file := filepath.Join(dir, "c.cbor")
	require.NoError(t, a.Run([]string{"gen", "-token", "ckBTC", "-amount", "0.5", "-block", "77", "-out", file}))
	out.Reset()

	require.NoError(t, a.Run([]string{"inspect", file}))
	s := out.String()
	assert.Contains(t, s, "completed icrc1 0.5 ckBTC")
	assert.Contains(t, s, "block_index: 77")
	assert.Contains(t, s, "fingerprint: ")
}

func TestRecordCheckpointProve(t *testing.T) {
	a, out, dir := testApp(t)
	c := filepath.Join(dir, "c.cbor")
	f := filepath.Join(dir, "f.json")
	p := filepath.Join(dir, "p.cbor")
	require.NoError(t, a.Run([]string{"gen", "-block", "5", "-out", c}))
	require.NoError(t, a.Run([]string{"gen", "-outcome", "failed", "-out", f}))
	require.NoError(t, a.Run([]string{"gen", "-outcome", "pending", "-out", p}))

	assert.ErrorIs(t, a.Run([]string{"record", p}), audit.ErrNotTerminal)
	require.NoError(t, a.Run([]string{"record", c, f}))
	assert.ErrorIs(t, a.Run([]string{"record", c}), audit.ErrDuplicate)

	out.Reset()
	require.NoError(t, a.Run([]string{"checkpoint"}))
	assert.Contains(t, out.String(), "checkpoint 1 heights 1..2")
	assert.ErrorIs(t, a.Run([]string{"checkpoint"}), audit.ErrNothingToCommit)

	got, err := ReadTransaction(c)
	require.NoError(t, err)
	fp, err := codec.FingerprintOf(got)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, a.Run([]string{"prove", fp.String()}))
	assert.Contains(t, out.String(), "checkpoint 1 root ")
	assert.Contains(t, out.String(), "0 right ")
}
