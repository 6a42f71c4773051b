// Package audit journals terminal transactions for later inspection and
// commits them in signed, merkle-rooted checkpoints.
package audit

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cryptotx/internal/codec"
	mycrypto "cryptotx/internal/crypto"
	"cryptotx/internal/logging"
	"cryptotx/internal/merkle"
	"cryptotx/internal/tx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const journalVersion = 1

type Journal struct {
	mu      sync.Mutex
	log     *zap.Logger
	priv    ed25519.PrivateKey
	now     func() time.Time
	entries []Entry
	byFP    map[codec.Fingerprint]int

	height              uint64
	lastCommittedHeight uint64
	checkpoints         []Checkpoint

	subs map[chan Entry]struct{}
}

// NewJournal returns an empty journal. priv may be nil, in which case
// checkpoints are left unsigned.
func NewJournal(log *zap.Logger, priv ed25519.PrivateKey) *Journal {
	return &Journal{
		log:  logging.OrNop(log),
		priv: priv,
		now:  func() time.Time { return time.Now().UTC() },
		byFP: make(map[codec.Fingerprint]int),
		subs: make(map[chan Entry]struct{}),
	}
}

// Record appends a completed or failed transaction.
func (j *Journal) Record(t tx.CryptoTransaction) (Entry, error) {
	if t == nil || t.State() == tx.StatePending {
		return Entry{}, ErrNotTerminal
	}
	rec, err := codec.EncodeCBOR(t)
	if err != nil {
		return Entry{}, err
	}
	fp, err := codec.FingerprintOf(t)
	if err != nil {
		return Entry{}, err
	}

	j.mu.Lock()
	if _, ok := j.byFP[fp]; ok {
		j.mu.Unlock()
		return Entry{}, fmt.Errorf("%w: %s", ErrDuplicate, fp)
	}
	j.height++
	e := Entry{
		ID:          uuid.New(),
		Height:      j.height,
		Fingerprint: fp,
		State:       t.State().String(),
		Protocol:    t.Protocol().String(),
		Token:       t.Token().Symbol(),
		Units:       t.Units().String(),
		Record:      rec,
		TimeUTC:     j.now().Unix(),
	}
	j.byFP[fp] = len(j.entries)
	j.entries = append(j.entries, e)
	j.mu.Unlock()

	fields := []zap.Field{
		zap.Uint64("height", e.Height),
		zap.Stringer("fingerprint", fp),
		zap.String("state", e.State),
		zap.String("protocol", e.Protocol),
		zap.String("amount", t.Token().Format(t.Units())),
	}
	if f, ok := t.(tx.FailedCryptoTransaction); ok {
		fields = append(fields, zap.String("error_message", f.ErrorMessage()))
	}
	j.log.Info("audit: recorded", fields...)

	j.broadcast(e)
	return e, nil
}

func (j *Journal) Get(fp codec.Fingerprint) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	i, ok := j.byFP[fp]
	if !ok {
		return Entry{}, false
	}
	return j.entries[i], true
}

func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func (j *Journal) Height() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.height
}

func (j *Journal) leaves(from, to uint64) [][]byte {
	out := make([][]byte, 0, to-from+1)
	for _, e := range j.entries[from-1 : to] {
		fp := e.Fingerprint
		out = append(out, fp[:])
	}
	return out
}

// Checkpoint commits every entry recorded since the previous checkpoint.
func (j *Journal) Checkpoint() (Checkpoint, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	from := j.lastCommittedHeight + 1
	to := j.height
	if from > to {
		return Checkpoint{}, ErrNothingToCommit
	}
	cp := Checkpoint{
		Seq:        uint64(len(j.checkpoints) + 1),
		FromHeight: from,
		ToHeight:   to,
		Count:      to - from + 1,
		Root:       hex.EncodeToString(merkle.Root(j.leaves(from, to))),
		TimeUTC:    j.now().Unix(),
	}
	if len(j.priv) != 0 {
		cp.SignatureHex = hex.EncodeToString(mycrypto.Sign(j.priv, cp.CanonicalBytes()))
	}
	j.checkpoints = append(j.checkpoints, cp)
	j.lastCommittedHeight = to

	j.log.Info("audit: checkpoint",
		zap.Uint64("seq", cp.Seq),
		zap.Uint64("from_height", from),
		zap.Uint64("to_height", to),
		zap.String("root", cp.Root),
		zap.Bool("signed", cp.SignatureHex != ""))
	return cp, nil
}

func (j *Journal) Checkpoints() []Checkpoint {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Checkpoint(nil), j.checkpoints...)
}

func (j *Journal) LatestCheckpoint() (Checkpoint, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.checkpoints) == 0 {
		return Checkpoint{}, false
	}
	return j.checkpoints[len(j.checkpoints)-1], true
}

// Prove returns the checkpoint covering fp and the inclusion path of fp
// under its root.
func (j *Journal) Prove(fp codec.Fingerprint) (Checkpoint, []merkle.Step, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	i, ok := j.byFP[fp]
	if !ok {
		return Checkpoint{}, nil, ErrNotFound
	}
	h := j.entries[i].Height
	for _, cp := range j.checkpoints {
		if h < cp.FromHeight || h > cp.ToHeight {
			continue
		}
		path, _ := merkle.Proof(j.leaves(cp.FromHeight, cp.ToHeight), int(h-cp.FromHeight))
		return cp, path, nil
	}
	return Checkpoint{}, nil, ErrNotCheckpointed
}

// VerifyInclusion checks a proof produced by Prove.
func VerifyInclusion(cp Checkpoint, fp codec.Fingerprint, path []merkle.Step) bool {
	root, err := hex.DecodeString(cp.Root)
	if err != nil {
		return false
	}
	return merkle.Verify(root, fp[:], path)
}

// VerifyCheckpoint checks a checkpoint's signature.
func VerifyCheckpoint(pub ed25519.PublicKey, cp Checkpoint) bool {
	sig, err := hex.DecodeString(cp.SignatureHex)
	if err != nil || len(sig) == 0 {
		return false
	}
	return mycrypto.Verify(pub, cp.CanonicalBytes(), sig)
}

// ---- subscribers ----

// Subscribe streams entries recorded after the call. Slow subscribers miss
// entries rather than block Record. Call the returned func to stop.
func (j *Journal) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, 32)
	j.mu.Lock()
	j.subs[ch] = struct{}{}
	j.mu.Unlock()

	return ch, func() {
		j.mu.Lock()
		defer j.mu.Unlock()
		if _, ok := j.subs[ch]; ok {
			delete(j.subs, ch)
			close(ch)
		}
	}
}

func (j *Journal) broadcast(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for ch := range j.subs {
		select {
		case ch <- e:
		default:
			j.log.Warn("audit: subscriber lagging, entry dropped", zap.Uint64("height", e.Height))
		}
	}
}

// ---- persistence ----

// Save writes the journal to path as CBOR, replacing the file atomically.
func (j *Journal) Save(path string) error {
	j.mu.Lock()
	f := journalFile{
		Version:             journalVersion,
		Height:              j.height,
		LastCommittedHeight: j.lastCommittedHeight,
		Entries:             append([]Entry(nil), j.entries...),
		Checkpoints:         append([]Checkpoint(nil), j.checkpoints...),
	}
	j.mu.Unlock()

	b, err := codec.Marshal(f)
	if err != nil {
		return fmt.Errorf("audit: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Open loads the journal at path. A missing file yields an empty journal.
func Open(path string, log *zap.Logger, priv ed25519.PrivateKey) (*Journal, error) {
	j := NewJournal(log, priv)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, err
	}

	var f journalFile
	if err := codec.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("audit: decode %s: %w", path, err)
	}
	if f.Version != journalVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedStore, f.Version)
	}
	j.height = f.Height
	j.lastCommittedHeight = f.LastCommittedHeight
	j.checkpoints = f.Checkpoints
	j.entries = f.Entries
	for i, e := range f.Entries {
		j.byFP[e.Fingerprint] = i
	}
	j.log.Debug("audit: opened", zap.String("path", path), zap.Int("entries", len(j.entries)))
	return j, nil
}
