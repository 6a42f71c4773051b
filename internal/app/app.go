// Package app implements the cryptotx operator commands.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cryptotx/internal/audit"
	"cryptotx/internal/buildinfo"
	"cryptotx/internal/codec"
	"cryptotx/internal/config"
	mycrypto "cryptotx/internal/crypto"
	"cryptotx/internal/logging"
	"cryptotx/internal/tx"

	"go.uber.org/zap"
)

var ErrUsage = errors.New("usage")

const usage = `usage:
  cryptotx gen        [flags]           build a sample transaction file
  cryptotx inspect    <file>            decode a transaction file
  cryptotx record     <file>...         journal terminal transactions
  cryptotx checkpoint                   commit journaled entries
  cryptotx prove      <fingerprint>     print an inclusion proof
  cryptotx version`

type App struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
}

func New(cfg config.Config, log *zap.Logger, out io.Writer) *App {
	return &App{cfg: cfg, log: logging.OrNop(log), out: out}
}

func (a *App) Run(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}
	switch args[0] {
	case "gen":
		return a.gen(args[1:])
	case "inspect":
		return a.inspect(args[1:])
	case "record":
		return a.record(args[1:])
	case "checkpoint":
		return a.checkpoint()
	case "prove":
		return a.prove(args[1:])
	case "version":
		fmt.Fprintln(a.out, buildinfo.String())
		return nil
	default:
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

// ReadTransaction decodes a file written by gen: CBOR unless the name ends
// in .json.
func ReadTransaction(path string) (tx.CryptoTransaction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return codec.DecodeJSON(b)
	}
	return codec.DecodeCBOR(b)
}

func (a *App) inspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: inspect <file>", ErrUsage)
	}
	t, err := ReadTransaction(args[0])
	if err != nil {
		return err
	}
	fp, err := codec.FingerprintOf(t)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tx.Describe(t))
	fmt.Fprintf(a.out, "fingerprint: %s\n", fp)
	switch v := t.(type) {
	case tx.PendingCryptoTransaction:
		if u, ok := v.UserID(); ok {
			fmt.Fprintf(a.out, "user: %s\n", u)
		}
	case tx.CompletedCryptoTransaction:
		fmt.Fprintf(a.out, "block_index: %d\n", v.BlockIndex())
	case tx.FailedCryptoTransaction:
		fmt.Fprintf(a.out, "error: %s\n", v.ErrorMessage())
	}
	return nil
}

func (a *App) openJournal() (*audit.Journal, error) {
	priv, _, err := mycrypto.LoadOrCreate(a.cfg.SigningKeyPath())
	if err != nil {
		return nil, err
	}
	return audit.Open(a.cfg.JournalPath(), a.log, priv)
}

func (a *App) record(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: record <file>...", ErrUsage)
	}
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	for _, path := range args {
		t, err := ReadTransaction(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		e, err := j.Record(t)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(a.out, "%d %s %s\n", e.Height, e.Fingerprint, e.State)
	}
	return j.Save(a.cfg.JournalPath())
}

func (a *App) checkpoint() error {
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	cp, err := j.Checkpoint()
	if err != nil {
		return err
	}
	if err := j.Save(a.cfg.JournalPath()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "checkpoint %d heights %d..%d root %s\n", cp.Seq, cp.FromHeight, cp.ToHeight, cp.Root)
	return nil
}

func (a *App) prove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: prove <fingerprint>", ErrUsage)
	}
	fp, err := codec.ParseFingerprint(args[0])
	if err != nil {
		return err
	}
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	cp, path, err := j.Prove(fp)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "checkpoint %d root %s\n", cp.Seq, cp.Root)
	for i, s := range path {
		side := "right"
		if s.Left {
			side = "left"
		}
		fmt.Fprintf(a.out, "%d %s %x\n", i, side, s.Sibling)
	}
	return nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
