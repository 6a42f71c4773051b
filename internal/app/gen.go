package app

import (
	"fmt"
	"os"
	"strings"

	"cryptotx/internal/codec"
	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/tx"
	"cryptotx/internal/types"

	"go.uber.org/zap"
)

// gen builds a sample transaction and writes it in CBOR (default) or JSON.
func (a *App) gen(args []string) error {
	fs := newFlagSet("gen", a.out)
	symbol := fs.String("token", "ICP", "token symbol; ICP uses the NNS ledger, others ICRC-1")
	amount := fs.String("amount", "0.1", "amount in whole tokens")
	to := fs.String("to", "2vxsx-fae", "recipient principal")
	subHex := fs.String("subaccount", "", "recipient subaccount (hex); empty = default")
	memo := fs.Uint64("memo", 0, "memo")
	outcome := fs.String("outcome", "completed", "pending | completed | failed")
	block := fs.Uint64("block", 1, "block index for completed transfers")
	reason := fs.String("error", "InsufficientFunds", "error message for failed transfers")
	out := fs.String("out", "tx.cbor", "output file (.json for JSON)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	c := token.FromSymbol(*symbol)
	units, err := c.Parse(*amount)
	if err != nil {
		return err
	}
	owner, err := types.DecodePrincipal(*to)
	if err != nil {
		return err
	}
	sub := types.DefaultSubaccount
	if *subHex != "" {
		if sub, err = types.ParseSubaccount(*subHex); err != nil {
			return err
		}
	}

	var pending tx.PendingCryptoTransaction
	now := types.Now()
	if c == token.InternetComputer {
		if units.Hi != 0 {
			return fmt.Errorf("%w: ICP amount %s", token.ErrBadAmount, *amount)
		}
		m := nns.Memo(*memo)
		pending = tx.PendingNNS(nns.NewPending(nns.TokensFromE8s(units.Lo), nns.ToUser(types.UserIDFromPrincipal(owner)), &m, now))
	} else {
		p, ok := icrc1.NewPending(c, units, icrc1.AccountFromPrincipal(owner), icrc1.MemoFromUint64(*memo), now)
		if !ok {
			return fmt.Errorf("token %s has no known ledger", c)
		}
		pending = tx.PendingICRC1(p)
	}
	if !sub.IsDefault() {
		pending.SetRecipient(owner, sub)
	}

	var result tx.CryptoTransaction
	switch strings.ToLower(*outcome) {
	case "pending":
		result = pending
	case "completed":
		result, err = complete(pending, *block)
	case "failed":
		result, err = fail(pending, *reason)
	default:
		return fmt.Errorf("%w: outcome %q", ErrUsage, *outcome)
	}
	if err != nil {
		return err
	}

	var b []byte
	if strings.HasSuffix(strings.ToLower(*out), ".json") {
		b, err = codec.EncodeJSON(result)
	} else {
		b, err = codec.EncodeCBOR(result)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		return err
	}
	a.log.Info("gen: wrote transaction", zap.String("file", *out), zap.String("tx", tx.Describe(result)))
	fmt.Fprintln(a.out, *out)
	return nil
}

func complete(p tx.PendingCryptoTransaction, block uint64) (tx.CryptoTransaction, error) {
	if p.Protocol() == tx.ProtocolNNS {
		return p.CompleteNNS(nns.Receipt{BlockIndex: nns.BlockIndex(block)})
	}
	return p.CompleteICRC1(icrc1.AccountFromPrincipal(types.AnonymousPrincipal()), block)
}

func fail(p tx.PendingCryptoTransaction, msg string) (tx.CryptoTransaction, error) {
	if p.Protocol() == tx.ProtocolNNS {
		return p.FailNNS(nns.Rejection{ErrorMessage: msg})
	}
	return p.FailICRC1(icrc1.AccountFromPrincipal(types.AnonymousPrincipal()), msg)
}
