package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/tx"
	"cryptotx/internal/types"
)

const envelopeVersion = 1

var (
	ErrUnknownState    = errors.New("codec: unknown state")
	ErrUnknownProtocol = errors.New("codec: unknown protocol")
	ErrMalformed       = errors.New("codec: malformed record")
)

// envelope is the persisted form of a facade value. Amounts and block
// indices travel as arbitrary-precision integers and are narrowed on decode.
type envelope struct {
	Version  int          `json:"version"         cbor:"version"`
	State    string       `json:"state"           cbor:"state"`
	Protocol string       `json:"protocol"        cbor:"protocol"`
	NNS      *nnsRecord   `json:"nns,omitempty"   cbor:"nns,omitempty"`
	ICRC1    *icrc1Record `json:"icrc1,omitempty" cbor:"icrc1,omitempty"`
}

type nnsRecord struct {
	Ledger          string  `json:"ledger"                     cbor:"ledger"`
	Token           string  `json:"token"                      cbor:"token"`
	AmountE8s       uint64  `json:"amount_e8s"                 cbor:"amount_e8s"`
	FeeE8s          *uint64 `json:"fee_e8s,omitempty"          cbor:"fee_e8s,omitempty"`
	From            string  `json:"from,omitempty"             cbor:"from,omitempty"`
	To              string  `json:"to,omitempty"               cbor:"to,omitempty"`
	ToUser          string  `json:"to_user,omitempty"          cbor:"to_user,omitempty"`
	Memo            *uint64 `json:"memo,omitempty"             cbor:"memo,omitempty"`
	Created         uint64  `json:"created"                    cbor:"created"`
	TransactionHash string  `json:"transaction_hash,omitempty" cbor:"transaction_hash,omitempty"`
	BlockIndex      *uint64 `json:"block_index,omitempty"      cbor:"block_index,omitempty"`
	ErrorMessage    string  `json:"error_message,omitempty"    cbor:"error_message,omitempty"`
}

type icrc1Account struct {
	Mint       bool   `json:"mint,omitempty"       cbor:"mint,omitempty"`
	Owner      string `json:"owner,omitempty"      cbor:"owner,omitempty"`
	Subaccount string `json:"subaccount,omitempty" cbor:"subaccount,omitempty"`
}

type icrc1Record struct {
	Ledger       string        `json:"ledger"                  cbor:"ledger"`
	Token        string        `json:"token"                   cbor:"token"`
	Amount       *big.Int      `json:"amount"                  cbor:"amount"`
	Fee          *big.Int      `json:"fee"                     cbor:"fee"`
	From         *icrc1Account `json:"from,omitempty"          cbor:"from,omitempty"`
	To           icrc1Account  `json:"to"                      cbor:"to"`
	Memo         []byte        `json:"memo,omitempty"          cbor:"memo,omitempty"`
	Created      uint64        `json:"created"                 cbor:"created"`
	BlockIndex   *big.Int      `json:"block_index,omitempty"   cbor:"block_index,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty" cbor:"error_message,omitempty"`
}

func tokenText(c token.Cryptocurrency) string {
	b, _ := c.MarshalText()
	return string(b)
}

func parseToken(s string) token.Cryptocurrency {
	var c token.Cryptocurrency
	_ = c.UnmarshalText([]byte(s))
	return c
}

func malformed(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMalformed, field, err)
}

// ---- encode ----

func toEnvelope(t tx.CryptoTransaction) (envelope, error) {
	env := envelope{Version: envelopeVersion}
	if t == nil {
		return env, ErrUnknownState
	}
	env.State = t.State().String()
	env.Protocol = t.Protocol().String()

	switch v := t.(type) {
	case *tx.PendingCryptoTransaction:
		return toEnvelope(*v)
	case *tx.CompletedCryptoTransaction:
		return toEnvelope(*v)
	case *tx.FailedCryptoTransaction:
		return toEnvelope(*v)
	case tx.PendingCryptoTransaction:
		if r, ok := v.NNS(); ok {
			env.NNS = nnsPendingWire(r)
		} else if r, ok := v.ICRC1(); ok {
			env.ICRC1 = icrc1PendingWire(r)
		}
	case tx.CompletedCryptoTransaction:
		if r, ok := v.NNS(); ok {
			env.NNS = nnsCompletedWire(r)
		} else if r, ok := v.ICRC1(); ok {
			env.ICRC1 = icrc1CompletedWire(r)
		}
	case tx.FailedCryptoTransaction:
		if r, ok := v.NNS(); ok {
			env.NNS = nnsFailedWire(r)
		} else if r, ok := v.ICRC1(); ok {
			env.ICRC1 = icrc1FailedWire(r)
		}
	default:
		return env, fmt.Errorf("%w: %T", ErrUnknownState, t)
	}
	if env.NNS == nil && env.ICRC1 == nil {
		return env, fmt.Errorf("%w: %s", ErrUnknownProtocol, env.Protocol)
	}
	return env, nil
}

func nnsPendingWire(r nns.PendingCryptoTransaction) *nnsRecord {
	w := &nnsRecord{
		Ledger:    r.Ledger.String(),
		Token:     tokenText(r.Token),
		AmountE8s: r.Amount.E8s(),
		Created:   uint64(r.Created),
	}
	if u, ok := r.To.User(); ok {
		w.ToUser = u.String()
	} else {
		w.To = r.To.AccountIdentifier().String()
	}
	if r.Fee != nil {
		fee := r.Fee.E8s()
		w.FeeE8s = &fee
	}
	if r.Memo != nil {
		memo := uint64(*r.Memo)
		w.Memo = &memo
	}
	return w
}

func nnsSettledWire(ledger types.CanisterID, c token.Cryptocurrency, amount, fee nns.Tokens, from, to nns.CryptoAccount,
	memo nns.Memo, created types.TimestampNanos, hash types.TransactionHash) *nnsRecord {
	f := fee.E8s()
	m := uint64(memo)
	return &nnsRecord{
		Ledger:          ledger.String(),
		Token:           tokenText(c),
		AmountE8s:       amount.E8s(),
		FeeE8s:          &f,
		From:            from.String(),
		To:              to.String(),
		Memo:            &m,
		Created:         uint64(created),
		TransactionHash: hash.String(),
	}
}

func nnsCompletedWire(r nns.CompletedCryptoTransaction) *nnsRecord {
	w := nnsSettledWire(r.Ledger, r.Token, r.Amount, r.Fee, r.From, r.To, r.Memo, r.Created, r.TransactionHash)
	bi := uint64(r.BlockIndex)
	w.BlockIndex = &bi
	return w
}

func nnsFailedWire(r nns.FailedCryptoTransaction) *nnsRecord {
	w := nnsSettledWire(r.Ledger, r.Token, r.Amount, r.Fee, r.From, r.To, r.Memo, r.Created, r.TransactionHash)
	w.ErrorMessage = r.ErrorMessage
	return w
}

func accountWire(a icrc1.Account) icrc1Account {
	w := icrc1Account{Owner: a.Owner.String()}
	if a.Subaccount != nil {
		w.Subaccount = a.Subaccount.String()
	}
	return w
}

func cryptoAccountWire(c icrc1.CryptoAccount) *icrc1Account {
	a, ok := c.Account()
	if !ok {
		return &icrc1Account{Mint: true}
	}
	w := accountWire(a)
	return &w
}

func icrc1PendingWire(r icrc1.PendingCryptoTransaction) *icrc1Record {
	return &icrc1Record{
		Ledger:  r.Ledger.String(),
		Token:   tokenText(r.Token),
		Amount:  icrc1.WidenAmount(r.Amount),
		Fee:     icrc1.WidenAmount(r.Fee),
		To:      accountWire(r.To),
		Memo:    r.Memo,
		Created: uint64(r.Created),
	}
}

func icrc1CompletedWire(r icrc1.CompletedCryptoTransaction) *icrc1Record {
	return &icrc1Record{
		Ledger:     r.Ledger.String(),
		Token:      tokenText(r.Token),
		Amount:     icrc1.WidenAmount(r.Amount),
		Fee:        icrc1.WidenAmount(r.Fee),
		From:       cryptoAccountWire(r.From),
		To:         *cryptoAccountWire(r.To),
		Memo:       r.Memo,
		Created:    uint64(r.Created),
		BlockIndex: icrc1.WidenBlockIndex(r.BlockIndex),
	}
}

func icrc1FailedWire(r icrc1.FailedCryptoTransaction) *icrc1Record {
	return &icrc1Record{
		Ledger:       r.Ledger.String(),
		Token:        tokenText(r.Token),
		Amount:       icrc1.WidenAmount(r.Amount),
		Fee:          icrc1.WidenAmount(r.Fee),
		From:         cryptoAccountWire(r.From),
		To:           *cryptoAccountWire(r.To),
		Memo:         r.Memo,
		Created:      uint64(r.Created),
		ErrorMessage: r.ErrorMessage,
	}
}

// ---- decode ----

func fromEnvelope(env envelope) (tx.CryptoTransaction, error) {
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: version %d", ErrMalformed, env.Version)
	}
	switch env.Protocol {
	case tx.ProtocolNNS.String():
		if env.NNS == nil {
			return nil, malformed("nns", errors.New("missing record"))
		}
		return decodeNNS(env.State, *env.NNS)
	case tx.ProtocolICRC1.String():
		if env.ICRC1 == nil {
			return nil, malformed("icrc1", errors.New("missing record"))
		}
		return decodeICRC1(env.State, *env.ICRC1)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, env.Protocol)
	}
}

func decodeNNS(state string, w nnsRecord) (tx.CryptoTransaction, error) {
	ledger, err := types.DecodePrincipal(w.Ledger)
	if err != nil {
		return nil, malformed("ledger", err)
	}
	c := parseToken(w.Token)
	amount := nns.TokensFromE8s(w.AmountE8s)
	created := types.TimestampNanos(w.Created)

	switch state {
	case tx.StatePending.String():
		r := nns.PendingCryptoTransaction{Ledger: ledger, Token: c, Amount: amount, Created: created}
		if w.ToUser != "" {
			p, err := types.DecodePrincipal(w.ToUser)
			if err != nil {
				return nil, malformed("to_user", err)
			}
			r.To = nns.ToUser(types.UserIDFromPrincipal(p))
		} else {
			a, err := accountIdentifier(w.To)
			if err != nil {
				return nil, malformed("to", err)
			}
			r.To = nns.ToAccount(a)
		}
		if w.FeeE8s != nil {
			fee := nns.TokensFromE8s(*w.FeeE8s)
			r.Fee = &fee
		}
		if w.Memo != nil {
			memo := nns.Memo(*w.Memo)
			r.Memo = &memo
		}
		return tx.PendingNNS(r), nil
	case tx.StateCompleted.String(), tx.StateFailed.String():
		from, err := parseNNSCryptoAccount(w.From)
		if err != nil {
			return nil, malformed("from", err)
		}
		to, err := parseNNSCryptoAccount(w.To)
		if err != nil {
			return nil, malformed("to", err)
		}
		var hash types.TransactionHash
		if w.TransactionHash != "" {
			if err := hash.UnmarshalText([]byte(w.TransactionHash)); err != nil {
				return nil, malformed("transaction_hash", err)
			}
		}
		var fee nns.Tokens
		if w.FeeE8s != nil {
			fee = nns.TokensFromE8s(*w.FeeE8s)
		}
		var memo nns.Memo
		if w.Memo != nil {
			memo = nns.Memo(*w.Memo)
		}
		if state == tx.StateFailed.String() {
			return tx.FailedNNS(nns.FailedCryptoTransaction{
				Ledger: ledger, Token: c, Amount: amount, Fee: fee, From: from, To: to,
				Memo: memo, Created: created, TransactionHash: hash, ErrorMessage: w.ErrorMessage,
			}), nil
		}
		if w.BlockIndex == nil {
			return nil, malformed("block_index", errors.New("missing"))
		}
		return tx.CompletedNNS(nns.CompletedCryptoTransaction{
			Ledger: ledger, Token: c, Amount: amount, Fee: fee, From: from, To: to,
			Memo: memo, Created: created, TransactionHash: hash, BlockIndex: nns.BlockIndex(*w.BlockIndex),
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
}

func parseNNSCryptoAccount(s string) (nns.CryptoAccount, error) {
	if s == "mint" {
		return nns.Mint, nil
	}
	a, err := accountIdentifier(s)
	if err != nil {
		return nns.CryptoAccount{}, err
	}
	return nns.Account(a), nil
}

// accountIdentifier skips checksum verification: persisted records are
// reproduced as stored.
func accountIdentifier(s string) (nns.AccountIdentifier, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nns.AccountIdentifier{}, err
	}
	return nns.AccountIdentifierFromBytes(b)
}

func parseAccount(w icrc1Account) (icrc1.Account, error) {
	owner, err := types.DecodePrincipal(w.Owner)
	if err != nil {
		return icrc1.Account{}, err
	}
	if w.Subaccount == "" {
		return icrc1.AccountFromPrincipal(owner), nil
	}
	sub, err := types.ParseSubaccount(w.Subaccount)
	if err != nil {
		return icrc1.Account{}, err
	}
	return icrc1.NewAccount(owner, sub), nil
}

func parseCryptoAccount(w *icrc1Account) (icrc1.CryptoAccount, error) {
	if w == nil {
		return icrc1.CryptoAccount{}, errors.New("missing")
	}
	if w.Mint {
		return icrc1.Mint, nil
	}
	a, err := parseAccount(*w)
	if err != nil {
		return icrc1.CryptoAccount{}, err
	}
	return icrc1.ToAccount(a), nil
}

func decodeICRC1(state string, w icrc1Record) (tx.CryptoTransaction, error) {
	ledger, err := types.DecodePrincipal(w.Ledger)
	if err != nil {
		return nil, malformed("ledger", err)
	}
	c := parseToken(w.Token)
	amount, err := icrc1.NarrowAmount(w.Amount)
	if err != nil {
		return nil, malformed("amount", err)
	}
	fee, err := icrc1.NarrowAmount(w.Fee)
	if err != nil {
		return nil, malformed("fee", err)
	}
	created := types.TimestampNanos(w.Created)
	var memo icrc1.Memo
	if len(w.Memo) > 0 {
		memo = icrc1.MemoFromBytes(w.Memo)
	}

	switch state {
	case tx.StatePending.String():
		to, err := parseAccount(w.To)
		if err != nil {
			return nil, malformed("to", err)
		}
		return tx.PendingICRC1(icrc1.PendingCryptoTransaction{
			Ledger: ledger, Token: c, Amount: amount, To: to, Fee: fee, Memo: memo, Created: created,
		}), nil
	case tx.StateCompleted.String(), tx.StateFailed.String():
		from, err := parseCryptoAccount(w.From)
		if err != nil {
			return nil, malformed("from", err)
		}
		to, err := parseCryptoAccount(&w.To)
		if err != nil {
			return nil, malformed("to", err)
		}
		if state == tx.StateFailed.String() {
			return tx.FailedICRC1(icrc1.FailedCryptoTransaction{
				Ledger: ledger, Token: c, Amount: amount, Fee: fee, From: from, To: to,
				Memo: memo, Created: created, ErrorMessage: w.ErrorMessage,
			}), nil
		}
		if w.BlockIndex == nil {
			return nil, malformed("block_index", errors.New("missing"))
		}
		bi, err := icrc1.NarrowBlockIndex(w.BlockIndex)
		if err != nil {
			return nil, malformed("block_index", err)
		}
		return tx.CompletedICRC1(icrc1.CompletedCryptoTransaction{
			Ledger: ledger, Token: c, Amount: amount, From: from, To: to, Fee: fee,
			Memo: memo, Created: created, BlockIndex: bi,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
}
