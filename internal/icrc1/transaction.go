package icrc1

import (
	"cryptotx/internal/token"
	"cryptotx/internal/types"

	"lukechampine.com/uint128"
)

type PendingCryptoTransaction struct {
	Ledger  types.CanisterID
	Token   token.Cryptocurrency
	Amount  uint128.Uint128
	To      Account
	Fee     uint128.Uint128
	Memo    Memo
	Created types.TimestampNanos
}

type CompletedCryptoTransaction struct {
	Ledger     types.CanisterID
	Token      token.Cryptocurrency
	Amount     uint128.Uint128
	From       CryptoAccount
	To         CryptoAccount
	Fee        uint128.Uint128
	Memo       Memo
	Created    types.TimestampNanos
	BlockIndex uint64
}

type FailedCryptoTransaction struct {
	Ledger       types.CanisterID
	Token        token.Cryptocurrency
	Amount       uint128.Uint128
	Fee          uint128.Uint128
	From         CryptoAccount
	To           CryptoAccount
	Memo         Memo
	Created      types.TimestampNanos
	ErrorMessage string
}

// NewPending builds a pending transfer of a registry token at its default
// fee. ok is false for tokens the registry cannot route.
func NewPending(c token.Cryptocurrency, amount uint128.Uint128, to Account, memo Memo, created types.TimestampNanos) (PendingCryptoTransaction, bool) {
	ledger, ok := c.LedgerCanisterID()
	if !ok {
		return PendingCryptoTransaction{}, false
	}
	fee, _ := c.Fee()
	return PendingCryptoTransaction{
		Ledger:  ledger,
		Token:   c,
		Amount:  amount,
		To:      to,
		Fee:     fee,
		Memo:    memo,
		Created: created,
	}, true
}

// TransferArg builds the ledger request for this transfer.
func (t PendingCryptoTransaction) TransferArg(from *types.Subaccount) TransferArg {
	created := uint64(t.Created)
	return TransferArg{
		FromSubaccount: from,
		To:             t.To,
		Fee:            WidenAmount(t.Fee),
		CreatedAtTime:  &created,
		Memo:           t.Memo,
		Amount:         WidenAmount(t.Amount),
	}
}

func (t PendingCryptoTransaction) Complete(from Account, blockIndex uint64) CompletedCryptoTransaction {
	return CompletedCryptoTransaction{
		Ledger:     t.Ledger,
		Token:      t.Token,
		Amount:     t.Amount,
		From:       ToAccount(from),
		To:         ToAccount(t.To),
		Fee:        t.Fee,
		Memo:       t.Memo,
		Created:    t.Created,
		BlockIndex: blockIndex,
	}
}

func (t PendingCryptoTransaction) Fail(from Account, message string) FailedCryptoTransaction {
	return FailedCryptoTransaction{
		Ledger:       t.Ledger,
		Token:        t.Token,
		Amount:       t.Amount,
		Fee:          t.Fee,
		From:         ToAccount(from),
		To:           ToAccount(t.To),
		Memo:         t.Memo,
		Created:      t.Created,
		ErrorMessage: message,
	}
}
