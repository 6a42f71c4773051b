// Package nns models transfers on the legacy account-identifier ledger.
package nns

import (
	"cryptotx/internal/token"
	"cryptotx/internal/types"
)

type PendingCryptoTransaction struct {
	Ledger  types.CanisterID
	Token   token.Cryptocurrency
	Amount  Tokens
	To      UserOrAccount
	Fee     *Tokens // optional override; the ledger charges ICPFee regardless
	Memo    *Memo
	Created types.TimestampNanos
}

type CompletedCryptoTransaction struct {
	Ledger          types.CanisterID
	Token           token.Cryptocurrency
	Amount          Tokens
	Fee             Tokens
	From            CryptoAccount
	To              CryptoAccount
	Memo            Memo
	Created         types.TimestampNanos
	TransactionHash types.TransactionHash
	BlockIndex      BlockIndex
}

type FailedCryptoTransaction struct {
	Ledger          types.CanisterID
	Token           token.Cryptocurrency
	Amount          Tokens
	Fee             Tokens
	From            CryptoAccount
	To              CryptoAccount
	Memo            Memo
	Created         types.TimestampNanos
	TransactionHash types.TransactionHash
	ErrorMessage    string
}

// NewPending builds a pending ICP transfer against the registry's ledger.
func NewPending(amount Tokens, to UserOrAccount, memo *Memo, created types.TimestampNanos) PendingCryptoTransaction {
	ledger, _ := token.InternetComputer.LedgerCanisterID()
	return PendingCryptoTransaction{
		Ledger:  ledger,
		Token:   token.InternetComputer,
		Amount:  amount,
		To:      to,
		Memo:    memo,
		Created: created,
	}
}

// Receipt is what the ledger reports for a committed transfer.
type Receipt struct {
	From            AccountIdentifier
	TransactionHash types.TransactionHash
	BlockIndex      BlockIndex
}

// Rejection is what the caller observed for a transfer that did not commit.
type Rejection struct {
	From            AccountIdentifier
	TransactionHash types.TransactionHash
	ErrorMessage    string
}

func (t PendingCryptoTransaction) chargedFee() Tokens {
	if t.Fee != nil {
		return *t.Fee
	}
	return TokensFromE8s(token.ICPFee)
}

func (t PendingCryptoTransaction) memo() Memo {
	if t.Memo != nil {
		return *t.Memo
	}
	return 0
}

func (t PendingCryptoTransaction) Complete(r Receipt) CompletedCryptoTransaction {
	return CompletedCryptoTransaction{
		Ledger:          t.Ledger,
		Token:           t.Token,
		Amount:          t.Amount,
		Fee:             t.chargedFee(),
		From:            Account(r.From),
		To:              Account(t.To.AccountIdentifier()),
		Memo:            t.memo(),
		Created:         t.Created,
		TransactionHash: r.TransactionHash,
		BlockIndex:      r.BlockIndex,
	}
}

func (t PendingCryptoTransaction) Fail(r Rejection) FailedCryptoTransaction {
	return FailedCryptoTransaction{
		Ledger:          t.Ledger,
		Token:           t.Token,
		Amount:          t.Amount,
		Fee:             t.chargedFee(),
		From:            Account(r.From),
		To:              Account(t.To.AccountIdentifier()),
		Memo:            t.memo(),
		Created:         t.Created,
		TransactionHash: r.TransactionHash,
		ErrorMessage:    r.ErrorMessage,
	}
}
