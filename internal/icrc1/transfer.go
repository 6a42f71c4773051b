package icrc1

import (
	"fmt"
	"math/big"

	"cryptotx/internal/types"
)

// TransferArg is the request a ledger accepts for icrc1_transfer.
type TransferArg struct {
	FromSubaccount *types.Subaccount
	To             Account
	Fee            NumTokens
	CreatedAtTime  *uint64
	Memo           Memo
	Amount         NumTokens
}

type TransferErrorKind uint8

const (
	BadFee TransferErrorKind = iota + 1
	BadBurn
	InsufficientFunds
	TooOld
	CreatedInFuture
	TemporarilyUnavailable
	Duplicate
	GenericError
)

var transferErrorNames = map[TransferErrorKind]string{
	BadFee:                 "BadFee",
	BadBurn:                "BadBurn",
	InsufficientFunds:      "InsufficientFunds",
	TooOld:                 "TooOld",
	CreatedInFuture:        "CreatedInFuture",
	TemporarilyUnavailable: "TemporarilyUnavailable",
	Duplicate:              "Duplicate",
	GenericError:           "GenericError",
}

func (k TransferErrorKind) String() string {
	if s, ok := transferErrorNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TransferErrorKind(%d)", uint8(k))
}

// TransferError is the ledger's rejection of a transfer. Only the fields
// relevant to Kind are set. Orchestration code stores Error() as the
// failed transaction's message.
type TransferError struct {
	Kind           TransferErrorKind
	ExpectedFee    NumTokens
	MinBurnAmount  NumTokens
	Balance        NumTokens
	LedgerTime     uint64
	DuplicateOf    BlockIndex
	ErrorCode      *big.Int
	GenericMessage string
}

func (e *TransferError) Error() string {
	switch e.Kind {
	case BadFee:
		return fmt.Sprintf("BadFee: expected_fee=%s", natString(e.ExpectedFee))
	case BadBurn:
		return fmt.Sprintf("BadBurn: min_burn_amount=%s", natString(e.MinBurnAmount))
	case InsufficientFunds:
		return fmt.Sprintf("InsufficientFunds: balance=%s", natString(e.Balance))
	case CreatedInFuture:
		return fmt.Sprintf("CreatedInFuture: ledger_time=%d", e.LedgerTime)
	case Duplicate:
		return fmt.Sprintf("Duplicate: duplicate_of=%s", natString(e.DuplicateOf))
	case GenericError:
		return fmt.Sprintf("GenericError: code=%s message=%s", natString(e.ErrorCode), e.GenericMessage)
	default:
		return e.Kind.String()
	}
}

func natString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
