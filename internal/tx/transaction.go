// Package tx is the ledger-agnostic view of a crypto transfer. A
// CryptoTransaction is Pending, Completed or Failed, and each of those wraps
// exactly one NNS or ICRC1 record. The ledger protocol chosen at
// construction is kept across lifecycle transitions.
package tx

import (
	"errors"
	"fmt"

	"cryptotx/internal/token"
	"cryptotx/internal/types"

	"lukechampine.com/uint128"
)

var ErrProtocolMismatch = errors.New("tx: ledger protocol mismatch")

type Protocol uint8

const (
	ProtocolNNS Protocol = iota + 1
	ProtocolICRC1
)

func (p Protocol) String() string {
	switch p {
	case ProtocolNNS:
		return "nns"
	case ProtocolICRC1:
		return "icrc1"
	default:
		return fmt.Sprintf("Protocol(%d)", uint8(p))
	}
}

type State uint8

const (
	StatePending State = iota + 1
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// CryptoTransaction is implemented only by PendingCryptoTransaction,
// CompletedCryptoTransaction and FailedCryptoTransaction.
type CryptoTransaction interface {
	State() State
	Protocol() Protocol
	LedgerCanisterID() types.CanisterID
	Token() token.Cryptocurrency
	// Units is the amount in the token's smallest unit. NNS e8s are widened
	// here; no other accessor converts between protocol number types.
	Units() uint128.Uint128
	// Fee is token.ICPFee for every NNS record, whatever the record stores.
	// ICRC1 records report their stored fee.
	Fee() uint128.Uint128
	IsZero() bool

	sealed()
}

var (
	_ CryptoTransaction = PendingCryptoTransaction{}
	_ CryptoTransaction = CompletedCryptoTransaction{}
	_ CryptoTransaction = FailedCryptoTransaction{}
)

func nnsFee() uint128.Uint128 { return uint128.From64(token.ICPFee) }

// Describe renders a one-line summary for logs and the CLI.
func Describe(t CryptoTransaction) string {
	return fmt.Sprintf("%s %s %s fee=%s ledger=%s",
		t.State(), t.Protocol(), t.Token().Format(t.Units()), t.Fee(), t.LedgerCanisterID())
}
