package tx

import (
	"fmt"

	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/types"

	"lukechampine.com/uint128"
)

type PendingCryptoTransaction struct {
	protocol Protocol
	nns      nns.PendingCryptoTransaction
	icrc1    icrc1.PendingCryptoTransaction
}

func PendingNNS(t nns.PendingCryptoTransaction) PendingCryptoTransaction {
	return PendingCryptoTransaction{protocol: ProtocolNNS, nns: t}
}

func PendingICRC1(t icrc1.PendingCryptoTransaction) PendingCryptoTransaction {
	return PendingCryptoTransaction{protocol: ProtocolICRC1, icrc1: t}
}

func (PendingCryptoTransaction) sealed() {}

func (PendingCryptoTransaction) State() State { return StatePending }

func (p PendingCryptoTransaction) Protocol() Protocol { return p.protocol }

func (p PendingCryptoTransaction) NNS() (nns.PendingCryptoTransaction, bool) {
	return p.nns, p.protocol == ProtocolNNS
}

func (p PendingCryptoTransaction) ICRC1() (icrc1.PendingCryptoTransaction, bool) {
	return p.icrc1, p.protocol == ProtocolICRC1
}

func (p PendingCryptoTransaction) LedgerCanisterID() types.CanisterID {
	if p.protocol == ProtocolNNS {
		return p.nns.Ledger
	}
	return p.icrc1.Ledger
}

func (p PendingCryptoTransaction) Token() token.Cryptocurrency {
	if p.protocol == ProtocolNNS {
		return p.nns.Token
	}
	return p.icrc1.Token
}

func (p PendingCryptoTransaction) Units() uint128.Uint128 {
	if p.protocol == ProtocolNNS {
		return p.nns.Amount.Units()
	}
	return p.icrc1.Amount
}

func (p PendingCryptoTransaction) Fee() uint128.Uint128 {
	if p.protocol == ProtocolNNS {
		return nnsFee()
	}
	return p.icrc1.Fee
}

func (p PendingCryptoTransaction) IsZero() bool { return p.Units().IsZero() }

// UserID reports the user the transfer pays, if the recipient names one.
// NNS recipients must have been given as a user; ICRC1 recipients must use
// the default subaccount. A raw account payment has no user.
func (p PendingCryptoTransaction) UserID() (types.UserID, bool) {
	if p.protocol == ProtocolNNS {
		return p.nns.To.User()
	}
	if p.icrc1.To.HasDefaultSubaccount() {
		return types.UserIDFromPrincipal(p.icrc1.To.Owner), true
	}
	return types.UserID{}, false
}

// ValidateRecipient reports whether the transfer pays u. NNS accepts the
// user itself or u's default account identifier; ICRC1 compares owners only.
func (p PendingCryptoTransaction) ValidateRecipient(u types.UserID) bool {
	if p.protocol == ProtocolNNS {
		if user, ok := p.nns.To.User(); ok {
			return user == u
		}
		acc, _ := p.nns.To.Account()
		return acc == nns.DefaultAccountIdentifier(u)
	}
	return p.icrc1.To.Owner == u.Principal()
}

// SetRecipient redirects the transfer. An NNS recipient becomes a raw
// account identifier, dropping any user form.
func (p *PendingCryptoTransaction) SetRecipient(owner types.Principal, sub types.Subaccount) {
	if p.protocol == ProtocolNNS {
		p.nns.To = nns.ToAccount(nns.NewAccountIdentifier(owner, sub))
		return
	}
	p.icrc1.To = icrc1.NewAccount(owner, sub)
}

func (p PendingCryptoTransaction) mismatch(want Protocol) error {
	return fmt.Errorf("%w: pending is %s, result is %s", ErrProtocolMismatch, p.protocol, want)
}

// CompleteNNS replaces an NNS pending transfer with its committed form.
func (p PendingCryptoTransaction) CompleteNNS(r nns.Receipt) (CompletedCryptoTransaction, error) {
	if p.protocol != ProtocolNNS {
		return CompletedCryptoTransaction{}, p.mismatch(ProtocolNNS)
	}
	return CompletedNNS(p.nns.Complete(r)), nil
}

// CompleteICRC1 replaces an ICRC1 pending transfer with its committed form.
func (p PendingCryptoTransaction) CompleteICRC1(from icrc1.Account, blockIndex uint64) (CompletedCryptoTransaction, error) {
	if p.protocol != ProtocolICRC1 {
		return CompletedCryptoTransaction{}, p.mismatch(ProtocolICRC1)
	}
	return CompletedICRC1(p.icrc1.Complete(from, blockIndex)), nil
}

func (p PendingCryptoTransaction) FailNNS(r nns.Rejection) (FailedCryptoTransaction, error) {
	if p.protocol != ProtocolNNS {
		return FailedCryptoTransaction{}, p.mismatch(ProtocolNNS)
	}
	return FailedNNS(p.nns.Fail(r)), nil
}

func (p PendingCryptoTransaction) FailICRC1(from icrc1.Account, message string) (FailedCryptoTransaction, error) {
	if p.protocol != ProtocolICRC1 {
		return FailedCryptoTransaction{}, p.mismatch(ProtocolICRC1)
	}
	return FailedICRC1(p.icrc1.Fail(from, message)), nil
}
