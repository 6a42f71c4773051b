package tx

import (
	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/types"

	"lukechampine.com/uint128"
)

// FailedCryptoTransaction is a transfer the ledger never committed. Its
// error message is for people; do not branch on it.
type FailedCryptoTransaction struct {
	protocol Protocol
	nns      nns.FailedCryptoTransaction
	icrc1    icrc1.FailedCryptoTransaction
}

func FailedNNS(t nns.FailedCryptoTransaction) FailedCryptoTransaction {
	return FailedCryptoTransaction{protocol: ProtocolNNS, nns: t}
}

func FailedICRC1(t icrc1.FailedCryptoTransaction) FailedCryptoTransaction {
	return FailedCryptoTransaction{protocol: ProtocolICRC1, icrc1: t}
}

func (FailedCryptoTransaction) sealed() {}

func (FailedCryptoTransaction) State() State { return StateFailed }

func (f FailedCryptoTransaction) Protocol() Protocol { return f.protocol }

func (f FailedCryptoTransaction) NNS() (nns.FailedCryptoTransaction, bool) {
	return f.nns, f.protocol == ProtocolNNS
}

func (f FailedCryptoTransaction) ICRC1() (icrc1.FailedCryptoTransaction, bool) {
	return f.icrc1, f.protocol == ProtocolICRC1
}

func (f FailedCryptoTransaction) LedgerCanisterID() types.CanisterID {
	if f.protocol == ProtocolNNS {
		return f.nns.Ledger
	}
	return f.icrc1.Ledger
}

func (f FailedCryptoTransaction) Token() token.Cryptocurrency {
	if f.protocol == ProtocolNNS {
		return f.nns.Token
	}
	return f.icrc1.Token
}

func (f FailedCryptoTransaction) Units() uint128.Uint128 {
	if f.protocol == ProtocolNNS {
		return f.nns.Amount.Units()
	}
	return f.icrc1.Amount
}

func (f FailedCryptoTransaction) Fee() uint128.Uint128 {
	if f.protocol == ProtocolNNS {
		return nnsFee()
	}
	return f.icrc1.Fee
}

func (f FailedCryptoTransaction) IsZero() bool { return f.Units().IsZero() }

func (f FailedCryptoTransaction) ErrorMessage() string {
	if f.protocol == ProtocolNNS {
		return f.nns.ErrorMessage
	}
	return f.icrc1.ErrorMessage
}
