package tx

import (
	"cryptotx/internal/icrc1"
	"cryptotx/internal/nns"
	"cryptotx/internal/token"
	"cryptotx/internal/types"

	"lukechampine.com/uint128"
)

type CompletedCryptoTransaction struct {
	protocol Protocol
	nns      nns.CompletedCryptoTransaction
	icrc1    icrc1.CompletedCryptoTransaction
}

func CompletedNNS(t nns.CompletedCryptoTransaction) CompletedCryptoTransaction {
	return CompletedCryptoTransaction{protocol: ProtocolNNS, nns: t}
}

func CompletedICRC1(t icrc1.CompletedCryptoTransaction) CompletedCryptoTransaction {
	return CompletedCryptoTransaction{protocol: ProtocolICRC1, icrc1: t}
}

func (CompletedCryptoTransaction) sealed() {}

func (CompletedCryptoTransaction) State() State { return StateCompleted }

func (c CompletedCryptoTransaction) Protocol() Protocol { return c.protocol }

func (c CompletedCryptoTransaction) NNS() (nns.CompletedCryptoTransaction, bool) {
	return c.nns, c.protocol == ProtocolNNS
}

func (c CompletedCryptoTransaction) ICRC1() (icrc1.CompletedCryptoTransaction, bool) {
	return c.icrc1, c.protocol == ProtocolICRC1
}

func (c CompletedCryptoTransaction) LedgerCanisterID() types.CanisterID {
	if c.protocol == ProtocolNNS {
		return c.nns.Ledger
	}
	return c.icrc1.Ledger
}

func (c CompletedCryptoTransaction) Token() token.Cryptocurrency {
	if c.protocol == ProtocolNNS {
		return c.nns.Token
	}
	return c.icrc1.Token
}

func (c CompletedCryptoTransaction) Units() uint128.Uint128 {
	if c.protocol == ProtocolNNS {
		return c.nns.Amount.Units()
	}
	return c.icrc1.Amount
}

func (c CompletedCryptoTransaction) Fee() uint128.Uint128 {
	if c.protocol == ProtocolNNS {
		return nnsFee()
	}
	return c.icrc1.Fee
}

func (c CompletedCryptoTransaction) IsZero() bool { return c.Units().IsZero() }

// BlockIndex is the ledger height that committed the transfer.
func (c CompletedCryptoTransaction) BlockIndex() uint64 {
	if c.protocol == ProtocolNNS {
		return uint64(c.nns.BlockIndex)
	}
	return c.icrc1.BlockIndex
}

// TransactionHash is only recorded by the NNS ledger.
func (c CompletedCryptoTransaction) TransactionHash() (types.TransactionHash, bool) {
	return c.nns.TransactionHash, c.protocol == ProtocolNNS
}
