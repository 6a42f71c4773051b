// Package icrc1 models transfers on ledgers implementing the ICRC-1 token
// standard.
package icrc1

import (
	"cryptotx/internal/types"
)

// Account is an owner plus optional subaccount. A nil subaccount is the
// default subaccount.
type Account struct {
	Owner      types.Principal
	Subaccount *types.Subaccount
}

func AccountFromPrincipal(p types.Principal) Account { return Account{Owner: p} }

func NewAccount(owner types.Principal, sub types.Subaccount) Account {
	return Account{Owner: owner, Subaccount: &sub}
}

func (a Account) EffectiveSubaccount() types.Subaccount {
	if a.Subaccount == nil {
		return types.DefaultSubaccount
	}
	return *a.Subaccount
}

func (a Account) HasDefaultSubaccount() bool { return a.EffectiveSubaccount().IsDefault() }

func (a Account) Equal(o Account) bool {
	return a.Owner == o.Owner && a.EffectiveSubaccount() == o.EffectiveSubaccount()
}

func (a Account) String() string {
	if a.HasDefaultSubaccount() {
		return a.Owner.String()
	}
	return a.Owner.String() + "." + a.EffectiveSubaccount().String()
}

// CryptoAccount is a side of a settled transfer.
type CryptoAccount struct {
	mint    bool
	account Account
}

var Mint = CryptoAccount{mint: true}

func ToAccount(a Account) CryptoAccount { return CryptoAccount{account: a} }

func (c CryptoAccount) IsMint() bool { return c.mint }

func (c CryptoAccount) Account() (Account, bool) { return c.account, !c.mint }

func (c CryptoAccount) String() string {
	if c.mint {
		return "mint"
	}
	return c.account.String()
}
