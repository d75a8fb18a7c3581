package types

import "github.com/shopspring/decimal"

// AuthoritativeBalance is a balance re-derived from the ledger itself. Only
// the ledger reconciler produces values of this type; anything read from the
// denormalized customers.account_balance column is a CachedBalanceHint.
type AuthoritativeBalance struct {
	Amount decimal.Decimal
}

// CachedBalanceHint is the denormalized balance column. It is advisory: the
// summary builder only falls back to it when the ledger read itself fails,
// and marks the result as degraded.
type CachedBalanceHint struct {
	Amount decimal.Decimal
}

// BalanceSource records which of the two a summary was built from.
type BalanceSource string

const (
	BalanceSourceLedger BalanceSource = "ledger"
	BalanceSourceCache  BalanceSource = "cache"
)

// Authoritative wraps a ledger-derived amount.
func Authoritative(amount decimal.Decimal) AuthoritativeBalance {
	return AuthoritativeBalance{Amount: amount}
}

// Hint wraps a cached column value.
func Hint(amount decimal.Decimal) CachedBalanceHint {
	return CachedBalanceHint{Amount: amount}
}

// Decimal returns the underlying amount.
func (b AuthoritativeBalance) Decimal() decimal.Decimal { return b.Amount }

// Decimal returns the underlying amount.
func (h CachedBalanceHint) Decimal() decimal.Decimal { return h.Amount }
