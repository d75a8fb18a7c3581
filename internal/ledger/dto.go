package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
	"github.com/omarsaleem/tandoorpos-backend/pkg/types"
)

// EntryInput captures the data required to post a ledger entry.
type EntryInput struct {
	TenantID        uuid.UUID
	CustomerID      uuid.UUID
	TransactionType enums.TransactionType
	Amount          decimal.Decimal
	OrderID         *uuid.UUID
	PaymentID       *uuid.UUID
	Description     string
	Notes           *string
	CreatedBy       uuid.UUID
}

// PaymentInput carries the operator-entered payment fields.
type PaymentInput struct {
	Amount          decimal.Decimal     `json:"amount"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ReferenceNumber *string             `json:"reference_number,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

// Allocation maps a payment slice to a specific order. The flat balance
// design applies every payment against the whole balance, so recorder results
// carry an empty list; the type exists for the API contract.
type Allocation struct {
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// RecordPaymentResult is the recorder's full outcome.
type RecordPaymentResult struct {
	Payment       *models.Payment `json:"payment"`
	Allocations   []Allocation    `json:"allocations"`
	TotalSettled  decimal.Decimal `json:"total_settled"`
	CreditUsed    decimal.Decimal `json:"credit_used"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
}

// Summary is the read-model the UI consumes for one customer.
type Summary struct {
	CustomerID        uuid.UUID           `json:"customer_id"`
	Name              string              `json:"name"`
	Phone             string              `json:"phone"`
	CreditLimit       decimal.Decimal     `json:"credit_limit"`
	CurrentBalance    decimal.Decimal     `json:"current_balance"`
	BalanceSource     types.BalanceSource `json:"balance_source"`
	OutstandingOrders int                 `json:"outstanding_orders"`
	TotalUnpaidAmount decimal.Decimal     `json:"total_unpaid_amount"`
	LastPaymentDate   *time.Time          `json:"last_payment_date,omitempty"`
	LastPaymentAmount *decimal.Decimal    `json:"last_payment_amount,omitempty"`
}

// HasActivity reports whether the customer has any ledger history worth
// sorting ahead of untouched customers.
func (s Summary) HasActivity() bool {
	return !s.CurrentBalance.IsZero() || s.OutstandingOrders > 0 || s.LastPaymentDate != nil
}

// SummariesResult aggregates per-customer summaries. Degraded collects the
// reconciliation failures of customers that fell back to the cached hint; it
// never aborts the list.
type SummariesResult struct {
	Summaries []Summary `json:"summaries"`
	Degraded  error     `json:"-"`
}

// StatementLine is one ledger entry annotated for display and export.
type StatementLine struct {
	Entry         models.LedgerEntry   `json:"entry"`
	OrderNumber   *int64               `json:"order_number,omitempty"`
	PaymentMethod *enums.PaymentMethod `json:"payment_method,omitempty"`
}

// Statement is the chronological (ascending) view of a customer's ledger.
type Statement struct {
	Customer *models.Customer `json:"customer"`
	Lines    []StatementLine  `json:"lines"`
	From     *time.Time       `json:"from,omitempty"`
	To       *time.Time       `json:"to,omitempty"`
}

// UnpaidOrder is an outstanding account order annotated with its age.
type UnpaidOrder struct {
	Order           models.Order `json:"order"`
	DaysOutstanding int          `json:"days_outstanding"`
}

// Balance classification labels.
const (
	BalanceOutstanding = "outstanding"
	BalanceCredit      = "credit"
	BalanceSettled     = "settled"
)

// BalanceDisplay is the UI-facing classification of a net balance.
type BalanceDisplay struct {
	Classification string          `json:"classification"`
	Amount         decimal.Decimal `json:"amount"`
}

// ClassifyBalance maps a net balance to its display form. Positive balances
// are owed to the house, negative balances are customer credit.
func ClassifyBalance(balance decimal.Decimal) BalanceDisplay {
	switch {
	case balance.IsPositive():
		return BalanceDisplay{Classification: BalanceOutstanding, Amount: balance}
	case balance.IsNegative():
		return BalanceDisplay{Classification: BalanceCredit, Amount: balance.Neg()}
	default:
		return BalanceDisplay{Classification: BalanceSettled, Amount: decimal.Zero}
	}
}
