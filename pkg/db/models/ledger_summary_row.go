package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerSummaryRow maps the customer_ledger_summaries view. The view is a
// read-model convenience; its current_balance is still overridden by the
// reconciler before any summary leaves the ledger service.
type LedgerSummaryRow struct {
	CustomerID        uuid.UUID        `gorm:"column:customer_id;primaryKey"`
	UserID            uuid.UUID        `gorm:"column:user_id"`
	Name              string           `gorm:"column:name"`
	Phone             string           `gorm:"column:phone"`
	CreditLimit       decimal.Decimal  `gorm:"column:credit_limit"`
	CurrentBalance    decimal.Decimal  `gorm:"column:current_balance"`
	OutstandingOrders int              `gorm:"column:outstanding_orders"`
	TotalUnpaidAmount decimal.Decimal  `gorm:"column:total_unpaid_amount"`
	LastPaymentDate   *time.Time       `gorm:"column:last_payment_date"`
	LastPaymentAmount *decimal.Decimal `gorm:"column:last_payment_amount"`
}

// TableName points gorm at the view.
func (LedgerSummaryRow) TableName() string {
	return "customer_ledger_summaries"
}
