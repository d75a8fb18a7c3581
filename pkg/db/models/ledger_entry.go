package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// LedgerEntry is one immutable row of a customer's balance history. Entries
// are append-only: corrections are new entries, never updates.
//
// For a debit, balance_after = balance_before + amount; for a credit,
// balance_after = balance_before - amount. Ordered by (transaction_date,
// transaction_time, created_at) each entry's balance_before equals the
// previous entry's balance_after.
type LedgerEntry struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerID      uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	TransactionType enums.TransactionType `gorm:"column:transaction_type;type:transaction_type_enum;not null"`
	Amount          decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	BalanceBefore   decimal.Decimal       `gorm:"column:balance_before;type:numeric(12,2);not null"`
	BalanceAfter    decimal.Decimal       `gorm:"column:balance_after;type:numeric(12,2);not null"`
	OrderID         *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	PaymentID       *uuid.UUID            `gorm:"column:payment_id;type:uuid"`
	Description     string                `gorm:"column:description;not null"`
	Notes           *string               `gorm:"column:notes"`
	CreatedBy       uuid.UUID             `gorm:"column:created_by;type:uuid;not null"`
	TransactionDate time.Time             `gorm:"column:transaction_date;type:date;not null"`
	TransactionTime string                `gorm:"column:transaction_time;type:time;not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the historical table name.
func (LedgerEntry) TableName() string {
	return "customer_ledger"
}
