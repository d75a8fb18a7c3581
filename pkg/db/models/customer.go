package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a billing profile scoped to one tenant (user_id).
//
// AccountBalance is a cache of the latest ledger entry's balance_after. It is
// written exclusively by the ledger store and is never treated as
// authoritative on read; the reconciler re-derives the real balance from
// customer_ledger whenever correctness matters.
type Customer struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Name              string           `gorm:"column:name;not null"`
	Phone             string           `gorm:"column:phone;not null"`
	CreditLimit       decimal.Decimal  `gorm:"column:credit_limit;type:numeric(12,2);not null;default:0"`
	AccountBalance    decimal.Decimal  `gorm:"column:account_balance;type:numeric(12,2);not null;default:0"`
	LastPaymentDate   *time.Time       `gorm:"column:last_payment_date;type:date"`
	LastPaymentAmount *decimal.Decimal `gorm:"column:last_payment_amount;type:numeric(12,2)"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
