package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// Payment is a receipt of funds from a customer, independent of which orders
// it settles. Rows are immutable after creation.
type Payment struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	PaymentNumber   string              `gorm:"column:payment_number;not null"`
	AmountReceived  decimal.Decimal     `gorm:"column:amount_received;type:numeric(12,2);not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	ReferenceNumber *string             `gorm:"column:reference_number"`
	Notes           *string             `gorm:"column:notes"`
	ReceivedBy      uuid.UUID           `gorm:"column:received_by;type:uuid;not null"`
	AmountSettled   decimal.Decimal     `gorm:"column:amount_settled;type:numeric(12,2);not null"`
	AmountUnapplied decimal.Decimal     `gorm:"column:amount_unapplied;type:numeric(12,2);not null;default:0"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}
