package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// PaymentTransaction is one leg of a split payment. The legs of an order sum
// to the order's total.
type PaymentTransaction struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID         uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Amount          decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	ReferenceNumber *string             `gorm:"column:reference_number"`
	Notes           *string             `gorm:"column:notes"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}
