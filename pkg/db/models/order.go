package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// Order carries the ledger-relevant subset of a POS order. An order with
// payment_method=account and payment_status pending/partial is an outstanding
// order and corresponds to a debit in the customer's ledger.
type Order struct {
	ID                 uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerID         *uuid.UUID           `gorm:"column:customer_id;type:uuid;index"`
	OrderNumber        int64                `gorm:"column:order_number;not null"`
	OrderStatus        enums.OrderStatus    `gorm:"column:order_status;type:order_status;not null;default:'pending'"`
	PaymentMethod      *enums.PaymentMethod `gorm:"column:payment_method;type:payment_method"`
	PaymentStatus      enums.PaymentStatus  `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	Subtotal           decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount     decimal.Decimal      `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	DiscountPercentage decimal.Decimal      `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0"`
	LoyaltyDiscount    decimal.Decimal      `gorm:"column:loyalty_discount;type:numeric(12,2);not null;default:0"`
	DeliveryCharges    decimal.Decimal      `gorm:"column:delivery_charges;type:numeric(12,2);not null;default:0"`
	TotalAmount        decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	AmountPaid         decimal.Decimal      `gorm:"column:amount_paid;type:numeric(12,2);not null;default:0"`
	AmountDue          decimal.Decimal      `gorm:"column:amount_due;type:numeric(12,2);not null;default:0"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
