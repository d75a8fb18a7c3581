package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/internal/audit"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// DiscountInput is an operator-entered discount, recomputed server-side
// against the order subtotal.
type DiscountInput struct {
	Type  enums.DiscountType `json:"type"`
	Value decimal.Decimal    `json:"value"`
}

// SplitLeg is one payment method's share of a split capture.
type SplitLeg struct {
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Amount          decimal.Decimal     `json:"amount"`
	ReferenceNumber *string             `json:"reference_number,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

// CaptureInput is the payment captured while completing an order. Splits
// takes precedence over the single-method fields when present.
type CaptureInput struct {
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Discount      *DiscountInput      `json:"discount,omitempty"`
	CashReceived  *decimal.Decimal    `json:"cash_received,omitempty"`
	Splits        []SplitLeg          `json:"splits,omitempty"`
}

// CompleteInput carries everything needed to close out an order.
type CompleteInput struct {
	TenantID uuid.UUID
	OrderID  uuid.UUID
	ActorID  uuid.UUID
	Capture  *CaptureInput
}

// CompleteResult reports the order after completion. ChangeDue is nonzero
// only for cash captures where the operator was handed more than the total.
type CompleteResult struct {
	Order     *models.Order    `json:"order"`
	ChangeDue decimal.Decimal  `json:"change_due"`
	Audit     audit.SideEffect `json:"-"`
}

// BillToAccountInput identifies the order to post against a customer ledger.
type BillToAccountInput struct {
	TenantID uuid.UUID
	OrderID  uuid.UUID
	ActorID  uuid.UUID
}

// BillToAccountResult carries the posted debit alongside the order.
type BillToAccountResult struct {
	Order *models.Order       `json:"order"`
	Entry *models.LedgerEntry `json:"entry"`
	Audit audit.SideEffect    `json:"-"`
}
