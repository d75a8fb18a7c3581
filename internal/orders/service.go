package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/omarsaleem/tandoorpos-backend/internal/audit"
	"github.com/omarsaleem/tandoorpos-backend/internal/ledger"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
	pkgerrors "github.com/omarsaleem/tandoorpos-backend/pkg/errors"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ledgerPoster interface {
	CreateEntry(ctx context.Context, input ledger.EntryInput) (*models.LedgerEntry, error)
	CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (*ledger.Summary, error)
}

// Service drives order completion: immediate capture for walk-in methods,
// ledger deferral for account orders.
type Service interface {
	Complete(ctx context.Context, input CompleteInput) (*CompleteResult, error)
	BillToAccount(ctx context.Context, input BillToAccountInput) (*BillToAccountResult, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	ledger  ledgerPoster
	auditor audit.Service
	logg    *logger.Logger
}

// NewService wires the order completion service.
func NewService(repo Repository, tx txRunner, ledgerSvc ledgerPoster, auditor audit.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("audit service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, ledger: ledgerSvc, auditor: auditor, logg: logg}, nil
}

// statusTransition is the audit payload for completion transitions.
type statusTransition struct {
	OrderStatusFrom   enums.OrderStatus   `json:"order_status_from"`
	OrderStatusTo     enums.OrderStatus   `json:"order_status_to"`
	PaymentStatusFrom enums.PaymentStatus `json:"payment_status_from"`
	PaymentStatusTo   enums.PaymentStatus `json:"payment_status_to"`
}

// Complete transitions an order to completed. Already-paid orders and account
// orders skip payment capture entirely; account orders keep their pending
// payment status, their debit lives in the customer's ledger.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*CompleteResult, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user missing")
	}

	var (
		result *CompleteResult
		action enums.AuditAction
		before statusTransition
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.TenantID, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch order.OrderStatus {
		case enums.OrderStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled order cannot be completed")
		case enums.OrderStatusCompleted:
			result = &CompleteResult{Order: order, ChangeDue: decimal.Zero}
			return nil
		}

		before = statusTransition{
			OrderStatusFrom:   order.OrderStatus,
			PaymentStatusFrom: order.PaymentStatus,
		}

		updates := map[string]any{"order_status": enums.OrderStatusCompleted}
		change := decimal.Zero

		switch {
		case order.PaymentStatus == enums.PaymentStatusPaid:
			action = enums.AuditActionOrderStatusChanged

		case order.PaymentMethod != nil && *order.PaymentMethod == enums.PaymentMethodAccount:
			// Account orders bypass capture. The debit was posted at billing
			// time; payment status stays as-is until a payment is recorded.
			action = enums.AuditActionOrderStatusChanged

		default:
			if input.Capture == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "payment capture required to complete this order")
			}
			if len(input.Capture.Splits) > 0 {
				if err := s.captureSplit(ctx, repo, order, input.Capture.Splits, updates); err != nil {
					return err
				}
				action = enums.AuditActionSplitPaymentCaptured
			} else {
				change, err = s.captureSingle(order, input.Capture, updates)
				if err != nil {
					return err
				}
				action = enums.AuditActionPaymentCaptured
			}
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		applyOrderUpdates(order, updates)
		result = &CompleteResult{Order: order, ChangeDue: change}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if action != "" {
		before.OrderStatusTo = result.Order.OrderStatus
		before.PaymentStatusTo = result.Order.PaymentStatus
		result.Audit = s.logTransition(ctx, input.TenantID, input.ActorID, result.Order, action, before,
			fmt.Sprintf("Order #%d completed", result.Order.OrderNumber))
	}
	return result, nil
}

// captureSplit validates the legs and persists one PaymentTransaction each.
// The legs must sum to the order total exactly.
func (s *service) captureSplit(ctx context.Context, repo Repository, order *models.Order, splits []SplitLeg, updates map[string]any) error {
	sum := decimal.Zero
	legs := make([]models.PaymentTransaction, 0, len(splits))
	for i, leg := range splits {
		if !leg.PaymentMethod.IsValid() || !leg.PaymentMethod.IsCaptureMethod() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("split leg %d: invalid payment method %q", i+1, leg.PaymentMethod))
		}
		if !leg.Amount.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("split leg %d: amount must be greater than zero", i+1))
		}
		sum = sum.Add(leg.Amount)
		legs = append(legs, models.PaymentTransaction{
			ID:              uuid.New(),
			UserID:          order.UserID,
			OrderID:         order.ID,
			PaymentMethod:   leg.PaymentMethod,
			Amount:          leg.Amount,
			ReferenceNumber: leg.ReferenceNumber,
			Notes:           leg.Notes,
		})
	}
	if !sum.Equal(order.TotalAmount) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("split legs sum to %s, order total is %s", sum.StringFixed(2), order.TotalAmount.StringFixed(2)))
	}

	if err := repo.CreatePaymentTransactions(ctx, legs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert split legs")
	}

	updates["payment_method"] = enums.PaymentMethodSplit
	updates["payment_status"] = enums.PaymentStatusPaid
	updates["amount_paid"] = sum
	updates["amount_due"] = decimal.Zero
	return nil
}

// captureSingle recomputes the discount against the subtotal and settles the
// order with one method. Returns the cash change due, zero for non-cash.
func (s *service) captureSingle(order *models.Order, capture *CaptureInput, updates map[string]any) (decimal.Decimal, error) {
	if !capture.PaymentMethod.IsValid() || !capture.PaymentMethod.IsCaptureMethod() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", capture.PaymentMethod))
	}

	discountAmount := order.DiscountAmount
	discountPct := order.DiscountPercentage
	if capture.Discount != nil {
		var err error
		discountAmount, discountPct, err = computeDiscount(order.Subtotal, capture.Discount)
		if err != nil {
			return decimal.Zero, err
		}
	}

	newTotal := order.Subtotal.
		Sub(discountAmount).
		Sub(order.LoyaltyDiscount).
		Add(order.DeliveryCharges)
	if newTotal.IsNegative() {
		newTotal = decimal.Zero
	}

	change := decimal.Zero
	if capture.PaymentMethod == enums.PaymentMethodCash {
		if capture.CashReceived == nil {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cash received required for cash payment")
		}
		if capture.CashReceived.LessThan(newTotal) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cash received %s is less than total %s", capture.CashReceived.StringFixed(2), newTotal.StringFixed(2)))
		}
		change = capture.CashReceived.Sub(newTotal)
	}

	updates["payment_method"] = capture.PaymentMethod
	updates["payment_status"] = enums.PaymentStatusPaid
	updates["total_amount"] = newTotal
	updates["discount_amount"] = discountAmount
	updates["discount_percentage"] = discountPct
	updates["amount_paid"] = newTotal
	updates["amount_due"] = decimal.Zero
	return change, nil
}

// computeDiscount clamps percentage discounts to [0, 100] and fixed discounts
// to [0, subtotal]. Monetary math never goes negative.
func computeDiscount(subtotal decimal.Decimal, discount *DiscountInput) (amount, pct decimal.Decimal, err error) {
	value := discount.Value
	if value.IsNegative() {
		value = decimal.Zero
	}
	switch discount.Type {
	case enums.DiscountTypePercentage:
		hundred := decimal.NewFromInt(100)
		if value.GreaterThan(hundred) {
			value = hundred
		}
		return subtotal.Mul(value).Div(hundred), value, nil
	case enums.DiscountTypeFixed:
		if value.GreaterThan(subtotal) {
			value = subtotal
		}
		return value, decimal.Zero, nil
	default:
		return decimal.Zero, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid discount type %q", discount.Type))
	}
}

// BillToAccount posts the order's outstanding amount as a debit in the
// customer's ledger and marks the order as an account order. The credit limit
// is enforced only when the customer has one.
func (s *service) BillToAccount(ctx context.Context, input BillToAccountInput) (*BillToAccountResult, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user missing")
	}

	order, err := s.repo.FindOrder(ctx, input.TenantID, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no customer to bill")
	}
	if !order.PaymentStatus.IsOutstanding() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order payment is already settled")
	}

	amount := order.AmountDue
	if amount.IsZero() {
		amount = order.TotalAmount.Sub(order.AmountPaid)
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no outstanding amount")
	}

	summary, err := s.ledger.CustomerSummary(ctx, input.TenantID, *order.CustomerID)
	if err != nil {
		return nil, err
	}
	if summary.CreditLimit.IsPositive() {
		projected := summary.CurrentBalance.Add(amount)
		if projected.GreaterThan(summary.CreditLimit) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("billing %s would exceed credit limit %s", amount.StringFixed(2), summary.CreditLimit.StringFixed(2)))
		}
	}

	entry, err := s.ledger.CreateEntry(ctx, ledger.EntryInput{
		TenantID:        input.TenantID,
		CustomerID:      *order.CustomerID,
		TransactionType: enums.TransactionTypeDebit,
		Amount:          amount,
		OrderID:         &order.ID,
		Description:     fmt.Sprintf("Order #%d billed to account", order.OrderNumber),
		CreatedBy:       input.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod == nil || *order.PaymentMethod != enums.PaymentMethodAccount {
		if err := s.repo.UpdateOrder(ctx, order.ID, map[string]any{"payment_method": enums.PaymentMethodAccount}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order as account order")
		}
		account := enums.PaymentMethodAccount
		order.PaymentMethod = &account
	}

	side := s.logTransition(ctx, input.TenantID, input.ActorID, order, enums.AuditActionOrderBilledToAccount,
		statusTransition{
			OrderStatusFrom:   order.OrderStatus,
			OrderStatusTo:     order.OrderStatus,
			PaymentStatusFrom: order.PaymentStatus,
			PaymentStatusTo:   order.PaymentStatus,
		},
		fmt.Sprintf("Order #%d billed %s to account", order.OrderNumber, amount.StringFixed(2)))

	return &BillToAccountResult{Order: order, Entry: entry, Audit: side}, nil
}

func (s *service) logTransition(ctx context.Context, tenantID, actorID uuid.UUID, order *models.Order, action enums.AuditAction, transition statusTransition, summary string) audit.SideEffect {
	payload, err := json.Marshal(transition)
	if err != nil {
		payload = nil
	}
	return s.auditor.LogAction(ctx, audit.LogActionInput{
		UserID:     tenantID,
		EntityType: "order",
		EntityID:   order.ID,
		Action:     action,
		ActorID:    actorID,
		Payload:    payload,
		Summary:    summary,
	})
}

// applyOrderUpdates mirrors the persisted column updates onto the in-memory
// order so the result reflects the final row.
func applyOrderUpdates(order *models.Order, updates map[string]any) {
	for column, value := range updates {
		switch column {
		case "order_status":
			order.OrderStatus = value.(enums.OrderStatus)
		case "payment_status":
			order.PaymentStatus = value.(enums.PaymentStatus)
		case "payment_method":
			method := value.(enums.PaymentMethod)
			order.PaymentMethod = &method
		case "total_amount":
			order.TotalAmount = value.(decimal.Decimal)
		case "discount_amount":
			order.DiscountAmount = value.(decimal.Decimal)
		case "discount_percentage":
			order.DiscountPercentage = value.(decimal.Decimal)
		case "amount_paid":
			order.AmountPaid = value.(decimal.Decimal)
		case "amount_due":
			order.AmountDue = value.(decimal.Decimal)
		}
	}
}
