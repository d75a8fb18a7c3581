package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// chronoOrder is the canonical entry ordering. The tiebreak on created_at
// resolves entries posted within the same date/time second.
const (
	chronoDesc = "transaction_date DESC, transaction_time DESC, created_at DESC"
	chronoAsc  = "transaction_date ASC, transaction_time ASC, created_at ASC"
)

// Repository manages persistence for the ledger store. Balance fields on the
// customer row are written only through this repository.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	LockCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	UpdateCustomerBalance(ctx context.Context, customerID uuid.UUID, balance decimal.Decimal) error
	UpdateCustomerLastPayment(ctx context.Context, customerID uuid.UUID, date time.Time, amount decimal.Decimal) error
	ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]models.Customer, error)

	LatestEntry(ctx context.Context, customerID uuid.UUID) (*models.LedgerEntry, error)
	LatestCreditEntry(ctx context.Context, customerID uuid.UUID) (*models.LedgerEntry, error)
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	ListEntries(ctx context.Context, tenantID, customerID uuid.UUID, from, to *time.Time) ([]models.LedgerEntry, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	LatestPayment(ctx context.Context, customerID uuid.UUID) (*models.Payment, error)
	NextPaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	FindPaymentsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Payment, error)

	UnpaidOrders(ctx context.Context, tenantID, customerID uuid.UUID) ([]models.Order, error)
	FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Order, error)

	SummaryFromView(ctx context.Context, tenantID, customerID uuid.UUID) (*models.LedgerSummaryRow, error)
	SummariesFromView(ctx context.Context, tenantID uuid.UUID) ([]models.LedgerSummaryRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", customerID, tenantID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// LockCustomer takes the per-customer write lock. Every balance-affecting
// transaction starts here so ledger mutations for one customer serialize.
func (r *repository) LockCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", customerID, tenantID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) UpdateCustomerBalance(ctx context.Context, customerID uuid.UUID, balance decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("account_balance", balance).Error
}

func (r *repository) UpdateCustomerLastPayment(ctx context.Context, customerID uuid.UUID, date time.Time, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"last_payment_date":   date,
			"last_payment_amount": amount,
		}).Error
}

func (r *repository) ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]models.Customer, error) {
	var list []models.Customer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", tenantID).
		Order("name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) LatestEntry(ctx context.Context, customerID uuid.UUID) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order(chronoDesc).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) LatestCreditEntry(ctx context.Context, customerID uuid.UUID) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND transaction_type = ?", customerID, enums.TransactionTypeCredit).
		Order(chronoDesc).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListEntries(ctx context.Context, tenantID, customerID uuid.UUID, from, to *time.Time) ([]models.LedgerEntry, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND customer_id = ?", tenantID, customerID)
	if from != nil {
		q = q.Where("transaction_date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		q = q.Where("transaction_date <= ?", to.Format("2006-01-02"))
	}

	var entries []models.LedgerEntry
	if err := q.Order(chronoAsc).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) LatestPayment(ctx context.Context, customerID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// NextPaymentNumber issues the human-readable per-tenant sequence. Callers
// run it inside the same transaction as the payment insert; the unique index
// on (user_id, payment_number) rejects races.
func (r *repository) NextPaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%06d", count+1), nil
}

func (r *repository) FindPaymentsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Payment, error) {
	out := make(map[uuid.UUID]models.Payment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&payments).Error; err != nil {
		return nil, err
	}
	for _, p := range payments {
		out[p.ID] = p
	}
	return out, nil
}

func (r *repository) UnpaidOrders(ctx context.Context, tenantID, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND customer_id = ?", tenantID, customerID).
		Where("payment_method = ?", enums.PaymentMethodAccount).
		Where("payment_status IN ?", []enums.PaymentStatus{
			enums.PaymentStatusPending,
			enums.PaymentStatusPartial,
		}).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Order, error) {
	out := make(map[uuid.UUID]models.Order, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&orders).Error; err != nil {
		return nil, err
	}
	for _, o := range orders {
		out[o.ID] = o
	}
	return out, nil
}

func (r *repository) SummaryFromView(ctx context.Context, tenantID, customerID uuid.UUID) (*models.LedgerSummaryRow, error) {
	var row models.LedgerSummaryRow
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND user_id = ?", customerID, tenantID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) SummariesFromView(ctx context.Context, tenantID uuid.UUID) ([]models.LedgerSummaryRow, error) {
	var rows []models.LedgerSummaryRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", tenantID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
