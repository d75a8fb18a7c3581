package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/omarsaleem/tandoorpos-backend/pkg/config"
	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
	pkgerrors "github.com/omarsaleem/tandoorpos-backend/pkg/errors"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
	"github.com/omarsaleem/tandoorpos-backend/pkg/metrics"
	"github.com/omarsaleem/tandoorpos-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the ledger core: balance reconciliation, entry posting, payment
// recording, summaries, statements and the unpaid-order query.
type Service interface {
	CurrentBalance(ctx context.Context, tenantID, customerID uuid.UUID) (types.AuthoritativeBalance, error)
	CreateEntry(ctx context.Context, input EntryInput) (*models.LedgerEntry, error)
	CreateEntryWithoutBalanceUpdate(ctx context.Context, input EntryInput) (*models.LedgerEntry, error)
	RecordPayment(ctx context.Context, tenantID, customerID uuid.UUID, input PaymentInput, receivedBy uuid.UUID) (*RecordPaymentResult, error)
	CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (*Summary, error)
	AllCustomerSummaries(ctx context.Context, tenantID uuid.UUID) (*SummariesResult, error)
	Statement(ctx context.Context, tenantID, customerID uuid.UUID, from, to *time.Time) (*Statement, error)
	UnpaidOrders(ctx context.Context, tenantID, customerID uuid.UUID) ([]UnpaidOrder, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	cfg     config.LedgerConfig
	logg    *logger.Logger
	metrics *metrics.LedgerMetrics
	now     func() time.Time
}

// NewService wires the ledger service. The metrics argument may be nil.
func NewService(repo Repository, tx txRunner, cfg config.LedgerConfig, logg *logger.Logger, m *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.WriteRetryAttempts == 0 {
		cfg.WriteRetryAttempts = 5
	}
	if cfg.WriteRetryBase <= 0 {
		cfg.WriteRetryBase = 25 * time.Millisecond
	}
	return &service{
		repo:    repo,
		tx:      tx,
		cfg:     cfg,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

// CurrentBalance derives the authoritative balance from the latest ledger
// entry. The cached customers.account_balance never participates here.
func (s *service) CurrentBalance(ctx context.Context, tenantID, customerID uuid.UUID) (types.AuthoritativeBalance, error) {
	if tenantID == uuid.Nil {
		return types.AuthoritativeBalance{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if customerID == uuid.Nil {
		return types.AuthoritativeBalance{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	if _, err := s.repo.FindCustomer(ctx, tenantID, customerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.AuthoritativeBalance{}, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return types.AuthoritativeBalance{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	return s.latestBalance(ctx, customerID)
}

func (s *service) latestBalance(ctx context.Context, customerID uuid.UUID) (types.AuthoritativeBalance, error) {
	entry, err := s.repo.LatestEntry(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.Authoritative(decimal.Zero), nil
		}
		return types.AuthoritativeBalance{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read ledger")
	}
	return types.Authoritative(entry.BalanceAfter), nil
}

// CreateEntry posts a balance-affecting entry: lock customer, re-derive the
// balance, compute balance_after, insert, refresh the cache. One transaction.
func (s *service) CreateEntry(ctx context.Context, input EntryInput) (*models.LedgerEntry, error) {
	if err := s.validateEntryInput(input); err != nil {
		return nil, err
	}

	started := s.now()
	var created *models.LedgerEntry
	err := s.runWrite(ctx, "create_entry", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.lockCustomer(ctx, repo, input.TenantID, input.CustomerID)
		if err != nil {
			return err
		}

		balance, err := s.reconcileLocked(ctx, repo, customer)
		if err != nil {
			return err
		}

		after := applyEntry(balance, input.TransactionType, input.Amount)
		entry := s.buildEntry(input, balance, after)
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger entry")
		}
		if err := repo.UpdateCustomerBalance(ctx, customer.ID, after); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance cache")
		}

		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncEntryWritten(input.TransactionType.String())
	s.metrics.ObserveDuration("create_entry", s.now().Sub(started))
	return created, nil
}

// CreateEntryWithoutBalanceUpdate posts a record-only entry whose
// balance_before equals balance_after. The cached balance is untouched.
func (s *service) CreateEntryWithoutBalanceUpdate(ctx context.Context, input EntryInput) (*models.LedgerEntry, error) {
	if err := s.validateEntryInput(input); err != nil {
		return nil, err
	}

	var created *models.LedgerEntry
	err := s.runWrite(ctx, "create_entry_record_only", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.lockCustomer(ctx, repo, input.TenantID, input.CustomerID)
		if err != nil {
			return err
		}

		balance, err := s.reconcileLocked(ctx, repo, customer)
		if err != nil {
			return err
		}

		entry := s.buildEntry(input, balance, balance)
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger entry")
		}

		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncEntryWritten(input.TransactionType.String())
	return created, nil
}

// RecordPayment runs the whole "customer paid us" flow as one transaction:
// payment row, credit entry, balance cache, last-payment metadata. A timeout
// can no longer strand a payment row without its ledger entry.
func (s *service) RecordPayment(ctx context.Context, tenantID, customerID uuid.UUID, input PaymentInput, receivedBy uuid.UUID) (*RecordPaymentResult, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if receivedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "receiving actor missing")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be greater than zero")
	}
	if !input.PaymentMethod.IsValid() || !input.PaymentMethod.IsCaptureMethod() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}

	started := s.now()
	var result *RecordPaymentResult
	err := s.runWrite(ctx, "record_payment", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.lockCustomer(ctx, repo, tenantID, customerID)
		if err != nil {
			return err
		}

		balanceBefore, err := s.reconcileLocked(ctx, repo, customer)
		if err != nil {
			return err
		}

		number, err := repo.NextPaymentNumber(ctx, tenantID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue payment number")
		}

		payment := &models.Payment{
			ID:              uuid.New(),
			UserID:          tenantID,
			CustomerID:      customerID,
			PaymentNumber:   number,
			AmountReceived:  input.Amount,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			ReceivedBy:      receivedBy,
			AmountSettled:   input.Amount,
			AmountUnapplied: decimal.Zero,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			// Concurrent payments for the same tenant race to the same
			// sequence slot; the retry re-reads the count under a new tx.
			if pkgerrors.IsUniqueViolation(err, "uq_payments_user_number") {
				return pkgerrors.Wrap(pkgerrors.CodeConcurrentModification, err, "payment number already issued")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment")
		}

		after := balanceBefore.Sub(input.Amount)
		entry := s.buildEntry(EntryInput{
			TenantID:        tenantID,
			CustomerID:      customerID,
			TransactionType: enums.TransactionTypeCredit,
			Amount:          input.Amount,
			PaymentID:       &payment.ID,
			Description:     "Payment received",
			Notes:           input.Notes,
			CreatedBy:       receivedBy,
		}, balanceBefore, after)
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger entry")
		}
		if err := repo.UpdateCustomerBalance(ctx, customerID, after); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance cache")
		}
		paidAt := s.now()
		if err := repo.UpdateCustomerLastPayment(ctx, customerID, paidAt, input.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last payment")
		}

		outstanding := decimal.Max(balanceBefore, decimal.Zero)
		advance := decimal.Max(input.Amount.Sub(outstanding), decimal.Zero)
		result = &RecordPaymentResult{
			Payment:       payment,
			Allocations:   []Allocation{},
			TotalSettled:  input.Amount,
			CreditUsed:    decimal.Zero,
			AdvanceAmount: advance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentRecorded(input.PaymentMethod.String())
	s.metrics.IncEntryWritten(enums.TransactionTypeCredit.String())
	s.metrics.ObserveDuration("record_payment", s.now().Sub(started))
	return result, nil
}

// CustomerSummary builds the read model for one customer. The reconciler's
// balance overrides whatever the view or the customer row carried.
func (s *service) CustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (*Summary, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	customer, err := s.repo.FindCustomer(ctx, tenantID, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	summary, _, err := s.buildSummary(ctx, customer)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// AllCustomerSummaries builds per-customer summaries for the whole tenant.
// One customer's reconciliation failure degrades that customer to the cached
// hint; the failures are aggregated, never fatal.
func (s *service) AllCustomerSummaries(ctx context.Context, tenantID uuid.UUID) (*SummariesResult, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}

	customers, err := s.repo.ListCustomers(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	// One batch view read replaces a per-customer query fan-out. A failed
	// batch read falls back to the manual aggregate rebuild per customer.
	var viewRows map[uuid.UUID]*models.LedgerSummaryRow
	if s.cfg.SummaryView {
		rows, err := s.repo.SummariesFromView(ctx, tenantID)
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("summary view batch read failed, rebuilding manually: %v", err))
		} else {
			viewRows = make(map[uuid.UUID]*models.LedgerSummaryRow, len(rows))
			for i := range rows {
				viewRows[rows[i].CustomerID] = &rows[i]
			}
		}
	}

	result := &SummariesResult{Summaries: make([]Summary, 0, len(customers))}
	for i := range customers {
		customer := &customers[i]
		row := viewRows[customer.ID]
		if viewRows != nil && row == nil {
			// fresh customer, nothing aggregated yet
			row = &models.LedgerSummaryRow{CustomerID: customer.ID}
		}
		summary, degraded, err := s.assembleSummary(ctx, customer, row)
		if err != nil {
			result.Degraded = multierr.Append(result.Degraded, err)
			continue
		}
		if degraded != nil {
			result.Degraded = multierr.Append(result.Degraded, degraded)
		}
		result.Summaries = append(result.Summaries, *summary)
	}

	sortSummaries(result.Summaries)
	return result, nil
}

// buildSummary assembles one summary via the per-customer view read. The
// second return value carries the non-fatal degradation (reconciler read
// failed, cached hint used).
func (s *service) buildSummary(ctx context.Context, customer *models.Customer) (*Summary, error, error) {
	var row *models.LedgerSummaryRow
	if s.cfg.SummaryView {
		r, err := s.repo.SummaryFromView(ctx, customer.UserID, customer.ID)
		switch {
		case err == nil:
			row = r
		case err == gorm.ErrRecordNotFound:
			// fresh customer, nothing aggregated yet
			row = &models.LedgerSummaryRow{CustomerID: customer.ID}
		default:
			s.logg.Warn(s.logg.WithCustomerID(ctx, customer.ID.String()),
				fmt.Sprintf("summary view read failed, rebuilding manually: %v", err))
		}
	}
	return s.assembleSummary(ctx, customer, row)
}

// assembleSummary finishes a summary given an optional view row. A nil row
// forces the manual aggregate rebuild from the orders table.
func (s *service) assembleSummary(ctx context.Context, customer *models.Customer, row *models.LedgerSummaryRow) (*Summary, error, error) {
	summary := &Summary{
		CustomerID:        customer.ID,
		Name:              customer.Name,
		Phone:             customer.Phone,
		CreditLimit:       customer.CreditLimit,
		LastPaymentDate:   customer.LastPaymentDate,
		LastPaymentAmount: customer.LastPaymentAmount,
	}

	if row != nil {
		summary.OutstandingOrders = row.OutstandingOrders
		summary.TotalUnpaidAmount = row.TotalUnpaidAmount
		if row.LastPaymentDate != nil {
			summary.LastPaymentDate = row.LastPaymentDate
			summary.LastPaymentAmount = row.LastPaymentAmount
		}
	} else {
		orders, err := s.repo.UnpaidOrders(ctx, customer.UserID, customer.ID)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate unpaid orders")
		}
		total := decimal.Zero
		for _, order := range orders {
			due := order.AmountDue
			if due.IsZero() {
				due = order.TotalAmount.Sub(order.AmountPaid)
			}
			total = total.Add(due)
		}
		summary.OutstandingOrders = len(orders)
		summary.TotalUnpaidAmount = total
	}

	if summary.LastPaymentDate == nil {
		s.fillLastPaymentFallback(ctx, customer.ID, summary)
	}

	// The reconciler always has the final word on the balance.
	balance, err := s.latestBalance(ctx, customer.ID)
	if err != nil {
		hint := types.Hint(customer.AccountBalance)
		summary.CurrentBalance = hint.Decimal()
		summary.BalanceSource = types.BalanceSourceCache
		degraded := fmt.Errorf("customer %s degraded to cached balance: %w", customer.ID, err)
		s.logg.Warn(s.logg.WithCustomerID(ctx, customer.ID.String()), degraded.Error())
		return summary, degraded, nil
	}
	summary.CurrentBalance = balance.Decimal()
	summary.BalanceSource = types.BalanceSourceLedger
	return summary, nil, nil
}

// fillLastPaymentFallback consults the payments table and finally the latest
// credit entry. A prior design wrote only one of the two stores.
func (s *service) fillLastPaymentFallback(ctx context.Context, customerID uuid.UUID, summary *Summary) {
	payment, err := s.repo.LatestPayment(ctx, customerID)
	if err == nil {
		date := payment.CreatedAt
		amount := payment.AmountReceived
		summary.LastPaymentDate = &date
		summary.LastPaymentAmount = &amount
		return
	}
	if err != gorm.ErrRecordNotFound {
		return
	}

	entry, err := s.repo.LatestCreditEntry(ctx, customerID)
	if err != nil {
		return
	}
	date := entry.TransactionDate
	amount := entry.Amount
	summary.LastPaymentDate = &date
	summary.LastPaymentAmount = &amount
}

// Statement returns the ascending chronological ledger with order numbers and
// payment methods resolved for display and export.
func (s *service) Statement(ctx context.Context, tenantID, customerID uuid.UUID, from, to *time.Time) (*Statement, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_to must not precede date_from")
	}

	customer, err := s.repo.FindCustomer(ctx, tenantID, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	entries, err := s.repo.ListEntries(ctx, tenantID, customerID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read ledger")
	}

	orderIDs := make([]uuid.UUID, 0, len(entries))
	paymentIDs := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		if entry.OrderID != nil {
			orderIDs = append(orderIDs, *entry.OrderID)
		}
		if entry.PaymentID != nil {
			paymentIDs = append(paymentIDs, *entry.PaymentID)
		}
	}

	orders, err := s.repo.FindOrdersByIDs(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order references")
	}
	payments, err := s.repo.FindPaymentsByIDs(ctx, paymentIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve payment references")
	}

	lines := make([]StatementLine, 0, len(entries))
	for _, entry := range entries {
		line := StatementLine{Entry: entry}
		if entry.OrderID != nil {
			if order, ok := orders[*entry.OrderID]; ok {
				number := order.OrderNumber
				line.OrderNumber = &number
			}
		}
		if entry.PaymentID != nil {
			if payment, ok := payments[*entry.PaymentID]; ok {
				method := payment.PaymentMethod
				line.PaymentMethod = &method
			}
		}
		lines = append(lines, line)
	}

	return &Statement{Customer: customer, Lines: lines, From: from, To: to}, nil
}

// UnpaidOrders lists outstanding account orders oldest first.
func (s *service) UnpaidOrders(ctx context.Context, tenantID, customerID uuid.UUID) ([]UnpaidOrder, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	orders, err := s.repo.UnpaidOrders(ctx, tenantID, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unpaid orders")
	}

	now := s.now()
	out := make([]UnpaidOrder, 0, len(orders))
	for _, order := range orders {
		days := int(now.Sub(order.CreatedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		out = append(out, UnpaidOrder{Order: order, DaysOutstanding: days})
	}
	return out, nil
}

func (s *service) validateEntryInput(input EntryInput) error {
	if input.TenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant identity missing")
	}
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.CreatedBy == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user missing")
	}
	if !input.TransactionType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.TransactionType))
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if input.Description == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	return nil
}

func (s *service) lockCustomer(ctx context.Context, repo Repository, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := repo.LockCustomer(ctx, tenantID, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock customer")
	}
	return customer, nil
}

// reconcileLocked reads the authoritative balance under the customer lock and
// reports cache drift. The ledger-derived value always wins.
func (s *service) reconcileLocked(ctx context.Context, repo Repository, customer *models.Customer) (decimal.Decimal, error) {
	entry, err := repo.LatestEntry(ctx, customer.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			if !customer.AccountBalance.IsZero() {
				s.warnDrift(ctx, customer, decimal.Zero)
			}
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read ledger")
	}
	if !entry.BalanceAfter.Equal(customer.AccountBalance) {
		s.warnDrift(ctx, customer, entry.BalanceAfter)
	}
	return entry.BalanceAfter, nil
}

func (s *service) warnDrift(ctx context.Context, customer *models.Customer, derived decimal.Decimal) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"customer_id": customer.ID.String(),
		"cached":      customer.AccountBalance.String(),
		"derived":     derived.String(),
	})
	s.logg.Warn(ctx, "balance cache drift detected, ledger value wins")
}

func (s *service) buildEntry(input EntryInput, before, after decimal.Decimal) *models.LedgerEntry {
	// transaction_date and transaction_time must come from the same zone or
	// the chronological sort breaks around midnight. Everything is UTC.
	now := s.now().UTC()
	return &models.LedgerEntry{
		ID:              uuid.New(),
		UserID:          input.TenantID,
		CustomerID:      input.CustomerID,
		TransactionType: input.TransactionType,
		Amount:          input.Amount,
		BalanceBefore:   before,
		BalanceAfter:    after,
		OrderID:         input.OrderID,
		PaymentID:       input.PaymentID,
		Description:     input.Description,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
		TransactionDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		TransactionTime: now.Format("15:04:05"),
	}
}

// runWrite executes the transactional write with a bounded backoff retry on
// concurrent-modification conflicts.
func (s *service) runWrite(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	backoff := retry.WithMaxRetries(s.cfg.WriteRetryAttempts, retry.NewExponential(s.cfg.WriteRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.tx.WithTx(ctx, fn)
		if err == nil {
			return nil
		}
		if pkgerrors.IsRetryableTxFailure(err) {
			s.metrics.IncWriteConflict(op)
			return retry.RetryableError(
				pkgerrors.Wrap(pkgerrors.CodeConcurrentModification, err, "concurrent ledger modification"))
		}
		if pkgerrors.IsCode(err, pkgerrors.CodeConcurrentModification) {
			s.metrics.IncWriteConflict(op)
			return retry.RetryableError(err)
		}
		return err
	})
}

func applyEntry(before decimal.Decimal, t enums.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == enums.TransactionTypeDebit {
		return before.Add(amount)
	}
	return before.Sub(amount)
}

func sortSummaries(summaries []Summary) {
	// Active accounts first, then alphabetical within each group.
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.HasActivity() != b.HasActivity() {
			return a.HasActivity()
		}
		return a.Name < b.Name
	})
}
