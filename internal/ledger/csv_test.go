package ledger

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
	"github.com/omarsaleem/tandoorpos-backend/pkg/types"
)

func TestWriteStatementCSV(t *testing.T) {
	customerID := uuid.New()
	tenantID := uuid.New()
	orderNumber := int64(42)
	day1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	statement := &Statement{
		Customer: &models.Customer{
			ID:     customerID,
			UserID: tenantID,
			Name:   "Ali Khan",
			Phone:  "0300-1234567",
		},
		Lines: []StatementLine{
			{
				Entry: models.LedgerEntry{
					TransactionType: enums.TransactionTypeDebit,
					Amount:          dec("500"),
					BalanceBefore:   decimal.Zero,
					BalanceAfter:    dec("500"),
					Description:     "Order billed to account",
					TransactionDate: day1,
				},
				OrderNumber: &orderNumber,
			},
			{
				Entry: models.LedgerEntry{
					TransactionType: enums.TransactionTypeCredit,
					Amount:          dec("300"),
					BalanceBefore:   dec("500"),
					BalanceAfter:    dec("200"),
					Description:     "Payment received",
					TransactionDate: day2,
				},
			},
		},
	}
	summary := &Summary{
		CustomerID:        customerID,
		Name:              "Ali Khan",
		Phone:             "0300-1234567",
		CurrentBalance:    dec("200"),
		BalanceSource:     types.BalanceSourceLedger,
		TotalUnpaidAmount: dec("500"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatementCSV(&buf, statement, summary))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, statementHeader, records[0])

	// One of Debit/Credit populated per entry row, never both.
	entryRows := records[1:3]
	for i, row := range entryRows {
		debit, credit := row[3], row[4]
		assert.Truef(t, (debit == "") != (credit == ""), "row %d: debit=%q credit=%q", i, debit, credit)
	}

	assert.Equal(t, []string{"2026-03-10", "Order billed to account", "42", "500.00", "", "500.00"}, entryRows[0])
	assert.Equal(t, []string{"2026-03-12", "Payment received", "", "", "300.00", "200.00"}, entryRows[1])

	// The last entry row's running balance matches the reconciled balance.
	assert.Equal(t, summary.CurrentBalance.StringFixed(2), entryRows[len(entryRows)-1][5])

	// Trailing summary block.
	tail := records[3:]
	require.Len(t, tail, 5)
	assert.Equal(t, []string{"", "", "", "", "", ""}, tail[0])
	assert.Equal(t, "Customer", tail[1][0])
	assert.Equal(t, "Ali Khan", tail[1][1])
	assert.Equal(t, "Phone", tail[2][0])
	assert.Equal(t, "Account Balance", tail[3][0])
	assert.Equal(t, "200.00", tail[3][1])
	assert.Equal(t, "Total Unpaid", tail[4][0])
	assert.Equal(t, "500.00", tail[4][1])
}

func TestWriteStatementCSV_RequiresInputs(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteStatementCSV(&buf, nil, &Summary{}))
	assert.Error(t, WriteStatementCSV(&buf, &Statement{}, &Summary{}))
	assert.Error(t, WriteStatementCSV(&buf, &Statement{Customer: &models.Customer{}}, nil))
}

func TestWriteStatementCSV_EmptyLedger(t *testing.T) {
	statement := &Statement{Customer: &models.Customer{Name: "Fresh", Phone: "0300-0000000"}}
	summary := &Summary{Name: "Fresh", Phone: "0300-0000000", CurrentBalance: decimal.Zero, TotalUnpaidAmount: decimal.Zero}

	var buf bytes.Buffer
	require.NoError(t, WriteStatementCSV(&buf, statement, summary))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, statementHeader, records[0])
}
