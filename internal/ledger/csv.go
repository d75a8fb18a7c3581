package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// statementHeader is the exported column order. The file is user-downloaded
// and re-imported elsewhere, so the layout is a compatibility contract.
var statementHeader = []string{"Date", "Description", "Order #", "Debit (Dr)", "Credit (Cr)", "Balance"}

// WriteStatementCSV renders the statement with exactly one of the Dr/Cr
// columns populated per row, followed by the customer summary block.
func WriteStatementCSV(w io.Writer, statement *Statement, summary *Summary) error {
	if statement == nil || statement.Customer == nil {
		return fmt.Errorf("statement with customer required")
	}
	if summary == nil {
		return fmt.Errorf("summary required")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(statementHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, line := range statement.Lines {
		entry := line.Entry

		debit, credit := "", ""
		if entry.TransactionType == enums.TransactionTypeDebit {
			debit = money(entry.Amount)
		} else {
			credit = money(entry.Amount)
		}

		orderRef := ""
		if line.OrderNumber != nil {
			orderRef = fmt.Sprintf("%d", *line.OrderNumber)
		}

		record := []string{
			entry.TransactionDate.Format("2006-01-02"),
			entry.Description,
			orderRef,
			debit,
			credit,
			money(entry.BalanceAfter),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write entry row: %w", err)
		}
	}

	// Trailing summary block.
	blank := []string{"", "", "", "", "", ""}
	rows := [][]string{
		blank,
		{"Customer", statement.Customer.Name, "", "", "", ""},
		{"Phone", statement.Customer.Phone, "", "", "", ""},
		{"Account Balance", money(summary.CurrentBalance), "", "", "", ""},
		{"Total Unpaid", money(summary.TotalUnpaidAmount), "", "", "", ""},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
