package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omarsaleem/tandoorpos-backend/pkg/migrate"
)

func TestLedgerMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_customer_ledger.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no customer_ledger migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE customer_ledger",
		"CHECK (amount > 0)",
		"balance_before numeric(12,2) NOT NULL",
		"balance_after numeric(12,2) NOT NULL",
		"transaction_date DESC, transaction_time DESC, created_at DESC",
		"DROP TABLE IF EXISTS customer_ledger",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSummaryViewMigrationShape(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_ledger_summary_view.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no ledger summary view migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE VIEW customer_ledger_summaries",
		"COALESCE(latest.balance_after, 0) AS current_balance",
		// Unpaid totals must fall back to total - paid when amount_due was
		// never populated, matching the manual rebuild in the ledger service.
		"SUM(COALESCE(NULLIF(o.amount_due, 0), o.total_amount - o.amount_paid)) AS total_due",
		"payment_status IN ('pending', 'partial')",
		"DROP VIEW IF EXISTS customer_ledger_summaries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}
