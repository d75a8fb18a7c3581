package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records outcomes of ledger write and read paths.
type LedgerMetrics struct {
	payments  *prometheus.CounterVec
	entries   *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_payments_recorded",
		Help: "Payments recorded against customer accounts.",
	}, []string{"method"})
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_written",
		Help: "Ledger entries written, by transaction type.",
	}, []string{"type"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_write_conflicts",
		Help: "Ledger writes aborted by concurrent modification.",
	}, []string{"operation"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_operation_duration_seconds",
		Help:    "Duration of ledger operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(payments, entries, conflicts, duration)
	return &LedgerMetrics{
		payments:  payments,
		entries:   entries,
		conflicts: conflicts,
		duration:  duration,
	}
}

// IncPaymentRecorded increments the payment counter for the given method.
func (m *LedgerMetrics) IncPaymentRecorded(method string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncEntryWritten increments the entry counter for the given transaction type.
func (m *LedgerMetrics) IncEntryWritten(transactionType string) {
	if m == nil || m.entries == nil {
		return
	}
	m.entries.WithLabelValues(normalizeLabel(transactionType)).Inc()
}

// IncWriteConflict increments the conflict counter for the named operation.
func (m *LedgerMetrics) IncWriteConflict(operation string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveDuration records the duration for the named operation.
func (m *LedgerMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
