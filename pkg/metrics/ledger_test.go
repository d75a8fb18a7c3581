package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLedgerMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewLedgerMetrics(reg)
	metrics.IncPaymentRecorded("cash")
	metrics.IncEntryWritten("credit")
	metrics.IncWriteConflict("record_payment")
	metrics.ObserveDuration("record_payment", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "ledger_payments_recorded", "method", "cash"); err != nil {
		t.Fatalf("fetch payments: %v", err)
	} else if got != 1 {
		t.Fatalf("expected payments=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ledger_entries_written", "type", "credit"); err != nil {
		t.Fatalf("fetch entries: %v", err)
	} else if got != 1 {
		t.Fatalf("expected entries=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ledger_write_conflicts", "operation", "record_payment"); err != nil {
		t.Fatalf("fetch conflicts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected conflicts=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "ledger_operation_duration_seconds", "operation", "record_payment"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var metrics *LedgerMetrics
	metrics.IncPaymentRecorded("cash")
	metrics.IncEntryWritten("debit")
	metrics.IncWriteConflict("record_payment")
	metrics.ObserveDuration("record_payment", time.Millisecond)

	empty := NewLedgerMetrics(nil)
	empty.IncPaymentRecorded("")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
