package enums

import "fmt"

// AuditAction names the financial transitions recorded in audit_logs.
type AuditAction string

const (
	AuditActionOrderStatusChanged   AuditAction = "order_status_changed"
	AuditActionPaymentCaptured      AuditAction = "payment_captured"
	AuditActionSplitPaymentCaptured AuditAction = "split_payment_captured"
	AuditActionPaymentRecorded      AuditAction = "payment_recorded"
	AuditActionOrderBilledToAccount AuditAction = "order_billed_to_account"
)

var validAuditActions = []AuditAction{
	AuditActionOrderStatusChanged,
	AuditActionPaymentCaptured,
	AuditActionSplitPaymentCaptured,
	AuditActionPaymentRecorded,
	AuditActionOrderBilledToAccount,
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
