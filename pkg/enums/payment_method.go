package enums

import "fmt"

// PaymentMethod describes how an order or standalone payment is settled.
// Account defers settlement to the customer's ledger; Split marks an order
// settled through multiple payment_transactions legs.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodEasyPaisa    PaymentMethod = "easypaisa"
	PaymentMethodJazzCash     PaymentMethod = "jazzcash"
	PaymentMethodAccount      PaymentMethod = "account"
	PaymentMethodSplit        PaymentMethod = "split"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodBankTransfer,
	PaymentMethodEasyPaisa,
	PaymentMethodJazzCash,
	PaymentMethodAccount,
	PaymentMethodSplit,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsCaptureMethod reports whether the method settles money immediately at the
// counter. Account and Split are excluded: account orders settle through the
// ledger and split orders settle through their individual legs.
func (p PaymentMethod) IsCaptureMethod() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodEasyPaisa, PaymentMethodJazzCash:
		return true
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
