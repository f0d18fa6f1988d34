package enums

import "fmt"

// PaymentMethod describes how a shopper intends to settle an order. The
// engine treats it as an opaque tag; no gateway is involved.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodBank PaymentMethod = "bank"
)

var knownPaymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCOD:  {},
	PaymentMethodCard: {},
	PaymentMethodBank: {},
}

func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	_, ok := knownPaymentMethods[p]
	return ok
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(value)
	if !method.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
