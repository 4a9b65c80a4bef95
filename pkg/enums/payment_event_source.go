package enums

import "fmt"

// PaymentEventSource names the entry point that produced a verification attempt.
type PaymentEventSource string

const (
	PaymentEventSourceWebhook   PaymentEventSource = "webhook"
	PaymentEventSourceVerify    PaymentEventSource = "verify"
	PaymentEventSourceReconcile PaymentEventSource = "reconcile"
)

var validPaymentEventSources = []PaymentEventSource{
	PaymentEventSourceWebhook,
	PaymentEventSourceVerify,
	PaymentEventSourceReconcile,
}

// String implements fmt.Stringer.
func (s PaymentEventSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PaymentEventSource.
func (s PaymentEventSource) IsValid() bool {
	for _, candidate := range validPaymentEventSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePaymentEventSource converts raw input into a PaymentEventSource.
func ParsePaymentEventSource(value string) (PaymentEventSource, error) {
	for _, candidate := range validPaymentEventSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment event source %q", value)
}
