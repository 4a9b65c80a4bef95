package enums

import "fmt"

// AckStatus is the pharmacy's acknowledgment of an assignment. It is only
// meaningful once an order carries a pharmacy_id; reassignment resets it to
// pending.
type AckStatus string

const (
	AckStatusPending  AckStatus = "pending"
	AckStatusAccepted AckStatus = "accepted"
	AckStatusDeclined AckStatus = "declined"
)

var validAckStatuses = []AckStatus{
	AckStatusPending,
	AckStatusAccepted,
	AckStatusDeclined,
}

// String implements fmt.Stringer.
func (s AckStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AckStatus.
func (s AckStatus) IsValid() bool {
	for _, candidate := range validAckStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAckStatus converts raw input into an AckStatus.
func ParseAckStatus(value string) (AckStatus, error) {
	for _, candidate := range validAckStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ack status %q", value)
}
