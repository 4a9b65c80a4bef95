package orders

// Audit trail labels. These are the human-readable OrderEvent statuses, not
// the order status enum.
const (
	EventPaymentConfirmed   = "Payment Confirmed"
	EventAutoAssigned       = "Auto-Assigned"
	EventAssignmentFailed   = "Assignment Failed"
	EventAcceptedByPharmacy = "Accepted by Pharmacy"
	EventDeclinedByPharmacy = "Declined by Pharmacy"
	EventOutForDelivery     = "Out for Delivery"
	EventDelivered          = "Delivered"
)
