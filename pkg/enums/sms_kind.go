package enums

// SMSKind selects the outbound notification template.
type SMSKind string

const (
	SMSKindOrderConfirmation SMSKind = "order_confirmation"
	SMSKindOrderAssignment   SMSKind = "order_assignment"
	SMSKindShippingUpdate    SMSKind = "shipping_update"
	SMSKindDeliveryUpdate    SMSKind = "delivery_update"
)

// String implements fmt.Stringer.
func (k SMSKind) String() string {
	return string(k)
}
