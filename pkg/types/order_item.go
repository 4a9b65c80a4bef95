package types

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a line-item snapshot taken at order creation. Catalog price
// changes never touch placed orders; the unit price here is authoritative.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderItems is the jsonb-serialized item list stored on an order.
type OrderItems []OrderItem

// Validate enforces the boundary contract: at least one item, real product
// references, positive quantities.
func (items OrderItems) Validate() error {
	if len(items) == 0 {
		return fmt.Errorf("order must have at least one item")
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return fmt.Errorf("item %d: product id required", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1", i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unit price cannot be negative", i)
		}
	}
	return nil
}
