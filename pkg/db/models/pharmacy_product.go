package models

import (
	"time"

	"github.com/google/uuid"
)

// PharmacyProduct is one pharmacy's stock record for one catalog product.
// Stock is read-only at selection time; nothing reserves or decrements it
// when an order is assigned.
type PharmacyProduct struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PharmacyID  uuid.UUID `gorm:"column:pharmacy_id;type:uuid;not null;index:idx_pharmacy_products_pharmacy_product"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_pharmacy_products_pharmacy_product"`
	StockLevel  int       `gorm:"column:stock_level;not null;default:0"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
