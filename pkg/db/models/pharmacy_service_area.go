package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PharmacyServiceArea is one delivery zone offered by one pharmacy. A pharmacy
// may declare overlapping areas; when several active rows match the same order
// the cheapest represents that pharmacy's offer.
type PharmacyServiceArea struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PharmacyID           uuid.UUID       `gorm:"column:pharmacy_id;type:uuid;not null;index"`
	AreaName             string          `gorm:"column:area_name;not null"`
	DeliveryFee          decimal.Decimal `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	MaxDeliveryTimeHours int             `gorm:"column:max_delivery_time_hours;not null"`
	IsActive             bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
