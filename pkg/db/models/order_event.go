package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderEvent is an append-only audit entry. Every status transition and every
// assignment decision writes one; no mutation path may skip it.
type OrderEvent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	Status    string    `gorm:"column:status;not null"`
	Note      string    `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
