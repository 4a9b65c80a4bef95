package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/types"
)

// Order is one customer purchase. Created in pending_payment; mutated only by
// the payment confirmation protocol, the assignment orchestrator, and
// pharmacy/admin status actions. Never deleted here.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string            `gorm:"column:code;not null;uniqueIndex"`
	Status            enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending_payment'"`
	PharmacyID        *uuid.UUID        `gorm:"column:pharmacy_id;type:uuid"`
	PharmacyAckStatus enums.AckStatus   `gorm:"column:pharmacy_ack_status;type:pharmacy_ack_status;not null;default:'pending'"`
	Items             types.OrderItems  `gorm:"column:items;type:jsonb;serializer:json"`
	DeliveryArea      string            `gorm:"column:delivery_area;not null"`
	Subtotal          decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee       decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	StudentDiscount   decimal.Decimal   `gorm:"column:student_discount;type:numeric(12,2);not null;default:0"`
	TotalPrice        decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	Events            []OrderEvent      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
