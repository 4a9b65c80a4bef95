package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
)

// PaymentEvent logs every verification attempt (webhook, verify, reconcile)
// with its raw payload for forensic replay. Append-only, never mutated.
type PaymentEvent struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   *uuid.UUID               `gorm:"column:order_id;type:uuid;index"`
	Source    enums.PaymentEventSource `gorm:"column:source;type:payment_event_source;not null"`
	Reference string                   `gorm:"column:reference;not null;index"`
	Status    string                   `gorm:"column:status;not null"`
	Payload   []byte                   `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}
