package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
)

// EventRepository appends to the payment attempt log. Every verification
// attempt lands here regardless of outcome; nothing reads it on the hot path.
type EventRepository interface {
	Create(ctx context.Context, event *models.PaymentEvent) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds the payment event log bound to the provided DB.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
