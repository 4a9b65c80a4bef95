package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCode(ctx context.Context, code string) (*models.Order, error)
	// UpdateWhere applies updates to the order row only when every condition
	// still holds, returning the affected row count. Zero rows means another
	// writer got there first; callers treat that as their no-op/conflict
	// signal instead of re-reading.
	UpdateWhere(ctx context.Context, orderID uuid.UUID, updates map[string]any, conds map[string]any) (int64, error)
	CreateEvent(ctx context.Context, event *models.OrderEvent) error
	FindPendingPaymentBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}
