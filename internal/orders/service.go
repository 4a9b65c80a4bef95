package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/notifications"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the order status state machine:
// pending_payment → received → processing → out_for_delivery → completed,
// with the pharmacy ack sub-state gating received → processing. Status never
// regresses; the decline path undoes the assignment, not the payment axis.
type Service interface {
	Accept(ctx context.Context, input DecisionInput) error
	Decline(ctx context.Context, input DeclineInput) error
	MarkOutForDelivery(ctx context.Context, input ProgressInput) error
	MarkDelivered(ctx context.Context, input ProgressInput) error
}

// DecisionInput identifies the pharmacy acting on its assigned order.
type DecisionInput struct {
	OrderID    uuid.UUID
	PharmacyID uuid.UUID
}

// DeclineInput adds the mandatory decline reason.
type DeclineInput struct {
	OrderID    uuid.UUID
	PharmacyID uuid.UUID
	Reason     string
}

// ProgressInput marks delivery progress. ActorPharmacyID is nil when an admin
// acts on behalf of the pharmacy.
type ProgressInput struct {
	OrderID         uuid.UUID
	ActorPharmacyID *uuid.UUID
}

// ServiceParams configure the order state machine.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Notifier notifications.Sender
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier notifications.Sender
	logg     *logger.Logger
}

// transition is one legal edge of the state machine plus its post-commit hook.
type transition struct {
	from  enums.OrderStatus
	to    enums.OrderStatus
	event string
	sms   enums.SMSKind
}

var (
	shipTransition = transition{
		from:  enums.OrderStatusProcessing,
		to:    enums.OrderStatusOutForDelivery,
		event: EventOutForDelivery,
		sms:   enums.SMSKindShippingUpdate,
	}
	deliverTransition = transition{
		from:  enums.OrderStatusOutForDelivery,
		to:    enums.OrderStatusCompleted,
		event: EventDelivered,
		sms:   enums.SMSKindDeliveryUpdate,
	}
)

// NewService builds the order state machine with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

func (s *service) Accept(ctx context.Context, input DecisionInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.PharmacyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "pharmacy identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOwnedOrder(ctx, repo, input.OrderID, input.PharmacyID)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusProcessing && order.PharmacyAckStatus == enums.AckStatusAccepted {
			return nil
		}

		rows, err := repo.UpdateWhere(ctx, order.ID, map[string]any{
			"status":              enums.OrderStatusProcessing,
			"pharmacy_ack_status": enums.AckStatusAccepted,
		}, map[string]any{
			"status":              enums.OrderStatusReceived,
			"pharmacy_ack_status": enums.AckStatusPending,
			"pharmacy_id":         input.PharmacyID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be accepted in current state")
		}

		// Pharmacy-initiated, so no customer notification on this edge.
		return repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Status:  EventAcceptedByPharmacy,
			Note:    fmt.Sprintf("accepted by pharmacy %s", input.PharmacyID),
		})
	})
}

func (s *service) Decline(ctx context.Context, input DeclineInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.PharmacyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "pharmacy identity missing")
	}
	if input.Reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "decline reason required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOwnedOrder(ctx, repo, input.OrderID, input.PharmacyID)
		if err != nil {
			return err
		}

		// Payment status stays received; only the assignment is undone. The
		// order progresses again once the orchestrator reassigns it.
		rows, err := repo.UpdateWhere(ctx, order.ID, map[string]any{
			"pharmacy_id":         nil,
			"pharmacy_ack_status": enums.AckStatusDeclined,
		}, map[string]any{
			"status":              enums.OrderStatusReceived,
			"pharmacy_ack_status": enums.AckStatusPending,
			"pharmacy_id":         input.PharmacyID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be declined in current state")
		}

		return repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Status:  EventDeclinedByPharmacy,
			Note:    fmt.Sprintf("declined by pharmacy %s: %s", input.PharmacyID, input.Reason),
		})
	})
}

func (s *service) MarkOutForDelivery(ctx context.Context, input ProgressInput) error {
	return s.advance(ctx, input, shipTransition)
}

func (s *service) MarkDelivered(ctx context.Context, input ProgressInput) error {
	return s.advance(ctx, input, deliverTransition)
}

func (s *service) advance(ctx context.Context, input ProgressInput, t transition) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if input.ActorPharmacyID != nil {
			if current.PharmacyID == nil || *current.PharmacyID != *input.ActorPharmacyID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to pharmacy")
			}
		}
		if current.Status == t.to {
			return nil
		}

		rows, err := repo.UpdateWhere(ctx, current.ID, map[string]any{
			"status": t.to,
		}, map[string]any{
			"status": t.from,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order must be %s to move to %s", t.from, t.to))
		}

		if err := repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: current.ID,
			Status:  t.event,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order event")
		}

		current.Status = t.to
		order = current
		return nil
	})
	if err != nil {
		return err
	}

	if order != nil {
		s.notify(ctx, t.sms, order)
	}
	return nil
}

// notify runs the post-transition SMS hook. Failures are logged and swallowed;
// a missed SMS never blocks or reverses a committed transition.
func (s *service) notify(ctx context.Context, kind enums.SMSKind, order *models.Order) {
	if err := s.notifier.Send(ctx, kind, order); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"kind":     kind.String(),
		})
		s.logg.Error(logCtx, "notification failed", err)
	}
}

func (s *service) loadOwnedOrder(ctx context.Context, repo Repository, orderID, pharmacyID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.PharmacyID == nil || *order.PharmacyID != pharmacyID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to pharmacy")
	}
	return order, nil
}
