package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/assignment"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/notifications"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/orders"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/paystack"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gateway interface {
	Verify(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

// Service converges the three confirmation paths (webhook push, verify pull,
// reconcile sweep) on one conditional update. Whichever path lands first flips
// the order to received; the other two observe zero affected rows and no-op,
// so the "Payment Confirmed" audit event and the confirmation SMS each happen
// once per order no matter how the paths interleave.
type Service interface {
	HandleWebhook(ctx context.Context, event paystack.WebhookEvent, raw []byte) error
	VerifyByReference(ctx context.Context, code string) (*VerifyResult, error)
	Reconcile(ctx context.Context) (*ReconcileStats, error)
}

// VerifyResult is what the polling client learns about its order.
type VerifyResult struct {
	Confirmed        bool
	AlreadyConfirmed bool
	Status           enums.OrderStatus
}

// ReconcileStats summarizes one sweep over stale pending orders.
type ReconcileStats struct {
	Scanned   int
	Confirmed int
	Failed    int
}

// ServiceParams configure the payment confirmation service.
type ServiceParams struct {
	Orders    orders.Repository
	Events    EventRepository
	Gateway   gateway
	Tx        txRunner
	Notifier  notifications.Sender
	Assigner  assignment.Service
	Logger    *logger.Logger
	Reconcile config.ReconcileConfig
}

type service struct {
	orders    orders.Repository
	events    EventRepository
	gateway   gateway
	tx        txRunner
	notifier  notifications.Sender
	assigner  assignment.Service
	logg      *logger.Logger
	reconcile config.ReconcileConfig
}

// NewService builds the payment confirmation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("payment event repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Assigner == nil {
		return nil, fmt.Errorf("assignment service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		orders:    params.Orders,
		events:    params.Events,
		gateway:   params.Gateway,
		tx:        params.Tx,
		notifier:  params.Notifier,
		assigner:  params.Assigner,
		logg:      params.Logger,
		reconcile: params.Reconcile,
	}, nil
}

// HandleWebhook processes a signature-verified gateway push. Transient
// failures return an error so the caller releases the replay guard and the
// gateway retries the delivery.
func (s *service) HandleWebhook(ctx context.Context, event paystack.WebhookEvent, raw []byte) error {
	reference := event.Data.Reference
	logCtx := s.logg.WithReference(ctx, reference)

	if !event.IsChargeSuccess() {
		s.logg.Info(logCtx, "ignoring non-success webhook event "+event.Event)
		s.recordAttempt(ctx, nil, enums.PaymentEventSourceWebhook, reference, event.Data.Status, raw)
		return nil
	}

	order, err := s.loadOrderByCode(ctx, reference)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			// Unknown reference: log the attempt and accept the delivery so
			// the gateway stops retrying a reference we will never know.
			s.logg.Warn(logCtx, "webhook for unknown order reference")
			s.recordAttempt(ctx, nil, enums.PaymentEventSourceWebhook, reference, event.Data.Status, raw)
			return nil
		}
		return err
	}

	_, err = s.confirm(ctx, order, enums.PaymentEventSourceWebhook, event.Data.Status, raw)
	return err
}

// VerifyByReference is the pull path: the anonymous client polls with its
// tracking code and the backend asks the gateway directly.
func (s *service) VerifyByReference(ctx context.Context, code string) (*VerifyResult, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code required")
	}

	order, err := s.loadOrderByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPendingPayment {
		return &VerifyResult{AlreadyConfirmed: true, Status: order.Status}, nil
	}

	data, err := s.gateway.Verify(ctx, code)
	if err != nil {
		// A gateway outage must not surface as a hard error to the polling
		// client; report the order as still pending and let the reconcile
		// sweep pick up any charge that did settle.
		s.logg.Error(s.logg.WithReference(ctx, code), "gateway verify failed", err)
		return &VerifyResult{Status: order.Status}, nil
	}
	if !data.Succeeded() {
		s.recordAttempt(ctx, &order.ID, enums.PaymentEventSourceVerify, code, data.Status, nil)
		return &VerifyResult{Status: order.Status}, nil
	}

	confirmed, err := s.confirm(ctx, order, enums.PaymentEventSourceVerify, data.Status, nil)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return &VerifyResult{AlreadyConfirmed: true, Status: enums.OrderStatusReceived}, nil
	}
	return &VerifyResult{Confirmed: true, Status: enums.OrderStatusReceived}, nil
}

// Reconcile sweeps stale pending_payment orders and verifies each against the
// gateway. Per-order failures are collected, never fatal to the sweep.
func (s *service) Reconcile(ctx context.Context) (*ReconcileStats, error) {
	cutoff := time.Now().UTC().Add(-s.reconcile.MinAge)
	batch := s.reconcile.BatchSize
	if batch <= 0 {
		batch = 25
	}

	stale, err := s.orders.FindPendingPaymentBefore(ctx, cutoff, batch)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stale pending orders")
	}

	stats := &ReconcileStats{Scanned: len(stale)}
	var sweepErr error
	for i := range stale {
		order := &stale[i]
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())

		data, err := s.gateway.Verify(ctx, order.Code)
		if err != nil {
			stats.Failed++
			sweepErr = multierr.Append(sweepErr, fmt.Errorf("order %s: %w", order.Code, err))
			continue
		}
		if !data.Succeeded() {
			s.recordAttempt(ctx, &order.ID, enums.PaymentEventSourceReconcile, order.Code, data.Status, nil)
			continue
		}

		confirmed, err := s.confirm(ctx, order, enums.PaymentEventSourceReconcile, data.Status, nil)
		if err != nil {
			stats.Failed++
			sweepErr = multierr.Append(sweepErr, fmt.Errorf("order %s: %w", order.Code, err))
			continue
		}
		if confirmed {
			stats.Confirmed++
			s.logg.Info(logCtx, "reconcile confirmed stale payment")
		}
	}
	return stats, sweepErr
}

// confirm is the single convergence point. The conditional update from
// pending_payment is the idempotency gate: zero affected rows means another
// path already confirmed, and no event, SMS, or assignment runs again.
func (s *service) confirm(ctx context.Context, order *models.Order, source enums.PaymentEventSource, gatewayStatus string, payload []byte) (bool, error) {
	var confirmed bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		rows, err := repo.UpdateWhere(ctx, order.ID, map[string]any{
			"status": enums.OrderStatusReceived,
		}, map[string]any{
			"status": enums.OrderStatusPendingPayment,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
		}
		if rows == 0 {
			return nil
		}
		confirmed = true
		return repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Status:  orders.EventPaymentConfirmed,
			Note:    fmt.Sprintf("confirmed via %s", source),
		})
	})
	if err != nil {
		return false, err
	}

	s.recordAttempt(ctx, &order.ID, source, order.Code, gatewayStatus, payload)
	if !confirmed {
		return false, nil
	}

	order.Status = enums.OrderStatusReceived
	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	if err := s.notifier.Send(ctx, enums.SMSKindOrderConfirmation, order); err != nil {
		s.logg.Error(logCtx, "confirmation sms failed", err)
	}
	if _, err := s.assigner.Assign(ctx, order.ID); err != nil {
		// The reconcile sweep and the admin assign endpoint can both retry
		// assignment later; confirmation itself stands.
		s.logg.Error(logCtx, "post-confirmation assignment failed", err)
	}
	return true, nil
}

func (s *service) loadOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) recordAttempt(ctx context.Context, orderID *uuid.UUID, source enums.PaymentEventSource, reference, status string, payload []byte) {
	err := s.events.Create(ctx, &models.PaymentEvent{
		OrderID:   orderID,
		Source:    source,
		Reference: reference,
		Status:    status,
		Payload:   payload,
	})
	if err != nil {
		s.logg.Error(s.logg.WithReference(ctx, reference), "record payment attempt failed", err)
	}
}
