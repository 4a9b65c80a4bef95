package assignment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/notifications"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/orders"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/pharmacies"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service runs the assignment pipeline for a paid order: select a pharmacy,
// persist the assignment with its audit event, then notify the pharmacy.
// Assign is safe to call repeatedly for the same order.
type Service interface {
	Assign(ctx context.Context, orderID uuid.UUID) (*Result, error)
}

// Result reports what one Assign run did.
type Result struct {
	Assigned        bool
	AlreadyAssigned bool
	PharmacyID      *uuid.UUID
	Reason          string
}

// ServiceParams configure the assignment orchestrator.
type ServiceParams struct {
	Orders     orders.Repository
	Pharmacies pharmacies.Repository
	Tx         txRunner
	Notifier   notifications.Sender
	Logger     *logger.Logger
}

type service struct {
	orders     orders.Repository
	pharmacies pharmacies.Repository
	tx         txRunner
	notifier   notifications.Sender
	logg       *logger.Logger
}

// NewService builds the assignment orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Pharmacies == nil {
		return nil, fmt.Errorf("pharmacies repository required")
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
		orders:     params.Orders,
		pharmacies: params.Pharmacies,
		tx:         params.Tx,
		notifier:   params.Notifier,
		logg:       params.Logger,
	}, nil
}

func (s *service) Assign(ctx context.Context, orderID uuid.UUID) (*Result, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	logCtx := s.logg.WithOrderID(ctx, orderID.String())

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.PharmacyID != nil {
		return &Result{AlreadyAssigned: true, PharmacyID: order.PharmacyID}, nil
	}
	if order.Status != enums.OrderStatusReceived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s is not assignable", order.Status))
	}
	if err := order.Items.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order items")
	}

	decision, err := s.selectPharmacy(ctx, order.DeliveryArea, order.Items)
	if err != nil {
		return nil, err
	}

	if decision.PharmacyID == nil {
		if err := s.recordFailure(ctx, order, decision.Reason); err != nil {
			return nil, err
		}
		s.logg.Warn(logCtx, "no pharmacy selected: "+decision.Reason)
		return &Result{Reason: decision.Reason}, nil
	}

	assigned, err := s.persistAssignment(ctx, order, decision)
	if err != nil {
		return nil, err
	}
	if !assigned {
		// Lost the race to a concurrent Assign; the order carries a pharmacy now.
		return &Result{AlreadyAssigned: true}, nil
	}

	order.PharmacyID = decision.PharmacyID
	order.PharmacyAckStatus = enums.AckStatusPending
	if err := s.notifier.Send(ctx, enums.SMSKindOrderAssignment, order); err != nil {
		s.logg.Error(s.logg.WithPharmacyID(logCtx, decision.PharmacyID.String()),
			"assignment notification failed", err)
	}

	return &Result{Assigned: true, PharmacyID: decision.PharmacyID}, nil
}

func (s *service) selectPharmacy(ctx context.Context, deliveryArea string, items types.OrderItems) (Decision, error) {
	areas, err := s.pharmacies.FindServiceAreas(ctx, deliveryArea)
	if err != nil {
		return Decision{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service areas")
	}
	if len(areas) == 0 {
		return Decision{Reason: ReasonNoCoverage}, nil
	}

	pharmacyIDs := make([]uuid.UUID, 0, len(areas))
	seen := make(map[uuid.UUID]struct{}, len(areas))
	for _, area := range areas {
		if _, ok := seen[area.PharmacyID]; ok {
			continue
		}
		seen[area.PharmacyID] = struct{}{}
		pharmacyIDs = append(pharmacyIDs, area.PharmacyID)
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	stock, err := s.pharmacies.FindProducts(ctx, pharmacyIDs, productIDs)
	if err != nil {
		return Decision{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}

	return Select(items, areas, stock), nil
}

// persistAssignment writes the winner onto the order. The monetary columns
// were fixed at order creation, when the customer paid; assignment only ever
// touches pharmacy_id and the ack status. The winning offer goes on the audit
// event instead.
func (s *service) persistAssignment(ctx context.Context, order *models.Order, decision Decision) (bool, error) {
	var assigned bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		rows, err := repo.UpdateWhere(ctx, order.ID, map[string]any{
			"pharmacy_id":         *decision.PharmacyID,
			"pharmacy_ack_status": enums.AckStatusPending,
		}, map[string]any{
			"status":      enums.OrderStatusReceived,
			"pharmacy_id": nil,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist assignment")
		}
		if rows == 0 {
			return nil
		}
		assigned = true
		return repo.CreateEvent(ctx, &models.OrderEvent{
			OrderID: order.ID,
			Status:  orders.EventAutoAssigned,
			Note: fmt.Sprintf("assigned to pharmacy %s (delivery fee %s, max %dh)",
				decision.PharmacyID, decision.Offer.DeliveryFee.StringFixed(2), decision.Offer.MaxDeliveryTimeHours),
		})
	})
	if err != nil {
		return false, err
	}
	return assigned, nil
}

func (s *service) recordFailure(ctx context.Context, order *models.Order, reason string) error {
	err := s.orders.CreateEvent(ctx, &models.OrderEvent{
		OrderID: order.ID,
		Status:  orders.EventAssignmentFailed,
		Note:    reason,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record assignment failure")
	}
	return nil
}
