package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/middleware"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/validators"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/assignment"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/orders"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

type declineRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type assignResponse struct {
	Assigned        bool   `json:"assigned"`
	AlreadyAssigned bool   `json:"already_assigned"`
	PharmacyID      string `json:"pharmacy_id,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

// AcceptOrder lets the assigned pharmacy acknowledge a paid order.
func AcceptOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.Accept(ctx, orders.DecisionInput{
			OrderID:    orderID,
			PharmacyID: middleware.PharmacyIDFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "accepted"})
	}
}

// DeclineOrder releases the order back into the assignment pool.
func DeclineOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body declineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.Decline(ctx, orders.DeclineInput{
			OrderID:    orderID,
			PharmacyID: middleware.PharmacyIDFromContext(ctx),
			Reason:     body.Reason,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "declined"})
	}
}

// DispatchOrder marks the order out for delivery.
func DispatchOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return progressHandler(svc.MarkOutForDelivery, "out_for_delivery", logg)
}

// DeliverOrder marks the order completed.
func DeliverOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return progressHandler(svc.MarkDelivered, "completed", logg)
}

func progressHandler(advance func(ctx context.Context, input orders.ProgressInput) error, label string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		actor := middleware.PharmacyIDFromContext(ctx)
		input := orders.ProgressInput{OrderID: orderID}
		if actor != uuid.Nil {
			input.ActorPharmacyID = &actor
		}

		if err := advance(ctx, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": label})
	}
}

// AssignOrder lets operators retry assignment for a paid order that has no
// pharmacy, typically after a decline or a failed automatic run.
func AssignOrder(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Assign(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := assignResponse{
			Assigned:        result.Assigned,
			AlreadyAssigned: result.AlreadyAssigned,
			Reason:          result.Reason,
		}
		if result.PharmacyID != nil {
			resp.PharmacyID = result.PharmacyID.String()
		}
		responses.WriteSuccess(w, resp)
	}
}
