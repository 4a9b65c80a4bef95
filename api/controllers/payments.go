package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/payments"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

type verifyResponse struct {
	Confirmed        bool   `json:"confirmed"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
	Status           string `json:"status"`
}

// VerifyPayment is the pull path: the anonymous client polls with its tracking
// code after returning from the payment page.
func VerifyPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking code required"))
			return
		}

		result, err := svc.VerifyByReference(ctx, code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, verifyResponse{
			Confirmed:        result.Confirmed,
			AlreadyConfirmed: result.AlreadyConfirmed,
			Status:           result.Status.String(),
		})
	}
}
