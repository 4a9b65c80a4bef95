package controllers

import (
	"net/http"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/payments"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

type reconcileResponse struct {
	Scanned   int    `json:"scanned"`
	Confirmed int    `json:"confirmed"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// RunReconcile triggers one reconcile sweep on demand. Per-order failures are
// reported in the body rather than failing the request; the sweep itself
// already logged them.
func RunReconcile(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := svc.Reconcile(ctx)
		if err != nil && stats == nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := reconcileResponse{
			Scanned:   stats.Scanned,
			Confirmed: stats.Confirmed,
			Failed:    stats.Failed,
		}
		if err != nil {
			resp.Error = err.Error()
		}
		responses.WriteSuccess(w, resp)
	}
}
