package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

const reconcileSecretHeader = "X-Reconcile-Secret"

// ReconcileSecret gates the manual reconcile trigger behind a shared secret.
func ReconcileSecret(cfg config.ReconcileConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(reconcileSecretHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Secret)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid reconcile secret"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
