package middleware

import (
	"net/http"
	"strings"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	pkgauth "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/auth"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

// PharmacyAuth validates the portal bearer token and seeds the request context
// with the pharmacy identity.
func PharmacyAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithPharmacyID(r.Context(), claims.PharmacyID)
			if logg != nil {
				ctx = logg.WithPharmacyID(ctx, claims.PharmacyID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
