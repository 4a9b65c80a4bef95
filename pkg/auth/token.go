package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
)

var errPharmacyIDMissing = errors.New("pharmacy id claim missing")

// Claims carries the pharmacy portal identity inside a bearer token.
type Claims struct {
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken mints a signed portal token for the given pharmacy.
func GenerateAccessToken(cfg config.JWTConfig, pharmacyID uuid.UUID) (string, error) {
	if pharmacyID == uuid.Nil {
		return "", errPharmacyIDMissing
	}
	now := time.Now().UTC()
	claims := Claims{
		PharmacyID: pharmacyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   pharmacyID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL())),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseAccessToken validates the signature, issuer and expiry of a portal token.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.PharmacyID == uuid.Nil {
		return nil, errPharmacyIDMissing
	}
	return claims, nil
}
