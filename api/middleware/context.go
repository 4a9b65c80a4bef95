package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxPharmacyID contextKey = "pharmacy_id"

// PharmacyIDFromContext returns the authenticated pharmacy identity, or
// uuid.Nil when the request carried no portal token.
func PharmacyIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxPharmacyID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithPharmacyID injects the pharmacy identity into the context.
func WithPharmacyID(ctx context.Context, pharmacyID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPharmacyID, pharmacyID)
}
