package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/responses"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/paystack"
)

const signatureHeader = "x-paystack-signature"

type paystackService interface {
	HandleWebhook(ctx context.Context, event paystack.WebhookEvent, raw []byte) error
}

type signatureVerifier interface {
	VerifyWebhookSignature(payload []byte, signature string) bool
}

type replayGuard interface {
	CheckAndMark(ctx context.Context, reference string) (bool, error)
	Release(ctx context.Context, reference string) error
}

// PaystackWebhook handles charge events pushed by the payment gateway. The
// signature is checked over the raw body before any decoding; replays within
// the guard TTL are acknowledged without reprocessing.
func PaystackWebhook(svc paystackService, verifier signatureVerifier, guard replayGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || verifier == nil || guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook pipeline unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if !verifier.VerifyWebhookSignature(payload, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event paystack.WebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}
		if event.Data.Reference == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook reference missing"))
			return
		}

		first, err := guard.CheckAndMark(ctx, event.Data.Reference)
		if err != nil && logg != nil {
			logg.Error(logg.WithReference(ctx, event.Data.Reference), "webhook replay guard degraded", err)
		}
		if !first {
			responses.WriteSuccess(w, nil)
			return
		}

		if err := svc.HandleWebhook(ctx, event, payload); err != nil {
			// Unmark so the gateway's retry gets through to a fresh attempt.
			_ = guard.Release(ctx, event.Data.Reference)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithReference(ctx, event.Data.Reference), "paystack webhook processed")
		}
		responses.WriteSuccess(w, nil)
	}
}
