package cron

import (
	"context"
	"fmt"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/payments"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

// PaymentReconcileJobParams configure the payment reconcile sweep.
type PaymentReconcileJobParams struct {
	Logger   *logger.Logger
	Payments payments.Service
}

type paymentReconcileJob struct {
	logg     *logger.Logger
	payments payments.Service
}

// NewPaymentReconcileJob builds the cron job that sweeps stale pending_payment
// orders through gateway verification. The sweep is the safety net under the
// webhook and verify paths; it shares their idempotent confirm, so running it
// concurrently with either is harmless.
func NewPaymentReconcileJob(params PaymentReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments service required")
	}
	return &paymentReconcileJob{
		logg:     params.Logger,
		payments: params.Payments,
	}, nil
}

func (j *paymentReconcileJob) Name() string { return "payment-reconcile" }

func (j *paymentReconcileJob) Run(ctx context.Context) error {
	stats, err := j.payments.Reconcile(ctx)
	if stats != nil {
		reportCtx := j.logg.WithFields(ctx, map[string]any{
			"scanned":   stats.Scanned,
			"confirmed": stats.Confirmed,
			"failed":    stats.Failed,
		})
		j.logg.Info(reportCtx, "payment reconcile sweep complete")
	}
	return err
}
