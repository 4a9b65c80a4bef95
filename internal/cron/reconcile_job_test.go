package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/payments"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/paystack"
)

type fakePayments struct {
	stats *payments.ReconcileStats
	err   error
	calls int
}

func (f *fakePayments) HandleWebhook(ctx context.Context, event paystack.WebhookEvent, raw []byte) error {
	return nil
}

func (f *fakePayments) VerifyByReference(ctx context.Context, code string) (*payments.VerifyResult, error) {
	return nil, nil
}

func (f *fakePayments) Reconcile(ctx context.Context) (*payments.ReconcileStats, error) {
	f.calls++
	return f.stats, f.err
}

func cronTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func TestPaymentReconcileJobRunsSweep(t *testing.T) {
	svc := &fakePayments{stats: &payments.ReconcileStats{Scanned: 3, Confirmed: 1}}
	job, err := NewPaymentReconcileJob(PaymentReconcileJobParams{
		Logger:   cronTestLogger(),
		Payments: svc,
	})
	if err != nil {
		t.Fatalf("NewPaymentReconcileJob: %v", err)
	}
	if job.Name() != "payment-reconcile" {
		t.Errorf("job name = %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if svc.calls != 1 {
		t.Errorf("reconcile calls = %d, want 1", svc.calls)
	}
}

func TestPaymentReconcileJobSurfacesSweepErrors(t *testing.T) {
	svc := &fakePayments{
		stats: &payments.ReconcileStats{Scanned: 2, Failed: 2},
		err:   errors.New("gateway timeout"),
	}
	job, err := NewPaymentReconcileJob(PaymentReconcileJobParams{
		Logger:   cronTestLogger(),
		Payments: svc,
	})
	if err != nil {
		t.Fatalf("NewPaymentReconcileJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run should surface the sweep error")
	}
}
