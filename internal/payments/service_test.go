package payments

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/assignment"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/orders"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
	pkgerrors "github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/errors"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/paystack"
)

type stubOrderRepo struct {
	orders map[string]*models.Order
	rows   int64

	stale       []models.Order
	staleLimit  int
	updateCalls int
	events      []models.OrderEvent
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	for _, order := range s.orders {
		if order.ID == id {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	order, ok := s.orders[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubOrderRepo) UpdateWhere(ctx context.Context, orderID uuid.UUID, updates map[string]any, conds map[string]any) (int64, error) {
	s.updateCalls++
	return s.rows, nil
}

func (s *stubOrderRepo) CreateEvent(ctx context.Context, event *models.OrderEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *stubOrderRepo) FindPendingPaymentBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	s.staleLimit = limit
	return s.stale, nil
}

type stubEventRepo struct {
	attempts []models.PaymentEvent
}

func (s *stubEventRepo) Create(ctx context.Context, event *models.PaymentEvent) error {
	s.attempts = append(s.attempts, *event)
	return nil
}

type stubGateway struct {
	data  map[string]*paystack.VerifyData
	err   error
	calls int
}

func (s *stubGateway) Verify(ctx context.Context, reference string) (*paystack.VerifyData, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if data, ok := s.data[reference]; ok {
		return data, nil
	}
	return nil, errors.New("transaction not found on gateway")
}

type stubTx struct{}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubNotifier struct {
	kinds []enums.SMSKind
}

func (s *stubNotifier) Send(ctx context.Context, kind enums.SMSKind, order *models.Order) error {
	s.kinds = append(s.kinds, kind)
	return nil
}

type stubAssigner struct {
	orderIDs []uuid.UUID
	err      error
}

func (s *stubAssigner) Assign(ctx context.Context, orderID uuid.UUID) (*assignment.Result, error) {
	s.orderIDs = append(s.orderIDs, orderID)
	if s.err != nil {
		return nil, s.err
	}
	return &assignment.Result{Assigned: true}, nil
}

type fixture struct {
	svc      Service
	orders   *stubOrderRepo
	attempts *stubEventRepo
	gateway  *stubGateway
	notifier *stubNotifier
	assigner *stubAssigner
}

func newFixture(t *testing.T, orderRepo *stubOrderRepo, gw *stubGateway) *fixture {
	t.Helper()
	attempts := &stubEventRepo{}
	notifier := &stubNotifier{}
	assigner := &stubAssigner{}
	svc, err := NewService(ServiceParams{
		Orders:    orderRepo,
		Events:    attempts,
		Gateway:   gw,
		Tx:        &stubTx{},
		Notifier:  notifier,
		Assigner:  assigner,
		Logger:    logger.New(logger.Options{ServiceName: "payments-test", Output: io.Discard}),
		Reconcile: config.ReconcileConfig{MinAge: 10 * time.Minute, BatchSize: 25},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, orders: orderRepo, attempts: attempts, gateway: gw, notifier: notifier, assigner: assigner}
}

func pendingOrder(code string) *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		Code:   code,
		Status: enums.OrderStatusPendingPayment,
	}
}

func successWebhook(reference string) paystack.WebhookEvent {
	var event paystack.WebhookEvent
	event.Event = "charge.success"
	event.Data.Reference = reference
	event.Data.Status = "success"
	return event
}

func TestHandleWebhookConfirmsOrder(t *testing.T) {
	order := pendingOrder("DK-3001")
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}, rows: 1}
	f := newFixture(t, repo, &stubGateway{})

	if err := f.svc.HandleWebhook(context.Background(), successWebhook(order.Code), []byte(`{"event":"charge.success"}`)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if len(repo.events) != 1 || repo.events[0].Status != orders.EventPaymentConfirmed {
		t.Fatalf("order events = %+v, want single %q", repo.events, orders.EventPaymentConfirmed)
	}
	if len(f.attempts.attempts) != 1 || f.attempts.attempts[0].Source != enums.PaymentEventSourceWebhook {
		t.Fatalf("attempts = %+v, want single webhook attempt", f.attempts.attempts)
	}
	if f.attempts.attempts[0].OrderID == nil || *f.attempts.attempts[0].OrderID != order.ID {
		t.Errorf("attempt order id = %v, want %s", f.attempts.attempts[0].OrderID, order.ID)
	}
	if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != enums.SMSKindOrderConfirmation {
		t.Errorf("sms kinds = %v, want order confirmation", f.notifier.kinds)
	}
	if len(f.assigner.orderIDs) != 1 || f.assigner.orderIDs[0] != order.ID {
		t.Errorf("assigner calls = %v, want %s", f.assigner.orderIDs, order.ID)
	}
}

func TestHandleWebhookIgnoresNonSuccessEvent(t *testing.T) {
	order := pendingOrder("DK-3002")
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}, rows: 1}
	f := newFixture(t, repo, &stubGateway{})

	event := successWebhook(order.Code)
	event.Event = "charge.failed"
	event.Data.Status = "failed"

	if err := f.svc.HandleWebhook(context.Background(), event, nil); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("no confirm expected, got %d update calls", repo.updateCalls)
	}
	if len(f.attempts.attempts) != 1 || f.attempts.attempts[0].Status != "failed" {
		t.Fatalf("attempts = %+v, want single failed attempt", f.attempts.attempts)
	}
}

func TestHandleWebhookUnknownReferenceIsAccepted(t *testing.T) {
	repo := &stubOrderRepo{orders: map[string]*models.Order{}}
	f := newFixture(t, repo, &stubGateway{})

	if err := f.svc.HandleWebhook(context.Background(), successWebhook("DK-9999"), nil); err != nil {
		t.Fatalf("HandleWebhook unknown reference: %v", err)
	}
	if len(f.attempts.attempts) != 1 || f.attempts.attempts[0].OrderID != nil {
		t.Fatalf("attempts = %+v, want single orphan attempt", f.attempts.attempts)
	}
}

func TestHandleWebhookLostRaceSkipsSideEffects(t *testing.T) {
	order := pendingOrder("DK-3003")
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}, rows: 0}
	f := newFixture(t, repo, &stubGateway{})

	if err := f.svc.HandleWebhook(context.Background(), successWebhook(order.Code), nil); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(repo.events) != 0 {
		t.Errorf("no order event expected, got %+v", repo.events)
	}
	if len(f.notifier.kinds) != 0 {
		t.Errorf("no sms expected, got %v", f.notifier.kinds)
	}
	if len(f.assigner.orderIDs) != 0 {
		t.Errorf("no assignment expected, got %v", f.assigner.orderIDs)
	}
	// The attempt itself is still logged.
	if len(f.attempts.attempts) != 1 {
		t.Errorf("attempts = %+v, want the no-op attempt logged", f.attempts.attempts)
	}
}

func TestVerifyByReferenceConfirmsPendingOrder(t *testing.T) {
	order := pendingOrder("DK-3004")
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}, rows: 1}
	gw := &stubGateway{data: map[string]*paystack.VerifyData{
		order.Code: {Status: "success", Reference: order.Code},
	}}
	f := newFixture(t, repo, gw)

	result, err := f.svc.VerifyByReference(context.Background(), order.Code)
	if err != nil {
		t.Fatalf("VerifyByReference: %v", err)
	}
	if !result.Confirmed || result.Status != enums.OrderStatusReceived {
		t.Fatalf("result = %+v, want confirmed received", result)
	}
	if len(f.assigner.orderIDs) != 1 {
		t.Errorf("assigner calls = %v, want one", f.assigner.orderIDs)
	}
}

func TestVerifyByReferenceShortCircuitsConfirmedOrder(t *testing.T) {
	order := pendingOrder("DK-3005")
	order.Status = enums.OrderStatusProcessing
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}}
	gw := &stubGateway{}
	f := newFixture(t, repo, gw)

	result, err := f.svc.VerifyByReference(context.Background(), order.Code)
	if err != nil {
		t.Fatalf("VerifyByReference: %v", err)
	}
	if !result.AlreadyConfirmed || result.Status != enums.OrderStatusProcessing {
		t.Fatalf("result = %+v, want already confirmed processing", result)
	}
	if gw.calls != 0 {
		t.Errorf("gateway calls = %d, want none for a settled order", gw.calls)
	}
}

func TestVerifyByReferenceUnsettledChargeStaysPending(t *testing.T) {
	order := pendingOrder("DK-3006")
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}}
	gw := &stubGateway{data: map[string]*paystack.VerifyData{
		order.Code: {Status: "abandoned", Reference: order.Code},
	}}
	f := newFixture(t, repo, gw)

	result, err := f.svc.VerifyByReference(context.Background(), order.Code)
	if err != nil {
		t.Fatalf("VerifyByReference: %v", err)
	}
	if result.Confirmed || result.Status != enums.OrderStatusPendingPayment {
		t.Fatalf("result = %+v, want still pending", result)
	}
	if len(f.attempts.attempts) != 1 || f.attempts.attempts[0].Status != "abandoned" {
		t.Fatalf("attempts = %+v, want single abandoned attempt", f.attempts.attempts)
	}
}

func TestVerifyByReferenceGatewayFailureReportsPending(t *testing.T) {
	order := pendingOrder("DK-3007")
	repo := &stubOrderRepo{orders: map[string]*models.Order{order.Code: order}}
	f := newFixture(t, repo, &stubGateway{err: errors.New("gateway timeout")})

	result, err := f.svc.VerifyByReference(context.Background(), order.Code)
	if err != nil {
		t.Fatalf("VerifyByReference with dead gateway = %v, want degraded result", err)
	}
	if result.Confirmed || result.AlreadyConfirmed || result.Status != enums.OrderStatusPendingPayment {
		t.Fatalf("result = %+v, want still pending", result)
	}
	if repo.updateCalls != 0 {
		t.Errorf("no confirm expected, got %d update calls", repo.updateCalls)
	}
}

func TestVerifyByReferenceUnknownCode(t *testing.T) {
	f := newFixture(t, &stubOrderRepo{orders: map[string]*models.Order{}}, &stubGateway{})

	_, err := f.svc.VerifyByReference(context.Background(), "DK-0000")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("VerifyByReference unknown code = %v, want not found", err)
	}
}

func TestReconcileSweepsBatchAndCollectsFailures(t *testing.T) {
	settled := pendingOrder("DK-3010")
	broken := pendingOrder("DK-3011")
	unsettled := pendingOrder("DK-3012")
	repo := &stubOrderRepo{
		orders: map[string]*models.Order{settled.Code: settled, broken.Code: broken, unsettled.Code: unsettled},
		rows:   1,
		stale:  []models.Order{*settled, *broken, *unsettled},
	}
	gw := &stubGateway{data: map[string]*paystack.VerifyData{
		settled.Code:   {Status: "success", Reference: settled.Code},
		unsettled.Code: {Status: "abandoned", Reference: unsettled.Code},
	}}
	f := newFixture(t, repo, gw)

	stats, err := f.svc.Reconcile(context.Background())
	if err == nil {
		t.Fatal("Reconcile should surface the broken order's error")
	}
	if stats.Scanned != 3 || stats.Confirmed != 1 || stats.Failed != 1 {
		t.Fatalf("stats = %+v, want scanned 3 confirmed 1 failed 1", stats)
	}
	if repo.staleLimit != 25 {
		t.Errorf("batch limit = %d, want configured 25", repo.staleLimit)
	}
	if len(f.assigner.orderIDs) != 1 || f.assigner.orderIDs[0] != settled.ID {
		t.Errorf("assigner calls = %v, want only the settled order", f.assigner.orderIDs)
	}
}

func TestReconcileEmptySweep(t *testing.T) {
	repo := &stubOrderRepo{orders: map[string]*models.Order{}}
	f := newFixture(t, repo, &stubGateway{})

	stats, err := f.svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if stats.Scanned != 0 || stats.Confirmed != 0 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want all zero", stats)
	}
}
