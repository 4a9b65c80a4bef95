package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/enums"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
)

// Sender delivers a fire-and-forget SMS for an order. Implementations must be
// safe to call from post-transition hooks; callers log failures and move on,
// they never roll a status transition back over a missed SMS.
type Sender interface {
	Send(ctx context.Context, kind enums.SMSKind, order *models.Order) error
}

// Service posts order notifications to the SMS gateway. Messages reference
// only the tracking code, never the order contents.
type Service struct {
	cfg  config.SMSConfig
	http *http.Client
	logg *logger.Logger
}

type sendRequest struct {
	Sender    string `json:"sender"`
	Kind      string `json:"kind"`
	OrderCode string `json:"order_code"`
	Message   string `json:"message"`
}

// NewService wires the SMS gateway client.
func NewService(cfg config.SMSConfig, logg *logger.Logger) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		logg: logg,
	}
}

func (s *Service) Send(ctx context.Context, kind enums.SMSKind, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	if !s.cfg.Enabled {
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"kind": kind.String(), "order_id": order.ID.String()})
			s.logg.Info(logCtx, "sms disabled; skipping notification")
		}
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		Sender:    s.cfg.SenderID,
		Kind:      kind.String(),
		OrderCode: order.Code,
		Message:   messageFor(kind, order),
	})
	if err != nil {
		return fmt.Errorf("encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/sms/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.cfg.APIKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send %s sms: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send %s sms: gateway status %d", kind, resp.StatusCode)
	}
	return nil
}

func messageFor(kind enums.SMSKind, order *models.Order) string {
	switch kind {
	case enums.SMSKindOrderConfirmation:
		return fmt.Sprintf("Payment received for order %s. We will notify you when it ships.", order.Code)
	case enums.SMSKindOrderAssignment:
		return fmt.Sprintf("New order %s is waiting for your acceptance in the pharmacy portal.", order.Code)
	case enums.SMSKindShippingUpdate:
		return fmt.Sprintf("Order %s is out for delivery.", order.Code)
	case enums.SMSKindDeliveryUpdate:
		return fmt.Sprintf("Order %s has been delivered. Thank you.", order.Code)
	default:
		return fmt.Sprintf("Update on order %s.", order.Code)
	}
}
