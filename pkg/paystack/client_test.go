package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), config.PaystackConfig{
		SecretKey: "sk_test_secret",
		BaseURL:   baseURL,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestVerifyReturnsTransactionData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/DK-5001" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_secret" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"DK-5001","amount":4500,"paid_at":"2026-08-29T10:00:00Z"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	data, err := client.Verify(context.Background(), "DK-5001")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !data.Succeeded() || data.Reference != "DK-5001" || data.Amount != 4500 {
		t.Errorf("data = %+v", data)
	}
}

func TestVerifyUnknownReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Verify(context.Background(), "DK-0000"); err == nil {
		t.Fatal("Verify should fail for an unknown reference")
	}
}

func TestVerifyGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Verify(context.Background(), "DK-5002"); err == nil {
		t.Fatal("Verify should surface gateway-level failures")
	}
}

func TestVerifyRequiresReference(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	if _, err := client.Verify(context.Background(), "  "); err == nil {
		t.Fatal("Verify should reject an empty reference")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := newTestClient(t, "")
	payload := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifyWebhookSignature(payload, valid) {
		t.Error("valid signature rejected")
	}
	if client.VerifyWebhookSignature(payload, "deadbeef") {
		t.Error("forged signature accepted")
	}
	if client.VerifyWebhookSignature(payload, "") {
		t.Error("empty signature accepted")
	}
	if client.VerifyWebhookSignature([]byte(`tampered`), valid) {
		t.Error("signature accepted for tampered payload")
	}
}

func TestIsChargeSuccess(t *testing.T) {
	var event WebhookEvent
	event.Event = "charge.success"
	event.Data.Status = "success"
	if !event.IsChargeSuccess() {
		t.Error("settled charge not recognized")
	}

	event.Data.Status = "failed"
	if event.IsChargeSuccess() {
		t.Error("failed charge recognized as success")
	}
}
