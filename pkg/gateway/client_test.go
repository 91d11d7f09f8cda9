package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockdesk/fulfillment/pkg/config"
)

func testConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(testConfig(baseURL), nil, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func writeEnvelope(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

// ============================================================================
// Construction Tests
// ============================================================================

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.GatewayConfig
		wantField string
	}{
		{
			name:      "missing base URL",
			cfg:       config.GatewayConfig{APIKey: "k"},
			wantField: "base_url",
		},
		{
			name:      "missing API key",
			cfg:       config.GatewayConfig{BaseURL: "https://api.example.com"},
			wantField: "api_key",
		},
		{
			name:      "blank API key",
			cfg:       config.GatewayConfig{BaseURL: "https://api.example.com", APIKey: "   "},
			wantField: "api_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg, nil, nil)
			if err == nil {
				t.Fatal("Expected construction to fail")
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Expected *ConfigError, got %T", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, cerr.Field)
			}
		})
	}
}

// ============================================================================
// Request Shape Tests
// ============================================================================

func TestClient_RequestHeaders(t *testing.T) {
	var gotAPIKey, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeEnvelope(w, []Site{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.GetCatalog(context.Background()); err != nil {
		t.Fatalf("GetCatalog failed: %v", err)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("Expected X-Api-Key header, got %q", gotAPIKey)
	}
	if gotRequestID == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestCreateOrder_Payload(t *testing.T) {
	var got createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		writeEnvelope(w, createOrderResponse{OrderID: "ord-42"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	orderID, err := client.CreateOrder(context.Background(), "shutterstock", "img-1", decimal.RequireFromString("0.35"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if orderID != "ord-42" {
		t.Errorf("Expected order id ord-42, got %q", orderID)
	}
	if got.Provider != "shutterstock" || got.ItemID != "img-1" {
		t.Errorf("Unexpected payload: %+v", got)
	}
	if !got.Cost.Equal(decimal.RequireFromString("0.35")) {
		t.Errorf("Expected cost 0.35, got %s", got.Cost)
	}
}

func TestGetDownloadLink_Query(t *testing.T) {
	var gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		writeEnvelope(w, downloadLinkResponse{URL: "https://cdn.example.com/f.jpg"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	link, err := client.GetDownloadLink(context.Background(), "ord-1", "preview")
	if err != nil {
		t.Fatalf("GetDownloadLink failed: %v", err)
	}

	if link != "https://cdn.example.com/f.jpg" {
		t.Errorf("Unexpected link: %q", link)
	}
	if gotType != "preview" {
		t.Errorf("Expected type=preview query, got %q", gotType)
	}
}

// ============================================================================
// Response Decoding Tests
// ============================================================================

func TestGetOrderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/ord-7/status" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		writeEnvelope(w, OrderStatus{OrderID: "ord-7", Status: "processing", Progress: 40})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	status, err := client.GetOrderStatus(context.Background(), "ord-7")
	if err != nil {
		t.Fatalf("GetOrderStatus failed: %v", err)
	}

	if status.Status != "processing" || status.Progress != 40 {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestGetAIResult_Completed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, AIResult{
			JobID:           "job-3",
			Status:          "completed",
			PercentComplete: 100,
			Files:           []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.GetAIResult(context.Background(), "job-3")
	if err != nil {
		t.Fatalf("GetAIResult failed: %v", err)
	}

	if result.Status != "completed" || len(result.Files) != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestGetAccountBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, Balance{Amount: decimal.RequireFromString("12.50"), Currency: "credits"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	balance, err := client.GetAccountBalance(context.Background())
	if err != nil {
		t.Fatalf("GetAccountBalance failed: %v", err)
	}

	if !balance.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("Expected balance 12.50, got %s", balance.Amount)
	}
}

// ============================================================================
// Failure Classification Tests
// ============================================================================

func TestClient_FailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "insufficient balance",
			"code":    "insufficient_balance",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateOrder(context.Background(), "p", "i", decimal.Zero)
	if err == nil {
		t.Fatal("Expected error for failure envelope")
	}

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if gerr.Kind != KindRequestFailed {
		t.Errorf("Expected kind request_failed, got %s", gerr.Kind)
	}
	if gerr.Code != "insufficient_balance" {
		t.Errorf("Expected server code preserved, got %q", gerr.Code)
	}
	if gerr.Retryable {
		t.Error("insufficient_balance should not be retryable")
	}
}

func TestClient_HTTPStatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantKind  Kind
		retryable bool
	}{
		{"unauthorized", 401, KindAuth, false},
		{"rate limited", 429, KindRateLimit, true},
		{"server error", 503, KindServer, true},
		{"not found", 404, KindRequestFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == 429 {
					w.Header().Set("Retry-After", "2")
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, err := client.GetCatalog(context.Background())
			if err == nil {
				t.Fatal("Expected error")
			}

			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if gerr.Kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, gerr.Kind)
			}
			if gerr.Retryable != tt.retryable {
				t.Errorf("Expected retryable=%v, got %v", tt.retryable, gerr.Retryable)
			}
			if tt.status == 429 && gerr.RetryAfter != 2*time.Second {
				t.Errorf("Expected retry-after 2s, got %v", gerr.RetryAfter)
			}
		})
	}
}

func TestClient_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := newTestClient(t, server.URL)
	_, err := client.GetCatalog(context.Background())
	if err == nil {
		t.Fatal("Expected connection error")
	}

	if KindOf(err) != KindNetwork {
		t.Errorf("Expected kind network, got %s", KindOf(err))
	}
	if !IsRetryable(err) {
		t.Error("Connection failures should be retryable")
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		writeEnvelope(w, []Site{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.GetCatalog(ctx)
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if IsRetryable(err) {
		t.Error("Cancelled requests should not be retryable")
	}
}

// ============================================================================
// Validation Tests
// ============================================================================

func TestClient_ValidationBeforeTransport(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	checks := []struct {
		name string
		run  func() error
	}{
		{"empty item id", func() error { _, err := client.GetItemInfo(ctx, "provider", ""); return err }},
		{"empty provider", func() error { _, err := client.CreateOrder(ctx, "", "i", decimal.Zero); return err }},
		{"negative cost", func() error {
			_, err := client.CreateOrder(ctx, "p", "i", decimal.RequireFromString("-1"))
			return err
		}},
		{"empty order id", func() error { _, err := client.GetOrderStatus(ctx, ""); return err }},
		{"blank prompt", func() error { _, err := client.CreateAIJob(ctx, "  "); return err }},
		{"empty action", func() error { _, err := client.PerformAIAction(ctx, "job", "", 0); return err }},
		{"negative index", func() error { _, err := client.PerformAIAction(ctx, "job", "upscale", -1); return err }},
	}

	for _, check := range checks {
		t.Run(check.name, func(t *testing.T) {
			err := check.run()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if KindOf(err) != KindValidation {
				t.Errorf("Expected kind validation, got %s", KindOf(err))
			}
			if IsRetryable(err) {
				t.Error("Validation errors must not be retryable")
			}
		})
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("Validation failures must not reach the server, saw %d requests", n)
	}
}

// ============================================================================
// Rate Limiting Tests
// ============================================================================

func TestClient_RequestSpacing(t *testing.T) {
	var timestamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timestamps = append(timestamps, time.Now())
		writeEnvelope(w, []Site{})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MinRequestInterval = 50 * time.Millisecond
	client, err := NewClient(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	for i := 0; i < 3; i++ {
		if _, err := client.GetCatalog(context.Background()); err != nil {
			t.Fatalf("GetCatalog failed: %v", err)
		}
	}

	if len(timestamps) != 3 {
		t.Fatalf("Expected 3 requests, got %d", len(timestamps))
	}
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < 40*time.Millisecond {
			t.Errorf("Requests %d and %d only %v apart, want >= ~50ms", i-1, i, gap)
		}
	}
}
