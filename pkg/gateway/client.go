package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockdesk/fulfillment/pkg/config"
	"stockdesk/fulfillment/pkg/gateway/ratelimit"
	"stockdesk/fulfillment/pkg/telemetry/metrics"
)

// Client is the typed façade over the fulfillment API. All operations of
// one client share its rate limiter, so outbound requests are spaced by the
// configured minimum interval regardless of how many goroutines call in.
//
// The client never retries on its own: failures are classified and
// propagated with their Retryable flag so the caller can decide.
type Client struct {
	// config contains the validated client configuration
	config config.GatewayConfig

	// httpClient is the HTTP client with connection pooling
	httpClient *http.Client

	// limiter spaces all outbound requests from this client
	limiter *ratelimit.Limiter

	// metrics is optional; nil disables recording
	metrics *metrics.GatewayMetrics

	logger *slog.Logger
}

// NewClient creates a fulfillment API client. The configuration is validated
// here: a missing base URL or API key fails construction rather than the
// first call. Metrics and logger may be nil.
func NewClient(cfg config.GatewayConfig, gm *metrics.GatewayMetrics, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &ConfigError{Field: "base_url", Message: "base URL is required"}
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, &ConfigError{Field: "base_url", Message: fmt.Sprintf("invalid URL: %v", err)}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigError{Field: "api_key", Message: "API key is required"}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		config: cfg,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		limiter: ratelimit.New(cfg.MinRequestInterval),
		metrics: gm,
		logger:  logger.With("component", "gateway"),
	}

	c.logger.Info("fulfillment client initialized",
		"base_url", cfg.BaseURL,
		"timeout", cfg.Timeout,
		"min_request_interval", cfg.MinRequestInterval,
	)

	return c, nil
}

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}

// Close releases idle transport connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetCatalog lists the stock-media providers available for ordering.
func (c *Client) GetCatalog(ctx context.Context) ([]Site, error) {
	var sites []Site
	if err := c.call(ctx, "get_catalog", http.MethodGet, "/api/catalog", nil, nil, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// GetItemInfo fetches details for a single catalog item.
func (c *Client) GetItemInfo(ctx context.Context, provider, itemID string) (*ItemInfo, error) {
	if provider == "" {
		return nil, newValidationError("provider", "must not be empty")
	}
	if itemID == "" {
		return nil, newValidationError("item_id", "must not be empty")
	}

	path := fmt.Sprintf("/api/items/%s/%s", url.PathEscape(provider), url.PathEscape(itemID))
	var info ItemInfo
	if err := c.call(ctx, "get_item_info", http.MethodGet, path, nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateOrder submits a stock-media order and returns the server-assigned
// order identifier. The cost is computed by the pricing engine before
// submission and echoed to the server for reconciliation.
func (c *Client) CreateOrder(ctx context.Context, provider, itemID string, cost decimal.Decimal) (string, error) {
	if provider == "" {
		return "", newValidationError("provider", "must not be empty")
	}
	if itemID == "" {
		return "", newValidationError("item_id", "must not be empty")
	}
	if cost.IsNegative() {
		return "", newValidationError("cost", "must not be negative")
	}

	req := createOrderRequest{Provider: provider, ItemID: itemID, Cost: cost}
	var resp createOrderResponse
	if err := c.call(ctx, "create_order", http.MethodPost, "/api/orders", nil, req, &resp); err != nil {
		return "", err
	}

	c.logger.Info("order created",
		"order_id", resp.OrderID,
		"provider", provider,
		"item_id", itemID,
	)
	return resp.OrderID, nil
}

// GetOrderStatus fetches the current state of a submitted order.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	if orderID == "" {
		return nil, newValidationError("order_id", "must not be empty")
	}

	path := fmt.Sprintf("/api/orders/%s/status", url.PathEscape(orderID))
	var status OrderStatus
	if err := c.call(ctx, "get_order_status", http.MethodGet, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetDownloadLink issues a download URL for a completed order. linkType
// selects the variant ("original", "preview"); empty means original.
func (c *Client) GetDownloadLink(ctx context.Context, orderID, linkType string) (string, error) {
	if orderID == "" {
		return "", newValidationError("order_id", "must not be empty")
	}

	query := url.Values{}
	if linkType != "" {
		query.Set("type", linkType)
	}

	path := fmt.Sprintf("/api/orders/%s/download", url.PathEscape(orderID))
	var resp downloadLinkResponse
	if err := c.call(ctx, "get_download_link", http.MethodGet, path, query, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// CreateAIJob submits an AI image-generation job and returns its identifier.
func (c *Client) CreateAIJob(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", newValidationError("prompt", "must not be empty")
	}

	req := createAIJobRequest{Prompt: prompt}
	var resp createAIJobResponse
	if err := c.call(ctx, "create_ai_job", http.MethodPost, "/api/ai/jobs", nil, req, &resp); err != nil {
		return "", err
	}

	c.logger.Info("ai job created", "job_id", resp.JobID)
	return resp.JobID, nil
}

// GetAIResult fetches the current state of an AI generation job.
func (c *Client) GetAIResult(ctx context.Context, jobID string) (*AIResult, error) {
	if jobID == "" {
		return nil, newValidationError("job_id", "must not be empty")
	}

	path := fmt.Sprintf("/api/ai/jobs/%s", url.PathEscape(jobID))
	var result AIResult
	if err := c.call(ctx, "get_ai_result", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PerformAIAction runs a follow-up action ("upscale", "variation") against
// a completed AI job. The server spawns a new job; its identifier is returned.
func (c *Client) PerformAIAction(ctx context.Context, jobID, action string, index int) (string, error) {
	if jobID == "" {
		return "", newValidationError("job_id", "must not be empty")
	}
	if action == "" {
		return "", newValidationError("action", "must not be empty")
	}
	if index < 0 {
		return "", newValidationError("index", "must not be negative")
	}

	req := aiActionRequest{Action: action, Index: index}
	path := fmt.Sprintf("/api/ai/jobs/%s/actions", url.PathEscape(jobID))
	var resp createAIJobResponse
	if err := c.call(ctx, "perform_ai_action", http.MethodPost, path, nil, req, &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// GetAccountBalance fetches the account's remaining credit.
func (c *Client) GetAccountBalance(ctx context.Context) (*Balance, error) {
	var balance Balance
	if err := c.call(ctx, "get_account_balance", http.MethodGet, "/api/account/balance", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// call issues one rate-limited request and decodes the envelope into out.
// Every failure path returns a classified *Error.
func (c *Client) call(ctx context.Context, operation, method, path string, query url.Values, reqBody, out any) error {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		gerr := classifyTransportError(err, c.config.Timeout)
		c.metrics.RecordRequest(operation, string(gerr.Kind), 0)
		return gerr
	}
	c.metrics.RecordRateLimitWait(time.Since(waitStart))

	var bodyReader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return newValidationError("body", fmt.Sprintf("failed to encode request: %v", err))
		}
		bodyReader = bytes.NewReader(payload)
	}

	requestURL := strings.TrimSuffix(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return newValidationError("request", fmt.Sprintf("failed to build request: %v", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Api-Key", c.config.APIKey)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending request",
		"operation", operation,
		"method", method,
		"path", path,
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		gerr := classifyTransportError(err, c.config.Timeout)
		c.metrics.RecordRequest(operation, string(gerr.Kind), duration)
		c.logger.Warn("request failed",
			"operation", operation,
			"request_id", requestID,
			"kind", string(gerr.Kind),
			"retryable", gerr.Retryable,
			"error", err,
		)
		return gerr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		gerr := classifyTransportError(err, c.config.Timeout)
		c.metrics.RecordRequest(operation, string(gerr.Kind), duration)
		return gerr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gerr := classifyStatus(resp.StatusCode, body, resp.Header.Get("Retry-After"))
		c.metrics.RecordRequest(operation, string(gerr.Kind), duration)
		c.logger.Warn("request rejected",
			"operation", operation,
			"request_id", requestID,
			"status", resp.StatusCode,
			"kind", string(gerr.Kind),
			"retryable", gerr.Retryable,
		)
		return gerr
	}

	if err := decodeEnvelope(body, resp.StatusCode, out); err != nil {
		kind := string(KindOf(err))
		c.metrics.RecordRequest(operation, kind, duration)
		c.logger.Warn("request returned failure envelope",
			"operation", operation,
			"request_id", requestID,
			"kind", kind,
		)
		return err
	}

	c.metrics.RecordRequest(operation, "success", duration)
	c.logger.Debug("request succeeded",
		"operation", operation,
		"request_id", requestID,
		"duration", duration,
	)
	return nil
}
