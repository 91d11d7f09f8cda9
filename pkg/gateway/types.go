package gateway

import (
	"github.com/shopspring/decimal"
)

// Site is one stock-media provider listed in the fulfillment catalog.
type Site struct {
	// Name is the provider identifier used in order requests.
	Name string `json:"name"`

	// Title is the provider's display name.
	Title string `json:"title"`

	// Active indicates the provider currently accepts orders.
	Active bool `json:"active"`

	// UnitCost is the provider's nominal per-item cost in credits.
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ItemInfo describes a single purchasable catalog item.
type ItemInfo struct {
	// Provider is the stock-media provider hosting the item.
	Provider string `json:"provider"`

	// ItemID is the provider-scoped item identifier.
	ItemID string `json:"item_id"`

	// Title is the item's display title.
	Title string `json:"title"`

	// MediaType is the item's media kind (photo, vector, video, ...).
	MediaType string `json:"media_type"`

	// PreviewURL is a watermarked preview location.
	PreviewURL string `json:"preview_url"`

	// Cost is the item's cost in credits.
	Cost decimal.Decimal `json:"cost"`
}

// OrderStatus is a point-in-time view of a submitted order.
// Status values: "processing", "ready", "error", "cancelled".
type OrderStatus struct {
	// OrderID echoes the order identifier when the server includes it;
	// not all status payloads do.
	OrderID string `json:"order_id"`

	// Status is the server-reported order state.
	Status string `json:"status"`

	// Progress is percent complete (0-100), when the server reports it.
	Progress int `json:"progress"`

	// Message carries additional server context (e.g., an error reason).
	Message string `json:"message,omitempty"`
}

// AIResult is a point-in-time view of an AI image-generation job.
// Status values: "pending", "processing", "completed", "error", "cancelled".
type AIResult struct {
	// JobID echoes the job identifier when the server includes it;
	// not all status payloads do.
	JobID string `json:"job_id"`

	// Status is the server-reported job state.
	Status string `json:"status"`

	// PercentComplete is generation progress (0-100).
	PercentComplete int `json:"percent_complete"`

	// Files holds result file URLs once the job completes.
	Files []string `json:"files,omitempty"`

	// Message carries additional server context (e.g., an error reason).
	Message string `json:"message,omitempty"`
}

// Balance is the account's remaining credit.
type Balance struct {
	// Amount is the remaining credit balance.
	Amount decimal.Decimal `json:"amount"`

	// Currency is the balance currency or credit unit.
	Currency string `json:"currency"`
}

// createOrderRequest is the order submission payload.
type createOrderRequest struct {
	Provider string          `json:"provider"`
	ItemID   string          `json:"item_id"`
	Cost     decimal.Decimal `json:"cost"`
}

// createOrderResponse is the order submission result payload.
type createOrderResponse struct {
	OrderID string `json:"order_id"`
}

// downloadLinkResponse is the download link issuance payload.
type downloadLinkResponse struct {
	URL string `json:"url"`
}

// createAIJobRequest is the AI job submission payload.
type createAIJobRequest struct {
	Prompt string `json:"prompt"`
}

// createAIJobResponse is the AI job submission result payload.
type createAIJobResponse struct {
	JobID string `json:"job_id"`
}

// aiActionRequest is the AI follow-up action payload. Index selects which
// generated image the action applies to.
type aiActionRequest struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}
