package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockdesk/fulfillment/pkg/polling"
)

// Kind distinguishes the two order flavors the fulfillment API serves.
type Kind string

const (
	// KindStockMedia is a purchase of an existing catalog item.
	KindStockMedia Kind = "stock-media"

	// KindAIGeneration is an AI image-generation job.
	KindAIGeneration Kind = "ai-generation"
)

// Valid reports whether k is a known order kind.
func (k Kind) Valid() bool {
	return k == KindStockMedia || k == KindAIGeneration
}

// Order is the local record of one submitted order or job.
type Order struct {
	// ID is the server-assigned order or job identifier.
	ID string

	// Kind is the order flavor.
	Kind Kind

	// Status is the order's lifecycle state.
	Status polling.Status

	// Cost is the credits charged for the order, computed by the
	// pricing engine before submission.
	Cost decimal.Decimal

	// Progress is percent complete (0-100).
	Progress int

	// Message carries the last server-reported context, e.g. an error
	// reason for failed orders.
	Message string

	// ResultFiles holds result file URLs once the order completes.
	ResultFiles []string

	// CreatedAt is when the order was recorded locally.
	CreatedAt time.Time

	// UpdatedAt is when the order last changed.
	UpdatedAt time.Time
}

// Terminal reports whether the order has finished its lifecycle.
func (o *Order) Terminal() bool {
	return o.Status.Terminal()
}

// Clone returns a copy safe to hand out across goroutines.
func (o *Order) Clone() *Order {
	clone := *o
	if o.ResultFiles != nil {
		clone.ResultFiles = append([]string(nil), o.ResultFiles...)
	}
	return &clone
}

// statusRank orders lifecycle states for monotonic transition checks.
// All terminal states share a rank: once terminal, nothing moves.
func statusRank(s polling.Status) int {
	switch s {
	case polling.StatusPending:
		return 0
	case polling.StatusProcessing:
		return 1
	case polling.StatusCompleted, polling.StatusFailed, polling.StatusCancelled:
		return 2
	default:
		return -1
	}
}

// TransitionError reports a rejected status transition.
type TransitionError struct {
	// OrderID is the order whose transition was rejected.
	OrderID string

	// From is the order's current status.
	From polling.Status

	// To is the rejected target status.
	To polling.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %s: illegal status transition %s -> %s", e.OrderID, e.From, e.To)
}

// NotFoundError reports a lookup for an unknown order.
type NotFoundError struct {
	// OrderID is the order that was not found.
	OrderID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

// DuplicateError reports an attempt to record an order ID twice.
type DuplicateError struct {
	// OrderID is the duplicated order identifier.
	OrderID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("order %s already exists", e.OrderID)
}
