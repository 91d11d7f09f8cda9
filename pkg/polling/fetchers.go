package polling

import (
	"context"
	"time"

	"stockdesk/fulfillment/pkg/gateway"
)

// StatusClient is the slice of the gateway client that polling needs.
type StatusClient interface {
	GetOrderStatus(ctx context.Context, orderID string) (*gateway.OrderStatus, error)
	GetAIResult(ctx context.Context, jobID string) (*gateway.AIResult, error)
}

// OrderFetcher adapts stock-media order status calls into a FetchFunc.
// Status payloads do not always echo the order ID, so snapshots are keyed
// by the ID that was asked for, never left blank.
func OrderFetcher(client StatusClient) FetchFunc {
	return func(ctx context.Context, orderID string) (*Snapshot, error) {
		status, err := client.GetOrderStatus(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &Snapshot{
			JobID:     orderID,
			Status:    mapOrderStatus(status.Status),
			Progress:  status.Progress,
			Message:   status.Message,
			FetchedAt: time.Now(),
		}, nil
	}
}

// AIJobFetcher adapts AI generation job status calls into a FetchFunc.
func AIJobFetcher(client StatusClient) FetchFunc {
	return func(ctx context.Context, jobID string) (*Snapshot, error) {
		result, err := client.GetAIResult(ctx, jobID)
		if err != nil {
			return nil, err
		}
		return &Snapshot{
			JobID:     jobID,
			Status:    mapAIStatus(result.Status),
			Progress:  result.PercentComplete,
			Files:     result.Files,
			Message:   result.Message,
			FetchedAt: time.Now(),
		}, nil
	}
}

// mapOrderStatus normalizes the raw order states the server reports.
func mapOrderStatus(raw string) Status {
	switch raw {
	case "ready":
		return StatusCompleted
	case "processing":
		return StatusProcessing
	case "error":
		return StatusFailed
	case "cancelled":
		return StatusCancelled
	default:
		// Unknown states keep the session alive rather than guessing a
		// terminal outcome.
		return StatusPending
	}
}

// mapAIStatus normalizes the raw AI job states the server reports.
func mapAIStatus(raw string) Status {
	switch raw {
	case "completed":
		return StatusCompleted
	case "processing":
		return StatusProcessing
	case "error":
		return StatusFailed
	case "cancelled":
		return StatusCancelled
	default:
		return StatusPending
	}
}
