package orders

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stockdesk/fulfillment/pkg/polling"
)

// Store is the in-memory order book. All methods are safe for concurrent
// use; returned orders are copies, so callers can hold them without
// racing later updates.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*Order

	// now is replaceable for tests.
	now func() time.Time
}

// NewStore creates an empty order book.
func NewStore() *Store {
	return &Store{
		orders: make(map[string]*Order),
		now:    time.Now,
	}
}

// Create records a newly submitted order in the pending state.
func (s *Store) Create(id string, kind Kind, cost decimal.Decimal) (*Order, error) {
	if id == "" {
		return nil, errors.New("order ID must not be empty")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown order kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[id]; exists {
		return nil, &DuplicateError{OrderID: id}
	}

	now := s.now()
	order := &Order{
		ID:        id,
		Kind:      kind,
		Status:    polling.StatusPending,
		Cost:      cost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.orders[id] = order
	return order.Clone(), nil
}

// Get returns the order with the given ID.
func (s *Store) Get(id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, &NotFoundError{OrderID: id}
	}
	return order.Clone(), nil
}

// List returns all orders, newest first.
func (s *Store) List() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Order, 0, len(s.orders))
	for _, order := range s.orders {
		out = append(out, order.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active returns the IDs of orders that have not reached a terminal
// state, for batch polling.
func (s *Store) Active() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, order := range s.orders {
		if !order.Terminal() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Apply advances an order from a polled snapshot. Transitions only move
// forward: a snapshot whose status ranks below the order's current
// status is rejected, and terminal orders never change again. Applying
// the current status refreshes progress and message without counting as
// a transition.
func (s *Store) Apply(snapshot *polling.Snapshot) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[snapshot.JobID]
	if !ok {
		return nil, &NotFoundError{OrderID: snapshot.JobID}
	}

	fromRank, toRank := statusRank(order.Status), statusRank(snapshot.Status)
	if toRank < 0 || toRank < fromRank {
		return nil, &TransitionError{OrderID: order.ID, From: order.Status, To: snapshot.Status}
	}
	if order.Terminal() && snapshot.Status != order.Status {
		return nil, &TransitionError{OrderID: order.ID, From: order.Status, To: snapshot.Status}
	}

	order.Status = snapshot.Status
	if snapshot.Progress > order.Progress {
		order.Progress = snapshot.Progress
	}
	if snapshot.Message != "" {
		order.Message = snapshot.Message
	}
	if len(snapshot.Files) > 0 {
		order.ResultFiles = append([]string(nil), snapshot.Files...)
	}
	order.UpdatedAt = s.now()

	return order.Clone(), nil
}

// Delete removes an order from the book.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return &NotFoundError{OrderID: id}
	}
	delete(s.orders, id)
	return nil
}

// PruneTerminal removes terminal orders whose last update is older than
// cutoff, returning the removed IDs.
func (s *Store) PruneTerminal(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned []string
	for id, order := range s.orders {
		if order.Terminal() && order.UpdatedAt.Before(cutoff) {
			delete(s.orders, id)
			pruned = append(pruned, id)
		}
	}
	sort.Strings(pruned)
	return pruned
}

// Len returns the number of tracked orders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
