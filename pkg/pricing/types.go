package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is a contiguous quantity band priced at a single flat rate.
// Bounds are inclusive on both ends.
type Tier struct {
	// Label is a human-readable tier name (e.g., "volume").
	Label string

	// MinUnits is the smallest quantity the tier covers (>= 1).
	MinUnits int

	// MaxUnits is the largest quantity the tier covers (>= MinUnits).
	MaxUnits int

	// Rate is the per-unit price for quantities in this tier.
	Rate decimal.Decimal
}

// Contains reports whether the tier's range covers the given quantity.
func (t Tier) Contains(units int) bool {
	return units >= t.MinUnits && units <= t.MaxUnits
}

// Result is the outcome of pricing a quantity. It is built fresh on every
// Price call and never mutated afterwards.
type Result struct {
	// TotalUnits is the priced quantity.
	TotalUnits int

	// TotalCost is TotalUnits multiplied by the matched tier's rate.
	TotalCost decimal.Decimal

	// AverageCostPerUnit is TotalCost divided by TotalUnits. Under
	// non-progressive pricing this equals the matched tier's rate; it is
	// exposed separately so callers do not depend on that equivalence.
	AverageCostPerUnit decimal.Decimal

	// Tier is the single tier the quantity was charged at.
	Tier Tier

	// TierBreakdown contains one entry per tier in the table, in table
	// order. It shows the notional bracketed distribution of the quantity
	// and is informational only; it is not summed into TotalCost.
	TierBreakdown []TierContribution

	// TotalSavings is the difference between pricing the quantity at the
	// most expensive tier's rate and TotalCost.
	TotalSavings decimal.Decimal

	// SavingsPercent is TotalSavings as a percentage of the most expensive
	// tier baseline (0-100).
	SavingsPercent decimal.Decimal
}

// TierContribution describes how many units of a quantity would fall into
// one tier if pricing were bracketed.
type TierContribution struct {
	// Label is the tier's label.
	Label string

	// MinUnits and MaxUnits echo the tier's bounds.
	MinUnits int
	MaxUnits int

	// Rate is the tier's per-unit rate.
	Rate decimal.Decimal

	// Units is the number of units that would land in this tier.
	Units int

	// Cost is Units multiplied by Rate. Notional; never charged.
	Cost decimal.Decimal

	// Used marks the single tier whose range contains the full quantity.
	Used bool
}

// ValidationError represents an invalid pricing input.
// Invalid input is a caller bug, never retried.
type ValidationError struct {
	// Field is the name of the invalid input.
	Field string

	// Message describes what is invalid about it.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// TableError represents an invalid tier table definition.
type TableError struct {
	// Index is the position of the offending tier (-1 for table-level errors).
	Index int

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *TableError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid tier table: %s", e.Message)
	}
	return fmt.Sprintf("invalid tier table: tier %d: %s", e.Index, e.Message)
}
