package pricing

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Table is an immutable, validated tier table. Build one with NewTable;
// the zero value is not usable.
type Table struct {
	tiers    []Tier
	maxUnits int
}

// NewTable validates and builds a tier table.
//
// A valid table covers every quantity in [1, maxUnits] with exactly one
// tier: the first tier starts at 1, each subsequent tier starts where the
// previous one ended plus one, and every rate is positive. Rates must not
// increase from one tier to the next, since the first tier is the savings
// baseline.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, &TableError{Index: -1, Message: "at least one tier is required"}
	}

	for i, tier := range tiers {
		if tier.MinUnits < 1 {
			return nil, &TableError{Index: i, Message: fmt.Sprintf("min_units must be >= 1, got %d", tier.MinUnits)}
		}
		if tier.MaxUnits < tier.MinUnits {
			return nil, &TableError{Index: i, Message: fmt.Sprintf("max_units %d is below min_units %d", tier.MaxUnits, tier.MinUnits)}
		}
		if !tier.Rate.IsPositive() {
			return nil, &TableError{Index: i, Message: fmt.Sprintf("rate must be positive, got %s", tier.Rate)}
		}
	}

	if tiers[0].MinUnits != 1 {
		return nil, &TableError{Index: 0, Message: fmt.Sprintf("first tier must start at 1, got %d", tiers[0].MinUnits)}
	}

	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		if cur.MinUnits != prev.MaxUnits+1 {
			return nil, &TableError{Index: i, Message: fmt.Sprintf(
				"tiers must be contiguous: expected min_units %d after %q, got %d",
				prev.MaxUnits+1, prev.Label, cur.MinUnits)}
		}
		if cur.Rate.GreaterThan(prev.Rate) {
			return nil, &TableError{Index: i, Message: fmt.Sprintf(
				"rates must not increase with quantity: %s > %s", cur.Rate, prev.Rate)}
		}
	}

	// Copy so the table cannot be mutated through the caller's slice.
	owned := make([]Tier, len(tiers))
	copy(owned, tiers)

	return &Table{
		tiers:    owned,
		maxUnits: owned[len(owned)-1].MaxUnits,
	}, nil
}

// DefaultTable returns the documented stock-media tier table covering
// quantities 1 through 500.
func DefaultTable() *Table {
	table, err := NewTable([]Tier{
		{Label: "starter", MinUnits: 1, MaxUnits: 9, Rate: decimal.RequireFromString("0.50")},
		{Label: "basic", MinUnits: 10, MaxUnits: 49, Rate: decimal.RequireFromString("0.40")},
		{Label: "standard", MinUnits: 50, MaxUnits: 99, Rate: decimal.RequireFromString("0.35")},
		{Label: "plus", MinUnits: 100, MaxUnits: 199, Rate: decimal.RequireFromString("0.295")},
		{Label: "volume", MinUnits: 200, MaxUnits: 500, Rate: decimal.RequireFromString("0.25")},
	})
	if err != nil {
		// The built-in table is fixed; a failure here is a programming error.
		panic(err)
	}
	return table
}

// Tiers returns a copy of the table's tiers in ascending quantity order.
func (t *Table) Tiers() []Tier {
	tiers := make([]Tier, len(t.tiers))
	copy(tiers, t.tiers)
	return tiers
}

// MaxUnits returns the largest supported quantity.
func (t *Table) MaxUnits() int {
	return t.maxUnits
}

// tierFor locates the single tier containing units. The table is small and
// static, so a linear scan is sufficient.
func (t *Table) tierFor(units int) (Tier, bool) {
	for _, tier := range t.tiers {
		if tier.Contains(units) {
			return tier, true
		}
	}
	return Tier{}, false
}

// Engine prices quantities against a tier table. It is thread-safe and
// supports swapping in a new table at runtime.
type Engine struct {
	// mu protects table for concurrent access
	mu    sync.RWMutex
	table *Table
}

// NewEngine creates a pricing engine over the given table.
func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Table returns the engine's current tier table.
func (e *Engine) Table() *Table {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table
}

// Swap replaces the engine's table. The previous table is untouched;
// in-flight Price calls complete against whichever table they started with.
func (e *Engine) Swap(table *Table) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.table = table
}

// Price computes the cost of the given quantity.
//
// The quantity must lie in [1, Table().MaxUnits()]; anything else returns a
// ValidationError and no result. The whole quantity is charged at the rate
// of the single tier containing it.
func (e *Engine) Price(units int) (*Result, error) {
	table := e.Table()

	if err := validateUnits(units, table.maxUnits); err != nil {
		return nil, err
	}

	tier, ok := table.tierFor(units)
	if !ok {
		// Unreachable for a validated table; kept as a guard.
		return nil, &ValidationError{Field: "units", Message: fmt.Sprintf("no tier covers quantity %d", units)}
	}

	quantity := decimal.NewFromInt(int64(units))
	totalCost := quantity.Mul(tier.Rate)

	baselineRate := table.tiers[0].Rate
	baselineCost := quantity.Mul(baselineRate)
	totalSavings := baselineCost.Sub(totalCost)

	savingsPercent := decimal.Zero
	if baselineCost.IsPositive() {
		savingsPercent = totalSavings.Div(baselineCost).Mul(decimal.NewFromInt(100))
	}

	return &Result{
		TotalUnits:         units,
		TotalCost:          totalCost,
		AverageCostPerUnit: totalCost.Div(quantity),
		Tier:               tier,
		TierBreakdown:      breakdown(table, units),
		TotalSavings:       totalSavings,
		SavingsPercent:     savingsPercent,
	}, nil
}

// TierFor returns the tier a quantity would be charged at, using the same
// lookup as Price. Intended for "your current rate" style displays.
func (e *Engine) TierFor(units int) (Tier, error) {
	table := e.Table()

	if err := validateUnits(units, table.maxUnits); err != nil {
		return Tier{}, err
	}

	tier, ok := table.tierFor(units)
	if !ok {
		return Tier{}, &ValidationError{Field: "units", Message: fmt.Sprintf("no tier covers quantity %d", units)}
	}
	return tier, nil
}

// breakdown distributes units across all tiers as if pricing were bracketed.
// The sum of per-tier units equals the quantity, but the per-tier costs are
// notional and never charged.
func breakdown(table *Table, units int) []TierContribution {
	contributions := make([]TierContribution, 0, len(table.tiers))

	for _, tier := range table.tiers {
		inTier := 0
		if units >= tier.MinUnits {
			upper := units
			if upper > tier.MaxUnits {
				upper = tier.MaxUnits
			}
			inTier = upper - tier.MinUnits + 1
		}

		contributions = append(contributions, TierContribution{
			Label:    tier.Label,
			MinUnits: tier.MinUnits,
			MaxUnits: tier.MaxUnits,
			Rate:     tier.Rate,
			Units:    inTier,
			Cost:     decimal.NewFromInt(int64(inTier)).Mul(tier.Rate),
			Used:     tier.Contains(units),
		})
	}

	return contributions
}

// validateUnits rejects quantities outside [1, maxUnits].
func validateUnits(units, maxUnits int) error {
	if units < 1 {
		return &ValidationError{Field: "units", Message: fmt.Sprintf("quantity must be at least 1, got %d", units)}
	}
	if units > maxUnits {
		return &ValidationError{Field: "units", Message: fmt.Sprintf("quantity must not exceed %d, got %d", maxUnits, units)}
	}
	return nil
}
