package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Table Validation Tests
// ============================================================================

func TestNewTable_Valid(t *testing.T) {
	table, err := NewTable([]Tier{
		{Label: "small", MinUnits: 1, MaxUnits: 10, Rate: decimal.RequireFromString("0.50")},
		{Label: "large", MinUnits: 11, MaxUnits: 100, Rate: decimal.RequireFromString("0.30")},
	})
	if err != nil {
		t.Fatalf("Expected valid table, got error: %v", err)
	}
	if table.MaxUnits() != 100 {
		t.Errorf("Expected max units 100, got %d", table.MaxUnits())
	}
}

func TestNewTable_Invalid(t *testing.T) {
	half := decimal.RequireFromString("0.50")
	cheap := decimal.RequireFromString("0.30")

	tests := []struct {
		name  string
		tiers []Tier
	}{
		{
			name:  "empty table",
			tiers: nil,
		},
		{
			name: "first tier does not start at 1",
			tiers: []Tier{
				{MinUnits: 5, MaxUnits: 10, Rate: half},
			},
		},
		{
			name: "gap between tiers",
			tiers: []Tier{
				{MinUnits: 1, MaxUnits: 10, Rate: half},
				{MinUnits: 20, MaxUnits: 30, Rate: cheap},
			},
		},
		{
			name: "overlapping tiers",
			tiers: []Tier{
				{MinUnits: 1, MaxUnits: 10, Rate: half},
				{MinUnits: 10, MaxUnits: 30, Rate: cheap},
			},
		},
		{
			name: "inverted bounds",
			tiers: []Tier{
				{MinUnits: 1, MaxUnits: 10, Rate: half},
				{MinUnits: 11, MaxUnits: 5, Rate: cheap},
			},
		},
		{
			name: "zero rate",
			tiers: []Tier{
				{MinUnits: 1, MaxUnits: 10, Rate: decimal.Zero},
			},
		},
		{
			name: "rate increases with quantity",
			tiers: []Tier{
				{MinUnits: 1, MaxUnits: 10, Rate: cheap},
				{MinUnits: 11, MaxUnits: 30, Rate: half},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.tiers); err == nil {
				t.Error("Expected table validation to fail")
			}
		})
	}
}

// ============================================================================
// Pricing Tests
// ============================================================================

func TestPrice_DocumentedScenario(t *testing.T) {
	engine := NewEngine(DefaultTable())

	result, err := engine.Price(150)
	if err != nil {
		t.Fatalf("Price(150) failed: %v", err)
	}

	if !result.TotalCost.Equal(decimal.RequireFromString("44.25")) {
		t.Errorf("Expected total cost 44.25, got %s", result.TotalCost)
	}
	if !result.AverageCostPerUnit.Equal(decimal.RequireFromString("0.295")) {
		t.Errorf("Expected average cost 0.295, got %s", result.AverageCostPerUnit)
	}
	if !result.TotalSavings.Equal(decimal.RequireFromString("30.75")) {
		t.Errorf("Expected savings 30.75, got %s", result.TotalSavings)
	}
	if !result.SavingsPercent.Equal(decimal.RequireFromString("41")) {
		t.Errorf("Expected savings percent 41, got %s", result.SavingsPercent)
	}
	if result.Tier.Label != "plus" {
		t.Errorf("Expected tier plus, got %q", result.Tier.Label)
	}
}

func TestPrice_InvalidInput(t *testing.T) {
	engine := NewEngine(DefaultTable())

	for _, units := range []int{0, -5, 501} {
		result, err := engine.Price(units)
		if err == nil {
			t.Errorf("Price(%d): expected error", units)
			continue
		}
		if _, ok := err.(*ValidationError); !ok {
			t.Errorf("Price(%d): expected *ValidationError, got %T", units, err)
		}
		if result != nil {
			t.Errorf("Price(%d): expected no result on error", units)
		}
	}
}

func TestPrice_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultTable())

	first, err := engine.Price(150)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	second, err := engine.Price(150)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	if first.TotalCost.String() != second.TotalCost.String() {
		t.Errorf("Total cost drifted: %s vs %s", first.TotalCost, second.TotalCost)
	}
	if first.AverageCostPerUnit.String() != second.AverageCostPerUnit.String() {
		t.Errorf("Average cost drifted: %s vs %s", first.AverageCostPerUnit, second.AverageCostPerUnit)
	}
	if first.SavingsPercent.String() != second.SavingsPercent.String() {
		t.Errorf("Savings percent drifted: %s vs %s", first.SavingsPercent, second.SavingsPercent)
	}
}

func TestPrice_WholeQuantityAtSingleTier(t *testing.T) {
	engine := NewEngine(DefaultTable())

	// 10 units sit in the basic tier; all 10 price at 0.40, not 9 at 0.50
	// plus 1 at 0.40.
	result, err := engine.Price(10)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	if !result.TotalCost.Equal(decimal.RequireFromString("4.00")) {
		t.Errorf("Expected 4.00, got %s", result.TotalCost)
	}
}

func TestPrice_BreakdownIsInformational(t *testing.T) {
	engine := NewEngine(DefaultTable())

	result, err := engine.Price(150)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	if len(result.TierBreakdown) != 5 {
		t.Fatalf("Expected 5 breakdown entries, got %d", len(result.TierBreakdown))
	}

	// Bracketed distribution of 150 units: 9 + 40 + 50 + 51 + 0.
	wantUnits := []int{9, 40, 50, 51, 0}
	totalUnits := 0
	bracketedCost := decimal.Zero
	for i, entry := range result.TierBreakdown {
		if entry.Units != wantUnits[i] {
			t.Errorf("Breakdown[%d]: expected %d units, got %d", i, wantUnits[i], entry.Units)
		}
		totalUnits += entry.Units
		bracketedCost = bracketedCost.Add(entry.Cost)
	}

	if totalUnits != 150 {
		t.Errorf("Breakdown units should sum to the quantity, got %d", totalUnits)
	}

	// The bracketed sum intentionally differs from the actual charge.
	if bracketedCost.Equal(result.TotalCost) {
		t.Error("Bracketed breakdown should not equal the single-tier charge for 150 units")
	}

	usedCount := 0
	for _, entry := range result.TierBreakdown {
		if entry.Used {
			usedCount++
			if entry.Label != "plus" {
				t.Errorf("Expected plus tier to be marked used, got %q", entry.Label)
			}
		}
	}
	if usedCount != 1 {
		t.Errorf("Expected exactly one used tier, got %d", usedCount)
	}
}

func TestPrice_MonotonicAverageCost(t *testing.T) {
	engine := NewEngine(DefaultTable())

	prev := decimal.Decimal{}
	for units := 1; units <= 500; units++ {
		result, err := engine.Price(units)
		if err != nil {
			t.Fatalf("Price(%d) failed: %v", units, err)
		}
		if units > 1 && result.AverageCostPerUnit.GreaterThan(prev) {
			t.Fatalf("Average cost increased from %s to %s at %d units", prev, result.AverageCostPerUnit, units)
		}
		prev = result.AverageCostPerUnit
	}
}

// ============================================================================
// Tier Lookup Tests
// ============================================================================

func TestTierFor_CoversFullRange(t *testing.T) {
	engine := NewEngine(DefaultTable())

	for units := 1; units <= 500; units++ {
		tier, err := engine.TierFor(units)
		if err != nil {
			t.Fatalf("TierFor(%d) failed: %v", units, err)
		}
		if !tier.Contains(units) {
			t.Fatalf("TierFor(%d) returned tier %q [%d, %d] which does not contain it",
				units, tier.Label, tier.MinUnits, tier.MaxUnits)
		}
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	engine := NewEngine(DefaultTable())

	tests := []struct {
		units int
		label string
	}{
		{1, "starter"},
		{9, "starter"},
		{10, "basic"},
		{49, "basic"},
		{50, "standard"},
		{99, "standard"},
		{100, "plus"},
		{199, "plus"},
		{200, "volume"},
		{500, "volume"},
	}

	for _, tt := range tests {
		tier, err := engine.TierFor(tt.units)
		if err != nil {
			t.Fatalf("TierFor(%d) failed: %v", tt.units, err)
		}
		if tier.Label != tt.label {
			t.Errorf("TierFor(%d): expected %q, got %q", tt.units, tt.label, tier.Label)
		}
	}
}

func TestTierFor_ConsistentWithPrice(t *testing.T) {
	engine := NewEngine(DefaultTable())

	for units := 1; units <= 500; units++ {
		tier, err := engine.TierFor(units)
		if err != nil {
			t.Fatalf("TierFor(%d) failed: %v", units, err)
		}
		result, err := engine.Price(units)
		if err != nil {
			t.Fatalf("Price(%d) failed: %v", units, err)
		}
		if result.Tier.Label != tier.Label {
			t.Fatalf("Price(%d) used tier %q but TierFor returned %q", units, result.Tier.Label, tier.Label)
		}
	}
}

// ============================================================================
// Engine Swap Tests
// ============================================================================

func TestEngine_Swap(t *testing.T) {
	engine := NewEngine(DefaultTable())

	flat, err := NewTable([]Tier{
		{Label: "flat", MinUnits: 1, MaxUnits: 1000, Rate: decimal.RequireFromString("0.10")},
	})
	if err != nil {
		t.Fatalf("Failed to build replacement table: %v", err)
	}

	engine.Swap(flat)

	result, err := engine.Price(600)
	if err != nil {
		t.Fatalf("Price after swap failed: %v", err)
	}
	if !result.TotalCost.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("Expected 60.00 after swap, got %s", result.TotalCost)
	}
}
