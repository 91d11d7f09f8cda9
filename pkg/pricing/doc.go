// Package pricing computes order costs against a table of volume-discount tiers.
//
// # Overview
//
// A tier table divides the supported quantity range into contiguous,
// non-overlapping bands, each with a flat per-unit rate. Pricing is
// non-progressive: the whole quantity is charged at the rate of the single
// tier whose range contains it. Rates decrease as quantities grow, so the
// engine also reports the savings relative to the most expensive tier.
//
//	engine := pricing.NewEngine(pricing.DefaultTable())
//	result, err := engine.Price(150)
//	if err != nil {
//	    // quantity outside [1, MaxUnits]
//	}
//	fmt.Println(result.TotalCost) // 44.25
//
// # Tier Breakdown
//
// Result.TierBreakdown reports, for every tier in the table, how many units
// would land in that tier if pricing were bracketed, together with the
// notional cost of those units. The breakdown is informational only and is
// never summed into TotalCost; callers must not treat it as a charge
// itemization.
//
// # Determinism
//
// All money math uses shopspring/decimal. Pricing the same quantity twice
// yields identical results, including the derived savings figures.
//
// # Hot Reload
//
// Tables are immutable once built. The Engine supports swapping in a new
// validated table at runtime (see LoadTable and Watcher), which replaces the
// table wholesale rather than mutating it.
package pricing
