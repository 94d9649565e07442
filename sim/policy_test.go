package sim

import (
	"testing"
)

// stockedProduct builds a product with onHand units already in storage.
func stockedProduct(t *testing.T, reorderPoint int, demand float64, leadTime, capacity, onHand int) *Product {
	t.Helper()
	p, err := NewProduct("P1", "Widget", 0.5, 1.2, reorderPoint, demand, leadTime, capacity)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	if onHand > 0 {
		if err := p.AddLot(onHand, 0.5, 0); err != nil {
			t.Fatalf("AddLot: %v", err)
		}
	}
	return p
}

func mustEngine(t *testing.T, s Strategy) *PolicyEngine {
	t.Helper()
	e, err := NewPolicyEngine(s)
	if err != nil {
		t.Fatalf("NewPolicyEngine: %v", err)
	}
	return e
}

func TestConservativeQuantity_CappedAtDeficitPlusOneDay(t *testing.T) {
	// GIVEN reorder point 50, demand 10/day, lead 3, 40 on hand
	p := stockedProduct(t, 50, 10, 3, 500, 40)

	// THEN lead-time demand (30) is capped at deficit (10) + one day (10)
	if got := conservativeQuantity(p); got != 20 {
		t.Errorf("conservativeQuantity: got %d, want 20", got)
	}
}

func TestConservativeQuantity_NoDeficit(t *testing.T) {
	// GIVEN on-hand exactly at the reorder point
	p := stockedProduct(t, 50, 10, 3, 500, 50)

	// THEN quantity is one day of demand
	if got := conservativeQuantity(p); got != 10 {
		t.Errorf("conservativeQuantity: got %d, want 10", got)
	}
}

func TestAggressiveQuantity_IncludesSafetyStock(t *testing.T) {
	// GIVEN demand 10/day with lead 3: 1.5x lead demand (45) + safety (45)
	p := stockedProduct(t, 50, 10, 3, 500, 40)

	if got := aggressiveQuantity(p); got != 90 {
		t.Errorf("aggressiveQuantity: got %d, want 90", got)
	}
}

func TestAdaptiveQuantity_ScalesWithDeficit(t *testing.T) {
	// GIVEN a deficit above half the reorder point (50-20=30 > 25)
	deep := stockedProduct(t, 50, 10, 3, 500, 20)
	if got := adaptiveQuantity(deep); got != 39 {
		t.Errorf("adaptiveQuantity deep deficit: got %d, want 39 (1.3x base)", got)
	}

	// GIVEN a shallow deficit (50-40=10 <= 25)
	shallow := stockedProduct(t, 50, 10, 3, 500, 40)
	if got := adaptiveQuantity(shallow); got != 30 {
		t.Errorf("adaptiveQuantity shallow deficit: got %d, want 30 (base)", got)
	}
}

func TestOrderQuantity_ClampedToFreeCapacity(t *testing.T) {
	// GIVEN an aggressive engine wanting 90 units into 20 free capacity
	e := mustEngine(t, StrategyAggressive)
	p := stockedProduct(t, 50, 10, 3, 60, 40)

	if got := e.orderQuantity(p); got != 20 {
		t.Errorf("orderQuantity: got %d, want 20 (capacity clamp)", got)
	}
}

func TestEvaluate_AboveReorderPoint_NoDecision(t *testing.T) {
	e := mustEngine(t, StrategyConservative)
	p := stockedProduct(t, 50, 10, 3, 500, 200)
	sup := mustSupplier(t, 0.95)

	if d := e.Evaluate(p, []*Supplier{sup}, 1); d != nil {
		t.Errorf("Evaluate above reorder point: got %+v, want nil", d)
	}
}

func TestEvaluate_NoQualifyingSupplier_NoDecision(t *testing.T) {
	// GIVEN a supplier whose minimum order exceeds the computed quantity
	e := mustEngine(t, StrategyConservative)
	p := stockedProduct(t, 50, 10, 3, 500, 40)
	sup, err := NewSupplier("S1", "Bulk Only", []string{"P1"}, 3, 0.5, 0.95, 1000)
	if err != nil {
		t.Fatalf("NewSupplier: %v", err)
	}

	if d := e.Evaluate(p, []*Supplier{sup}, 1); d != nil {
		t.Errorf("Evaluate with no qualifying supplier: got %+v, want nil", d)
	}
}

func TestEvaluate_HasNoSideEffects(t *testing.T) {
	// GIVEN a product below its reorder point
	e := mustEngine(t, StrategyConservative)
	p := stockedProduct(t, 50, 10, 3, 500, 40)
	sup := mustSupplier(t, 0.95)

	// WHEN evaluated twice without committing
	d1 := e.Evaluate(p, []*Supplier{sup}, 1)
	d2 := e.Evaluate(p, []*Supplier{sup}, 1)

	// THEN both decisions are identical and nothing was recorded
	if d1 == nil || d2 == nil {
		t.Fatal("Evaluate below reorder point: got nil decision")
	}
	if *d1 != *d2 {
		t.Errorf("repeated Evaluate diverged: %+v vs %+v", d1, d2)
	}
	if stats := e.Stats(); stats.OrdersPlaced != 0 {
		t.Errorf("OrdersPlaced after Evaluate only: got %d, want 0", stats.OrdersPlaced)
	}
}

func TestCommit_RecordsDecision_DroppedDecisionsDoNot(t *testing.T) {
	// GIVEN two evaluated decisions
	e := mustEngine(t, StrategyConservative)
	p := stockedProduct(t, 50, 10, 3, 500, 40)
	sup := mustSupplier(t, 0.95)
	committed := e.Evaluate(p, []*Supplier{sup}, 1)
	dropped := e.Evaluate(p, []*Supplier{sup}, 2)
	if committed == nil || dropped == nil {
		t.Fatal("Evaluate: got nil decision")
	}

	// WHEN only the first is committed (the second stands for an
	// insufficient-funds drop)
	e.Commit(committed)
	_ = dropped

	// THEN counters and history reflect exactly one order
	stats := e.Stats()
	if stats.OrdersPlaced != 1 {
		t.Errorf("OrdersPlaced: got %d, want 1", stats.OrdersPlaced)
	}
	if stats.TotalOrderCost != committed.TotalCost {
		t.Errorf("TotalOrderCost: got %v, want %v", stats.TotalOrderCost, committed.TotalCost)
	}
	if len(e.History()) != 1 {
		t.Errorf("History length: got %d, want 1", len(e.History()))
	}
}

func TestSelectSupplier_PrefersCheapReliable(t *testing.T) {
	// GIVEN two suppliers at equal cost but different reliability
	p := stockedProduct(t, 50, 10, 3, 500, 0)
	flaky, _ := NewSupplier("S1", "Flaky", []string{"P1"}, 3, 0.5, 0.80, 1)
	steady, _ := NewSupplier("S2", "Steady", []string{"P1"}, 3, 0.5, 0.95, 1)

	// WHEN a supplier is selected for 100 units
	best, cost := selectSupplier(p, []*Supplier{flaky, steady}, 100)

	// THEN the reliable one wins on score = cost x (2 - reliability)
	if best == nil || best.ID != "S2" {
		t.Fatalf("selectSupplier: got %v, want S2", best)
	}
	if cost != 50.0 {
		t.Errorf("selected cost: got %v, want 50.0", cost)
	}
}

func TestSelectSupplier_CheapEnoughBeatsReliable(t *testing.T) {
	// GIVEN a much cheaper but less reliable supplier; the product's unit
	// cost is zero so each supplier prices at its own base cost
	p, err := NewProduct("P2", "Gadget", 0, 1.2, 50, 10, 3, 500)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	cheap, _ := NewSupplier("S1", "Cheap", []string{"P2"}, 3, 0.30, 0.80, 1)
	pricey, _ := NewSupplier("S2", "Pricey", []string{"P2"}, 3, 0.50, 0.99, 1)

	// scores: 30 x 1.20 = 36 vs 50 x 1.01 = 50.5
	best, _ := selectSupplier(p, []*Supplier{cheap, pricey}, 100)
	if best == nil || best.ID != "S1" {
		t.Fatalf("selectSupplier: got %v, want S1", best)
	}
}

func TestReview_CooldownBlocksEarlyTransition(t *testing.T) {
	// GIVEN a conservative engine with heavy stockouts
	e := mustEngine(t, StrategyConservative)
	m := ReviewMetrics{Stockouts: 10, NetProfit: 0, OpeningBalance: 1000}

	// WHEN reviewed before the cooldown elapses
	_, _, changed := e.Review(m, 3)

	// THEN nothing changes
	if changed {
		t.Error("Review inside cooldown committed a transition")
	}
	if e.Strategy() != StrategyConservative {
		t.Errorf("Strategy: got %s, want conservative", e.Strategy())
	}
}

func TestReview_ConservativeToAggressive_OnStockouts(t *testing.T) {
	e := mustEngine(t, StrategyConservative)
	m := ReviewMetrics{Stockouts: 6, NetProfit: 0, OpeningBalance: 1000}

	from, to, changed := e.Review(m, 7)

	if !changed || from != StrategyConservative || to != StrategyAggressive {
		t.Fatalf("Review: got %s->%s changed=%v, want conservative->aggressive", from, to, changed)
	}
	if e.Sensitivity() != 1.2 {
		t.Errorf("Sensitivity after switch: got %v, want 1.2", e.Sensitivity())
	}

	// AND the cooldown restarts from the switch day
	if _, _, again := e.Review(m, 10); again {
		t.Error("Review 3 days after a switch committed another transition")
	}
}

func TestReview_ConservativeLowersSensitivity_OnLosses(t *testing.T) {
	// GIVEN losses past 20% of the opening balance but few stockouts
	e := mustEngine(t, StrategyConservative)
	m := ReviewMetrics{Stockouts: 1, NetProfit: -250, OpeningBalance: 1000}

	_, _, changed := e.Review(m, 7)

	if changed {
		t.Error("loss review committed a strategy switch")
	}
	if got := e.Sensitivity(); got != 0.9 {
		t.Errorf("Sensitivity: got %v, want 0.9", got)
	}
}

func TestReview_AggressiveToConservative_OnDeepLosses(t *testing.T) {
	e := mustEngine(t, StrategyAggressive)
	m := ReviewMetrics{Stockouts: 4, NetProfit: -400, OpeningBalance: 1000}

	from, to, changed := e.Review(m, 7)

	if !changed || from != StrategyAggressive || to != StrategyConservative {
		t.Fatalf("Review: got %s->%s changed=%v, want aggressive->conservative", from, to, changed)
	}
	if e.Sensitivity() != 0.8 {
		t.Errorf("Sensitivity: got %v, want 0.8", e.Sensitivity())
	}
}

func TestReview_AggressiveRelaxes_WhenCalmAndProfitable(t *testing.T) {
	e := mustEngine(t, StrategyAggressive)
	m := ReviewMetrics{Stockouts: 1, NetProfit: 500, OpeningBalance: 1000}

	from, to, changed := e.Review(m, 7)

	if !changed || from != StrategyAggressive || to != StrategyConservative {
		t.Fatalf("Review: got %s->%s changed=%v, want aggressive->conservative", from, to, changed)
	}
	if e.Sensitivity() != 1.0 {
		t.Errorf("Sensitivity: got %v, want 1.0", e.Sensitivity())
	}
}

func TestReview_AdaptiveTunesSensitivityOnly(t *testing.T) {
	// Adaptive reacts through sensitivity and never leaves its strategy.
	e := mustEngine(t, StrategyAdaptive)

	_, _, changed := e.Review(ReviewMetrics{Stockouts: 4, OpeningBalance: 1000}, 7)
	if changed || e.Strategy() != StrategyAdaptive {
		t.Fatalf("adaptive review switched strategy: %s", e.Strategy())
	}
	if got := e.Sensitivity(); got != 1.2 {
		t.Errorf("Sensitivity after stockouts: got %v, want 1.2", got)
	}

	_, _, changed = e.Review(ReviewMetrics{Stockouts: 0, NetProfit: 100, OpeningBalance: 1000}, 14)
	if changed {
		t.Error("adaptive review switched strategy on calm metrics")
	}
	if got := e.Sensitivity(); got < 1.09 || got > 1.11 {
		t.Errorf("Sensitivity after calm review: got %v, want 1.1", got)
	}
}

func TestReview_SensitivityStaysInBounds(t *testing.T) {
	// GIVEN an adaptive engine pushed repeatedly in each direction
	e := mustEngine(t, StrategyAdaptive)

	for day := 7; day <= 140; day += 7 {
		e.Review(ReviewMetrics{Stockouts: 10, OpeningBalance: 1000}, day)
	}
	if got := e.Sensitivity(); got != maxSensitivity {
		t.Errorf("Sensitivity ceiling: got %v, want %v", got, maxSensitivity)
	}

	for day := 147; day <= 500; day += 7 {
		e.Review(ReviewMetrics{Stockouts: 0, NetProfit: 100, OpeningBalance: 1000}, day)
	}
	if got := e.Sensitivity(); got != minSensitivity {
		t.Errorf("Sensitivity floor: got %v, want %v", got, minSensitivity)
	}
}

func TestPolicyEngine_Reset(t *testing.T) {
	// GIVEN an engine that has switched strategy and placed orders
	e := mustEngine(t, StrategyConservative)
	p := stockedProduct(t, 50, 10, 3, 500, 40)
	sup := mustSupplier(t, 0.95)
	if d := e.Evaluate(p, []*Supplier{sup}, 1); d != nil {
		e.Commit(d)
	}
	e.Review(ReviewMetrics{Stockouts: 6, OpeningBalance: 1000}, 7)

	// WHEN reset
	e.Reset()

	// THEN it is back at the initial strategy with clean state
	if e.Strategy() != StrategyConservative {
		t.Errorf("Strategy after reset: got %s, want conservative", e.Strategy())
	}
	if e.Sensitivity() != 1.0 {
		t.Errorf("Sensitivity after reset: got %v, want 1.0", e.Sensitivity())
	}
	stats := e.Stats()
	if stats.OrdersPlaced != 0 || stats.TotalOrderCost != 0 || len(e.History()) != 0 {
		t.Errorf("counters after reset: %+v, history %d", stats, len(e.History()))
	}
}

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"conservative", "aggressive", "adaptive"} {
		if _, err := ParseStrategy(valid); err != nil {
			t.Errorf("ParseStrategy(%q): unexpected error %v", valid, err)
		}
	}
	if _, err := ParseStrategy("yolo"); err == nil {
		t.Error("ParseStrategy(\"yolo\"): expected error, got nil")
	}
}
