package sim

import (
	"fmt"
	"math"
)

// Strategy names a replenishment strategy.
type Strategy string

const (
	// StrategyConservative orders only what lead-time demand requires,
	// minimizing holding cost.
	StrategyConservative Strategy = "conservative"
	// StrategyAggressive over-orders with safety stock, minimizing
	// stockout risk.
	StrategyAggressive Strategy = "aggressive"
	// StrategyAdaptive sizes orders by the current deficit and tunes its
	// own sensitivity from observed performance.
	StrategyAdaptive Strategy = "adaptive"
)

// ParseStrategy validates a strategy string from configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyConservative, StrategyAggressive, StrategyAdaptive:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (want conservative, aggressive or adaptive)", s)
}

const (
	// policyCooldownDays is the minimum number of simulated days between
	// strategy transitions.
	policyCooldownDays = 7

	minSensitivity = 0.5
	maxSensitivity = 2.0
)

// Decision is an emitted replenishment decision. The Simulation Engine is
// responsible for the affordability check and for materializing the
// decision into a pending order; only then is it committed to the engine's
// counters and history.
type Decision struct {
	ProductID string
	Supplier  *Supplier
	Quantity  int
	TotalCost float64
	Day       int
	Reason    string
}

// ReviewMetrics are the aggregate performance figures the Simulation Engine
// feeds into the periodic review.
type ReviewMetrics struct {
	NetProfit      float64
	Stockouts      int // since run start
	AvgOnHand      float64
	OpeningBalance float64
}

// PolicyEngine decides when, how much and from whom to reorder, and
// periodically reassesses its strategy from aggregate performance.
// Sensitivity and the cooldown timer are engine-level state, shared by
// every strategy.
type PolicyEngine struct {
	strategy    Strategy
	initial     Strategy
	sensitivity float64
	lastChange  int // day of the last committed strategy switch

	ordersPlaced   int
	totalOrderCost float64
	history        []Decision
}

// NewPolicyEngine creates an engine running the given initial strategy at
// sensitivity 1.0.
func NewPolicyEngine(initial Strategy) (*PolicyEngine, error) {
	if _, err := ParseStrategy(string(initial)); err != nil {
		return nil, err
	}
	return &PolicyEngine{
		strategy:    initial,
		initial:     initial,
		sensitivity: 1.0,
	}, nil
}

// Strategy returns the active strategy.
func (e *PolicyEngine) Strategy() Strategy { return e.strategy }

// Sensitivity returns the current reorder-point multiplier.
func (e *PolicyEngine) Sensitivity() float64 { return e.sensitivity }

// Evaluate runs the per-product replenishment evaluation for one day.
// Returns nil when no order is warranted: the product is above its
// (sensitivity-scaled) reorder point, the computed quantity is non-positive,
// or no supplier qualifies. Evaluate has no side effects; see Commit.
func (e *PolicyEngine) Evaluate(p *Product, suppliers []*Supplier, day int) *Decision {
	if !p.NeedsReorder(e.sensitivity) {
		return nil
	}

	quantity := e.orderQuantity(p)
	if quantity <= 0 {
		return nil
	}

	supplier, totalCost := selectSupplier(p, suppliers, quantity)
	if supplier == nil {
		return nil
	}

	return &Decision{
		ProductID: p.ID,
		Supplier:  supplier,
		Quantity:  quantity,
		TotalCost: totalCost,
		Day:       day,
		Reason:    fmt.Sprintf("strategy %s, on-hand %d at reorder point %d", e.strategy, p.OnHand(), p.ReorderPoint),
	}
}

// Commit records a materialized decision into the engine's counters and
// append-only history. Decisions dropped by the caller (insufficient funds)
// are never committed.
func (e *PolicyEngine) Commit(d *Decision) {
	e.history = append(e.history, *d)
	e.ordersPlaced++
	e.totalOrderCost += d.TotalCost
}

// orderQuantity computes the candidate quantity under the active strategy,
// clamped to the product's free capacity.
func (e *PolicyEngine) orderQuantity(p *Product) int {
	var quantity int
	switch e.strategy {
	case StrategyConservative:
		quantity = conservativeQuantity(p)
	case StrategyAggressive:
		quantity = aggressiveQuantity(p)
	case StrategyAdaptive:
		quantity = adaptiveQuantity(p)
	}

	if space := p.Capacity - p.OnHand(); quantity > space {
		quantity = space
	}
	if quantity < 0 {
		quantity = 0
	}
	return quantity
}

// conservativeQuantity covers expected demand over the lead time, capped at
// the current deficit plus one day of demand.
func conservativeQuantity(p *Product) int {
	quantity := int(p.EstimatedDemand * float64(p.LeadTime))
	deficit := p.ReorderPoint - p.OnHand()
	if deficit < 0 {
		deficit = 0
	}
	if limit := deficit + int(p.EstimatedDemand); quantity > limit {
		quantity = limit
	}
	return quantity
}

// aggressiveQuantity covers 1.5x lead-time demand plus safety stock.
func aggressiveQuantity(p *Product) int {
	return int(p.EstimatedDemand*float64(p.LeadTime)*1.5 + float64(p.SafetyStock()))
}

// adaptiveQuantity orders lead-time demand, scaled up by 1.3 (or the full
// deficit, whichever is larger) when the deficit exceeds half the reorder
// point.
func adaptiveQuantity(p *Product) int {
	deficit := p.ReorderPoint - p.OnHand()
	base := int(p.EstimatedDemand * float64(p.LeadTime))
	if float64(deficit) > float64(p.ReorderPoint)*0.5 {
		return int(math.Max(float64(deficit), float64(base)*1.3))
	}
	return base
}

// selectSupplier picks the qualifying supplier with the lowest score,
// where score = total cost x (2 - reliability): cheap and reliable wins.
// Returns nil when no supplier offers the product at this quantity.
func selectSupplier(p *Product, suppliers []*Supplier, quantity int) (*Supplier, float64) {
	var best *Supplier
	var bestCost, bestScore float64
	for _, s := range suppliers {
		if !s.CanFill(p.ID, quantity) {
			continue
		}
		cost := s.TotalCost(p.ID, quantity, p.UnitCost)
		score := cost * (2 - s.Reliability)
		if best == nil || score < bestScore {
			best = s
			bestCost = cost
			bestScore = score
		}
	}
	return best, bestCost
}

// Review reassesses the strategy from aggregate performance. It is a no-op
// while the cooldown since the last strategy switch is running. A committed
// switch resets the cooldown timer. Adaptive never switches its own named
// strategy, only its sensitivity; Conservative and Aggressive switch only
// into each other.
func (e *PolicyEngine) Review(m ReviewMetrics, day int) (from, to Strategy, changed bool) {
	if day-e.lastChange < policyCooldownDays {
		return e.strategy, e.strategy, false
	}

	from = e.strategy
	switch e.strategy {
	case StrategyConservative:
		if m.Stockouts > 5 {
			e.switchTo(StrategyAggressive, day)
			e.sensitivity = 1.2
		} else if m.NetProfit < -m.OpeningBalance*0.2 {
			e.sensitivity = math.Max(minSensitivity, e.sensitivity-0.1)
		}

	case StrategyAggressive:
		if m.NetProfit < -m.OpeningBalance*0.3 {
			e.switchTo(StrategyConservative, day)
			e.sensitivity = 0.8
		} else if m.Stockouts < 2 && m.NetProfit > 0 {
			e.switchTo(StrategyConservative, day)
			e.sensitivity = 1.0
		}

	case StrategyAdaptive:
		if m.Stockouts > 3 {
			e.sensitivity = math.Min(maxSensitivity, e.sensitivity+0.2)
		} else if m.Stockouts == 0 && m.NetProfit > 0 {
			e.sensitivity = math.Max(minSensitivity, e.sensitivity-0.1)
		}
	}

	return from, e.strategy, e.strategy != from
}

// switchTo commits a strategy transition. Switching to the current strategy
// is a no-op and does not reset the cooldown.
func (e *PolicyEngine) switchTo(next Strategy, day int) {
	if next == e.strategy {
		return
	}
	e.strategy = next
	e.lastChange = day
}

// PolicyStats is the read-only policy snapshot exposed to external
// collaborators.
type PolicyStats struct {
	Strategy         Strategy
	Sensitivity      float64
	OrdersPlaced     int
	TotalOrderCost   float64
	AverageOrderCost float64
	LastChangeDay    int
}

// Stats builds the policy snapshot.
func (e *PolicyEngine) Stats() PolicyStats {
	avg := 0.0
	if e.ordersPlaced > 0 {
		avg = e.totalOrderCost / float64(e.ordersPlaced)
	}
	return PolicyStats{
		Strategy:         e.strategy,
		Sensitivity:      e.sensitivity,
		OrdersPlaced:     e.ordersPlaced,
		TotalOrderCost:   e.totalOrderCost,
		AverageOrderCost: avg,
		LastChangeDay:    e.lastChange,
	}
}

// History returns a copy of the append-only decision history.
func (e *PolicyEngine) History() []Decision {
	out := make([]Decision, len(e.history))
	copy(out, e.history)
	return out
}

// Reset restores the engine to its configured initial strategy at
// sensitivity 1.0 with empty counters and history.
func (e *PolicyEngine) Reset() {
	e.strategy = e.initial
	e.sensitivity = 1.0
	e.lastChange = 0
	e.ordersPlaced = 0
	e.totalOrderCost = 0
	e.history = nil
}
