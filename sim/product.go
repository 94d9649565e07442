package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// CostMethod selects the rule for assigning unit cost to withdrawn units.
type CostMethod string

const (
	// CostFIFO consumes the oldest lots first (first-in, first-out).
	CostFIFO CostMethod = "fifo"
	// CostLIFO consumes the newest lots first (last-in, first-out).
	CostLIFO CostMethod = "lifo"
	// CostWeightedAverage prices every withdrawn unit at the current
	// weighted-average lot cost and shrinks all lots proportionally.
	CostWeightedAverage CostMethod = "weighted-average"
)

// ParseCostMethod validates a cost method string from configuration.
func ParseCostMethod(s string) (CostMethod, error) {
	switch CostMethod(s) {
	case CostFIFO, CostLIFO, CostWeightedAverage:
		return CostMethod(s), nil
	}
	return "", fmt.Errorf("unknown cost method %q (want fifo, lifo or weighted-average)", s)
}

// Business-rule failures surfaced by the inventory ledger. Both are
// non-fatal during a run: the engine absorbs them into the event log.
var (
	ErrCapacityExceeded  = errors.New("lot exceeds maximum storage capacity")
	ErrInsufficientStock = errors.New("insufficient stock for withdrawal")
)

// Lot is a batch of units received together, carrying its own unit cost
// and receipt day for rotation and costing.
type Lot struct {
	Quantity    int
	UnitCost    float64
	DayReceived int
}

// Product is the per-product inventory ledger. It owns an ordered sequence
// of physical lots; the on-hand quantity is always the sum of lot quantities
// and never exceeds Capacity.
type Product struct {
	ID              string
	Name            string
	UnitCost        float64 // reference purchase cost per unit
	SalePrice       float64 // must exceed UnitCost
	ReorderPoint    int
	EstimatedDemand float64 // expected units per day
	LeadTime        int     // days from order to receipt
	Capacity        int     // maximum storable units

	onHand int
	lots   []Lot
}

// NewProduct constructs a Product, validating configuration preconditions.
// Violations are setup errors: they are returned immediately and never
// absorbed into a run.
func NewProduct(id, name string, unitCost, salePrice float64, reorderPoint int,
	estimatedDemand float64, leadTime, capacity int) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id must not be empty")
	}
	if salePrice <= unitCost {
		return nil, fmt.Errorf("product %s: sale price %.2f must exceed unit cost %.2f", id, salePrice, unitCost)
	}
	if reorderPoint < 0 {
		return nil, fmt.Errorf("product %s: reorder point must not be negative, got %d", id, reorderPoint)
	}
	if leadTime < 1 {
		return nil, fmt.Errorf("product %s: lead time must be at least 1 day, got %d", id, leadTime)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("product %s: capacity must be positive, got %d", id, capacity)
	}
	if estimatedDemand < 0 {
		return nil, fmt.Errorf("product %s: estimated demand must not be negative, got %v", id, estimatedDemand)
	}
	return &Product{
		ID:              id,
		Name:            name,
		UnitCost:        unitCost,
		SalePrice:       salePrice,
		ReorderPoint:    reorderPoint,
		EstimatedDemand: estimatedDemand,
		LeadTime:        leadTime,
		Capacity:        capacity,
	}, nil
}

// OnHand returns the current on-hand quantity (sum of lot quantities).
func (p *Product) OnHand() int {
	return p.onHand
}

// LotCount returns the number of live lots.
func (p *Product) LotCount() int {
	return len(p.lots)
}

// Lots returns a copy of the lot sequence in storage order.
func (p *Product) Lots() []Lot {
	out := make([]Lot, len(p.lots))
	copy(out, p.lots)
	return out
}

// AddLot appends a received lot. Returns ErrCapacityExceeded, leaving the
// ledger unchanged, if the lot would push on-hand past Capacity.
func (p *Product) AddLot(quantity int, unitCost float64, day int) error {
	if quantity <= 0 {
		return fmt.Errorf("product %s: lot quantity must be positive, got %d", p.ID, quantity)
	}
	if p.onHand+quantity > p.Capacity {
		return fmt.Errorf("product %s: %w (on-hand %d + %d > capacity %d)",
			p.ID, ErrCapacityExceeded, p.onHand, quantity, p.Capacity)
	}
	p.lots = append(p.lots, Lot{Quantity: quantity, UnitCost: unitCost, DayReceived: day})
	p.onHand += quantity
	return nil
}

// Withdraw removes quantity units under the given costing method and returns
// the realized cost of the withdrawn units. Withdrawal is all-or-nothing:
// if quantity exceeds on-hand the ledger is left unchanged and
// ErrInsufficientStock is returned.
func (p *Product) Withdraw(quantity int, method CostMethod) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("product %s: withdrawal quantity must be positive, got %d", p.ID, quantity)
	}
	if quantity > p.onHand {
		return 0, fmt.Errorf("product %s: %w (requested %d, on-hand %d)",
			p.ID, ErrInsufficientStock, quantity, p.onHand)
	}

	if method == CostWeightedAverage {
		return p.withdrawWeightedAverage(quantity), nil
	}
	return p.withdrawByRotation(quantity, method), nil
}

// withdrawByRotation consumes lots in receipt-day order: ascending for FIFO,
// descending for LIFO. Emptied lots are removed from the sequence.
func (p *Product) withdrawByRotation(quantity int, method CostMethod) float64 {
	if method == CostFIFO {
		sort.SliceStable(p.lots, func(i, j int) bool {
			return p.lots[i].DayReceived < p.lots[j].DayReceived
		})
	} else {
		sort.SliceStable(p.lots, func(i, j int) bool {
			return p.lots[i].DayReceived > p.lots[j].DayReceived
		})
	}

	withdrawn := 0
	realized := 0.0
	kept := p.lots[:0]
	for _, lot := range p.lots {
		if withdrawn >= quantity {
			kept = append(kept, lot)
			continue
		}
		take := min(lot.Quantity, quantity-withdrawn)
		realized += float64(take) * lot.UnitCost
		lot.Quantity -= take
		withdrawn += take
		if lot.Quantity > 0 {
			kept = append(kept, lot)
		}
	}
	p.lots = kept
	p.onHand -= quantity
	return realized
}

// withdrawWeightedAverage realizes cost at the weighted-average lot cost and
// shrinks every lot by the withdrawn fraction. Rounding the per-lot shrink
// can leave the lot total off by a few units, so the residual is settled
// against the largest lots: the Σlots == on-hand invariant is exact.
func (p *Product) withdrawWeightedAverage(quantity int) float64 {
	totalValue := 0.0
	for _, lot := range p.lots {
		totalValue += float64(lot.Quantity) * lot.UnitCost
	}
	average := totalValue / float64(p.onHand)
	realized := float64(quantity) * average

	remaining := p.onHand - quantity
	fraction := float64(quantity) / float64(p.onHand)
	sum := 0
	for i := range p.lots {
		keptQty := int(math.Round(float64(p.lots[i].Quantity) * (1 - fraction)))
		p.lots[i].Quantity = keptQty
		sum += keptQty
	}
	p.reconcileLotTotal(remaining - sum)

	kept := p.lots[:0]
	for _, lot := range p.lots {
		if lot.Quantity > 0 {
			kept = append(kept, lot)
		}
	}
	p.lots = kept
	p.onHand = remaining
	return realized
}

// reconcileLotTotal distributes a rounding residual one unit at a time,
// preferring the largest lot each step. diff may be negative.
func (p *Product) reconcileLotTotal(diff int) {
	for diff != 0 {
		target := -1
		for i := range p.lots {
			if diff < 0 && p.lots[i].Quantity == 0 {
				continue
			}
			if target == -1 || p.lots[i].Quantity > p.lots[target].Quantity {
				target = i
			}
		}
		if target == -1 {
			return
		}
		if diff > 0 {
			p.lots[target].Quantity++
			diff--
		} else {
			p.lots[target].Quantity--
			diff++
		}
	}
}

// NeedsReorder reports whether on-hand has fallen to or below the reorder
// point scaled by the policy engine's sensitivity factor.
func (p *Product) NeedsReorder(sensitivity float64) bool {
	return float64(p.onHand) <= float64(p.ReorderPoint)*sensitivity
}

// SafetyStock is the buffer sized to absorb demand variability during lead
// time: estimated demand x lead time x 1.5.
func (p *Product) SafetyStock() int {
	return int(p.EstimatedDemand * float64(p.LeadTime) * safetyStockFactor)
}

// safetyStockFactor is the fixed multiplier applied on top of expected
// lead-time demand when sizing safety stock.
const safetyStockFactor = 1.5

// clearLots empties the ledger. Used by Simulator.Reset; entity
// configuration (capacity, prices, reorder point) is preserved.
func (p *Product) clearLots() {
	p.lots = nil
	p.onHand = 0
}
