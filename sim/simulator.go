package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// reviewPeriodDays is the cadence of the periodic performance review.
const reviewPeriodDays = 7

// ErrDuplicateProduct is returned when registering a product id twice.
var ErrDuplicateProduct = errors.New("duplicate product id")

// Config holds run-level simulation parameters.
type Config struct {
	CostMethod          CostMethod
	Strategy            Strategy // initial replenishment strategy
	OpeningBalance      float64
	HoldingCostPerUnit  float64 // per unit per day
	StockoutPenaltyBase float64 // scaled by customer priority
	Seed                int64
}

// DefaultConfig returns the stock parameters: FIFO costing, conservative
// replenishment, 100k opening balance, 0.1/unit/day holding cost and a base
// stockout penalty of 50.
func DefaultConfig() Config {
	return Config{
		CostMethod:          CostFIFO,
		Strategy:            StrategyConservative,
		OpeningBalance:      100000,
		HoldingCostPerUnit:  0.1,
		StockoutPenaltyBase: 50,
		Seed:                42,
	}
}

// PendingOrder is an order in transit: created by the replenishment phase,
// consumed and destroyed by the delivery phase on its due day.
type PendingOrder struct {
	ProductID string
	Supplier  *Supplier
	Quantity  int
	TotalCost float64
	DayPlaced int
	DayDue    int
}

// Simulator drives one logical day at a time through five ordered phases:
// demand, replenishment, delivery, holding cost and (every 7th day) the
// periodic policy review. It exclusively owns all mutable state for the
// duration of a run; multiple Simulators can coexist in one process for
// comparative runs.
type Simulator struct {
	cfg Config
	day int

	products     map[string]*Product
	productOrder []string // registration order; map iteration would break determinism
	suppliers    []*Supplier
	customers    []*Customer

	engine  *PolicyEngine
	ledger  *Ledger
	pending []PendingOrder
	events  EventLog
	rng     *PartitionedRNG

	stockouts  int
	totalSales int
	unitsSold  int
}

// NewSimulator creates a Simulator from a Config. Invalid parameters are
// setup errors returned before any day is simulated.
func NewSimulator(cfg Config) (*Simulator, error) {
	if _, err := ParseCostMethod(string(cfg.CostMethod)); err != nil {
		return nil, err
	}
	engine, err := NewPolicyEngine(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	ledger, err := NewLedger(cfg.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if cfg.HoldingCostPerUnit < 0 {
		return nil, fmt.Errorf("holding cost must not be negative, got %v", cfg.HoldingCostPerUnit)
	}
	if cfg.StockoutPenaltyBase < 0 {
		return nil, fmt.Errorf("stockout penalty must not be negative, got %v", cfg.StockoutPenaltyBase)
	}
	return &Simulator{
		cfg:      cfg,
		products: make(map[string]*Product),
		engine:   engine,
		ledger:   ledger,
		rng:      NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}, nil
}

// Day returns the current simulation day (0 before the first StepDay).
func (s *Simulator) Day() int { return s.day }

// Ledger returns the financial ledger for read-only inspection.
func (s *Simulator) Ledger() *Ledger { return s.ledger }

// Policy returns the policy engine's read-only statistics.
func (s *Simulator) Policy() PolicyStats { return s.engine.Stats() }

// Product looks up a registered product by id.
func (s *Simulator) Product(id string) (*Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// RegisterProduct adds a product to the run. A duplicate id is rejected
// with ErrDuplicateProduct and no mutation.
func (s *Simulator) RegisterProduct(p *Product) error {
	if _, exists := s.products[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
	}
	s.products[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
	return nil
}

// RegisterSupplier adds a supplier to the run.
func (s *Simulator) RegisterSupplier(sup *Supplier) {
	s.suppliers = append(s.suppliers, sup)
}

// RegisterCustomer adds a customer to the run.
func (s *Simulator) RegisterCustomer(c *Customer) {
	s.customers = append(s.customers, c)
}

// StepDay advances the simulation by one logical day, running the five
// phases strictly in order. Business-rule conflicts abort only the specific
// action; a day always runs to completion.
func (s *Simulator) StepDay() {
	s.day++
	logrus.Debugf("[day %03d] starting", s.day)

	s.demandPhase()
	s.replenishmentPhase()
	s.deliveryPhase()
	s.holdingCostPhase()
	if s.day%reviewPeriodDays == 0 {
		s.reviewPhase()
	}
}

// Run advances the simulation by days logical days.
func (s *Simulator) Run(days int) {
	for i := 0; i < days; i++ {
		s.StepDay()
	}
	logrus.Infof("[day %03d] simulation ended (balance %.2f, stockouts %d)",
		s.day, s.ledger.Balance(), s.stockouts)
}

// demandPhase draws demand for every customer whose cadence fires today and
// settles each draw immediately against the product's inventory ledger.
func (s *Simulator) demandPhase() {
	demandRNG := s.rng.ForSubsystem(SubsystemDemand)
	for _, c := range s.customers {
		if !c.BuysOn(s.day) {
			continue
		}
		for _, pid := range c.Products {
			p, ok := s.products[pid]
			if !ok {
				continue
			}
			quantity := c.Demand(pid, demandRNG)
			if quantity <= 0 {
				continue
			}
			s.settleDemand(c, p, quantity)
		}
	}
}

// settleDemand serves one demand draw: a full withdrawal becomes a sale,
// an insufficient-stock failure becomes a stockout with a priority-weighted
// penalty. There are no partial sales.
func (s *Simulator) settleDemand(c *Customer, p *Product, quantity int) {
	cost, err := p.Withdraw(quantity, s.cfg.CostMethod)
	if err != nil {
		s.stockouts++
		penalty := c.StockoutPenalty(s.cfg.StockoutPenaltyBase)
		s.ledger.Debit(s.day, penalty, CategoryPenalty, "stockout "+c.Name)
		c.RecordStockout()
		s.events.Append(Event{Day: s.day, Kind: EventStockout, Payload: StockoutRecord{
			Customer:  c.Name,
			ProductID: p.ID,
			Requested: quantity,
			Available: p.OnHand(),
			Penalty:   penalty,
		}})
		logrus.Debugf("[day %03d] stockout: %s wanted %d x %s, %d available",
			s.day, c.Name, quantity, p.ID, p.OnHand())
		return
	}

	revenue := float64(quantity) * p.SalePrice
	s.ledger.Credit(s.day, revenue, CategorySale, "sale to "+c.Name)
	c.RecordPurchase(quantity, revenue)
	s.totalSales++
	s.unitsSold += quantity
	s.events.Append(Event{Day: s.day, Kind: EventSale, Payload: SaleRecord{
		Customer:  c.Name,
		ProductID: p.ID,
		Quantity:  quantity,
		Revenue:   revenue,
		Cost:      cost,
	}})
}

// replenishmentPhase evaluates every product under the active strategy and
// materializes affordable decisions into pending orders. Unaffordable
// decisions are dropped without touching the policy counters.
func (s *Simulator) replenishmentPhase() {
	supplierRNG := s.rng.ForSubsystem(SubsystemSupplier)
	for _, pid := range s.productOrder {
		p := s.products[pid]
		decision := s.engine.Evaluate(p, s.suppliers, s.day)
		if decision == nil {
			continue
		}
		if !s.ledger.CanAfford(decision.TotalCost) {
			logrus.Warnf("[day %03d] dropping order for %s: cannot afford %.2f (balance %.2f)",
				s.day, pid, decision.TotalCost, s.ledger.Balance())
			continue
		}

		lead := decision.Supplier.RealizedLeadTime(supplierRNG)
		s.pending = append(s.pending, PendingOrder{
			ProductID: decision.ProductID,
			Supplier:  decision.Supplier,
			Quantity:  decision.Quantity,
			TotalCost: decision.TotalCost,
			DayPlaced: s.day,
			DayDue:    s.day + lead,
		})
		s.engine.Commit(decision)
		s.events.Append(Event{Day: s.day, Kind: EventOrder, Payload: OrderRecord{
			ProductID: decision.ProductID,
			Supplier:  decision.Supplier.Name,
			Quantity:  decision.Quantity,
			TotalCost: decision.TotalCost,
			LeadDays:  lead,
		}})
	}
}

// deliveryPhase matures every pending order due today: the lot is added at
// unit cost = total/quantity and the purchase is paid. A delivery that
// would overflow capacity is rejected, unpaid, and recorded in the event
// stream; the order is discarded either way.
func (s *Simulator) deliveryPhase() {
	remaining := s.pending[:0]
	for _, order := range s.pending {
		if order.DayDue != s.day {
			remaining = append(remaining, order)
			continue
		}

		p := s.products[order.ProductID]
		unitCost := order.TotalCost / float64(order.Quantity)
		rejected := false
		if err := p.AddLot(order.Quantity, unitCost, s.day); err != nil {
			rejected = true
			logrus.Warnf("[day %03d] delivery rejected for %s: %v", s.day, order.ProductID, err)
		} else {
			s.ledger.Debit(s.day, order.TotalCost, CategoryPurchase, "purchase from "+order.Supplier.Name)
		}
		s.events.Append(Event{Day: s.day, Kind: EventDelivery, Payload: DeliveryRecord{
			ProductID: order.ProductID,
			Supplier:  order.Supplier.Name,
			Quantity:  order.Quantity,
			TotalCost: order.TotalCost,
			Rejected:  rejected,
		}})
	}
	s.pending = remaining
}

// holdingCostPhase debits one transaction for the day's total holding cost
// across all products. Zero-cost days record nothing.
func (s *Simulator) holdingCostPhase() {
	total := 0.0
	for _, pid := range s.productOrder {
		total += float64(s.products[pid].OnHand()) * s.cfg.HoldingCostPerUnit
	}
	if total > 0 {
		s.ledger.Debit(s.day, total, CategoryHolding, "daily holding cost")
	}
}

// reviewPhase recomputes aggregate metrics and runs the policy engine's
// periodic performance review, recording any committed strategy switch.
func (s *Simulator) reviewPhase() {
	onHand := 0
	for _, pid := range s.productOrder {
		onHand += s.products[pid].OnHand()
	}
	avg := 0.0
	if len(s.productOrder) > 0 {
		avg = float64(onHand) / float64(len(s.productOrder))
	}

	from, to, changed := s.engine.Review(ReviewMetrics{
		NetProfit:      s.ledger.NetProfit(),
		Stockouts:      s.stockouts,
		AvgOnHand:      avg,
		OpeningBalance: s.ledger.OpeningBalance(),
	}, s.day)
	if changed {
		logrus.Infof("[day %03d] strategy switch %s -> %s", s.day, from, to)
		s.events.Append(Event{Day: s.day, Kind: EventPolicyChange, Payload: PolicyChangeRecord{
			From:   from,
			To:     to,
			Reason: "periodic performance review",
		}})
	}
}

// RecentEvents returns the most recent n events in chronological order.
func (s *Simulator) RecentEvents(n int) []Event {
	return s.events.Recent(n)
}

// Events returns the full event log in chronological order.
func (s *Simulator) Events() []Event {
	return s.events.All()
}

// PendingOrders returns a copy of the orders currently in transit.
func (s *Simulator) PendingOrders() []PendingOrder {
	out := make([]PendingOrder, len(s.pending))
	copy(out, s.pending)
	return out
}

// Reset clears all lots, counters, events, pending orders and the
// policy/financial state back to their configured initial values. Entity
// definitions (products, suppliers, customers) are preserved, and the RNG
// is re-derived from the same seed so a re-run reproduces exactly.
func (s *Simulator) Reset() {
	s.day = 0
	for _, pid := range s.productOrder {
		s.products[pid].clearLots()
	}
	for _, c := range s.customers {
		c.ResetCounters()
	}
	s.engine.Reset()
	s.ledger.Reset()
	s.pending = nil
	s.events.Reset()
	s.rng = NewPartitionedRNG(NewSimulationKey(s.cfg.Seed))
	s.stockouts = 0
	s.totalSales = 0
	s.unitsSold = 0
}
