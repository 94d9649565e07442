package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Segment classifies a customer by purchase volume and relationship; it
// scales the mean order quantity.
type Segment string

const (
	SegmentRetail    Segment = "retail"    // small quantities, high frequency
	SegmentWholesale Segment = "wholesale" // bulk buyer, doubles the mean
	SegmentInternal  Segment = "internal"  // in-house consumer, +20%
	SegmentExternal  Segment = "external"  // outside party, -20%
)

// ParseSegment validates a customer segment string from configuration.
func ParseSegment(s string) (Segment, error) {
	switch Segment(s) {
	case SegmentRetail, SegmentWholesale, SegmentInternal, SegmentExternal:
		return Segment(s), nil
	}
	return "", fmt.Errorf("unknown customer segment %q (want retail, wholesale, internal or external)", s)
}

// quantityFactor returns the mean-demand multiplier for the segment.
func (s Segment) quantityFactor() float64 {
	switch s {
	case SegmentWholesale:
		return 2.0
	case SegmentInternal:
		return 1.2
	case SegmentExternal:
		return 0.8
	default:
		return 1.0
	}
}

// Customer generates stochastic demand for a set of products on its own
// cadence. Its running counters are mutated only by the Simulation Engine
// as demand events are settled.
type Customer struct {
	ID          string
	Name        string
	Segment     Segment
	Products    []string // requested product ids
	Cadence     int      // buys every Cadence days
	MeanQty     int      // mean order quantity per product
	Priority    int      // 1..5, 5 is highest
	Variability float64  // relative std dev of demand, in [0,1]
	Active      bool

	// Running counters, settled by the Simulation Engine.
	UnitsBought  int
	AmountSpent  float64
	OrdersPlaced int
	StockoutsHit int
}

// NewCustomer constructs a Customer, validating configuration preconditions.
func NewCustomer(id, name string, segment Segment, productIDs []string,
	cadence, meanQty, priority int, variability float64) (*Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("customer id must not be empty")
	}
	if priority < 1 || priority > 5 {
		return nil, fmt.Errorf("customer %s: priority must be in [1,5], got %d", id, priority)
	}
	if variability < 0 || variability > 1 {
		return nil, fmt.Errorf("customer %s: variability must be in [0,1], got %v", id, variability)
	}
	if cadence < 1 {
		return nil, fmt.Errorf("customer %s: purchase cadence must be at least 1 day, got %d", id, cadence)
	}
	if meanQty < 1 {
		return nil, fmt.Errorf("customer %s: mean quantity must be at least 1, got %d", id, meanQty)
	}
	if _, err := ParseSegment(string(segment)); err != nil {
		return nil, fmt.Errorf("customer %s: %w", id, err)
	}
	return &Customer{
		ID:          id,
		Name:        name,
		Segment:     segment,
		Products:    append([]string(nil), productIDs...),
		Cadence:     cadence,
		MeanQty:     meanQty,
		Priority:    priority,
		Variability: variability,
		Active:      true,
	}, nil
}

// BuysOn reports whether the customer's cadence fires on the given day.
func (c *Customer) BuysOn(day int) bool {
	return c.Active && day%c.Cadence == 0
}

// Requests reports whether the customer buys the given product.
func (c *Customer) Requests(productID string) bool {
	for _, pid := range c.Products {
		if pid == productID {
			return true
		}
	}
	return false
}

// Demand draws an order quantity for a product from the injected RNG:
// a Gaussian around the segment-adjusted mean with relative std dev
// Variability, clamped to at least 1. Returns 0 if the customer does not
// request the product or is inactive.
func (c *Customer) Demand(productID string, rng *rand.Rand) int {
	if !c.Active || !c.Requests(productID) {
		return 0
	}
	mean := float64(c.MeanQty) * c.Segment.quantityFactor()
	drawn := rng.NormFloat64()*(mean*c.Variability) + mean
	qty := int(math.Round(drawn))
	if qty < 1 {
		return 1
	}
	return qty
}

// StockoutPenalty is the priority-weighted penalty for failing this
// customer: base x (1 + priority/5).
func (c *Customer) StockoutPenalty(base float64) float64 {
	return base * (1 + float64(c.Priority)/5.0)
}

// RecordPurchase settles a successful sale into the running counters.
func (c *Customer) RecordPurchase(quantity int, amount float64) {
	c.UnitsBought += quantity
	c.AmountSpent += amount
	c.OrdersPlaced++
}

// RecordStockout settles a failed demand event into the running counters.
func (c *Customer) RecordStockout() {
	c.StockoutsHit++
}

// Satisfaction is the fraction of placed orders fully served, in [0,1].
// A customer with no orders yet is fully satisfied.
func (c *Customer) Satisfaction() float64 {
	if c.OrdersPlaced == 0 {
		return 1.0
	}
	served := float64(c.OrdersPlaced-c.StockoutsHit) / float64(c.OrdersPlaced)
	return math.Max(0, math.Min(1, served))
}

// ResetCounters clears the running counters back to zero.
func (c *Customer) ResetCounters() {
	c.UnitsBought = 0
	c.AmountSpent = 0
	c.OrdersPlaced = 0
	c.StockoutsHit = 0
}
