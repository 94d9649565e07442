package sim

import (
	"fmt"
	"math/rand"
)

// maxDelayDays bounds the stochastic delivery delay drawn on top of the
// base lead time when a supplier misses its reliability check.
const maxDelayDays = 3

// Discount is a per-product volume discount: orders of at least MinQuantity
// units get Fraction knocked off the total cost.
type Discount struct {
	MinQuantity int
	Fraction    float64
}

// Supplier prices orders and produces stochastic delivery delays. It is
// stateless across days except for draws taken from the injected RNG.
type Supplier struct {
	ID          string
	Name        string
	LeadTime    int     // base delivery days
	BaseCost    float64 // fallback unit cost when the product carries none
	Reliability float64 // probability of on-time delivery, in [0,1]
	MinOrder    int     // minimum order quantity

	products  map[string]bool
	discounts map[string]Discount
}

// NewSupplier constructs a Supplier, validating configuration preconditions.
func NewSupplier(id, name string, productIDs []string, leadTime int,
	baseCost, reliability float64, minOrder int) (*Supplier, error) {
	if id == "" {
		return nil, fmt.Errorf("supplier id must not be empty")
	}
	if reliability < 0 || reliability > 1 {
		return nil, fmt.Errorf("supplier %s: reliability must be in [0,1], got %v", id, reliability)
	}
	if leadTime < 1 {
		return nil, fmt.Errorf("supplier %s: lead time must be at least 1 day, got %d", id, leadTime)
	}
	if baseCost < 0 {
		return nil, fmt.Errorf("supplier %s: base cost must not be negative, got %v", id, baseCost)
	}
	if minOrder < 0 {
		return nil, fmt.Errorf("supplier %s: minimum order must not be negative, got %d", id, minOrder)
	}
	products := make(map[string]bool, len(productIDs))
	for _, pid := range productIDs {
		products[pid] = true
	}
	return &Supplier{
		ID:          id,
		Name:        name,
		LeadTime:    leadTime,
		BaseCost:    baseCost,
		Reliability: reliability,
		MinOrder:    minOrder,
		products:    products,
		discounts:   make(map[string]Discount),
	}, nil
}

// Offers reports whether the supplier carries the product.
func (s *Supplier) Offers(productID string) bool {
	return s.products[productID]
}

// CanFill reports whether the supplier can take an order: it must carry the
// product and the quantity must meet the minimum order size.
func (s *Supplier) CanFill(productID string, quantity int) bool {
	return s.products[productID] && quantity >= s.MinOrder
}

// AddDiscount registers or replaces a volume discount for a carried product.
func (s *Supplier) AddDiscount(productID string, minQuantity int, fraction float64) error {
	if !s.products[productID] {
		return fmt.Errorf("supplier %s does not offer product %s", s.ID, productID)
	}
	if fraction < 0 || fraction > 1 {
		return fmt.Errorf("supplier %s: discount fraction must be in [0,1], got %v", s.ID, fraction)
	}
	if minQuantity < 1 {
		return fmt.Errorf("supplier %s: discount minimum quantity must be at least 1, got %d", s.ID, minQuantity)
	}
	s.discounts[productID] = Discount{MinQuantity: minQuantity, Fraction: fraction}
	return nil
}

// DiscountFor returns the discount fraction applicable to an order of the
// given size, or 0 when no discount applies.
func (s *Supplier) DiscountFor(productID string, quantity int) float64 {
	d, ok := s.discounts[productID]
	if !ok || quantity < d.MinQuantity {
		return 0
	}
	return d.Fraction
}

// TotalCost prices an order of quantity units, applying any volume discount.
// unitCost is the product's reference cost; when zero the supplier's base
// cost is used instead.
func (s *Supplier) TotalCost(productID string, quantity int, unitCost float64) float64 {
	cost := unitCost
	if cost == 0 {
		cost = s.BaseCost
	}
	total := cost * float64(quantity)
	return total * (1 - s.DiscountFor(productID, quantity))
}

// DeliveryDelay draws the stochastic extra days on a delivery. With
// probability Reliability the delivery is on time (0 extra days); otherwise
// the delay is uniform in [1, maxDelayDays]. Reliability 1.0 never delays.
func (s *Supplier) DeliveryDelay(rng *rand.Rand) int {
	if rng.Float64() > s.Reliability {
		return 1 + rng.Intn(maxDelayDays)
	}
	return 0
}

// RealizedLeadTime is the base lead time plus a stochastic delay draw.
func (s *Supplier) RealizedLeadTime(rng *rand.Rand) int {
	return s.LeadTime + s.DeliveryDelay(rng)
}
