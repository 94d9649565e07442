package cmd

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/inventory-sim/inventory-sim/sim"
)

// ScenarioConfig is the YAML shape of a simulation scenario: the entity
// definitions plus optional overrides for the financial parameters.
type ScenarioConfig struct {
	Name            string           `yaml:"name"`
	OpeningBalance  float64          `yaml:"opening_balance" validate:"gte=0"`
	HoldingCost     float64          `yaml:"holding_cost" validate:"gte=0"`
	StockoutPenalty float64          `yaml:"stockout_penalty" validate:"gte=0"`
	Products        []ProductConfig  `yaml:"products" validate:"min=1,dive"`
	Suppliers       []SupplierConfig `yaml:"suppliers" validate:"dive"`
	Customers       []CustomerConfig `yaml:"customers" validate:"dive"`
}

// ProductConfig defines one product and its starting stock.
type ProductConfig struct {
	ID              string  `yaml:"id" validate:"required"`
	Name            string  `yaml:"name"`
	UnitCost        float64 `yaml:"unit_cost" validate:"gt=0"`
	SalePrice       float64 `yaml:"sale_price" validate:"gt=0"`
	ReorderPoint    int     `yaml:"reorder_point" validate:"gte=0"`
	EstimatedDemand float64 `yaml:"estimated_demand" validate:"gte=0"`
	LeadTime        int     `yaml:"lead_time" validate:"gte=1"`
	Capacity        int     `yaml:"capacity" validate:"gte=1"`
	InitialStock    int     `yaml:"initial_stock" validate:"gte=0"`
}

// SupplierConfig defines one supplier and its volume discounts.
type SupplierConfig struct {
	ID          string                    `yaml:"id" validate:"required"`
	Name        string                    `yaml:"name"`
	Products    []string                  `yaml:"products" validate:"min=1"`
	LeadTime    int                       `yaml:"lead_time" validate:"gte=1"`
	BaseCost    float64                   `yaml:"base_cost" validate:"gte=0"`
	Reliability float64                   `yaml:"reliability" validate:"gte=0,lte=1"`
	MinOrder    int                       `yaml:"min_order" validate:"gte=0"`
	Discounts   map[string]DiscountConfig `yaml:"discounts"`
}

// DiscountConfig defines a per-product volume discount.
type DiscountConfig struct {
	MinQuantity int     `yaml:"min_quantity" validate:"gte=1"`
	Fraction    float64 `yaml:"fraction" validate:"gte=0,lte=1"`
}

// CustomerConfig defines one demand-generating customer.
type CustomerConfig struct {
	ID          string   `yaml:"id" validate:"required"`
	Name        string   `yaml:"name"`
	Segment     string   `yaml:"segment" validate:"oneof=retail wholesale internal external"`
	Products    []string `yaml:"products" validate:"min=1"`
	Cadence     int      `yaml:"cadence" validate:"gte=1"`
	MeanQty     int      `yaml:"mean_quantity" validate:"gte=1"`
	Priority    int      `yaml:"priority" validate:"gte=1,lte=5"`
	Variability float64  `yaml:"variability" validate:"gte=0,lte=1"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the field-range constraints of the scenario.
func (c *ScenarioConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid scenario %q: %w", c.Name, err)
	}
	return nil
}

// Build constructs a Simulator from the scenario. The scenario's financial
// parameters override the base config; entity constructors re-check domain
// preconditions (sale price vs cost, reliability range) so a bad scenario
// fails here, before any day is simulated.
func (c *ScenarioConfig) Build(base sim.Config) (*sim.Simulator, error) {
	if c.OpeningBalance > 0 {
		base.OpeningBalance = c.OpeningBalance
	}
	if c.HoldingCost > 0 {
		base.HoldingCostPerUnit = c.HoldingCost
	}
	if c.StockoutPenalty > 0 {
		base.StockoutPenaltyBase = c.StockoutPenalty
	}

	s, err := sim.NewSimulator(base)
	if err != nil {
		return nil, err
	}

	for _, pc := range c.Products {
		p, err := sim.NewProduct(pc.ID, pc.Name, pc.UnitCost, pc.SalePrice,
			pc.ReorderPoint, pc.EstimatedDemand, pc.LeadTime, pc.Capacity)
		if err != nil {
			return nil, err
		}
		if pc.InitialStock > 0 {
			if err := p.AddLot(pc.InitialStock, pc.UnitCost, 0); err != nil {
				return nil, err
			}
		}
		if err := s.RegisterProduct(p); err != nil {
			return nil, err
		}
	}

	for _, sc := range c.Suppliers {
		sup, err := sim.NewSupplier(sc.ID, sc.Name, sc.Products, sc.LeadTime,
			sc.BaseCost, sc.Reliability, sc.MinOrder)
		if err != nil {
			return nil, err
		}
		for pid, d := range sc.Discounts {
			if err := sup.AddDiscount(pid, d.MinQuantity, d.Fraction); err != nil {
				return nil, err
			}
		}
		s.RegisterSupplier(sup)
	}

	for _, cc := range c.Customers {
		cust, err := sim.NewCustomer(cc.ID, cc.Name, sim.Segment(cc.Segment),
			cc.Products, cc.Cadence, cc.MeanQty, cc.Priority, cc.Variability)
		if err != nil {
			return nil, err
		}
		s.RegisterCustomer(cust)
	}

	return s, nil
}
