package cmd

// DefaultScenario is the built-in hardware-store dataset used when no
// scenario file is given: five fastener products, three suppliers with
// volume discounts, five customers across all segments.
func DefaultScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:            "hardware-store",
		OpeningBalance:  100000,
		HoldingCost:     0.1,
		StockoutPenalty: 50,
		Products: []ProductConfig{
			{ID: "PROD001", Name: "M6 Screw", UnitCost: 0.5, SalePrice: 1.2,
				ReorderPoint: 50, EstimatedDemand: 10, LeadTime: 3, Capacity: 500, InitialStock: 100},
			{ID: "PROD002", Name: "M6 Nut", UnitCost: 0.3, SalePrice: 0.9,
				ReorderPoint: 60, EstimatedDemand: 12, LeadTime: 3, Capacity: 600, InitialStock: 100},
			{ID: "PROD003", Name: "Washer", UnitCost: 0.1, SalePrice: 0.4,
				ReorderPoint: 100, EstimatedDemand: 20, LeadTime: 2, Capacity: 1000, InitialStock: 100},
			{ID: "PROD004", Name: "Quarter-Inch Bolt", UnitCost: 0.8, SalePrice: 2.0,
				ReorderPoint: 40, EstimatedDemand: 8, LeadTime: 4, Capacity: 400, InitialStock: 100},
			{ID: "PROD005", Name: "3-Inch Nail", UnitCost: 0.05, SalePrice: 0.15,
				ReorderPoint: 200, EstimatedDemand: 50, LeadTime: 2, Capacity: 2000, InitialStock: 100},
		},
		Suppliers: []SupplierConfig{
			{ID: "SUP001", Name: "ABC Supplies",
				Products: []string{"PROD001", "PROD002", "PROD003"},
				LeadTime: 3, BaseCost: 0.5, Reliability: 0.95, MinOrder: 20,
				Discounts: map[string]DiscountConfig{
					"PROD001": {MinQuantity: 100, Fraction: 0.10},
					"PROD002": {MinQuantity: 150, Fraction: 0.15},
				}},
			{ID: "SUP002", Name: "XYZ Distribution",
				Products: []string{"PROD001", "PROD003", "PROD004"},
				LeadTime: 2, BaseCost: 0.55, Reliability: 0.98, MinOrder: 15,
				Discounts: map[string]DiscountConfig{
					"PROD004": {MinQuantity: 80, Fraction: 0.12},
				}},
			{ID: "SUP003", Name: "Industrial Hardware Co",
				Products: []string{"PROD002", "PROD004", "PROD005"},
				LeadTime: 4, BaseCost: 0.48, Reliability: 0.90, MinOrder: 30,
				Discounts: map[string]DiscountConfig{
					"PROD005": {MinQuantity: 500, Fraction: 0.20},
				}},
		},
		Customers: []CustomerConfig{
			{ID: "CLI001", Name: "Corner Hardware Store", Segment: "retail",
				Products: []string{"PROD001", "PROD002", "PROD003"},
				Cadence:  3, MeanQty: 15, Priority: 3, Variability: 0.3},
			{ID: "CLI002", Name: "Perez Construction", Segment: "wholesale",
				Products: []string{"PROD001", "PROD003", "PROD004", "PROD005"},
				Cadence:  7, MeanQty: 50, Priority: 4, Variability: 0.4},
			{ID: "CLI003", Name: "Lopez Auto Repair", Segment: "retail",
				Products: []string{"PROD002", "PROD004"},
				Cadence:  2, MeanQty: 10, Priority: 2, Variability: 0.2},
			{ID: "CLI004", Name: "Central Warehouse", Segment: "internal",
				Products: []string{"PROD001", "PROD002", "PROD005"},
				Cadence:  5, MeanQty: 25, Priority: 5, Variability: 0.15},
			{ID: "CLI005", Name: "Northern Hardware Chain", Segment: "wholesale",
				Products: []string{"PROD003", "PROD005"},
				Cadence:  10, MeanQty: 100, Priority: 3, Variability: 0.5},
		},
	}
}
