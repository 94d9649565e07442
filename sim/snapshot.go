package sim

import "fmt"

// ProductSnapshot is the read-only per-product state exposed for reporting.
type ProductSnapshot struct {
	ID           string
	Name         string
	OnHand       int
	ReorderPoint int
	LotCount     int
}

// Metrics aggregates run-wide counters for final reporting.
type Metrics struct {
	Stockouts     int
	TotalSales    int // number of fully served demand events
	UnitsSold     int
	PendingOrders int
}

// Snapshot is the full read-only state for the current day, consumed by
// external collaborators (reporting, CSV export). It carries plain values
// only; serialization is the consumer's business.
type Snapshot struct {
	Day      int
	Products []ProductSnapshot
	Finance  BalanceSummary
	Policy   PolicyStats
	Metrics  Metrics
}

// Snapshot builds the current-day snapshot. Products appear in
// registration order.
func (s *Simulator) Snapshot() Snapshot {
	products := make([]ProductSnapshot, 0, len(s.productOrder))
	for _, pid := range s.productOrder {
		p := s.products[pid]
		products = append(products, ProductSnapshot{
			ID:           p.ID,
			Name:         p.Name,
			OnHand:       p.OnHand(),
			ReorderPoint: p.ReorderPoint,
			LotCount:     p.LotCount(),
		})
	}
	return Snapshot{
		Day:      s.day,
		Products: products,
		Finance:  s.ledger.Summary(),
		Policy:   s.engine.Stats(),
		Metrics: Metrics{
			Stockouts:     s.stockouts,
			TotalSales:    s.totalSales,
			UnitsSold:     s.unitsSold,
			PendingOrders: len(s.pending),
		},
	}
}

// Print displays the end-of-run summary.
func (sn Snapshot) Print() {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Day                  : %d\n", sn.Day)
	fmt.Printf("Balance              : %.2f (opening %.2f, net %+.2f)\n",
		sn.Finance.Balance, sn.Finance.OpeningBalance, sn.Finance.NetProfit)
	fmt.Printf("Profitability        : %.2f%%\n", sn.Finance.Profitability)
	fmt.Printf("Strategy             : %s (sensitivity %.2f)\n", sn.Policy.Strategy, sn.Policy.Sensitivity)
	fmt.Printf("Orders Placed        : %d (avg cost %.2f)\n", sn.Policy.OrdersPlaced, sn.Policy.AverageOrderCost)
	fmt.Printf("Sales / Units Sold   : %d / %d\n", sn.Metrics.TotalSales, sn.Metrics.UnitsSold)
	fmt.Printf("Stockouts            : %d\n", sn.Metrics.Stockouts)
	fmt.Printf("Pending Orders       : %d\n", sn.Metrics.PendingOrders)
	for _, p := range sn.Products {
		fmt.Printf("  %-10s %-22s on-hand %5d  reorder %4d  lots %d\n",
			p.ID, p.Name, p.OnHand, p.ReorderPoint, p.LotCount)
	}
}
