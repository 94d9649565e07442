// Package export shapes simulation snapshots and event logs into CSV files.
// It consumes only the read-only interfaces of the sim package and owns all
// display rounding; the core accumulates money as raw floats.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inventory-sim/inventory-sim/sim"
)

// Writer exports simulation data as timestamped CSV files under BaseDir.
type Writer struct {
	BaseDir string

	// now is swappable for deterministic test filenames.
	now func() time.Time
}

// NewWriter creates a Writer, creating BaseDir if needed.
func NewWriter(baseDir string) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Writer{BaseDir: baseDir, now: time.Now}, nil
}

// money renders a monetary amount rounded to two places for display.
// Rounding happens here, never in the core ledgers.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (w *Writer) filename(prefix string) string {
	stamp := w.now().Format("2006-01-02_15-04-05")
	return filepath.Join(w.BaseDir, fmt.Sprintf("%s_%s.csv", prefix, stamp))
}

func (w *Writer) writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// eventColumns maps each event kind to its CSV header.
var eventColumns = map[sim.EventKind][]string{
	sim.EventSale:         {"day", "customer", "product_id", "quantity", "revenue", "cost"},
	sim.EventOrder:        {"day", "product_id", "supplier", "quantity", "total_cost", "lead_days"},
	sim.EventDelivery:     {"day", "product_id", "supplier", "quantity", "total_cost", "rejected"},
	sim.EventStockout:     {"day", "customer", "product_id", "requested", "available", "penalty"},
	sim.EventPolicyChange: {"day", "from", "to", "reason"},
}

// eventRow flattens one event into CSV columns matching eventColumns.
func eventRow(ev sim.Event) []string {
	day := strconv.Itoa(ev.Day)
	switch p := ev.Payload.(type) {
	case sim.SaleRecord:
		return []string{day, p.Customer, p.ProductID, strconv.Itoa(p.Quantity), money(p.Revenue), money(p.Cost)}
	case sim.OrderRecord:
		return []string{day, p.ProductID, p.Supplier, strconv.Itoa(p.Quantity), money(p.TotalCost), strconv.Itoa(p.LeadDays)}
	case sim.DeliveryRecord:
		return []string{day, p.ProductID, p.Supplier, strconv.Itoa(p.Quantity), money(p.TotalCost), strconv.FormatBool(p.Rejected)}
	case sim.StockoutRecord:
		return []string{day, p.Customer, p.ProductID, strconv.Itoa(p.Requested), strconv.Itoa(p.Available), money(p.Penalty)}
	case sim.PolicyChangeRecord:
		return []string{day, string(p.From), string(p.To), p.Reason}
	default:
		return nil
	}
}

// ExportEvents writes all events of one kind to a timestamped CSV file and
// returns its path. An empty selection writes nothing and returns "".
func (w *Writer) ExportEvents(events []sim.Event, kind sim.EventKind) (string, error) {
	header, ok := eventColumns[kind]
	if !ok {
		return "", fmt.Errorf("unknown event kind %q", kind)
	}

	var rows [][]string
	for _, ev := range events {
		if ev.Kind != kind {
			continue
		}
		if row := eventRow(ev); row != nil {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return "", nil
	}

	path := w.filename("events_" + string(kind))
	if err := w.writeCSV(path, header, rows); err != nil {
		return "", err
	}
	return path, nil
}

// ExportAllEvents writes one file per event kind present in the log and
// returns the created paths.
func (w *Writer) ExportAllEvents(events []sim.Event) ([]string, error) {
	kinds := []sim.EventKind{
		sim.EventSale, sim.EventOrder, sim.EventDelivery,
		sim.EventStockout, sim.EventPolicyChange,
	}
	var paths []string
	for _, kind := range kinds {
		path, err := w.ExportEvents(events, kind)
		if err != nil {
			return paths, err
		}
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// ExportSummary writes the end-of-run snapshot as a key/value CSV and
// returns its path.
func (w *Writer) ExportSummary(sn sim.Snapshot) (string, error) {
	rows := [][]string{
		{"day", strconv.Itoa(sn.Day)},
		{"opening_balance", money(sn.Finance.OpeningBalance)},
		{"balance", money(sn.Finance.Balance)},
		{"total_inflows", money(sn.Finance.TotalInflows)},
		{"total_outflows", money(sn.Finance.TotalOutflows)},
		{"net_profit", money(sn.Finance.NetProfit)},
		{"strategy", string(sn.Policy.Strategy)},
		{"sensitivity", strconv.FormatFloat(sn.Policy.Sensitivity, 'f', 2, 64)},
		{"orders_placed", strconv.Itoa(sn.Policy.OrdersPlaced)},
		{"total_order_cost", money(sn.Policy.TotalOrderCost)},
		{"stockouts", strconv.Itoa(sn.Metrics.Stockouts)},
		{"total_sales", strconv.Itoa(sn.Metrics.TotalSales)},
		{"units_sold", strconv.Itoa(sn.Metrics.UnitsSold)},
		{"pending_orders", strconv.Itoa(sn.Metrics.PendingOrders)},
	}
	for _, p := range sn.Products {
		rows = append(rows, []string{
			"product_" + p.ID,
			fmt.Sprintf("%s on_hand=%d reorder_point=%d lots=%d", p.Name, p.OnHand, p.ReorderPoint, p.LotCount),
		})
	}

	path := w.filename("summary")
	if err := w.writeCSV(path, []string{"field", "value"}, rows); err != nil {
		return "", err
	}
	return path, nil
}
