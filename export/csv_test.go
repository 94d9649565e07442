package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-sim/inventory-sim/sim"
)

// fixedWriter returns a Writer whose filenames carry a constant timestamp.
func fixedWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	w.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleEvents() []sim.Event {
	return []sim.Event{
		{Day: 3, Kind: sim.EventSale, Payload: sim.SaleRecord{
			Customer: "Corner Store", ProductID: "PROD001", Quantity: 60, Revenue: 72, Cost: 30,
		}},
		{Day: 3, Kind: sim.EventOrder, Payload: sim.OrderRecord{
			ProductID: "PROD001", Supplier: "ABC Supplies", Quantity: 20, TotalCost: 10, LeadDays: 3,
		}},
		{Day: 6, Kind: sim.EventStockout, Payload: sim.StockoutRecord{
			Customer: "Corner Store", ProductID: "PROD001", Requested: 60, Available: 40, Penalty: 80,
		}},
		{Day: 6, Kind: sim.EventDelivery, Payload: sim.DeliveryRecord{
			ProductID: "PROD001", Supplier: "ABC Supplies", Quantity: 20, TotalCost: 10, Rejected: false,
		}},
	}
}

func TestExportEvents_WritesOneKindWithHeader(t *testing.T) {
	// GIVEN a mixed event log
	w := fixedWriter(t)

	// WHEN sale events are exported
	path, err := w.ExportEvents(sampleEvents(), sim.EventSale)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, "events_sale_2024-03-01_12-00-00.csv", filepath.Base(path))

	// THEN the file holds the header plus only the sale rows
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"day", "customer", "product_id", "quantity", "revenue", "cost"}, rows[0])
	assert.Equal(t, []string{"3", "Corner Store", "PROD001", "60", "72.00", "30.00"}, rows[1])
}

func TestExportEvents_EmptySelectionWritesNothing(t *testing.T) {
	w := fixedWriter(t)

	// No policy changes in the sample log: no file, no error.
	path, err := w.ExportEvents(sampleEvents(), sim.EventPolicyChange)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(w.BaseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportEvents_UnknownKindRejected(t *testing.T) {
	w := fixedWriter(t)
	_, err := w.ExportEvents(sampleEvents(), sim.EventKind("bogus"))
	assert.Error(t, err)
}

func TestExportAllEvents_OneFilePerPresentKind(t *testing.T) {
	// GIVEN a log with four kinds present
	w := fixedWriter(t)

	// WHEN everything is exported
	paths, err := w.ExportAllEvents(sampleEvents())
	require.NoError(t, err)

	// THEN exactly four files exist, none for the absent policy changes
	assert.Len(t, paths, 4)
	for _, p := range paths {
		assert.NotContains(t, filepath.Base(p), "policy_change")
	}
}

func TestExportEvents_MoneyRoundedToTwoPlaces(t *testing.T) {
	// GIVEN a penalty accumulated as a raw float
	w := fixedWriter(t)
	events := []sim.Event{
		{Day: 1, Kind: sim.EventStockout, Payload: sim.StockoutRecord{
			Customer: "X", ProductID: "P1", Requested: 3, Available: 0, Penalty: 59.999999999999996,
		}},
	}

	path, err := w.ExportEvents(events, sim.EventStockout)
	require.NoError(t, err)

	// THEN display rounding happens at the export boundary
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "60.00", rows[1][5])
}

func TestExportSummary_KeyValueLayout(t *testing.T) {
	// GIVEN an end-of-run snapshot
	w := fixedWriter(t)
	sn := sim.Snapshot{
		Day: 15,
		Products: []sim.ProductSnapshot{
			{ID: "PROD001", Name: "M6 Screw", OnHand: 40, ReorderPoint: 50, LotCount: 2},
		},
		Finance: sim.BalanceSummary{
			OpeningBalance: 100000, Balance: 100100, TotalInflows: 500, TotalOutflows: 400,
			NetProfit: 100, Profitability: 0.1, Transactions: 12,
		},
		Policy: sim.PolicyStats{
			Strategy: sim.StrategyConservative, Sensitivity: 1.0,
			OrdersPlaced: 4, TotalOrderCost: 40,
		},
		Metrics: sim.Metrics{Stockouts: 2, TotalSales: 5, UnitsSold: 300, PendingOrders: 1},
	}

	path, err := w.ExportSummary(sn)
	require.NoError(t, err)
	assert.Equal(t, "summary_2024-03-01_12-00-00.csv", filepath.Base(path))

	rows := readCSV(t, path)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"field", "value"}, rows[0])

	fields := make(map[string]string, len(rows))
	for _, row := range rows[1:] {
		fields[row[0]] = row[1]
	}
	assert.Equal(t, "15", fields["day"])
	assert.Equal(t, "conservative", fields["strategy"])
	assert.Equal(t, "2", fields["stockouts"])
	assert.Contains(t, fields, "product_PROD001")
	assert.Contains(t, fields["product_PROD001"], "on_hand=40")
}
