package sim

import "fmt"

// Direction marks a transaction as money in or money out.
type Direction string

const (
	Inflow  Direction = "inflow"
	Outflow Direction = "outflow"
)

// Category classifies cash flow for reporting.
type Category string

const (
	CategorySale     Category = "sale"
	CategoryPurchase Category = "purchase"
	CategoryHolding  Category = "holding"
	CategoryPenalty  Category = "penalty"
)

// Transaction is one append-only ledger entry.
type Transaction struct {
	Day       int
	Direction Direction
	Amount    float64
	Category  Category
	Memo      string
}

// Ledger tracks the running balance and categorized cash flow.
// Invariant: Balance() == opening + Σinflows - Σoutflows at every point.
type Ledger struct {
	opening  float64
	balance  float64
	inflows  float64
	outflows float64

	inByCategory  map[Category]float64
	outByCategory map[Category]float64
	history       []Transaction
}

// NewLedger creates a Ledger with the given opening balance.
func NewLedger(opening float64) (*Ledger, error) {
	if opening < 0 {
		return nil, fmt.Errorf("opening balance must not be negative, got %v", opening)
	}
	return &Ledger{
		opening:       opening,
		balance:       opening,
		inByCategory:  make(map[Category]float64),
		outByCategory: make(map[Category]float64),
	}, nil
}

// Credit records an inflow.
func (l *Ledger) Credit(day int, amount float64, category Category, memo string) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative, got %v", amount)
	}
	l.inflows += amount
	l.balance += amount
	l.inByCategory[category] += amount
	l.history = append(l.history, Transaction{
		Day: day, Direction: Inflow, Amount: amount, Category: category, Memo: memo,
	})
	return nil
}

// Debit records an outflow. The balance may go negative; affordability is
// the caller's concern (see CanAfford).
func (l *Ledger) Debit(day int, amount float64, category Category, memo string) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must not be negative, got %v", amount)
	}
	l.outflows += amount
	l.balance -= amount
	l.outByCategory[category] += amount
	l.history = append(l.history, Transaction{
		Day: day, Direction: Outflow, Amount: amount, Category: category, Memo: memo,
	})
	return nil
}

// Balance returns the current running balance.
func (l *Ledger) Balance() float64 { return l.balance }

// OpeningBalance returns the configured opening balance.
func (l *Ledger) OpeningBalance() float64 { return l.opening }

// TotalInflows returns cumulative inflows since the opening.
func (l *Ledger) TotalInflows() float64 { return l.inflows }

// TotalOutflows returns cumulative outflows since the opening.
func (l *Ledger) TotalOutflows() float64 { return l.outflows }

// NetProfit is cumulative inflows minus cumulative outflows.
func (l *Ledger) NetProfit() float64 { return l.inflows - l.outflows }

// CanAfford reports whether the balance covers an outflow of amount.
func (l *Ledger) CanAfford(amount float64) bool {
	return l.balance >= amount
}

// Profitability is net profit as a percentage of the opening balance.
func (l *Ledger) Profitability() float64 {
	if l.opening == 0 {
		return 0
	}
	return l.NetProfit() / l.opening * 100
}

// GrossMargin is sales revenue net of purchase cost, as a percentage of
// sales revenue. Zero when nothing has been sold.
func (l *Ledger) GrossMargin() float64 {
	sales := l.inByCategory[CategorySale]
	if sales == 0 {
		return 0
	}
	return (sales - l.outByCategory[CategoryPurchase]) / sales * 100
}

// CashFlow is the net change in balance since the opening.
func (l *Ledger) CashFlow() float64 {
	return l.balance - l.opening
}

// CategoryInflow returns cumulative inflows for one category.
func (l *Ledger) CategoryInflow(c Category) float64 { return l.inByCategory[c] }

// CategoryOutflow returns cumulative outflows for one category.
func (l *Ledger) CategoryOutflow(c Category) float64 { return l.outByCategory[c] }

// Transactions returns a copy of the append-only history in order.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.history))
	copy(out, l.history)
	return out
}

// BalanceSummary is the read-only financial snapshot exposed to
// external collaborators.
type BalanceSummary struct {
	OpeningBalance float64
	Balance        float64
	TotalInflows   float64
	TotalOutflows  float64
	NetProfit      float64
	Profitability  float64
	Transactions   int
}

// Summary builds the financial snapshot.
func (l *Ledger) Summary() BalanceSummary {
	return BalanceSummary{
		OpeningBalance: l.opening,
		Balance:        l.balance,
		TotalInflows:   l.inflows,
		TotalOutflows:  l.outflows,
		NetProfit:      l.NetProfit(),
		Profitability:  l.Profitability(),
		Transactions:   len(l.history),
	}
}

// ExpenseBreakdown reports cumulative outflows split by category.
type ExpenseBreakdown struct {
	Purchases float64
	Holding   float64
	Penalties float64
}

// Expenses builds the outflow breakdown.
func (l *Ledger) Expenses() ExpenseBreakdown {
	return ExpenseBreakdown{
		Purchases: l.outByCategory[CategoryPurchase],
		Holding:   l.outByCategory[CategoryHolding],
		Penalties: l.outByCategory[CategoryPenalty],
	}
}

// Reset clears all flow and history back to the opening balance.
func (l *Ledger) Reset() {
	l.balance = l.opening
	l.inflows = 0
	l.outflows = 0
	l.inByCategory = make(map[Category]float64)
	l.outByCategory = make(map[Category]float64)
	l.history = nil
}
