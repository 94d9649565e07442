package sim

// EventKind names the kinds of events recorded during a run.
type EventKind string

const (
	EventSale         EventKind = "sale"
	EventOrder        EventKind = "order"
	EventDelivery     EventKind = "delivery"
	EventStockout     EventKind = "stockout"
	EventPolicyChange EventKind = "policy_change"
)

// Event is one entry in the canonical audit trail. Payload holds the typed
// record for the kind (SaleRecord, OrderRecord, DeliveryRecord,
// StockoutRecord or PolicyChangeRecord).
type Event struct {
	Day     int
	Kind    EventKind
	Payload any
}

// SaleRecord captures a fully served demand event.
type SaleRecord struct {
	Customer  string
	ProductID string
	Quantity  int
	Revenue   float64
	Cost      float64 // realized cost of goods sold
}

// OrderRecord captures a materialized replenishment order.
type OrderRecord struct {
	ProductID string
	Supplier  string
	Quantity  int
	TotalCost float64
	LeadDays  int // realized lead time, base plus stochastic delay
}

// DeliveryRecord captures a pending order maturing. Rejected deliveries
// (capacity overflow) are recorded with Rejected=true and are not paid for.
type DeliveryRecord struct {
	ProductID string
	Supplier  string
	Quantity  int
	TotalCost float64
	Rejected  bool
}

// StockoutRecord captures a demand event that could not be served.
type StockoutRecord struct {
	Customer  string
	ProductID string
	Requested int
	Available int
	Penalty   float64
}

// PolicyChangeRecord captures a strategy switch committed during the
// periodic review.
type PolicyChangeRecord struct {
	From   Strategy
	To     Strategy
	Reason string
}

// EventLog is the append-only event trail consumed by external reporting.
type EventLog struct {
	events []Event
}

// Append records an event. Events arrive in chronological order by
// construction: the engine appends as each day's phases execute.
func (el *EventLog) Append(ev Event) {
	el.events = append(el.events, ev)
}

// Len returns the number of recorded events.
func (el *EventLog) Len() int {
	return len(el.events)
}

// Recent returns a copy of the most recent n events in chronological order.
// n larger than the log returns the whole log.
func (el *EventLog) Recent(n int) []Event {
	if n < 0 {
		n = 0
	}
	if n > len(el.events) {
		n = len(el.events)
	}
	out := make([]Event, n)
	copy(out, el.events[len(el.events)-n:])
	return out
}

// All returns a copy of the full log in chronological order.
func (el *EventLog) All() []Event {
	out := make([]Event, len(el.events))
	copy(out, el.events)
	return out
}

// Reset discards all recorded events.
func (el *EventLog) Reset() {
	el.events = nil
}
