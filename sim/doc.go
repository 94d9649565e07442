// Package sim provides the core day-driven simulation engine for inventory
// replenishment studies.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - product.go: the per-product inventory ledger (lots, costing methods, capacity)
//   - policy.go: the replenishment policy engine and adaptive strategy switching
//   - simulator.go: the day loop and its five ordered phases
//
// # Architecture
//
// A Simulator owns every mutable entity for the duration of a run: product
// ledgers, the financial ledger, the policy engine, pending orders and the
// append-only event log. One logical day advances through five phases in
// strict order (demand, replenishment, delivery, holding cost, periodic
// review); days advance strictly sequentially and nothing runs concurrently.
//
// Business-rule conflicts during a run (capacity overflow, insufficient
// stock, insufficient funds) are absorbed into the event log and never halt
// a multi-day run. Invalid entity construction is rejected up front by the
// constructors, before any day is simulated.
//
// Randomness for demand draws and supplier delay draws comes from a
// PartitionedRNG seeded per run, so an entire simulation is reproducible
// bit-for-bit given the same seed and entities. External collaborators
// (reporting, CSV export in the export package) consume only Snapshot and
// the read-only event log queries.
package sim
