// Package engine wires the transaction store, category ledger, and budget
// planner together and processes user intents one at a time.
package engine

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findeep/findeep/internal/ledger"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/planner"
	"github.com/findeep/findeep/internal/service"
	"github.com/findeep/findeep/internal/tracker"
	"github.com/findeep/findeep/internal/views"
)

// defaultStorageTimeout bounds every storage round trip so an unresponsive
// store surfaces as a storage error instead of hanging the intent.
const defaultStorageTimeout = 5 * time.Second

// Snapshot is the view-model bundle consumed by the presentation layer,
// recomputed from in-memory state after each accepted intent.
type Snapshot struct {
	Transactions []model.Transaction
	Categories   []model.Category
	Breakdown    []model.BreakdownEntry
	Trend        []model.TrendPoint
	Chart        []model.ChartSlice
	Suggestions  []string
	Summary      model.Summary
	Remaining    decimal.Decimal
}

// Engine processes intents against the in-memory state and keeps derived
// aggregates consistent. All mutation passes through a single mutex: the
// one logical queue that serializes concurrent edits, including spent
// updates racing with reorders.
type Engine struct {
	tracker *tracker.Store
	ledger  *ledger.Ledger
	planner *planner.Planner

	mu      sync.Mutex
	filter  string
	rng     model.DateRange
	timeout time.Duration
}

// New creates an engine over an opened storage instance. The storage
// lifecycle stays with the caller.
func New(storage service.Storage) *Engine {
	l := ledger.New(storage)
	return &Engine{
		ledger:  l,
		tracker: tracker.NewStore(storage, l),
		planner: planner.New(storage, l),
		filter:  model.CategoryAll,
		rng:     model.RangeMonth,
		timeout: defaultStorageTimeout,
	}
}

// Start loads all three collections into memory and seeds the default
// categories on first use.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.ledger.Load(ctx); err != nil {
		return err
	}
	if err := e.ledger.EnsureDefaults(ctx); err != nil {
		return err
	}
	if err := e.tracker.Load(ctx); err != nil {
		return err
	}
	return e.planner.Load(ctx)
}

// Close drains background allocation writes. It does not close storage.
func (e *Engine) Close() {
	e.planner.Flush()
}

// AddTransaction records a new expense and updates the affected category's
// spent total before returning.
func (e *Engine) AddTransaction(ctx context.Context, draft tracker.Draft) (model.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.tracker.Add(ctx, draft)
}

// EditTransaction replaces an existing transaction wholesale.
func (e *Engine) EditTransaction(ctx context.Context, txn model.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.tracker.Update(ctx, txn)
}

// DeleteTransaction removes a transaction and reverses its spending.
func (e *Engine) DeleteTransaction(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.tracker.Remove(ctx, id)
}

// SetCategoryFilter selects the category for filtered listings;
// model.CategoryAll disables the filter.
func (e *Engine) SetCategoryFilter(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = name
}

// SetDateRange selects the time window for filtered listings.
func (e *Engine) SetDateRange(rng model.DateRange) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng = rng
}

// AddCategory creates a custom category.
func (e *Engine) AddCategory(ctx context.Context, name string) (model.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.ledger.AddCustom(ctx, name)
}

// RemoveCategory deletes a category fails-safe: referencing transactions
// remain and show as uncategorized.
func (e *Engine) RemoveCategory(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.ledger.Remove(ctx, id)
}

// ReorderCategory moves a category to a new display position.
func (e *Engine) ReorderCategory(ctx context.Context, id string, newIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.ledger.Reorder(ctx, id, newIndex)
}

// SetAllocation applies an allocation edit optimistically.
func (e *Engine) SetAllocation(ctx context.Context, categoryID, raw string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.SetAllocation(ctx, categoryID, raw)
}

// StageIncome stages an income edit for the next budget commit.
func (e *Engine) StageIncome(raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.planner.StageIncome(raw)
}

// StagePayPeriod stages a pay-period edit for the next budget commit.
func (e *Engine) StagePayPeriod(period model.PayPeriod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.StagePayPeriod(period)
}

// CommitBudget saves the staged budget two-phase: the effective income only
// changes after the write succeeds.
func (e *Engine) CommitBudget(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.planner.CommitBudget(ctx)
}

// Reconcile recomputes every spent total from the transaction collection
// and returns how many categories drifted.
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Background allocation writes race a reconcile otherwise.
	e.planner.Flush()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.ledger.Reconcile(ctx, e.tracker.All())
}

// Suggestions returns the current advisory messages.
func (e *Engine) Suggestions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.Suggestions()
}

// Budget returns the committed budget record.
func (e *Engine) Budget() model.Budget {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.Budget()
}

// Remaining returns income minus the sum of category allocations.
func (e *Engine) Remaining() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planner.Remaining()
}

// Snapshot assembles the full view-model bundle from current in-memory
// state: the filtered transaction list plus every derived projection.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	cats := e.ledger.Categories()
	txns := e.tracker.All()

	return Snapshot{
		Transactions: slices.Collect(e.tracker.ListFiltered(e.filter, e.rng)),
		Categories:   cats,
		Breakdown:    views.CategoryBreakdown(cats, txns),
		Trend:        views.SpendingTrend(txns, time.Now()),
		Chart:        views.AllocationChart(cats),
		Suggestions:  e.planner.Suggestions(),
		Summary:      views.Summary(e.planner.Budget(), cats),
		Remaining:    e.planner.Remaining(),
	}
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}
