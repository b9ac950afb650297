// Package planner owns the budget record: income, pay period, category
// allocations, the derived remaining balance, and advisory suggestions.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/service"
)

// savingsCategory is the category name the savings suggestion watches.
const savingsCategory = "Savings"

// overBudgetTolerance is how far remaining may go negative before the
// over-budget warning fires.
var overBudgetTolerance = decimal.NewFromInt(-50)

// Allocations is the category view the planner needs: the current list and
// an in-memory-only allocation update.
type Allocations interface {
	Categories() []model.Category
	SetAllocatedLocal(id string, amount decimal.Decimal) (model.Category, error)
}

// Planner holds the committed budget, the staged edits not yet saved, and
// the category allocations.
//
// The two write paths deliberately differ: allocation edits are optimistic
// (memory first, persisted in the background, errors logged), while the
// budget save is two-phase (the staged income only becomes effective after
// the write is acknowledged).
type Planner struct {
	storage      service.Storage
	allocations  Allocations
	budget       model.Budget
	stagedIncome decimal.Decimal
	stagedPeriod model.PayPeriod
	background   sync.WaitGroup
}

// New creates a planner backed by the given storage and category list.
func New(storage service.Storage, allocations Allocations) *Planner {
	return &Planner{
		storage:     storage,
		allocations: allocations,
		budget:      model.DefaultBudget(),
	}
}

// Load reads the persisted budget, falling back to the default before the
// first save. Staged values start equal to the committed ones.
func (p *Planner) Load(ctx context.Context) error {
	budget, err := p.storage.GetBudget(ctx)
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}
	if budget != nil {
		p.budget = *budget
	}
	p.stagedIncome = p.budget.Income
	p.stagedPeriod = p.budget.PayPeriod
	return nil
}

// Budget returns the committed budget record.
func (p *Planner) Budget() model.Budget {
	return p.budget
}

// Remaining derives the unallocated balance: income minus the sum of all
// category allocations. It is never persisted, only computed.
func (p *Planner) Remaining() decimal.Decimal {
	remaining := p.budget.Income
	for _, cat := range p.allocations.Categories() {
		remaining = remaining.Sub(cat.Allocated)
	}
	return remaining
}

// Suggestions evaluates the advisory rules in fixed order: the 10% savings
// recommendation first, then the over-budget warning. Amounts are rounded
// to whole dollars.
func (p *Planner) Suggestions() []string {
	var suggestions []string

	var savings decimal.Decimal
	for _, cat := range p.allocations.Categories() {
		if cat.Name == savingsCategory {
			savings = cat.Allocated
			break
		}
	}

	target := p.budget.Income.Div(decimal.NewFromInt(10))
	if savings.LessThan(target) {
		suggestions = append(suggestions,
			fmt.Sprintf("Consider allocating at least 10%% to savings ($%s)", target.Round(0)))
	}

	if remaining := p.Remaining(); remaining.LessThan(overBudgetTolerance) {
		suggestions = append(suggestions,
			fmt.Sprintf("You're over budget! Reduce allocations by $%s", remaining.Abs().Round(0)))
	}

	return suggestions
}

// SetAllocation parses a raw allocation value and applies it to the
// category optimistically: memory changes immediately, the write happens in
// the background, and a failed write is logged rather than surfaced. It is
// not clamped against the remaining budget; over-allocation is allowed and
// surfaced only through suggestions.
func (p *Planner) SetAllocation(ctx context.Context, categoryID, raw string) error {
	amount := ParseWholeAmount(raw)

	cat, err := p.allocations.SetAllocatedLocal(categoryID, amount)
	if err != nil {
		return err
	}

	p.background.Add(1)
	go func() {
		defer p.background.Done()
		if err := p.storage.PutCategory(context.WithoutCancel(ctx), cat); err != nil {
			slog.Error("failed to persist allocation",
				"category", cat.Name,
				"allocated", cat.Allocated,
				"error", err)
		}
	}()

	return nil
}

// StageIncome parses and stages an income value for the next commit. The
// displayed (committed) income does not change yet.
func (p *Planner) StageIncome(raw string) {
	p.stagedIncome = ParseWholeAmount(raw)
}

// StagePayPeriod stages a pay period for the next commit.
func (p *Planner) StagePayPeriod(period model.PayPeriod) error {
	switch period {
	case model.PayPeriodMonthly, model.PayPeriodBiweekly:
		p.stagedPeriod = period
		return nil
	default:
		return fmt.Errorf("%w: unknown pay period %q", common.ErrValidation, period)
	}
}

// CommitBudget persists the staged budget wholesale. The committed values
// change only after the write succeeds; on failure the previous budget
// remains in effect.
func (p *Planner) CommitBudget(ctx context.Context) error {
	budget := model.Budget{
		ID:        model.BudgetID,
		Income:    p.stagedIncome,
		PayPeriod: p.stagedPeriod,
	}

	if err := p.storage.PutBudget(ctx, budget); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	p.budget = budget
	slog.Info("saved budget", "income", budget.Income, "pay_period", budget.PayPeriod)
	return nil
}

// Flush waits for outstanding background allocation writes; used at
// shutdown and in tests.
func (p *Planner) Flush() {
	p.background.Wait()
}

// ParseWholeAmount parses user input as a non-negative whole currency
// amount: leading zeros are stripped, and empty or unparsable input counts
// as zero.
func ParseWholeAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimLeft(raw, "0")
	if raw == "" {
		return decimal.Zero
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(n)
}
