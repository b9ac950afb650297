package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/ledger"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/service"
	"github.com/findeep/findeep/internal/testutil"
)

func setupPlanner(t *testing.T) (*Planner, *ledger.Ledger) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	l := ledger.New(db)
	require.NoError(t, l.Load(ctx))
	require.NoError(t, l.EnsureDefaults(ctx))

	p := New(db, l)
	require.NoError(t, p.Load(ctx))
	return p, l
}

func savingsID(t *testing.T, l *ledger.Ledger) string {
	t.Helper()
	for _, cat := range l.Categories() {
		if cat.Name == "Savings" {
			return cat.ID
		}
	}
	t.Fatal("seeded Savings category missing")
	return ""
}

func TestPlanner_Load_DefaultBeforeFirstSave(t *testing.T) {
	p, _ := setupPlanner(t)

	budget := p.Budget()
	assert.Equal(t, model.BudgetID, budget.ID)
	assert.True(t, budget.Income.IsZero())
	assert.Equal(t, model.PayPeriodMonthly, budget.PayPeriod)
}

func TestPlanner_Remaining(t *testing.T) {
	p, l := setupPlanner(t)
	ctx := context.Background()

	p.StageIncome("3000")
	require.NoError(t, p.CommitBudget(ctx))

	require.NoError(t, p.SetAllocation(ctx, savingsID(t, l), "200"))
	p.Flush()

	assert.True(t, p.Remaining().Equal(decimal.NewFromInt(2800)),
		"remaining = %s, want 2800", p.Remaining())
}

func TestPlanner_Suggestions(t *testing.T) {
	tests := []struct {
		name    string
		income  string
		savings string
		rent    string
		want    []string
	}{
		{
			name:    "savings below ten percent",
			income:  "3000",
			savings: "200",
			want:    []string{"Consider allocating at least 10% to savings ($300)"},
		},
		{
			name:    "savings at target",
			income:  "3000",
			savings: "300",
			want:    nil,
		},
		{
			name:    "over budget past tolerance",
			income:  "1000",
			savings: "100",
			rent:    "1000",
			want:    []string{"You're over budget! Reduce allocations by $100"},
		},
		{
			name:    "slightly over budget stays quiet",
			income:  "1000",
			savings: "100",
			rent:    "940",
			want:    nil,
		},
		{
			name:    "both rules fire in order",
			income:  "1000",
			savings: "0",
			rent:    "1100",
			want: []string{
				"Consider allocating at least 10% to savings ($100)",
				"You're over budget! Reduce allocations by $200",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, l := setupPlanner(t)
			ctx := context.Background()

			p.StageIncome(tt.income)
			require.NoError(t, p.CommitBudget(ctx))

			require.NoError(t, p.SetAllocation(ctx, savingsID(t, l), tt.savings))
			if tt.rent != "" {
				var rentID string
				for _, cat := range l.Categories() {
					if cat.Name == "Rent" {
						rentID = cat.ID
					}
				}
				require.NoError(t, p.SetAllocation(ctx, rentID, tt.rent))
			}
			p.Flush()

			assert.Equal(t, tt.want, p.Suggestions())
		})
	}
}

func TestPlanner_SetAllocation_PersistsInBackground(t *testing.T) {
	p, l := setupPlanner(t)
	ctx := context.Background()

	id := savingsID(t, l)
	require.NoError(t, p.SetAllocation(ctx, id, "250"))

	// Memory reflects the edit immediately.
	for _, cat := range l.Categories() {
		if cat.ID == id {
			assert.True(t, cat.Allocated.Equal(decimal.NewFromInt(250)))
		}
	}

	p.Flush()

	// After the flush the write has landed.
	fresh := ledger.New(storageOf(p))
	require.NoError(t, fresh.Load(ctx))
	for _, cat := range fresh.Categories() {
		if cat.ID == id {
			assert.True(t, cat.Allocated.Equal(decimal.NewFromInt(250)))
		}
	}
}

func storageOf(p *Planner) service.Storage {
	return p.storage
}

func TestPlanner_SetAllocation_UnknownCategory(t *testing.T) {
	p, _ := setupPlanner(t)

	err := p.SetAllocation(context.Background(), "no-such-id", "100")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPlanner_StagePayPeriod(t *testing.T) {
	p, _ := setupPlanner(t)

	require.NoError(t, p.StagePayPeriod(model.PayPeriodBiweekly))

	err := p.StagePayPeriod("weekly")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPlanner_CommitBudget_TwoPhase(t *testing.T) {
	p, _ := setupPlanner(t)
	ctx := context.Background()

	// Staging alone changes nothing visible.
	p.StageIncome("3000")
	require.NoError(t, p.StagePayPeriod(model.PayPeriodBiweekly))
	assert.True(t, p.Budget().Income.IsZero())
	assert.Equal(t, model.PayPeriodMonthly, p.Budget().PayPeriod)

	require.NoError(t, p.CommitBudget(ctx))
	assert.True(t, p.Budget().Income.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, model.PayPeriodBiweekly, p.Budget().PayPeriod)
}

func TestPlanner_CommitBudget_FailureLeavesBudgetUnchanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	l := ledger.New(db)
	require.NoError(t, l.Load(ctx))
	require.NoError(t, l.EnsureDefaults(ctx))

	failing := &failingStorage{Storage: db, putBudgetErr: errors.New("disk full")}
	p := New(failing, l)
	require.NoError(t, p.Load(ctx))

	p.StageIncome("3000")
	err := p.CommitBudget(ctx)
	require.Error(t, err)

	// The committed budget stays at its previous value.
	assert.True(t, p.Budget().Income.IsZero())
}

// failingStorage wraps a real storage and fails selected writes.
type failingStorage struct {
	service.Storage
	putBudgetErr error
}

func (f *failingStorage) PutBudget(ctx context.Context, budget model.Budget) error {
	if f.putBudgetErr != nil {
		return f.putBudgetErr
	}
	return f.Storage.PutBudget(ctx, budget)
}

func TestParseWholeAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{name: "plain number", raw: "3000", want: 3000},
		{name: "leading zeros stripped", raw: "007", want: 7},
		{name: "all zeros", raw: "000", want: 0},
		{name: "empty", raw: "", want: 0},
		{name: "whitespace", raw: "  42  ", want: 42},
		{name: "garbage", raw: "abc", want: 0},
		{name: "negative", raw: "-5", want: 0},
		{name: "decimal input", raw: "10.50", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWholeAmount(tt.raw)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)),
				"ParseWholeAmount(%q) = %s, want %d", tt.raw, got, tt.want)
		})
	}
}
