package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/testutil"
)

// recordedDelta captures one ApplyDelta call for assertions.
type recordedDelta struct {
	category string
	delta    decimal.Decimal
}

type fakeRecorder struct {
	deltas []recordedDelta
}

func (f *fakeRecorder) ApplyDelta(_ context.Context, category string, delta decimal.Decimal) error {
	f.deltas = append(f.deltas, recordedDelta{category: category, delta: delta})
	return nil
}

func setupStore(t *testing.T) (*Store, *fakeRecorder) {
	t.Helper()

	recorder := &fakeRecorder{}
	store := NewStore(testutil.SetupTestDB(t), recorder)
	require.NoError(t, store.Load(context.Background()))
	return store, recorder
}

func TestStore_Add(t *testing.T) {
	store, recorder := setupStore(t)
	ctx := context.Background()

	txn, err := store.Add(ctx, Draft{
		Description: "Coffee",
		Amount:      "4.50",
		Category:    "Groceries",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "Coffee", txn.Description)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("4.50")))
	assert.False(t, txn.Date.IsZero())

	require.Len(t, recorder.deltas, 1)
	assert.Equal(t, "Groceries", recorder.deltas[0].category)
	assert.True(t, recorder.deltas[0].delta.Equal(decimal.RequireFromString("4.50")))

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, txn.ID, all[0].ID)
}

func TestStore_Add_Validation(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft Draft
	}{
		{name: "empty description", draft: Draft{Amount: "5", Category: "Groceries"}},
		{name: "whitespace description", draft: Draft{Description: "   ", Amount: "5", Category: "Groceries"}},
		{name: "empty category", draft: Draft{Description: "Coffee", Amount: "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Add(ctx, tt.draft)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	assert.Empty(t, store.All())
}

func TestStore_Add_UnparsableAmountCountsAsZero(t *testing.T) {
	store, _ := setupStore(t)

	txn, err := store.Add(context.Background(), Draft{
		Description: "Mystery",
		Amount:      "not a number",
		Category:    "Groceries",
	})
	require.NoError(t, err)
	assert.True(t, txn.Amount.IsZero())
}

func TestStore_Add_SurvivesReload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	recorder := &fakeRecorder{}
	ctx := context.Background()

	store := NewStore(db, recorder)
	require.NoError(t, store.Load(ctx))

	txn, err := store.Add(ctx, Draft{Description: "Coffee", Amount: "4.50", Category: "Groceries"})
	require.NoError(t, err)

	// A fresh store over the same database sees the record.
	reloaded := NewStore(db, recorder)
	require.NoError(t, reloaded.Load(ctx))

	all := reloaded.All()
	require.Len(t, all, 1)
	assert.Equal(t, txn.ID, all[0].ID)
}

func TestStore_Update(t *testing.T) {
	store, recorder := setupStore(t)
	ctx := context.Background()

	txn, err := store.Add(ctx, Draft{Description: "Coffee", Amount: "4.50", Category: "Groceries"})
	require.NoError(t, err)
	recorder.deltas = nil

	txn.Amount = decimal.NewFromInt(6)
	txn.Category = "Fun"
	require.NoError(t, store.Update(ctx, txn))

	// Net out the old record, apply the new one.
	require.Len(t, recorder.deltas, 2)
	assert.Equal(t, "Groceries", recorder.deltas[0].category)
	assert.True(t, recorder.deltas[0].delta.Equal(decimal.RequireFromString("-4.50")))
	assert.Equal(t, "Fun", recorder.deltas[1].category)
	assert.True(t, recorder.deltas[1].delta.Equal(decimal.NewFromInt(6)))

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Fun", all[0].Category)
}

func TestStore_Update_UnchangedAmountEmitsNoDeltas(t *testing.T) {
	store, recorder := setupStore(t)
	ctx := context.Background()

	txn, err := store.Add(ctx, Draft{Description: "Coffee", Amount: "4.50", Category: "Groceries"})
	require.NoError(t, err)
	recorder.deltas = nil

	txn.Description = "Morning coffee"
	require.NoError(t, store.Update(ctx, txn))

	assert.Empty(t, recorder.deltas)
}

func TestStore_Update_Idempotent(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	txn, err := store.Add(ctx, Draft{Description: "Coffee", Amount: "4.50", Category: "Groceries"})
	require.NoError(t, err)

	txn.Description = "Morning coffee"
	require.NoError(t, store.Update(ctx, txn))
	first := store.All()

	// The same payload a second time changes nothing.
	require.NoError(t, store.Update(ctx, txn))
	assert.Equal(t, first, store.All())
}

func TestStore_Update_Missing(t *testing.T) {
	store, _ := setupStore(t)

	err := store.Update(context.Background(), model.Transaction{
		ID:          "no-such-id",
		Description: "Ghost",
		Category:    "Groceries",
		Date:        time.Now(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_Remove(t *testing.T) {
	store, recorder := setupStore(t)
	ctx := context.Background()

	txn, err := store.Add(ctx, Draft{Description: "Coffee", Amount: "4.50", Category: "Groceries"})
	require.NoError(t, err)
	recorder.deltas = nil

	require.NoError(t, store.Remove(ctx, txn.ID))

	assert.Empty(t, store.All())
	require.Len(t, recorder.deltas, 1)
	assert.True(t, recorder.deltas[0].delta.Equal(decimal.RequireFromString("-4.50")))
}

func TestStore_Remove_Missing(t *testing.T) {
	store, _ := setupStore(t)

	err := store.Remove(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_ListFiltered(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	add := func(description, category string, daysAgo int) {
		t.Helper()
		_, err := store.Add(ctx, Draft{
			Description: description,
			Amount:      "10",
			Category:    category,
			Date:        now.AddDate(0, 0, -daysAgo),
		})
		require.NoError(t, err)
	}

	add("Today", "Groceries", 0)
	add("Three days ago", "Groceries", 3)
	add("Ten days ago", "Groceries", 10)
	add("Other category", "Fun", 1)

	collect := func(category string, rng model.DateRange) []string {
		var names []string
		for txn := range store.ListFiltered(category, rng) {
			names = append(names, txn.Description)
		}
		return names
	}

	tests := []struct {
		name     string
		category string
		rng      model.DateRange
		want     []string
	}{
		{
			name:     "week window drops older records",
			category: "Groceries",
			rng:      model.RangeWeek,
			want:     []string{"Today", "Three days ago"},
		},
		{
			name:     "all categories in week window",
			category: model.CategoryAll,
			rng:      model.RangeWeek,
			want:     []string{"Today", "Three days ago", "Other category"},
		},
		{
			name:     "unbounded range keeps everything",
			category: "Groceries",
			rng:      model.RangeAll,
			want:     []string{"Today", "Three days ago", "Ten days ago"},
		},
		{
			name:     "category with no matches",
			category: "Rent",
			rng:      model.RangeAll,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(tt.category, tt.rng))
		})
	}
}

func TestStore_ListFiltered_Restartable(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	for _, description := range []string{"One", "Two", "Three"} {
		_, err := store.Add(ctx, Draft{Description: description, Amount: "1", Category: "Groceries"})
		require.NoError(t, err)
	}

	seq := store.ListFiltered(model.CategoryAll, model.RangeAll)

	// First pass stops early; the second pass starts over in full.
	count := 0
	for range seq {
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)

	count = 0
	for range seq {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain decimal", raw: "4.50", want: "4.5"},
		{name: "whole number", raw: "100", want: "100"},
		{name: "surrounding whitespace", raw: " 12.25 ", want: "12.25"},
		{name: "negative refund", raw: "-8.99", want: "-8.99"},
		{name: "empty", raw: "", want: "0"},
		{name: "garbage", raw: "abc", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		rng         model.DateRange
		want        time.Time
		wantBounded bool
	}{
		{
			name:        "week starts seven days back at midnight",
			rng:         model.RangeWeek,
			want:        time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC),
			wantBounded: true,
		},
		{
			name:        "month starts on the first",
			rng:         model.RangeMonth,
			want:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			wantBounded: true,
		},
		{
			name:        "year starts on January first",
			rng:         model.RangeYear,
			want:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantBounded: true,
		},
		{
			name:        "all is unbounded",
			rng:         model.RangeAll,
			wantBounded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bounded := windowStart(now, tt.rng)
			assert.Equal(t, tt.wantBounded, bounded)
			if tt.wantBounded {
				assert.True(t, got.Equal(tt.want), "windowStart = %s, want %s", got, tt.want)
			}
		})
	}
}
