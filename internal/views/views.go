// Package views builds chart-ready and list-ready projections from the
// current state. Every function here is pure and synchronous: no I/O, no
// mutation of its inputs.
package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findeep/findeep/internal/model"
)

// CategoryBreakdown sums transaction amounts per category name.
// Transactions whose category matches no active category accumulate under
// the Uncategorized bucket. Entries with a zero or negative sum are
// dropped. Output order is unspecified; consumers sort for display.
func CategoryBreakdown(categories []model.Category, txns []model.Transaction) []model.BreakdownEntry {
	known := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Name != "" {
			known[cat.Name] = true
		}
	}

	totals := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		name := txn.Category
		if !known[name] {
			name = model.Uncategorized
		}
		totals[name] = totals[name].Add(txn.Amount)
	}

	entries := make([]model.BreakdownEntry, 0, len(totals))
	for name, total := range totals {
		if total.Sign() <= 0 {
			continue
		}
		entries = append(entries, model.BreakdownEntry{Name: name, Total: total})
	}
	return entries
}

// SpendingTrend returns transactions as chronological points, sorted
// ascending by date. Transactions without a usable date get the current
// time instead of being dropped, so the sequence length always matches the
// input.
func SpendingTrend(txns []model.Transaction, now time.Time) []model.TrendPoint {
	points := make([]model.TrendPoint, 0, len(txns))
	for _, txn := range txns {
		date := txn.Date
		if date.IsZero() {
			date = now
		}
		points = append(points, model.TrendPoint{Date: date, Amount: txn.Amount})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// AllocationChart returns one slice per category with a positive
// allocation, each carrying a pre-formatted label.
func AllocationChart(categories []model.Category) []model.ChartSlice {
	var slices []model.ChartSlice
	for _, cat := range categories {
		if !cat.Allocated.IsPositive() {
			continue
		}
		slices = append(slices, model.ChartSlice{
			Name:      cat.Name,
			Allocated: cat.Allocated,
			Label:     fmt.Sprintf("%s\n$%s", cat.Name, cat.Allocated),
		})
	}
	return slices
}

// Summary computes the tracking header: committed income and what remains
// of it after actual spending across all categories.
func Summary(budget model.Budget, categories []model.Category) model.Summary {
	totalSpent := decimal.Zero
	for _, cat := range categories {
		totalSpent = totalSpent.Add(cat.Spent)
	}

	return model.Summary{
		Income:     budget.Income,
		TotalSpent: totalSpent,
		Remaining:  budget.Income.Sub(totalSpent),
	}
}
