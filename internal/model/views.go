package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Uncategorized is the breakdown bucket for transactions whose category no
// longer exists.
const Uncategorized = "Uncategorized"

// BreakdownEntry is one category's summed spending in the breakdown view.
type BreakdownEntry struct {
	Name  string
	Total decimal.Decimal
}

// TrendPoint is one transaction on the chronological spending trend.
type TrendPoint struct {
	Date   time.Time
	Amount decimal.Decimal
}

// ChartSlice is one allocation wedge with its display label.
type ChartSlice struct {
	Name      string
	Allocated decimal.Decimal
	Label     string
}

// Summary is the tracking header: income against total actual spending.
type Summary struct {
	Income     decimal.Decimal
	TotalSpent decimal.Decimal
	Remaining  decimal.Decimal
}
