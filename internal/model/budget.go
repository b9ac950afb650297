package model

import "github.com/shopspring/decimal"

// PayPeriod is how often income arrives.
type PayPeriod string

const (
	// PayPeriodMonthly is income received once a month.
	PayPeriodMonthly PayPeriod = "monthly"
	// PayPeriodBiweekly is income received every two weeks.
	PayPeriodBiweekly PayPeriod = "biweekly"
)

// BudgetID is the fixed id of the single budget record. Saving always
// overwrites this one row.
const BudgetID = "current"

// Budget is the income declaration: how much arrives per pay period. The
// remaining balance is derived, never stored.
type Budget struct {
	ID        string
	Income    decimal.Decimal
	PayPeriod PayPeriod
}

// DefaultBudget is the budget in effect before the first save: zero income,
// monthly.
func DefaultBudget() Budget {
	return Budget{
		ID:        BudgetID,
		Income:    decimal.Zero,
		PayPeriod: PayPeriodMonthly,
	}
}
