package model

import "github.com/shopspring/decimal"

// CategoryType classifies a category for display purposes only; no logic
// branches on it.
type CategoryType string

const (
	// CategoryTypeEssential marks categories seeded for fixed living costs.
	CategoryTypeEssential CategoryType = "essential"
	// CategoryTypeSavings marks the savings bucket.
	CategoryTypeSavings CategoryType = "savings"
	// CategoryTypeCustom marks user-created categories.
	CategoryTypeCustom CategoryType = "custom"
)

// Category is a named spending bucket with an allocation target and a
// running spent total. Name is the join key to transactions and must stay
// unique among active categories.
type Category struct {
	ID        string
	Name      string
	Type      CategoryType
	Allocated decimal.Decimal
	Spent     decimal.Decimal
	Position  int // explicit display order, reassigned on reorder
}
