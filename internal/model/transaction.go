package model

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Transaction represents a single dated expense entry against a category.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Category    string // category name reference, not an enforced foreign key
	Amount      decimal.Decimal
}

// NewID returns a ULID: unique, and lexicographically ordered by creation
// time, so ids from later records always sort after earlier ones.
func NewID() string {
	return ulid.Make().String()
}
