package model

// DateRange selects the time window for filtered transaction listings.
type DateRange string

const (
	// RangeWeek covers the last seven days, from local midnight.
	RangeWeek DateRange = "week"
	// RangeMonth covers the current calendar month.
	RangeMonth DateRange = "month"
	// RangeYear covers the current calendar year.
	RangeYear DateRange = "year"
	// RangeAll imposes no date bound.
	RangeAll DateRange = "all"
)

// CategoryAll is the filter sentinel that matches every category.
const CategoryAll = "All"
