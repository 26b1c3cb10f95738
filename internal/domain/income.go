package domain

import "time"

// DateLayout is the calendar-day format used by income records. Dates are
// fixed-width, so lexicographic comparison orders them correctly.
const DateLayout = "2006-01-02"

// DailyIncome is an immutable income record: no update operation exists.
type DailyIncome struct {
	UID       string
	Amount    float64
	Date      string // YYYY-MM-DD, no time component
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IncomeFromNode maps a raw income node to its typed form.
func IncomeFromNode(n *GraphNode) *DailyIncome {
	return &DailyIncome{
		UID:       n.UID,
		Amount:    n.FloatProp("amount"),
		Date:      n.StringProp("date"),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// Props returns the persisted property map for the income record.
func (d *DailyIncome) Props() map[string]any {
	return map[string]any{
		"amount": d.Amount,
		"date":   d.Date,
	}
}

// RecordIncomeRequest holds parameters for appending an income record.
type RecordIncomeRequest struct {
	Amount *float64
	Date   string
}

// Validate checks that the request is well-formed.
func (r *RecordIncomeRequest) Validate() error {
	if r.Amount == nil {
		return ErrValidation("amount is required")
	}
	if *r.Amount < 0 {
		return ErrValidation("amount must be non-negative")
	}
	if r.Date == "" {
		return ErrValidation("date is required")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrValidation("date must be a valid YYYY-MM-DD calendar date")
	}
	return nil
}

// IncomeQuery selects a date range of a grocery's incomes. Bounds are
// inclusive; empty bounds are open. Mine scopes the read to groceries the
// caller is responsible for, which is the only income read a non-admin may
// perform.
type IncomeQuery struct {
	Mine bool
	From string
	To   string
}

// Validate checks that any present bounds are calendar dates.
func (q *IncomeQuery) Validate() error {
	for _, d := range []string{q.From, q.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return ErrValidation("date bound %q must be a valid YYYY-MM-DD calendar date", d)
		}
	}
	return nil
}

// IncomeSummary is the filtered income sequence plus its aggregates.
type IncomeSummary struct {
	GroceryUID string
	Count      int
	Total      float64
	Incomes    []DailyIncome
}
