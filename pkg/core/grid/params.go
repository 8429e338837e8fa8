package grid

import (
	"fmt"
	"math"
)

// Policy selects how row heights are bounded.
type Policy string

// Layout policies.
const (
	// PolicyFixedRowHeight caps each row at an evenly distributed height budget.
	PolicyFixedRowHeight Policy = "fixed-row-height"

	// PolicyChimney fills width on every row, then scales all rows down to fit.
	PolicyChimney Policy = "chimney"
)

// DefaultPolicy is used when no policy is set.
const DefaultPolicy = PolicyFixedRowHeight

// Column and row bounds accepted from user input.
const (
	MinColumns = 1
	MaxColumns = 8
	MinRowsMin = 1
	MinRowsMax = 6
)

// ParsePolicy converts a string to a Policy. The empty string maps to [DefaultPolicy].
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return DefaultPolicy, nil
	case PolicyFixedRowHeight, PolicyChimney:
		return Policy(s), nil
	}
	return "", fmt.Errorf("invalid policy: %q (must be one of: %s, %s)", s, PolicyFixedRowHeight, PolicyChimney)
}

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p == "" {
		return string(DefaultPolicy)
	}
	return string(p)
}

// Params are the inputs to a packing run besides the items themselves.
type Params struct {
	Columns int     `json:"columns"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Gap     float64 `json:"gap"`
	MinRows int     `json:"min_rows"`
	Policy  Policy  `json:"policy"`
}

// Measured reports whether the container dimensions are usable.
func (p Params) Measured() bool {
	return p.Width > 0 && p.Height > 0 && !math.IsInf(p.Width, 0) && !math.IsInf(p.Height, 0)
}

// Validate checks the user-facing bounds: 1–8 columns, 1–6 minimum rows and a
// known policy. Pack itself tolerates values outside these bounds.
func (p Params) Validate() error {
	if p.Columns < MinColumns || p.Columns > MaxColumns {
		return fmt.Errorf("columns must be between %d and %d, got %d", MinColumns, MaxColumns, p.Columns)
	}
	if p.MinRows < MinRowsMin || p.MinRows > MinRowsMax {
		return fmt.Errorf("min rows must be between %d and %d, got %d", MinRowsMin, MinRowsMax, p.MinRows)
	}
	if p.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %v", p.Gap)
	}
	if _, err := ParsePolicy(string(p.Policy)); err != nil {
		return err
	}
	return nil
}

// RowCount returns the number of rows n items occupy: ceil(n / Columns).
func (p Params) RowCount(n int) int {
	if n <= 0 || p.Columns < 1 {
		return 0
	}
	return (n + p.Columns - 1) / p.Columns
}

// RowBudget returns the fixed-row-height cap for a grid of n items: the height
// each of max(rowCount, MinRows) equal rows would have if they exactly filled
// the available height. Negative budgets clamp to zero.
func (p Params) RowBudget(n int) float64 {
	rows := max(p.RowCount(n), p.MinRows, 1)
	h := (p.Height - float64(rows-1)*p.Gap) / float64(rows)
	return max(h, 0)
}
