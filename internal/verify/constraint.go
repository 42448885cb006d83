// Package verify implements the declarative constraint validation engine:
// per-table check suites built from a fixed set of constraint kinds, run in
// full (never short-circuiting) to produce one report row per constraint.
package verify

import (
	"fmt"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

// NumPredicate is a named predicate over a number (a row count or a
// completeness fraction). Desc appears in constraint descriptions and
// failure messages.
type NumPredicate struct {
	Desc string
	Test func(float64) bool
}

// AtLeast returns a predicate satisfied by values >= n.
func AtLeast(n float64) NumPredicate {
	return NumPredicate{
		Desc: fmt.Sprintf(">= %g", n),
		Test: func(x float64) bool { return x >= n },
	}
}

// Constraint is the sealed set of data-quality rules. Concrete variants
// carry their column name and threshold; evaluate type-switches over them.
type Constraint interface {
	// Describe renders the canonical constraint name used in report rows.
	Describe() string
}

// SizeConstraint asserts a predicate over the table row count.
type SizeConstraint struct {
	Pred NumPredicate
}

// CompleteConstraint asserts a column has no NULL values.
type CompleteConstraint struct {
	Column string
}

// UniqueConstraint asserts a column has no duplicated non-NULL values.
type UniqueConstraint struct {
	Column string
}

// NonNegativeConstraint asserts every non-NULL value in a numeric column
// is >= 0. NULLs are permitted; completeness is a separate constraint.
type NonNegativeConstraint struct {
	Column string
}

// CompletenessConstraint asserts the fraction of non-NULL values over total
// rows satisfies a predicate. Hint is attached to the report row on failure.
type CompletenessConstraint struct {
	Column string
	Pred   NumPredicate
	Hint   string
}

// ContainedInConstraint asserts every non-NULL value belongs to a fixed set
// of allowed literals, compared in canonical string form.
type ContainedInConstraint struct {
	Column  string
	Allowed []string
}

func (c SizeConstraint) Describe() string {
	return fmt.Sprintf("hasSize(%s)", c.Pred.Desc)
}

func (c CompleteConstraint) Describe() string {
	return fmt.Sprintf("isComplete(%s)", c.Column)
}

func (c UniqueConstraint) Describe() string {
	return fmt.Sprintf("isUnique(%s)", c.Column)
}

func (c NonNegativeConstraint) Describe() string {
	return fmt.Sprintf("isNonNegative(%s)", c.Column)
}

func (c CompletenessConstraint) Describe() string {
	return fmt.Sprintf("hasCompleteness(%s, %s)", c.Column, c.Pred.Desc)
}

func (c ContainedInConstraint) Describe() string {
	return fmt.Sprintf("isContainedIn(%s)", c.Column)
}

// evaluate runs one constraint against a materialized frame and returns the
// outcome status plus a diagnostic message (empty on success).
func evaluate(c Constraint, f *engine.Frame) (Status, string) {
	switch v := c.(type) {
	case SizeConstraint:
		n := len(f.Rows)
		if v.Pred.Test(float64(n)) {
			return StatusSuccess, ""
		}
		return StatusFailure, fmt.Sprintf("size %d does not satisfy %s", n, v.Pred.Desc)

	case CompleteConstraint:
		if !f.HasColumn(v.Column) {
			return StatusFailure, missingColumn(v.Column)
		}
		nulls := 0
		for _, r := range f.Rows {
			if r.IsNull(v.Column) {
				nulls++
			}
		}
		if nulls == 0 {
			return StatusSuccess, ""
		}
		return StatusFailure, fmt.Sprintf("column %s has %d null values", v.Column, nulls)

	case UniqueConstraint:
		if !f.HasColumn(v.Column) {
			return StatusFailure, missingColumn(v.Column)
		}
		seen := make(map[string]int)
		for _, r := range f.Rows {
			if r.IsNull(v.Column) {
				continue
			}
			seen[engine.FormatValue(r[v.Column])]++
		}
		dups := 0
		for _, n := range seen {
			if n > 1 {
				dups++
			}
		}
		if dups == 0 {
			return StatusSuccess, ""
		}
		return StatusFailure, fmt.Sprintf("column %s has %d duplicated values", v.Column, dups)

	case NonNegativeConstraint:
		if !f.HasColumn(v.Column) {
			return StatusFailure, missingColumn(v.Column)
		}
		negatives := 0
		for _, r := range f.Rows {
			if r.IsNull(v.Column) {
				continue
			}
			if x, ok := engine.AsFloat(r[v.Column]); ok && x < 0 {
				negatives++
			}
		}
		if negatives == 0 {
			return StatusSuccess, ""
		}
		return StatusFailure, fmt.Sprintf("column %s has %d negative values", v.Column, negatives)

	case CompletenessConstraint:
		if !f.HasColumn(v.Column) {
			return StatusFailure, missingColumn(v.Column)
		}
		frac := Completeness(f, v.Column)
		if v.Pred.Test(frac) {
			return StatusSuccess, ""
		}
		msg := fmt.Sprintf("value %g does not meet the constraint requirement!", frac)
		if v.Hint != "" {
			msg += " " + v.Hint
		}
		return StatusFailure, msg

	case ContainedInConstraint:
		if !f.HasColumn(v.Column) {
			return StatusFailure, missingColumn(v.Column)
		}
		allowed := make(map[string]bool, len(v.Allowed))
		for _, a := range v.Allowed {
			allowed[a] = true
		}
		outside := 0
		for _, r := range f.Rows {
			if r.IsNull(v.Column) {
				continue
			}
			if !allowed[engine.FormatValue(r[v.Column])] {
				outside++
			}
		}
		if outside == 0 {
			return StatusSuccess, ""
		}
		return StatusFailure, fmt.Sprintf("column %s has %d values outside the allowed set", v.Column, outside)

	default:
		return StatusFailure, fmt.Sprintf("unknown constraint %T", c)
	}
}

// Completeness returns the fraction of non-NULL values in the column over
// the total row count. An empty table is vacuously complete.
func Completeness(f *engine.Frame, column string) float64 {
	if len(f.Rows) == 0 {
		return 1.0
	}
	nonNull := 0
	for _, r := range f.Rows {
		if !r.IsNull(column) {
			nonNull++
		}
	}
	return float64(nonNull) / float64(len(f.Rows))
}

func missingColumn(name string) string {
	return fmt.Sprintf("column %s not found", name)
}
