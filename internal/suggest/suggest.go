// Package suggest profiles a table and proposes validation constraints for
// it, emitted as ready-to-paste check builder code. It is a starting point
// for tuning a suite against a new dump, not a substitute for review.
package suggest

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

// containedInLimit is the highest distinct-value count for which a
// set-membership constraint is proposed.
const containedInLimit = 10

// Suggestion is one proposed constraint.
type Suggestion struct {
	Column string // empty for table-level suggestions
	Code   string // fluent builder fragment
	Reason string
}

// Profile materializes the table and returns constraint suggestions: a size
// floor for the table, then per-column proposals in schema order.
func Profile(t *engine.Table) ([]Suggestion, error) {
	f, err := t.Materialize()
	if err != nil {
		return nil, err
	}

	suggestions := []Suggestion{{
		Code:   fmt.Sprintf("HasSize(verify.AtLeast(%d))", len(f.Rows)),
		Reason: fmt.Sprintf("table has %d rows", len(f.Rows)),
	}}

	for _, col := range f.Columns {
		suggestions = append(suggestions, profileColumn(f, col)...)
	}
	return suggestions, nil
}

// profileColumn derives the proposals for one column.
func profileColumn(f *engine.Frame, col engine.Column) []Suggestion {
	total := len(f.Rows)
	nonNull := 0
	negatives := 0
	distinct := make(map[string]int)

	for _, r := range f.Rows {
		if r.IsNull(col.Name) {
			continue
		}
		nonNull++
		distinct[engine.FormatValue(r[col.Name])]++
		if x, ok := engine.AsFloat(r[col.Name]); ok && x < 0 {
			negatives++
		}
	}

	var out []Suggestion
	if nonNull == 0 {
		return out
	}

	if nonNull == total {
		out = append(out, Suggestion{
			Column: col.Name,
			Code:   fmt.Sprintf("IsComplete(%q)", col.Name),
			Reason: "column is never null",
		})
	} else {
		frac := completenessFloor(float64(nonNull) / float64(total))
		out = append(out, Suggestion{
			Column: col.Name,
			Code: fmt.Sprintf("HasCompleteness(%q, verify.AtLeast(%g), %q)",
				col.Name, frac, fmt.Sprintf("It should be above %g!", frac)),
			Reason: fmt.Sprintf("%d of %d values present", nonNull, total),
		})
	}

	if (col.Kind == engine.Int || col.Kind == engine.Float) && negatives == 0 {
		out = append(out, Suggestion{
			Column: col.Name,
			Code:   fmt.Sprintf("IsNonNegative(%q)", col.Name),
			Reason: "no negative values observed",
		})
	}

	if len(distinct) == nonNull && nonNull > 1 {
		out = append(out, Suggestion{
			Column: col.Name,
			Code:   fmt.Sprintf("IsUnique(%q)", col.Name),
			Reason: "all values are distinct",
		})
	} else if len(distinct) <= containedInLimit {
		out = append(out, Suggestion{
			Column: col.Name,
			Code:   fmt.Sprintf("IsContainedIn(%q, %s)", col.Name, literalSet(distinct)),
			Reason: fmt.Sprintf("only %d distinct values", len(distinct)),
		})
	}

	return out
}

// completenessFloor rounds a fraction down to two decimals so the proposed
// threshold holds for the profiled data with a little slack.
func completenessFloor(frac float64) float64 {
	return math.Floor(frac*100) / 100
}

// literalSet renders the observed values as a Go string-slice literal,
// sorted for stable output.
func literalSet(distinct map[string]int) string {
	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
