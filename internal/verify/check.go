package verify

// Level is the severity class of a check suite.
type Level string

// Check severity levels. Every suite in this pipeline runs at LevelWarning;
// individual failures never raise, they only gate the commit in aggregate.
const (
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// Status is a single constraint outcome.
type Status string

// Constraint outcome statuses.
const (
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
)

// Check is a named, ordered list of constraints evaluated against one table.
// The fluent builder methods append constraints and return the check, so a
// suite reads as a single declaration.
type Check struct {
	level       Level
	name        string
	constraints []Constraint
}

// NewCheck returns an empty check with the given severity and name.
func NewCheck(level Level, name string) *Check {
	return &Check{level: level, name: name}
}

// HasSize appends a row-count constraint.
func (c *Check) HasSize(pred NumPredicate) *Check {
	c.constraints = append(c.constraints, SizeConstraint{Pred: pred})
	return c
}

// IsComplete appends a no-NULLs constraint on column.
func (c *Check) IsComplete(column string) *Check {
	c.constraints = append(c.constraints, CompleteConstraint{Column: column})
	return c
}

// IsUnique appends a no-duplicates constraint on column.
func (c *Check) IsUnique(column string) *Check {
	c.constraints = append(c.constraints, UniqueConstraint{Column: column})
	return c
}

// IsNonNegative appends a values >= 0 constraint on column.
func (c *Check) IsNonNegative(column string) *Check {
	c.constraints = append(c.constraints, NonNegativeConstraint{Column: column})
	return c
}

// HasCompleteness appends a non-NULL-fraction constraint on column. The hint
// is attached to the report row when the predicate fails.
func (c *Check) HasCompleteness(column string, pred NumPredicate, hint string) *Check {
	c.constraints = append(c.constraints, CompletenessConstraint{Column: column, Pred: pred, Hint: hint})
	return c
}

// IsContainedIn appends a set-membership constraint on column.
func (c *Check) IsContainedIn(column string, allowed []string) *Check {
	c.constraints = append(c.constraints, ContainedInConstraint{Column: column, Allowed: allowed})
	return c
}

// Name returns the check suite name.
func (c *Check) Name() string { return c.name }

// Size returns the number of constraints in the check.
func (c *Check) Size() int { return len(c.constraints) }
