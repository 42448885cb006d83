package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

func frameWith(column string, values ...any) *engine.Frame {
	f := &engine.Frame{Columns: []engine.Column{{Name: column, Kind: engine.Int}}}
	for _, v := range values {
		row := engine.Row{}
		if v != nil {
			row[column] = v
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

func TestSizeConstraint(t *testing.T) {
	f := frameWith("Id", int64(1), int64(2), int64(3))

	status, _ := evaluate(SizeConstraint{Pred: AtLeast(3)}, f)
	assert.Equal(t, StatusSuccess, status)

	status, msg := evaluate(SizeConstraint{Pred: AtLeast(4)}, f)
	assert.Equal(t, StatusFailure, status)
	assert.Equal(t, "size 3 does not satisfy >= 4", msg)
}

func TestCompleteConstraint(t *testing.T) {
	status, _ := evaluate(CompleteConstraint{Column: "Id"}, frameWith("Id", int64(1), int64(2)))
	assert.Equal(t, StatusSuccess, status)

	status, msg := evaluate(CompleteConstraint{Column: "Id"}, frameWith("Id", int64(1), nil, nil))
	assert.Equal(t, StatusFailure, status)
	assert.Contains(t, msg, "2 null values")
}

func TestUniqueConstraint(t *testing.T) {
	// NULLs are ignored; only duplicated non-null values fail.
	status, _ := evaluate(UniqueConstraint{Column: "Id"}, frameWith("Id", int64(1), int64(2), nil, nil))
	assert.Equal(t, StatusSuccess, status)

	status, msg := evaluate(UniqueConstraint{Column: "Id"}, frameWith("Id", int64(1), int64(1), int64(2)))
	assert.Equal(t, StatusFailure, status)
	assert.Contains(t, msg, "1 duplicated values")
}

func TestNonNegativeConstraint(t *testing.T) {
	// Not a completeness check: NULLs pass.
	status, _ := evaluate(NonNegativeConstraint{Column: "Id"}, frameWith("Id", int64(0), int64(5), nil))
	assert.Equal(t, StatusSuccess, status)

	status, msg := evaluate(NonNegativeConstraint{Column: "Id"}, frameWith("Id", int64(-1), int64(2), int64(-7)))
	assert.Equal(t, StatusFailure, status)
	assert.Contains(t, msg, "2 negative values")
}

func TestCompletenessArithmetic(t *testing.T) {
	// 4 of 10 non-null: 0.4 < 0.5 fails; 5 of 10: 0.5 >= 0.5 passes.
	four := frameWith("Title", int64(1), int64(2), int64(3), int64(4), nil, nil, nil, nil, nil, nil)
	five := frameWith("Title", int64(1), int64(2), int64(3), int64(4), int64(5), nil, nil, nil, nil, nil)

	c := CompletenessConstraint{Column: "Title", Pred: AtLeast(0.5), Hint: "It should be above 0.5!"}

	status, msg := evaluate(c, four)
	assert.Equal(t, StatusFailure, status)
	assert.Equal(t, "value 0.4 does not meet the constraint requirement! It should be above 0.5!", msg)

	status, _ = evaluate(c, five)
	assert.Equal(t, StatusSuccess, status)
}

func TestCompletenessEmptyTableIsVacuous(t *testing.T) {
	empty := &engine.Frame{Columns: []engine.Column{{Name: "Id", Kind: engine.Int}}}
	assert.Equal(t, 1.0, Completeness(empty, "Id"))
}

func TestContainedInConstraint(t *testing.T) {
	f := &engine.Frame{
		Columns: []engine.Column{{Name: "PostTypeId", Kind: engine.Int}},
		Rows: []engine.Row{
			{"PostTypeId": int64(1)},
			{"PostTypeId": int64(2)},
			{},
		},
	}

	// Membership compares canonical string forms, so int64(1) matches "1".
	status, _ := evaluate(ContainedInConstraint{Column: "PostTypeId", Allowed: []string{"1", "2"}}, f)
	assert.Equal(t, StatusSuccess, status)

	status, msg := evaluate(ContainedInConstraint{Column: "PostTypeId", Allowed: []string{"1"}}, f)
	assert.Equal(t, StatusFailure, status)
	assert.Contains(t, msg, "1 values outside the allowed set")
}

func TestMissingColumnFails(t *testing.T) {
	f := frameWith("Id", int64(1))
	for _, c := range []Constraint{
		CompleteConstraint{Column: "Nope"},
		UniqueConstraint{Column: "Nope"},
		NonNegativeConstraint{Column: "Nope"},
		CompletenessConstraint{Column: "Nope", Pred: AtLeast(0.5)},
		ContainedInConstraint{Column: "Nope", Allowed: []string{"1"}},
	} {
		status, msg := evaluate(c, f)
		assert.Equal(t, StatusFailure, status, c.Describe())
		assert.Contains(t, msg, "column Nope not found")
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "hasSize(>= 20000)", SizeConstraint{Pred: AtLeast(20000)}.Describe())
	assert.Equal(t, "isUnique(Id)", UniqueConstraint{Column: "Id"}.Describe())
	assert.Equal(t, "hasCompleteness(Tags, >= 0.44)",
		CompletenessConstraint{Column: "Tags", Pred: AtLeast(0.44)}.Describe())
	assert.Equal(t, "isContainedIn(ContentLicense)",
		ContainedInConstraint{Column: "ContentLicense"}.Describe())
}
