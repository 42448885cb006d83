package verify

import (
	"time"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

// Audit frame column names, matching the check_results table.
const (
	ColCheckLevel       = "check_level"
	ColCheckName        = "check_name"
	ColConstraint       = "constraint"
	ColConstraintStatus = "constraint_status"
	ColMessage          = "constraint_message"
	ColRunID            = "run_id"
	ColRecordedAt       = "recorded_at"
)

// Result is one evaluated constraint: exactly one per constraint per run,
// regardless of outcome.
type Result struct {
	CheckLevel Level
	CheckName  string
	Constraint string
	Status     Status
	Message    string
}

// Report is the ordered union of constraint results for one or more check
// suites. Order follows suite declaration order; nothing is deduplicated.
type Report struct {
	Results []Result
}

// Union returns a new report with other's results appended after r's.
// Neither input is modified.
func (r *Report) Union(other *Report) *Report {
	out := &Report{Results: make([]Result, 0, len(r.Results)+len(other.Results))}
	out.Results = append(out.Results, r.Results...)
	out.Results = append(out.Results, other.Results...)
	return out
}

// Failures returns the results whose status is not Success.
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status != StatusSuccess {
			failed = append(failed, res)
		}
	}
	return failed
}

// HasFailures reports whether any constraint did not pass.
func (r *Report) HasFailures() bool {
	return len(r.Failures()) > 0
}

// Frame renders the report as an engine frame in the check_results shape.
// runID and recordedAt are stamped onto every row as run metadata.
func (r *Report) Frame(runID string, recordedAt time.Time) *engine.Frame {
	cols := []engine.Column{
		{Name: ColCheckLevel, Kind: engine.String},
		{Name: ColCheckName, Kind: engine.String},
		{Name: ColConstraint, Kind: engine.String},
		{Name: ColConstraintStatus, Kind: engine.String},
		{Name: ColMessage, Kind: engine.String},
		{Name: ColRunID, Kind: engine.String},
		{Name: ColRecordedAt, Kind: engine.Timestamp},
	}
	rows := make([]engine.Row, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, engine.Row{
			ColCheckLevel:       string(res.CheckLevel),
			ColCheckName:        res.CheckName,
			ColConstraint:       res.Constraint,
			ColConstraintStatus: string(res.Status),
			ColMessage:          res.Message,
			ColRunID:            runID,
			ColRecordedAt:       recordedAt,
		})
	}
	return &engine.Frame{Columns: cols, Rows: rows}
}
