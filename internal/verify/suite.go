package verify

import "github.com/mesh-intelligence/stackhouse/internal/engine"

// Suite binds check suites to a table and runs the full battery. Evaluation
// never stops at a failure: every constraint of every check contributes
// exactly one result row.
type Suite struct {
	table  *engine.Table
	checks []*Check
}

// NewSuite returns an empty verification suite.
func NewSuite() *Suite {
	return &Suite{}
}

// OnData sets the table under verification.
func (s *Suite) OnData(t *engine.Table) *Suite {
	s.table = t
	return s
}

// AddCheck appends a check to the suite.
func (s *Suite) AddCheck(c *Check) *Suite {
	s.checks = append(s.checks, c)
	return s
}

// Run materializes the table once and evaluates every check in order.
// The only error path is table materialization; constraint failures are
// data in the report, not errors.
func (s *Suite) Run() (*Report, error) {
	frame, err := s.table.Materialize()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, check := range s.checks {
		for _, constraint := range check.constraints {
			status, message := evaluate(constraint, frame)
			report.Results = append(report.Results, Result{
				CheckLevel: check.level,
				CheckName:  check.name,
				Constraint: constraint.Describe(),
				Status:     status,
				Message:    message,
			})
		}
	}
	return report, nil
}
