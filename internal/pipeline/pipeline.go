// Package pipeline drives a single load run end to end: load the posts and
// tags XML, derive the posts_tags association, snapshot everything to
// parquet, run the validation suites, and gate the SQLite commit on the
// aggregated report.
//
// A run is one linear pass through LOADING, DERIVING, VALIDATING and then
// either COMMITTED or ABORTED; there is no retry loop. Only the commit gate
// touches the relational store, so cancellation at any earlier point leaves
// the warehouse exactly as the previous run left it. The check_results
// audit table is written on both outcomes; the entity tables only on
// COMMITTED, all-or-nothing.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stackhouse/internal/dataset"
	"github.com/mesh-intelligence/stackhouse/internal/engine"
	"github.com/mesh-intelligence/stackhouse/internal/sqlite"
	"github.com/mesh-intelligence/stackhouse/internal/verify"
	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// Stage names a pipeline phase for logs and errors.
type Stage string

// Pipeline stages. Committed and Aborted are terminal.
const (
	StageLoading    Stage = "LOADING"
	StageDeriving   Stage = "DERIVING"
	StageValidating Stage = "VALIDATING"
	StageCommitted  Stage = "COMMITTED"
	StageAborted    Stage = "ABORTED"
)

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg types.Config
	log *zap.Logger
}

// New returns a Runner for cfg, logging through log.
func New(cfg types.Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run performs one pipeline attempt. The returned report is non-nil
// whenever validation completed, including on ErrValidationFailed, so
// callers can show the failing constraints.
func (r *Runner) Run(ctx context.Context) (*verify.Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	runID, err := newRunID()
	if err != nil {
		return nil, err
	}
	log := r.log.With(zap.String("run_id", runID), zap.String("work_dir", r.cfg.WorkDir))

	// LOADING and DERIVING only declare tables; the snapshot writes below
	// force evaluation, so load failures surface there.
	log.Info("loading datasets", zap.String("stage", string(StageLoading)))
	posts := dataset.LoadPosts(r.cfg)
	tags := dataset.LoadTags(r.cfg)

	log.Info("deriving association", zap.String("stage", string(StageDeriving)))
	postsTags := dataset.DerivePostsTags(posts, tags)

	for _, s := range []struct {
		name  string
		write func(string) error
	}{
		{"posts", posts.Snapshot},
		{"tags", tags.Snapshot},
		{"posts_tags", postsTags.Snapshot},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.write(r.cfg.WorkDir); err != nil {
			return nil, fmt.Errorf("snapshotting %s: %w", s.name, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("running validation suites", zap.String("stage", string(StageValidating)))
	report, err := r.validate(posts, tags, postsTags)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, r.commit(log, runID, report, posts, tags, postsTags)
}

// validate runs the three suites and aggregates their reports in table
// order: posts, tags, posts_tags.
func (r *Runner) validate(posts *dataset.Posts, tags *dataset.Tags, postsTags *dataset.PostsTags) (*verify.Report, error) {
	postsReport, err := verify.NewSuite().
		OnData(posts.Table).
		AddCheck(posts.Check(r.cfg.Checks.Posts)).
		Run()
	if err != nil {
		return nil, err
	}

	tagsReport, err := verify.NewSuite().
		OnData(tags.Table).
		AddCheck(tags.Check(r.cfg.Checks.Tags)).
		Run()
	if err != nil {
		return nil, err
	}

	postsTagsReport, err := verify.NewSuite().
		OnData(postsTags.Table).
		AddCheck(postsTags.Check(r.cfg.Checks.PostsTags)).
		Run()
	if err != nil {
		return nil, err
	}

	return postsReport.Union(tagsReport).Union(postsTagsReport), nil
}

// commit is the gate: it always persists the audit report, and persists the
// entity tables only when every constraint passed.
func (r *Runner) commit(log *zap.Logger, runID string, report *verify.Report, posts *dataset.Posts, tags *dataset.Tags, postsTags *dataset.PostsTags) error {
	db, err := sqlite.Open(r.cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	// Audit persists on both outcomes, replacing the previous run's rows.
	if err := db.RecreateCheckResults(); err != nil {
		return err
	}
	if err := db.Append(report.Frame(runID, time.Now().UTC()), sqlite.CheckResultsTable); err != nil {
		return err
	}

	if report.HasFailures() {
		log.Warn("validation failed, entity tables not committed",
			zap.String("stage", string(StageAborted)),
			zap.Int("failed_constraints", len(report.Failures())),
			zap.Int("total_constraints", len(report.Results)))
		return fmt.Errorf("%w: see the %s table for more details",
			types.ErrValidationFailed, sqlite.CheckResultsTable)
	}

	if err := db.RecreateEntityTables(); err != nil {
		return err
	}
	for _, entity := range []struct {
		table string
		data  *engine.Table
	}{
		{sqlite.PostsTable, posts.Table},
		{sqlite.TagsTable, tags.Table},
		{sqlite.PostsTagsTable, postsTags.Table},
	} {
		frame, err := entity.data.Materialize()
		if err != nil {
			return err
		}
		if err := db.Append(frame, entity.table); err != nil {
			return err
		}
		log.Info("table committed",
			zap.String("table", entity.table),
			zap.Int("rows", len(frame.Rows)))
	}

	log.Info("data loaded successfully", zap.String("stage", string(StageCommitted)))
	return nil
}

// newRunID returns a time-ordered UUID identifying a run in check_results.
func newRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating run ID: %w", err)
	}
	return id.String(), nil
}
