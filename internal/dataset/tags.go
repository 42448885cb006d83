package dataset

import (
	"github.com/mesh-intelligence/stackhouse/internal/engine"
	"github.com/mesh-intelligence/stackhouse/internal/snapshot"
	"github.com/mesh-intelligence/stackhouse/internal/verify"
	"github.com/mesh-intelligence/stackhouse/internal/xmlsource"
	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// TagsColumns is the canonical tags schema, matching the tags table DDL.
var TagsColumns = []engine.Column{
	{Name: "Id", Kind: engine.Int},
	{Name: "TagName", Kind: engine.String},
	{Name: "Count", Kind: engine.Int},
	{Name: "ExcerptPostId", Kind: engine.Int},
	{Name: "WikiPostId", Kind: engine.Int},
}

// Tags is the controlled-vocabulary entity dataset.
type Tags struct {
	Table *engine.Table
}

// LoadTags returns the tags dataset backed by the Tags XML file in the
// configured working directory. The file is read lazily, on first action.
func LoadTags(cfg types.Config) *Tags {
	path := cfg.TagsPath()
	return &Tags{Table: engine.New("tags", func() (*engine.Frame, error) {
		return xmlsource.Load(path, "tags", rowTag, TagsColumns)
	})}
}

// Check declares the tags validation suite with thresholds from cfg.
func (t *Tags) Check(cfg types.SuiteConfig) *verify.Check {
	return verify.NewCheck(verify.LevelWarning, "Tags Check").
		HasSize(verify.AtLeast(float64(cfg.MinRows))).
		IsComplete("Id").
		IsNonNegative("Id").
		IsUnique("Id").
		IsNonNegative("ExcerptPostId").
		HasCompleteness(atLeast(cfg, "ExcerptPostId", 0.77)).
		IsComplete("TagName").
		IsUnique("TagName").
		IsNonNegative("WikiPostId").
		HasCompleteness(atLeast(cfg, "WikiPostId", 0.77)).
		IsComplete("Count").
		IsNonNegative("Count")
}

// Snapshot writes the dataset to a parquet file in dir.
func (t *Tags) Snapshot(dir string) error {
	return snapshot.Write(t.Table, dir)
}
