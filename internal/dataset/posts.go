// Package dataset defines the three pipeline datasets: the posts and tags
// entities loaded from XML, and the posts_tags association derived from
// them. Each dataset wraps a lazy table and declares its validation suite.
package dataset

import (
	"fmt"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
	"github.com/mesh-intelligence/stackhouse/internal/snapshot"
	"github.com/mesh-intelligence/stackhouse/internal/verify"
	"github.com/mesh-intelligence/stackhouse/internal/xmlsource"
	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// XML row element name shared by all Stack Exchange dump files.
const rowTag = "row"

// PostsColumns is the canonical posts schema, matching the posts table DDL.
var PostsColumns = []engine.Column{
	{Name: "Id", Kind: engine.Int},
	{Name: "PostTypeId", Kind: engine.Int},
	{Name: "AcceptedAnswerId", Kind: engine.Int},
	{Name: "CreationDate", Kind: engine.Timestamp},
	{Name: "Score", Kind: engine.Int},
	{Name: "ViewCount", Kind: engine.Int},
	{Name: "Body", Kind: engine.String},
	{Name: "OwnerUserId", Kind: engine.Int},
	{Name: "LastEditorUserId", Kind: engine.Int},
	{Name: "LastEditDate", Kind: engine.Timestamp},
	{Name: "LastActivityDate", Kind: engine.Timestamp},
	{Name: "Title", Kind: engine.String},
	{Name: "Tags", Kind: engine.String},
	{Name: "AnswerCount", Kind: engine.Int},
	{Name: "CommentCount", Kind: engine.Int},
	{Name: "FavoriteCount", Kind: engine.Int},
	{Name: "ContentLicense", Kind: engine.String},
	{Name: "ParentId", Kind: engine.Int},
	{Name: "ClosedDate", Kind: engine.Timestamp},
	{Name: "CommunityOwnedDate", Kind: engine.Timestamp},
	{Name: "LastEditorDisplayName", Kind: engine.String},
	{Name: "OwnerDisplayName", Kind: engine.String},
}

// Posts is the primary entity dataset.
type Posts struct {
	Table *engine.Table
}

// LoadPosts returns the posts dataset backed by the Posts XML file in the
// configured working directory. The file is read lazily, on first action.
func LoadPosts(cfg types.Config) *Posts {
	path := cfg.PostsPath()
	return &Posts{Table: engine.New("posts", func() (*engine.Frame, error) {
		return xmlsource.Load(path, "posts", rowTag, PostsColumns)
	})}
}

// Check declares the posts validation suite with thresholds from cfg.
func (p *Posts) Check(cfg types.SuiteConfig) *verify.Check {
	return verify.NewCheck(verify.LevelWarning, "Posts Check").
		HasSize(verify.AtLeast(float64(cfg.MinRows))).
		IsUnique("Id").
		IsComplete("Id").
		IsNonNegative("Id").
		IsNonNegative("AcceptedAnswerId").
		IsNonNegative("AnswerCount").
		HasCompleteness(atLeast(cfg, "AnswerCount", 0.44)).
		IsComplete("Body").
		IsComplete("LastActivityDate").
		HasCompleteness(atLeast(cfg, "Title", 0.44)).
		IsNonNegative("ParentId").
		HasCompleteness(atLeast(cfg, "ParentId", 0.45)).
		HasCompleteness(atLeast(cfg, "LastEditDate", 0.59)).
		HasCompleteness(atLeast(cfg, "LastEditorUserId", 0.58)).
		IsContainedIn("PostTypeId", []string{"2", "1", "5", "4", "6", "7"}).
		IsComplete("PostTypeId").
		IsNonNegative("ViewCount").
		HasCompleteness(atLeast(cfg, "ViewCount", 0.44)).
		IsComplete("Score").
		HasCompleteness(atLeast(cfg, "Tags", 0.44)).
		HasCompleteness(atLeast(cfg, "OwnerUserId", 0.98)).
		IsComplete("CommentCount").
		IsNonNegative("CommentCount").
		IsNonNegative("FavoriteCount").
		IsContainedIn("ContentLicense", []string{"CC BY-SA 4.0", "CC BY-SA 3.0"}).
		IsComplete("ContentLicense")
}

// Snapshot writes the dataset to a parquet file in dir.
func (p *Posts) Snapshot(dir string) error {
	return snapshot.Write(p.Table, dir)
}

// atLeast resolves a column's completeness threshold and builds the
// predicate plus the hint attached to failing report rows.
func atLeast(cfg types.SuiteConfig, column string, def float64) (string, verify.NumPredicate, string) {
	th := cfg.MinFraction(column, def)
	return column, verify.AtLeast(th), fmt.Sprintf("It should be above %g!", th)
}
