package dataset

import (
	"strings"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
	"github.com/mesh-intelligence/stackhouse/internal/snapshot"
	"github.com/mesh-intelligence/stackhouse/internal/verify"
	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// Tag name delimiters inside a post's Tags field. A post tagged "go" and
// "sql" carries the value "<go><sql>", with no separator between entries.
const (
	tagOpen  = "<"
	tagClose = ">"
)

// PostsTagsColumns is the derived association schema.
var PostsTagsColumns = []engine.Column{
	{Name: "PostId", Kind: engine.Int},
	{Name: "TagId", Kind: engine.Int},
	{Name: "TagName", Kind: engine.String},
}

// PostsTags is the derived many-to-many association between posts and tags.
// It has no independent lifecycle: it is recomputed in full on every run
// and never loaded or incrementally updated.
type PostsTags struct {
	Table *engine.Table
}

// DerivePostsTags builds the association by a containment join: a (post,
// tag) pair matches when the post's Tags field contains the tag's name
// wrapped in delimiters. The delimiters make the match exact-token, so the
// tag "cat" does not match a post tagged only "<category>". Posts with an
// empty or NULL Tags field contribute no rows.
func DerivePostsTags(posts *Posts, tags *Tags) *PostsTags {
	tbl := posts.Table.Join(tags.Table, "posts_tags", PostsTagsColumns,
		func(post, tag engine.Row) bool {
			if post.IsNull("Tags") || tag.IsNull("TagName") {
				return false
			}
			wrapped := tagOpen + tag["TagName"].(string) + tagClose
			return strings.Contains(post["Tags"].(string), wrapped)
		},
		func(post, tag engine.Row) engine.Row {
			return engine.Row{
				"PostId":  post["Id"],
				"TagId":   tag["Id"],
				"TagName": tag["TagName"],
			}
		},
	)
	return &PostsTags{Table: tbl}
}

// Check declares the association validation suite with thresholds from cfg.
func (pt *PostsTags) Check(cfg types.SuiteConfig) *verify.Check {
	return verify.NewCheck(verify.LevelWarning, "Posts Tags Check").
		HasSize(verify.AtLeast(float64(cfg.MinRows))).
		IsComplete("PostId").
		IsNonNegative("PostId").
		IsComplete("TagName").
		IsComplete("TagId").
		IsNonNegative("TagId")
}

// Snapshot writes the derived association to a parquet file in dir.
func (pt *PostsTags) Snapshot(dir string) error {
	return snapshot.Write(pt.Table, dir)
}
