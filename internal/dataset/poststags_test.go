package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

func postsFromTags(tagFields ...any) *Posts {
	f := &engine.Frame{Columns: PostsColumns}
	for i, tags := range tagFields {
		row := engine.Row{"Id": int64(i + 1)}
		if tags != nil {
			row["Tags"] = tags
		}
		f.Rows = append(f.Rows, row)
	}
	return &Posts{Table: engine.FromFrame("posts", f)}
}

func tagsNamed(names ...string) *Tags {
	f := &engine.Frame{Columns: TagsColumns}
	for i, name := range names {
		f.Rows = append(f.Rows, engine.Row{"Id": int64(i + 1), "TagName": name, "Count": int64(0)})
	}
	return &Tags{Table: engine.FromFrame("tags", f)}
}

type pair struct {
	postID, tagID int64
}

func collectPairs(t *testing.T, pt *PostsTags) []pair {
	t.Helper()
	rows, err := pt.Table.Collect()
	require.NoError(t, err)
	pairs := make([]pair, 0, len(rows))
	for _, r := range rows {
		pairs = append(pairs, pair{r["PostId"].(int64), r["TagId"].(int64)})
	}
	return pairs
}

func TestDeriveDelimiterExactness(t *testing.T) {
	// "<a>" is not contained in "<ab>", so tag "a" must not match; both
	// tags match "<a><b>" exactly once each.
	posts := postsFromTags("<ab>", "<a><b>")
	tags := tagsNamed("a", "b")

	pt := DerivePostsTags(posts, tags)
	pairs := collectPairs(t, pt)

	assert.ElementsMatch(t, []pair{{2, 1}, {2, 2}}, pairs)
}

func TestDeriveEmptyOrNullTags(t *testing.T) {
	posts := postsFromTags(nil, "", "<go>")
	tags := tagsNamed("go")

	pairs := collectPairs(t, DerivePostsTags(posts, tags))
	assert.Equal(t, []pair{{3, 1}}, pairs)
}

func TestDerivePairUniqueness(t *testing.T) {
	posts := postsFromTags("<go><sql>", "<go>", "<sql><go>")
	tags := tagsNamed("go", "sql")

	pairs := collectPairs(t, DerivePostsTags(posts, tags))

	seen := map[pair]int{}
	for _, p := range pairs {
		seen[p]++
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "pair %v duplicated", p)
	}
	assert.Len(t, pairs, 5)
}

func TestDeriveReferentialIntegrity(t *testing.T) {
	posts := postsFromTags("<go><sql>", "<xml>", nil)
	tags := tagsNamed("go", "sql", "xml")

	pt := DerivePostsTags(posts, tags)
	rows, err := pt.Table.Collect()
	require.NoError(t, err)

	postIDs := map[int64]bool{1: true, 2: true, 3: true}
	tagNames := map[int64]string{1: "go", 2: "sql", 3: "xml"}

	for _, r := range rows {
		assert.True(t, postIDs[r["PostId"].(int64)])
		// TagName is a faithful denormalized copy for the referenced TagId.
		assert.Equal(t, tagNames[r["TagId"].(int64)], r["TagName"].(string))
	}
}

func TestDeriveIsLazy(t *testing.T) {
	calls := 0
	posts := &Posts{Table: engine.New("posts", func() (*engine.Frame, error) {
		calls++
		return &engine.Frame{Columns: PostsColumns}, nil
	})}
	tags := tagsNamed("go")

	pt := DerivePostsTags(posts, tags)
	assert.Equal(t, 0, calls, "derivation declares, does not evaluate")

	_, err := pt.Table.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDeriveDoesNotMutateInputs(t *testing.T) {
	posts := postsFromTags("<go>")
	tags := tagsNamed("go")

	before, err := posts.Table.Materialize()
	require.NoError(t, err)
	wantCols := len(before.Columns)
	wantRow := engine.Row{"Id": int64(1), "Tags": "<go>"}

	_, err = DerivePostsTags(posts, tags).Table.Collect()
	require.NoError(t, err)

	after, err := posts.Table.Materialize()
	require.NoError(t, err)
	assert.Len(t, after.Columns, wantCols)
	assert.Equal(t, wantRow, after.Rows[0])
}

func TestPostsTagsCheckSuiteShape(t *testing.T) {
	pt := DerivePostsTags(postsFromTags("<go>"), tagsNamed("go"))
	check := pt.Check(defaultSuite(t).PostsTags)

	assert.Equal(t, "Posts Tags Check", check.Name())
	assert.Equal(t, 6, check.Size())
}
