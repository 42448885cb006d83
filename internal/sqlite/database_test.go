package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "warehouse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func tagsFrame() *engine.Frame {
	return &engine.Frame{
		Columns: []engine.Column{
			{Name: "Id", Kind: engine.Int},
			{Name: "TagName", Kind: engine.String},
			{Name: "Count", Kind: engine.Int},
			{Name: "ExcerptPostId", Kind: engine.Int},
			{Name: "WikiPostId", Kind: engine.Int},
		},
		Rows: []engine.Row{
			{"Id": int64(1), "TagName": "go", "Count": int64(12)},
			{"Id": int64(2), "TagName": "sql", "Count": int64(7), "ExcerptPostId": int64(10)},
		},
	}
}

func TestRecreateEntityTables(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.RecreateEntityTables())
	for _, table := range []string{PostsTable, TagsTable, PostsTagsTable} {
		exists, err := d.TableExists(table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	// Recreate drops previous contents.
	require.NoError(t, d.Append(tagsFrame(), TagsTable))
	require.NoError(t, d.RecreateEntityTables())
	n, err := d.CountRows(TagsTable)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestAppend(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.RecreateEntityTables())

	require.NoError(t, d.Append(tagsFrame(), TagsTable))
	n, err := d.CountRows(TagsTable)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var name string
	var excerpt any
	err = d.db.QueryRow(`SELECT TagName, ExcerptPostId FROM tags WHERE Id = 1`).Scan(&name, &excerpt)
	require.NoError(t, err)
	assert.Equal(t, "go", name)
	assert.Nil(t, excerpt, "absent cell stored as NULL")
}

func TestAppendRollsBackOnConstraintViolation(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.RecreateEntityTables())

	dup := tagsFrame()
	dup.Rows = append(dup.Rows, engine.Row{"Id": int64(3), "TagName": "go", "Count": int64(1)})

	require.Error(t, d.Append(dup, TagsTable), "TagName is UNIQUE")

	n, err := d.CountRows(TagsTable)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "partial insert rolled back")
}

func TestAppendFormatsTimestamps(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.RecreateEntityTables())

	posts := &engine.Frame{
		Columns: []engine.Column{
			{Name: "Id", Kind: engine.Int},
			{Name: "PostTypeId", Kind: engine.Int},
			{Name: "Score", Kind: engine.Int},
			{Name: "Body", Kind: engine.String},
			{Name: "LastActivityDate", Kind: engine.Timestamp},
			{Name: "CommentCount", Kind: engine.Int},
			{Name: "ContentLicense", Kind: engine.String},
		},
		Rows: []engine.Row{{
			"Id": int64(1), "PostTypeId": int64(1), "Score": int64(0), "Body": "b",
			"LastActivityDate": time.Date(2021, 3, 4, 5, 6, 7, 890e6, time.UTC),
			"CommentCount":     int64(0), "ContentLicense": "CC BY-SA 4.0",
		}},
	}
	require.NoError(t, d.Append(posts, PostsTable))

	var stored string
	require.NoError(t, d.db.QueryRow(`SELECT LastActivityDate FROM posts WHERE Id = 1`).Scan(&stored))
	assert.Equal(t, "2021-03-04 05:06:07.890", stored)
}

func TestRecreateCheckResults(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.RecreateCheckResults())

	report := &engine.Frame{
		Columns: []engine.Column{
			{Name: "check_level", Kind: engine.String},
			{Name: "check_name", Kind: engine.String},
			{Name: "constraint", Kind: engine.String},
			{Name: "constraint_status", Kind: engine.String},
			{Name: "constraint_message", Kind: engine.String},
			{Name: "run_id", Kind: engine.String},
			{Name: "recorded_at", Kind: engine.Timestamp},
		},
		Rows: []engine.Row{{
			"check_level": "Warning", "check_name": "Tags Check",
			"constraint": "isUnique(TagName)", "constraint_status": "Failure",
			"constraint_message": "dup", "run_id": "run-1",
			"recorded_at": time.Now().UTC(),
		}},
	}
	require.NoError(t, d.Append(report, CheckResultsTable))

	// Replace semantics: recreate then append only the new rows.
	require.NoError(t, d.RecreateCheckResults())
	require.NoError(t, d.Append(report, CheckResultsTable))
	n, err := d.CountRows(CheckResultsTable)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// The quoted "constraint" column is readable.
	var constraint string
	require.NoError(t, d.db.QueryRow(`SELECT "constraint" FROM check_results`).Scan(&constraint))
	assert.Equal(t, "isUnique(TagName)", constraint)
}

func TestCountRowsUnknownTable(t *testing.T) {
	d := openTestDB(t)
	_, err := d.CountRows("missing")
	assert.Error(t, err)
}
