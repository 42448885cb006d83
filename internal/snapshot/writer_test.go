package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

func snapshotFrame() *engine.Frame {
	return &engine.Frame{
		Columns: []engine.Column{
			{Name: "Id", Kind: engine.Int},
			{Name: "TagName", Kind: engine.String},
			{Name: "Share", Kind: engine.Float},
			{Name: "CreationDate", Kind: engine.Timestamp},
		},
		Rows: []engine.Row{
			{"Id": int64(1), "TagName": "go", "Share": 0.25,
				"CreationDate": time.Date(2009, 6, 28, 9, 57, 46, 0, time.UTC)},
			{"Id": int64(2), "TagName": "sql"},
		},
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tbl := engine.FromFrame("tags", snapshotFrame())

	require.NoError(t, Write(tbl, dir))

	path := filepath.Join(dir, "tags.parquet")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := goparquet.NewFileReader(f)
	require.NoError(t, err)
	require.EqualValues(t, 2, r.NumRows())

	first, err := r.NextRow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first["Id"])
	assert.Equal(t, []byte("go"), first["TagName"])
	assert.Equal(t, 0.25, first["Share"])
	wantMillis := time.Date(2009, 6, 28, 9, 57, 46, 0, time.UTC).UnixMilli()
	assert.Equal(t, wantMillis, first["CreationDate"])

	// NULL cells are absent from the record.
	second, err := r.NextRow()
	require.NoError(t, err)
	assert.NotContains(t, second, "Share")
	assert.NotContains(t, second, "CreationDate")
}

func TestWriteOverwritesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Write(engine.FromFrame("tags", snapshotFrame()), dir))

	one := &engine.Frame{
		Columns: []engine.Column{{Name: "Id", Kind: engine.Int}},
		Rows:    []engine.Row{{"Id": int64(9)}},
	}
	require.NoError(t, Write(engine.FromFrame("tags", one), dir))

	f, err := os.Open(filepath.Join(dir, "tags.parquet"))
	require.NoError(t, err)
	defer f.Close()

	r, err := goparquet.NewFileReader(f)
	require.NoError(t, err)
	assert.EqualValues(t, 1, r.NumRows())
}

func TestWritePropagatesSourceError(t *testing.T) {
	broken := engine.New("broken", func() (*engine.Frame, error) {
		return nil, os.ErrNotExist
	})
	assert.Error(t, Write(broken, t.TempDir()))
}

func TestSchemaText(t *testing.T) {
	got := schemaText("tags", snapshotFrame().Columns)
	assert.Contains(t, got, "message tags {")
	assert.Contains(t, got, "optional int64 Id;")
	assert.Contains(t, got, "optional binary TagName (UTF8);")
	assert.Contains(t, got, "optional double Share;")
	assert.Contains(t, got, "optional int64 CreationDate (TIMESTAMP(MILLIS, true));")
}
