// Package snapshot writes engine frames to parquet files, one overwritten
// file per entity table per run.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

// Write materializes the table and writes it to <dir>/<table name>.parquet,
// replacing any previous snapshot. Every column is optional in the parquet
// schema; NULL cells are simply absent from the written record.
func Write(t *engine.Table, dir string) error {
	frame, err := t.Materialize()
	if err != nil {
		return err
	}

	def, err := parquetschema.ParseSchemaDefinition(schemaText(t.Name(), frame.Columns))
	if err != nil {
		return fmt.Errorf("building parquet schema for %s: %w", t.Name(), err)
	}

	path := filepath.Join(dir, t.Name()+".parquet")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := goparquet.NewFileWriter(f,
		goparquet.WithSchemaDefinition(def),
		goparquet.WithCompressionCodec(parquet.CompressionCodec_SNAPPY),
		goparquet.WithCreator("stackhouse"),
	)

	for i, row := range frame.Rows {
		if err := w.AddData(record(frame.Columns, row)); err != nil {
			f.Close()
			return fmt.Errorf("writing %s row %d: %w", path, i, err)
		}
	}

	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("closing parquet writer for %s: %w", path, err)
	}
	return f.Close()
}

// record converts one engine row into the value map the parquet writer
// consumes. NULL cells are omitted.
func record(columns []engine.Column, row engine.Row) map[string]any {
	rec := make(map[string]any, len(columns))
	for _, c := range columns {
		if row.IsNull(c.Name) {
			continue
		}
		switch c.Kind {
		case engine.Int:
			rec[c.Name] = row[c.Name].(int64)
		case engine.Float:
			rec[c.Name] = row[c.Name].(float64)
		case engine.Timestamp:
			rec[c.Name] = row[c.Name].(time.Time).UnixMilli()
		default:
			rec[c.Name] = []byte(row[c.Name].(string))
		}
	}
	return rec
}

// schemaText renders the parquet message definition for a column set.
func schemaText(name string, columns []engine.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "message %s {\n", name)
	for _, c := range columns {
		switch c.Kind {
		case engine.Int:
			fmt.Fprintf(&b, "  optional int64 %s;\n", c.Name)
		case engine.Float:
			fmt.Fprintf(&b, "  optional double %s;\n", c.Name)
		case engine.Timestamp:
			fmt.Fprintf(&b, "  optional int64 %s (TIMESTAMP(MILLIS, true));\n", c.Name)
		default:
			fmt.Fprintf(&b, "  optional binary %s (UTF8);\n", c.Name)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
