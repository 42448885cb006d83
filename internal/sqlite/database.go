package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
)

// timestampLayout is how timestamp cells are stored in SQLite text columns.
const timestampLayout = "2006-01-02 15:04:05.000"

// Database wraps a SQLite connection with the bulk-load primitives the
// commit gate needs: DDL execution, append, and replace.
type Database struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database file at path.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return &Database{db: db, path: path}, nil
}

// Close releases the connection. Safe to call more than once.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Execute runs a single statement, normally DDL.
func (d *Database) Execute(stmt string) error {
	if _, err := d.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
	}
	return nil
}

// Append bulk-inserts every frame row into the named table inside one
// transaction. The table must already exist with matching columns.
func (d *Database) Append(f *engine.Frame, table string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning append to %s: %w", table, err)
	}

	stmt, err := tx.Prepare(insertSQL(table, f.Columns))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert into %s: %w", table, err)
	}

	for i, row := range f.Rows {
		args := make([]any, len(f.Columns))
		for j, c := range f.Columns {
			args[j] = sqlValue(row[c.Name])
		}
		if _, err := stmt.Exec(args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("inserting row %d into %s: %w", i, table, err)
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append to %s: %w", table, err)
	}
	return nil
}

// CountRows returns the row count of a table.
func (d *Database) CountRows(table string) (int64, error) {
	var n int64
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM ` + quoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", table, err)
	}
	return n, nil
}

// TableExists reports whether a table is present in the schema.
func (d *Database) TableExists(table string) (bool, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

// insertSQL builds the parameterized INSERT statement for a column set.
// Identifiers are quoted; "constraint" is a SQL keyword.
func insertSQL(table string, columns []engine.Column) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// sqlValue converts an engine cell into a driver-friendly value.
func sqlValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.UTC().Format(timestampLayout)
	default:
		return x
	}
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return strings.TrimSpace(stmt)
}
