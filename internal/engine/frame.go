// Package engine provides a small in-process relational table model: typed
// immutable frames and a lazy, pull-based Table builder over them. A Table
// describes a transformation graph; no work happens until an action
// (Materialize, Count, Collect) forces evaluation, and each Table evaluates
// at most once.
package engine

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the value type of a column. Every cell in a column holds
// either nil (NULL) or a Go value of the kind's type.
type Kind int

// Column value kinds.
const (
	Int Kind = iota
	Float
	String
	Timestamp
)

// Go types per kind: Int -> int64, Float -> float64, String -> string,
// Timestamp -> time.Time.

// Column describes one named, typed column of a frame.
type Column struct {
	Name string
	Kind Kind
}

// Row maps column name to value. A missing key and a nil value both read as
// NULL. Rows are shared between frames after transformations and must not be
// mutated once a frame is built.
type Row map[string]any

// IsNull reports whether the row holds no value for the named column.
func (r Row) IsNull(name string) bool {
	v, ok := r[name]
	return !ok || v == nil
}

// Frame is an immutable materialized table: an ordered column set plus rows.
type Frame struct {
	Columns []Column
	Rows    []Row
}

// Column returns the column descriptor with the given name.
func (f *Frame) Column(name string) (Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the frame declares the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.Column(name)
	return ok
}

// AsFloat converts a cell value to float64 for numeric comparisons.
// Returns false for NULL and non-numeric values.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// FormatValue renders a cell value as its canonical string form, used for
// set-membership checks and diagnostics. NULL renders as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05.000")
	default:
		return fmt.Sprintf("%v", x)
	}
}
