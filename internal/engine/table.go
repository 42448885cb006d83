package engine

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// Table is a named, lazily evaluated table. Constructing or transforming a
// Table performs no work; the underlying frame is built on the first action
// and memoized, so every stage of a pipeline evaluates exactly once no
// matter how many downstream tables pull from it.
type Table struct {
	name  string
	build func() (*Frame, error)

	once  sync.Once
	frame *Frame
	err   error
}

// New returns a lazy table that obtains its frame from build on first use.
func New(name string, build func() (*Frame, error)) *Table {
	return &Table{name: name, build: build}
}

// FromFrame wraps an already materialized frame as a table.
func FromFrame(name string, f *Frame) *Table {
	return New(name, func() (*Frame, error) { return f, nil })
}

// Name returns the table name used in logs and error messages.
func (t *Table) Name() string { return t.name }

// Materialize forces evaluation and returns the memoized frame. Concurrent
// and repeated calls evaluate the build function only once.
func (t *Table) Materialize() (*Frame, error) {
	t.once.Do(func() {
		t.frame, t.err = t.build()
		if t.err != nil {
			t.err = fmt.Errorf("materializing %s: %w", t.name, t.err)
		}
	})
	return t.frame, t.err
}

// Count is an action returning the number of rows.
func (t *Table) Count() (int64, error) {
	f, err := t.Materialize()
	if err != nil {
		return 0, err
	}
	return int64(len(f.Rows)), nil
}

// Collect is an action returning all rows. The returned slice is shared with
// the frame and must not be mutated.
func (t *Table) Collect() ([]Row, error) {
	f, err := t.Materialize()
	if err != nil {
		return nil, err
	}
	return f.Rows, nil
}

// Select returns a table projecting the given columns, in the given order.
func (t *Table) Select(name string, columns ...string) *Table {
	return New(name, func() (*Frame, error) {
		f, err := t.Materialize()
		if err != nil {
			return nil, err
		}
		cols := make([]Column, 0, len(columns))
		for _, cn := range columns {
			c, ok := f.Column(cn)
			if !ok {
				return nil, fmt.Errorf("select %s: %w: %q in %s", name, types.ErrColumnNotFound, cn, t.name)
			}
			cols = append(cols, c)
		}
		rows := make([]Row, 0, len(f.Rows))
		for _, r := range f.Rows {
			out := make(Row, len(cols))
			for _, c := range cols {
				if v, ok := r[c.Name]; ok {
					out[c.Name] = v
				}
			}
			rows = append(rows, out)
		}
		return &Frame{Columns: cols, Rows: rows}, nil
	})
}

// Filter returns a table keeping the rows for which pred is true.
func (t *Table) Filter(name string, pred func(Row) bool) *Table {
	return New(name, func() (*Frame, error) {
		f, err := t.Materialize()
		if err != nil {
			return nil, err
		}
		var rows []Row
		for _, r := range f.Rows {
			if pred(r) {
				rows = append(rows, r)
			}
		}
		return &Frame{Columns: f.Columns, Rows: rows}, nil
	})
}

// Join returns the inner join of t and other under an arbitrary predicate.
// For each (left, right) pair where on is true, project builds the output
// row; columns declares the output shape. The result carries no row-order
// guarantee beyond being a set of matching pairs.
func (t *Table) Join(other *Table, name string, columns []Column, on func(left, right Row) bool, project func(left, right Row) Row) *Table {
	return New(name, func() (*Frame, error) {
		left, err := t.Materialize()
		if err != nil {
			return nil, err
		}
		right, err := other.Materialize()
		if err != nil {
			return nil, err
		}
		var rows []Row
		for _, l := range left.Rows {
			for _, r := range right.Rows {
				if on(l, r) {
					rows = append(rows, project(l, r))
				}
			}
		}
		return &Frame{Columns: columns, Rows: rows}, nil
	})
}

// Union returns the concatenation of t and other. The column sets must
// match by name and kind, in order.
func (t *Table) Union(name string, other *Table) *Table {
	return New(name, func() (*Frame, error) {
		a, err := t.Materialize()
		if err != nil {
			return nil, err
		}
		b, err := other.Materialize()
		if err != nil {
			return nil, err
		}
		if len(a.Columns) != len(b.Columns) {
			return nil, fmt.Errorf("union %s: column count mismatch (%d vs %d)", name, len(a.Columns), len(b.Columns))
		}
		for i, c := range a.Columns {
			if b.Columns[i] != c {
				return nil, fmt.Errorf("union %s: column %d mismatch (%v vs %v)", name, i, c, b.Columns[i])
			}
		}
		rows := make([]Row, 0, len(a.Rows)+len(b.Rows))
		rows = append(rows, a.Rows...)
		rows = append(rows, b.Rows...)
		return &Frame{Columns: a.Columns, Rows: rows}, nil
	})
}
