// Package xmlsource reads attribute-encoded XML dumps into engine frames.
// A dump file holds one root element wrapping a flat sequence of row
// elements whose attributes carry the record fields, the shape Stack
// Exchange uses for Posts.xml and Tags.xml.
//
// Loading is fail-fast: any XML syntax error, root tag mismatch, or value
// that cannot be converted to its declared column kind aborts the whole
// load. No partial frame is ever returned.
package xmlsource

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/stackhouse/internal/engine"
	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// markerPrefix is the single-character marker a flattener prepends to
// attribute-derived column names. It is stripped so frame columns match the
// canonical schema.
const markerPrefix = "_"

// Timestamp layouts seen in Stack Exchange dumps, most specific first.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// Load reads the XML file at path and returns one frame row per rowTag
// element. The root element must be named rootTag. Attributes are matched
// against schema by name (after marker stripping); attributes outside the
// schema are dropped and schema columns with no attribute are NULL.
func Load(path, rootTag, rowTag string, schema []engine.Column) (*engine.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	frame, err := decode(f, rootTag, rowTag, schema)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return frame, nil
}

// decode runs the streaming decoder over r. Split from Load for testing.
func decode(r io.Reader, rootTag, rowTag string, schema []engine.Column) (*engine.Frame, error) {
	byName := make(map[string]engine.Column, len(schema))
	for _, c := range schema {
		byName[c.Name] = c
	}

	dec := xml.NewDecoder(r)
	var rows []engine.Row
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedSource, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			if start.Name.Local != rootTag {
				return nil, fmt.Errorf("%w: root element is <%s>, want <%s>",
					types.ErrMalformedSource, start.Name.Local, rootTag)
			}
			sawRoot = true
			continue
		}

		if start.Name.Local != rowTag {
			return nil, fmt.Errorf("%w: unexpected element <%s>, want <%s>",
				types.ErrMalformedSource, start.Name.Local, rowTag)
		}

		row, err := decodeRow(start, byName)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)

		if err := dec.Skip(); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrMalformedSource, err)
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", types.ErrMalformedSource)
	}

	return &engine.Frame{Columns: schema, Rows: rows}, nil
}

// decodeRow converts one row element's attributes into a typed engine row.
func decodeRow(start xml.StartElement, byName map[string]engine.Column) (engine.Row, error) {
	row := make(engine.Row)
	for _, attr := range start.Attr {
		name := strings.TrimPrefix(attr.Name.Local, markerPrefix)
		col, ok := byName[name]
		if !ok {
			continue
		}
		v, err := convert(attr.Value, col.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %v", types.ErrMalformedSource, name, err)
		}
		row[name] = v
	}
	return row, nil
}

// convert parses a raw attribute string into the Go value for kind.
func convert(raw string, kind engine.Kind) (any, error) {
	switch kind {
	case engine.Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as integer", raw)
		}
		return n, nil
	case engine.Float:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as float", raw)
		}
		return x, nil
	case engine.Timestamp:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts.UTC(), nil
			}
		}
		return nil, fmt.Errorf("parsing %q as timestamp", raw)
	default:
		return raw, nil
	}
}
