// Package table provides the in-memory tabular batch structure the analytics
// transforms operate on: an ordered sequence of rows, each mapping a field
// name to a number, string, date, or missing value. Transforms never mutate
// a caller's table; they work on a Clone and only add or overwrite columns.
package table

import (
	"math"
	"strconv"
	"time"
)

// Row maps a field name to a value. A field is missing when the key is
// absent, the value is nil, or a numeric value is NaN or infinite.
type Row map[string]any

type Table struct {
	columns []string
	colSet  map[string]struct{}
	rows    []Row
}

func New(columns ...string) *Table {
	t := &Table{colSet: make(map[string]struct{}, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// FromRows builds a table from pre-assembled rows. The column schema is the
// union of row keys in first-seen order.
func FromRows(rows []Row) *Table {
	t := New()
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Row(i int) Row {
	return t.rows[i]
}

func (t *Table) Rows() []Row {
	return t.rows
}

func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

// AddColumn registers a column in the schema. Registering an existing column
// is a no-op, so overwriting an output column stays idempotent.
func (t *Table) AddColumn(name string) {
	if _, ok := t.colSet[name]; ok {
		return
	}
	t.colSet[name] = struct{}{}
	t.columns = append(t.columns, name)
}

// Append adds a row, extending the schema with any fields not seen before.
// Row order is preserved: rows come back out in the order they went in.
func (t *Table) Append(r Row) {
	for k := range r {
		if _, ok := t.colSet[k]; !ok {
			t.AddColumn(k)
		}
	}
	t.rows = append(t.rows, r)
}

// Clone returns a copy with fresh row maps so that writes to the copy never
// reach the original. Cell values themselves are scalars and shared as-is.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	out.rows = make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		nr := make(Row, len(r)+2)
		for k, v := range r {
			nr[k] = v
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// Number reads field as a float64. Integer and float values are accepted, as
// are numeric strings. NaN, infinities, nil, and absent keys report missing.
func (r Row) Number(field string) (float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, false
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Date reads field as a calendar date. time.Time values pass through; string
// values are parsed against a small set of layouts. Unparseable values report
// missing rather than failing the batch.
func (r Row) Date(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false
		}
		return *d, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, d); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func (r Row) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
