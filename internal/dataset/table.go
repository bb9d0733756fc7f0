package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrFileNotAccessible = errors.New("file not accessible")
	ErrMalformedTable    = errors.New("malformed table")
	ErrColumnNotFound    = errors.New("column not found")
	ErrTypeMismatch      = errors.New("type mismatch")
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "missing"
	}
}

// Value is a single cell. Fields loaded from CSV are Text (or Missing when
// blank); cleaning turns the date column into Time.
type Value struct {
	Kind Kind
	Text string
	Time time.Time
}

// Missing is the missing-value marker.
var Missing = Value{}

// TextValue wraps raw field text.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// TimeValue wraps a parsed date.
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// IsMissing reports whether v is the missing-value marker.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// Row is one record, positionally aligned with the table's columns.
type Row []Value

// Table is an immutable, ordered collection of rows sharing a column schema.
// Operations that change rows or columns return a new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New builds a table from column names and rows. Every row must have one
// value per column.
func New(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, header has %d", ErrMalformedTable, i, len(r), len(columns))
		}
	}
	return &Table{columns: columns, index: index, rows: rows}, nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether name is part of the schema.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// Value returns the cell at row i in column name.
func (t *Table) Value(i int, name string) (Value, error) {
	c, err := t.column(name)
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i >= len(t.rows) {
		return Value{}, fmt.Errorf("row %d out of range [0,%d)", i, len(t.rows))
	}
	return t.rows[i][c], nil
}

func (t *Table) column(name string) (int, error) {
	c, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return c, nil
}

// Where returns the rows whose column holds text exactly equal to value.
func (t *Table) Where(name, value string) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	var rows []Row
	for _, r := range t.rows {
		if r[c].Kind == KindText && r[c].Text == value {
			rows = append(rows, r)
		}
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}, nil
}

// Drop returns a table without the named columns. Names not in the schema
// are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[int]bool, len(names))
	for _, n := range names {
		if c, ok := t.index[n]; ok {
			drop[c] = true
		}
	}
	if len(drop) == 0 {
		return t
	}

	columns := make([]string, 0, len(t.columns)-len(drop))
	for i, c := range t.columns {
		if !drop[i] {
			columns = append(columns, c)
		}
	}
	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out := make(Row, 0, len(columns))
		for j, v := range r {
			if !drop[j] {
				out = append(out, v)
			}
		}
		rows[i] = out
	}
	// Column names were unique before the drop, so New cannot fail.
	nt, _ := New(columns, rows)
	return nt
}

// Strings returns the raw text of a column. Missing cells yield "".
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		switch r[c].Kind {
		case KindText:
			out[i] = r[c].Text
		case KindTime:
			return nil, fmt.Errorf("%w: column %q row %d holds %s, want text", ErrTypeMismatch, name, i, r[c].Kind)
		}
	}
	return out, nil
}

// Floats parses a column as float64. NaN and infinities are rejected.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		v := r[c]
		if v.Kind != KindText {
			return nil, fmt.Errorf("%w: column %q row %d holds %s, want number", ErrTypeMismatch, name, i, v.Kind)
		}
		f, ok := parseFinite(v.Text)
		if !ok {
			return nil, fmt.Errorf("%w: column %q row %d: %q is not a finite number", ErrTypeMismatch, name, i, v.Text)
		}
		out[i] = f
	}
	return out, nil
}

// MarkNonFinite returns a table in which text cells of the named columns
// that parse as NaN or an infinity are Missing. Absent columns are ignored.
func (t *Table) MarkNonFinite(names ...string) *Table {
	var cols []int
	for _, n := range names {
		if c, ok := t.index[n]; ok {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return t
	}

	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = r
		copied := false
		for _, c := range cols {
			if r[c].Kind != KindText || !isNonFinite(r[c].Text) {
				continue
			}
			if !copied {
				rows[i] = append(Row(nil), r...)
				copied = true
			}
			rows[i][c] = Missing
		}
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNonFinite(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && (math.IsNaN(f) || math.IsInf(f, 0))
}

// Times returns a date column. The column must have been parsed by Clean.
func (t *Table) Times(name string) ([]time.Time, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(t.rows))
	for i, r := range t.rows {
		if r[c].Kind != KindTime {
			return nil, fmt.Errorf("%w: column %q row %d holds %s, want time", ErrTypeMismatch, name, i, r[c].Kind)
		}
		out[i] = r[c].Time
	}
	return out, nil
}
