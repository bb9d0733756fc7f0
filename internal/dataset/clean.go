package dataset

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"2006-01",
}

// ParseDate parses s with the first matching layout, in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Clean parses dateColumn into dates, drops the named columns and removes
// every row that still holds a missing value. Unparseable dates become
// missing rather than failing the whole table. Row order is preserved and
// the input is not modified.
func Clean(t *Table, dateColumn string, dropColumns ...string) (*Table, error) {
	dc, err := t.column(dateColumn)
	if err != nil {
		return nil, err
	}

	parsed := make([]Row, len(t.rows))
	for i, r := range t.rows {
		row := append(Row(nil), r...)
		row[dc] = parseDateValue(row[dc])
		parsed[i] = row
	}
	withDates := &Table{columns: t.columns, index: t.index, rows: parsed}

	trimmed := withDates.Drop(dropColumns...)

	kept := make([]Row, 0, len(trimmed.rows))
	for _, r := range trimmed.rows {
		if !hasMissing(r) {
			kept = append(kept, r)
		}
	}
	return &Table{columns: trimmed.columns, index: trimmed.index, rows: kept}, nil
}

func parseDateValue(v Value) Value {
	switch v.Kind {
	case KindTime:
		return v
	case KindText:
		if d, ok := ParseDate(v.Text); ok {
			return TimeValue(d)
		}
	}
	return Missing
}

func hasMissing(r Row) bool {
	for _, v := range r {
		if v.IsMissing() {
			return true
		}
	}
	return false
}
