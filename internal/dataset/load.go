package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads the CSV file at path. The first record is the header.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileNotAccessible, path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// missingTokens are the field values read as missing, in addition to "".
// The list matches the not-available markers pandas recognises by default.
var missingTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "NaN": true, "nan": true,
	"<NA>": true, "N/A": true, "NA": true, "n/a": true,
	"NULL": true, "null": true, "None": true,
}

// Read parses CSV from r. Blank fields and the usual not-available tokens
// load as Missing; everything else is kept as raw text.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedTable, err)
	}
	columns := append([]string(nil), header...)
	if len(columns) > 0 {
		columns[0] = trimBOM(columns[0])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ErrFieldCount and quoting errors both land here.
			return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
		}
		row := make(Row, len(rec))
		for i, field := range rec {
			if field == "" || missingTokens[field] {
				row[i] = Missing
				continue
			}
			row[i] = TextValue(field)
		}
		rows = append(rows, row)
	}

	return New(columns, rows)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
