package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Row is one raw sheet row keyed by the original header text.
type Row map[string]string

// Table is one tabular dataset as fetched from a source. Header order is
// preserved; merged tables take the first-seen union order.
type Table struct {
	Headers []string
	Rows    []Row
}

// OutputTable is the render currency: the filtered view and every aggregate
// materialize into one, and the CSV, XLSX and text writers consume it without
// transforming values any further.
type OutputTable struct {
	Name    string
	Columns []string
	Rows    [][]string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeCSVTable parses raw CSV bytes into a Table. The first record is the
// header row. Unnamed and duplicate columns are dropped, cells are trimmed,
// and fully blank rows are skipped. Rows shorter than the header read as
// empty cells; extra cells past the header are ignored.
func decodeCSVTable(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	headers := records[0]
	seen := make(map[string]bool, len(headers))
	keep := make([]int, 0, len(headers))
	var t Table
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers[i] = h
		keep = append(keep, i)
		t.Headers = append(t.Headers, h)
	}

	for _, rec := range records[1:] {
		row := make(Row, len(keep))
		blank := true
		for _, i := range keep {
			val := ""
			if i < len(rec) {
				val = strings.TrimSpace(rec[i])
			}
			row[headers[i]] = val
			if val != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// encodeCSVTable serializes a Table back to CSV. Round-tripping through
// decodeCSVTable preserves every named column and non-blank row, which is all
// the snapshot cache needs.
func encodeCSVTable(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			rec[i] = row[h]
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
