package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteTableCSV writes one output table as UTF-8 CSV with a leading BOM so
// desktop Excel detects the encoding of the Cyrillic columns.
func WriteTableCSV(path string, table OutputTable) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ExportReport writes the filtered CSV and the dashboard workbook for one run
// and returns their paths.
func ExportReport(r Report, outputDir, prefix string, runDate time.Time) (string, string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", "", err
	}
	stamp := runDate.Format("20060102")

	csvPath := filepath.Join(outputDir, fmt.Sprintf("%s_filtered_%s.csv", prefix, stamp))
	if err := WriteTableCSV(csvPath, r.FilteredTable()); err != nil {
		return "", "", fmt.Errorf("writing filtered csv: %w", err)
	}

	xlsxPath := filepath.Join(outputDir, fmt.Sprintf("%s_dashboard_%s.xlsx", prefix, stamp))
	if err := WriteWorkbook(xlsxPath, r.WorkbookTables()); err != nil {
		return csvPath, "", fmt.Errorf("writing workbook: %w", err)
	}
	return csvPath, xlsxPath, nil
}
