package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// sheetNameLimit is the xlsx hard cap on sheet name length.
const sheetNameLimit = 31

// WriteWorkbook writes the tables to one xlsx file, one sheet per table in
// the given order.
func WriteWorkbook(path string, tables []OutputTable) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		name := sheetName(table.Name, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("adding sheet %s: %w", name, err)
			}
		}

		header := make([]interface{}, len(table.Columns))
		for c, col := range table.Columns {
			header[c] = col
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("writing sheet %s header: %w", name, err)
		}
		for rIdx, row := range table.Rows {
			cell, err := excelize.CoordinatesToCellName(1, rIdx+2)
			if err != nil {
				return err
			}
			vals := make([]interface{}, len(row))
			for c, v := range row {
				vals[c] = v
			}
			if err := f.SetSheetRow(name, cell, &vals); err != nil {
				return fmt.Errorf("writing sheet %s row %d: %w", name, rIdx+2, err)
			}
		}
	}

	return f.SaveAs(path)
}

// sheetName enforces the xlsx length cap.
func sheetName(name string, idx int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", idx+1)
	}
	if runes := []rune(name); len(runes) > sheetNameLimit {
		name = string(runes[:sheetNameLimit])
	}
	return name
}
