package tool

import (
	"github.com/xuri/excelize/v2"

	"github.com/wemcdonald/boxr/pkg/errors"
)

// ReadWorkbookFile parses a tool table from the first sheet of an XLSX
// workbook. The sheet must follow the same header contract as the CSV
// reader: name, row, col, handle_d_mm, shaft_d_mm and optionally enabled.
func ReadWorkbookFile(path string) (*Set, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "open %s", path)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidWorkbook, "sheet %q has no header row", sheet)
	}

	cols, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var tools []Tool
	for i, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		t, err := parseRecord(record, cols, i+2)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return NewSet(tools), nil
}

// isBlankRow reports whether every cell in the row is empty. Spreadsheets
// often carry trailing formatted-but-empty rows.
func isBlankRow(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
