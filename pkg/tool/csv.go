package tool

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wemcdonald/boxr/pkg/errors"
)

// Columns required in every tool table, CSV or XLSX.
var requiredColumns = []string{"name", "row", "col", "handle_d_mm", "shaft_d_mm"}

// enabledColumn is optional; absent or empty values mean enabled.
const enabledColumn = "enabled"

// Load reads a tool table from path, selecting the reader by extension.
// Supported: .csv, .xlsx.
func Load(path string) (*Set, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "open %s", path)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadWorkbookFile(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported tool table %s (expected .csv or .xlsx)", path)
	}
}

// ReadCSV parses a tool table from CSV. The first record must be a header row
// containing name, row, col, handle_d_mm, shaft_d_mm and optionally enabled.
// A UTF-8 byte-order mark before the header is tolerated since spreadsheet
// exports routinely prepend one.
func ReadCSV(r io.Reader) (*Set, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "CSV must include a header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var tools []Tool
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "read line %d", line)
		}
		t, err := parseRecord(record, cols, line)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return NewSet(tools), nil
}

// columnIndex maps required and optional column names to their positions.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidCSV,
			"missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseRecord converts one data row into a Tool.
func parseRecord(record []string, cols map[string]int, line int) (Tool, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row, err := strconv.Atoi(field("row"))
	if err != nil {
		return Tool{}, errors.New(errors.ErrCodeInvalidCSV, "line %d: invalid row %q", line, field("row"))
	}
	col, err := strconv.Atoi(field("col"))
	if err != nil {
		return Tool{}, errors.New(errors.ErrCodeInvalidCSV, "line %d: invalid col %q", line, field("col"))
	}
	handle, err := strconv.ParseFloat(field("handle_d_mm"), 64)
	if err != nil {
		return Tool{}, errors.New(errors.ErrCodeInvalidCSV, "line %d: invalid handle_d_mm %q", line, field("handle_d_mm"))
	}
	shaft, err := strconv.ParseFloat(field("shaft_d_mm"), 64)
	if err != nil {
		return Tool{}, errors.New(errors.ErrCodeInvalidCSV, "line %d: invalid shaft_d_mm %q", line, field("shaft_d_mm"))
	}

	return Tool{
		Label:          field("name"),
		Row:            row,
		Col:            col,
		HandleDiameter: handle,
		ShaftDiameter:  shaft,
		Active:         parseEnabled(field(enabledColumn)),
	}, nil
}

// parseEnabled interprets the optional enabled flag. Empty means enabled;
// only the explicit disable spellings used by the legacy tables are false.
func parseEnabled(value string) bool {
	switch value {
	case "0", "false", "False", "FALSE":
		return false
	default:
		return true
	}
}
