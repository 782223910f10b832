package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"Remediation-server/models"

	"github.com/xuri/excelize/v2"
)

// DefaultHeaderRow is the zero-based row holding the column names. The two
// rows above it carry report metadata.
const DefaultHeaderRow = 2

// LoadSheet reads the named worksheet and returns one row per non-blank
// line below the header. Column names are trimmed and empty cells become "".
func LoadSheet(path, sheet string, headerRow int) ([]models.TestResultRow, error) {
	formatErr := func(err error) error {
		return &FileFormatError{Path: path, Sheet: sheet, Err: err}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, formatErr(err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, formatErr(fmt.Errorf("worksheet %q does not exist", sheet))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, formatErr(err)
	}
	if len(rows) <= headerRow {
		return nil, formatErr(fmt.Errorf("expected header on row %d, sheet has %d rows", headerRow+1, len(rows)))
	}
	if isBlankRow(rows[headerRow]) {
		return nil, formatErr(fmt.Errorf("header row %d is empty", headerRow+1))
	}

	width := 0
	for _, cells := range rows[headerRow:] {
		width = max(width, len(cells))
	}
	columns := headerColumns(rows[headerRow], width)
	for _, required := range []string{models.StatusColumn, models.MessageColumn} {
		if !contains(columns, required) {
			return nil, formatErr(fmt.Errorf("missing required column %q", required))
		}
	}

	var result []models.TestResultRow
	for r := headerRow + 1; r < len(rows); r++ {
		cells := rows[r]
		if isBlankRow(cells) {
			continue
		}
		row := models.NewTestResultRow(columns)
		for c, name := range columns {
			row.Values[name] = ""
			if c < len(cells) && cells[c] != "" {
				row.Values[name] = cellValue(f, sheet, c, r, cells[c])
			}
		}
		result = append(result, row)
	}
	return result, nil
}

// headerColumns names every column up to width. Blank headers get a
// positional name and repeated headers a numeric suffix.
func headerColumns(header []string, width int) []string {
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := range columns {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		seen[name] = 0
		columns[i] = name
	}
	return columns
}

// cellValue keeps numbers and booleans typed. A number is only converted
// when its display text matches the stored value, so dates and other
// formatted cells stay as shown.
func cellValue(f *excelize.File, sheet string, col, row int, display string) any {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return display
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return display
	}
	switch typ {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(display); err == nil {
			return b
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil || raw != display {
			return display
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return display
		}
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	}
	return display
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
