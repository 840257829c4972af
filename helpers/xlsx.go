package helpers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/schema"
)

// ============================================================================
// XLSX HELPER — Parses a spreadsheet sheet into []engine.LaunchRecord
// ============================================================================
// The first row of the sheet is the header row. Rows go through the same
// validation as CSV rows.
// ============================================================================

// ParseXLSX reads launch records from a workbook. An empty sheet name
// selects the first sheet.
func ParseXLSX(r io.Reader, sheet string, sch schema.Columns) ([]engine.LaunchRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	idx, err := sch.Resolve(rows[0])
	if err != nil {
		return nil, err
	}

	var records []engine.LaunchRecord
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(idx, row)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
