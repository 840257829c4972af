package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/schema"
)

// ============================================================================
// CSV HELPER — Parses delimited text into []engine.LaunchRecord
// ============================================================================
// The caller reads the bytes from wherever they live. Headers are resolved
// through the schema; a row that cannot become a valid LaunchRecord fails
// the whole parse with its line number.
// ============================================================================

// ParseCSV parses comma-separated bytes into launch records.
func ParseCSV(data []byte, sch schema.Columns) ([]engine.LaunchRecord, error) {
	return ParseDelimited(data, ',', sch)
}

// ParseDelimited parses delimited text with the given separator.
func ParseDelimited(data []byte, comma rune, sch schema.Columns) ([]engine.LaunchRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	idx, err := sch.Resolve(headers)
	if err != nil {
		return nil, err
	}

	var records []engine.LaunchRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(idx, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseRow converts one data row into a LaunchRecord.
func parseRow(idx *schema.Index, row []string) (engine.LaunchRecord, error) {
	rec := engine.LaunchRecord{
		LaunchSite:             idx.Value(row, schema.FieldLaunchSite),
		BoosterVersion:         idx.Value(row, schema.FieldBoosterVersion),
		BoosterVersionCategory: idx.Value(row, schema.FieldBoosterVersionCategory),
	}
	if rec.LaunchSite == "" {
		return rec, fmt.Errorf("empty launch site")
	}

	payload, err := parseNumber(idx.Value(row, schema.FieldPayloadMassKg))
	if err != nil || payload < 0 || math.IsNaN(payload) || math.IsInf(payload, 0) {
		return rec, fmt.Errorf("payload %q is not a non-negative number", idx.Value(row, schema.FieldPayloadMassKg))
	}
	rec.PayloadMassKg = payload

	class, err := parseNumber(idx.Value(row, schema.FieldClass))
	if err != nil || (class != engine.ClassFailure && class != engine.ClassSuccess) {
		return rec, fmt.Errorf("class %q must be 0 or 1", idx.Value(row, schema.FieldClass))
	}
	rec.Class = int(class)

	if raw := idx.Value(row, schema.FieldFlightNumber); raw != "" {
		n, err := parseNumber(raw)
		if err != nil {
			return rec, fmt.Errorf("flight number %q: %w", raw, err)
		}
		rec.FlightNumber = int(n)
	}
	return rec, nil
}

// parseNumber accepts plain and thousands-separated numbers ("9,600").
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
