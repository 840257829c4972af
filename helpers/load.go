package helpers

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/schema"
)

// ============================================================================
// LOADER — one-time dataset read at process start
// ============================================================================

// Source describes where the launch dataset lives.
type Source struct {
	Path    string
	Sheet   string // xlsx only; empty = first sheet
	Columns schema.Columns
}

// Dataset is the loaded, immutable table plus its payload bounds.
type Dataset struct {
	Table   *engine.LaunchTable
	Payload engine.PayloadRange
	Sites   []string
}

// LoadFile reads a dataset from disk. The format is picked from the file
// extension: .xlsx is read as a workbook, .tsv as tab-separated text, .txt
// as tab- or comma-separated text depending on its header line, and
// anything else as CSV. Every failure is an *engine.DataLoadError.
func LoadFile(src Source, log logr.Logger) (*Dataset, error) {
	if len(src.Columns.Fields) == 0 {
		src.Columns = schema.DefaultColumns()
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, &engine.DataLoadError{Path: src.Path, Err: err}
	}

	var records []engine.LaunchRecord
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".xlsx":
		records, err = ParseXLSX(bytes.NewReader(data), src.Sheet, src.Columns)
	case ".tsv":
		records, err = ParseDelimited(data, '\t', src.Columns)
	case ".txt":
		records, err = ParseDelimited(data, sniffComma(data), src.Columns)
	default:
		records, err = ParseCSV(data, src.Columns)
	}
	if err != nil {
		return nil, &engine.DataLoadError{Path: src.Path, Err: err}
	}
	if len(records) == 0 {
		return nil, &engine.DataLoadError{Path: src.Path, Err: fmt.Errorf("no launch rows")}
	}

	table := engine.NewLaunchTable(records)
	ds := &Dataset{
		Table:   table,
		Payload: engine.PayloadBounds(table),
		Sites:   engine.Sites(table),
	}
	log.Info("loaded launch dataset", "path", src.Path, "launches", table.Len(),
		"sites", len(ds.Sites), "payloadMin", ds.Payload.Low, "payloadMax", ds.Payload.High)
	return ds, nil
}

// sniffComma picks the separator of plain text exports: tab when the header
// line has one, comma otherwise.
func sniffComma(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.IndexByte(header, '\t') >= 0 {
		return '\t'
	}
	return ','
}
