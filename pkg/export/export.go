// Package export encodes launch records as CSV or XLSX tables.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"spacedash/pkg/record"
)

// Format selects the output encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultSheet names the worksheet when none is configured
const DefaultSheet = "Launches"

// Columns are the launch table headers, in order
var Columns = []string{
	"launch_name",
	"provider",
	"rocket_name",
	"mission_name",
	"mission_type",
	"mission_description",
	"window_start",
	"window_end",
	"pad_name",
	"location_name",
}

var columnPaths = []string{
	"name",
	"launch_service_provider.name",
	"rocket.configuration.name",
	"mission.name",
	"mission.type",
	"mission.description",
	"window_start",
	"window_end",
	"pad.name",
	"pad.location.name",
}

// Row is one flattened launch. Missing values are empty strings.
type Row []string

// Get returns the value of the named column
func (r Row) Get(column string) string {
	for i, c := range Columns {
		if c == column && i < len(r) {
			return r[i]
		}
	}
	return ""
}

// ParseFormat validates a format selector
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", s)
	}
}

// Filename is the suggested download name for the format
func (f Format) Filename() string {
	return "launch_data." + string(f)
}

// MIMEType is the content type for the format
func (f Format) MIMEType() string {
	if f == FormatXLSX {
		return "application/vnd.ms-excel"
	}
	return "text/csv"
}

// LaunchRows flattens launch records into table rows
func LaunchRows(records []record.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := make(Row, len(columnPaths))
		for i, path := range columnPaths {
			row[i] = r.Str(path, "")
		}
		rows = append(rows, row)
	}
	return rows
}

// Encode renders rows with a header line in the given format
func Encode(rows []Row, format Format, sheet string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(rows)
	case FormatXLSX:
		return encodeXLSX(rows, sheet)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func encodeCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeXLSX(rows []Row, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
