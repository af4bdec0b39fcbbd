package parsing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// Warning flags a structural oddity on a single row. Source files come from
// heterogeneous job-board exports, so the parser is lenient: a warning never
// aborts the import.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Dataset is the parsed form of a CSV file
type Dataset struct {
	Headers  []string       `json:"headers"`
	Rows     []types.RawRow `json:"rows"`
	Warnings []Warning      `json:"warnings,omitempty"`
}

// Parse tokenizes decoded CSV text into headers and rows. Quoted fields may
// contain delimiters and newlines; fully-blank lines are skipped; rows with
// a column count different from the header are kept (padded or truncated)
// and flagged with a warning. A file with no header row is a ParseError.
func Parse(text string) (*Dataset, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Message: "file is empty"}
	}
	if err != nil {
		return nil, &ParseError{Message: "could not read header row", Cause: err}
	}

	headers := make([]string, 0, len(headerRecord))
	for _, h := range headerRecord {
		headers = append(headers, strings.TrimSpace(h))
	}
	if allBlank(headers) {
		return nil, &ParseError{Message: "header row is blank"}
	}

	return collectRows(reader, headers), nil
}

// collectRows drains the reader into a dataset. Warning.Row values index
// into Dataset.Rows so they line up with downstream validation issues;
// skipped lines (blank or malformed) occupy no row, so their warnings point
// at the slot the next kept row fills.
func collectRows(reader *csv.Reader, headers []string) *Dataset {
	ds := &Dataset{Headers: headers}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line; record it and keep going
			ds.Warnings = append(ds.Warnings, Warning{
				Row:     len(ds.Rows),
				Message: fmt.Sprintf("malformed line skipped: %v", err),
			})
			continue
		}

		if allBlank(record) {
			continue
		}

		if len(record) != len(headers) {
			ds.Warnings = append(ds.Warnings, Warning{
				Row:     len(ds.Rows),
				Message: fmt.Sprintf("expected %d columns, got %d", len(headers), len(record)),
			})
		}

		row := make(types.RawRow, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds
}

func allBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
