package validation

import (
	"fmt"
	"sort"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// Result holds the outcome of validating a dataset. CleanedData always has
// the same length as the input: rows with outstanding errors stay in place,
// flagged through ErrorRows, and are dropped only at conversion or by an
// explicit caller decision.
type Result struct {
	Errors      []types.ValidationError   `json:"errors"`
	Warnings    []types.ValidationWarning `json:"warnings"`
	CleanedData []types.RawRow            `json:"cleaned_data"`
}

// ValidateDataset checks every mapped cell of every row against its field's
// rules. Warnings are auto-corrected into CleanedData; errors are not.
func ValidateDataset(rows []types.RawRow, fieldMapping types.FieldMapping) *Result {
	res := &Result{CleanedData: make([]types.RawRow, 0, len(rows))}

	// Stable field order keeps error/warning output deterministic
	orderedFields := make([]mapping.FieldConfig, 0, len(fieldMapping))
	for _, fc := range mapping.Fields() {
		if _, ok := fieldMapping[fc.Field]; ok {
			orderedFields = append(orderedFields, fc)
		}
	}

	for rowIndex, row := range rows {
		cleaned := make(types.RawRow, len(row))
		for k, v := range row {
			cleaned[k] = v
		}

		for _, fc := range orderedFields {
			column := fieldMapping[fc.Field]
			outcome := checkCell(fc, rowIndex, column, row[column])
			cleaned[column] = outcome.cleaned
			if outcome.err != nil {
				res.Errors = append(res.Errors, *outcome.err)
			}
			if outcome.warn != nil {
				res.Warnings = append(res.Warnings, *outcome.warn)
			}
		}

		res.CleanedData = append(res.CleanedData, cleaned)
	}

	return res
}

// ErrorRows returns the set of row indexes with at least one outstanding error
func (r *Result) ErrorRows() map[int]bool {
	rows := make(map[int]bool, len(r.Errors))
	for _, e := range r.Errors {
		rows[e.Row] = true
	}
	return rows
}

// Summary describes whether the import can proceed and what to fix first
type Summary struct {
	CanProceed      bool     `json:"can_proceed"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Summarize derives the validation summary: the import can proceed only when
// no errors remain, and recommendations are ranked by how many rows each
// problem column affects.
func (r *Result) Summarize() Summary {
	s := Summary{
		CanProceed: len(r.Errors) == 0,
		Summary: fmt.Sprintf("%d rows checked: %d errors, %d warnings",
			len(r.CleanedData), len(r.Errors), len(r.Warnings)),
	}

	if len(r.Errors) > 0 {
		byColumn := map[string]int{}
		for _, e := range r.Errors {
			byColumn[e.Column]++
		}
		columns := make([]string, 0, len(byColumn))
		for col := range byColumn {
			columns = append(columns, col)
		}
		sort.Slice(columns, func(i, j int) bool {
			if byColumn[columns[i]] != byColumn[columns[j]] {
				return byColumn[columns[i]] > byColumn[columns[j]]
			}
			return columns[i] < columns[j]
		})
		for _, col := range columns {
			s.Recommendations = append(s.Recommendations,
				fmt.Sprintf("Fix column %q: %d rows blocked", col, byColumn[col]))
		}
	}

	if len(r.Warnings) > 0 {
		s.Recommendations = append(s.Recommendations,
			fmt.Sprintf("%d values were auto-corrected; review the warnings before committing", len(r.Warnings)))
	}

	return s
}
