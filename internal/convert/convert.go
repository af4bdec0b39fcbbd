// Package convert turns validated, mapped CSV rows into canonical
// application records.
package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/parsing"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/validation"
)

// ConversionError indicates a row could not become an application record.
// It should not occur for rows that passed validation; the orchestrator
// catches it, skips the row, and keeps going.
type ConversionError struct {
	Row     int
	Message string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error at row %d: %s", e.Row, e.Message)
}

// Row converts one cleaned row into an Application, applying type coercion
// for dates, enums, and list fields, and stamping a fresh id and creation
// timestamp. The required company field is re-checked defensively even
// though validation already gates on it.
func Row(row types.RawRow, fieldMapping types.FieldMapping, index int) (types.Application, error) {
	company := strings.TrimSpace(cell(row, fieldMapping, types.FieldCompany))
	if company == "" {
		return types.Application{}, &ConversionError{Row: index, Message: "required field company is empty"}
	}

	now := time.Now().UTC()
	app := types.Application{
		ID:             uuid.NewString(),
		Company:        company,
		Position:       strings.TrimSpace(cell(row, fieldMapping, types.FieldPosition)),
		Location:       strings.TrimSpace(cell(row, fieldMapping, types.FieldLocation)),
		Salary:         strings.TrimSpace(cell(row, fieldMapping, types.FieldSalary)),
		Notes:          strings.TrimSpace(cell(row, fieldMapping, types.FieldNotes)),
		ContactPerson:  strings.TrimSpace(cell(row, fieldMapping, types.FieldContactPerson)),
		ContactEmail:   strings.TrimSpace(cell(row, fieldMapping, types.FieldContactEmail)),
		Website:        strings.TrimSpace(cell(row, fieldMapping, types.FieldWebsite)),
		JobURL:         strings.TrimSpace(cell(row, fieldMapping, types.FieldJobURL)),
		JobDescription: strings.TrimSpace(cell(row, fieldMapping, types.FieldJobDescription)),
		CompanyWebsite: strings.TrimSpace(cell(row, fieldMapping, types.FieldCompanyWebsite)),
		Tags:           validation.SplitList(cell(row, fieldMapping, types.FieldTags)),
		Requirements:   validation.SplitList(cell(row, fieldMapping, types.FieldRequirements)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if status, ok := types.ParseStatus(cell(row, fieldMapping, types.FieldStatus)); ok {
		app.Status = status
	} else {
		app.Status = types.StatusApplied
	}
	if jobType, ok := types.ParseJobType(cell(row, fieldMapping, types.FieldType)); ok {
		app.Type = jobType
	} else {
		app.Type = types.TypeFullTime
	}
	if priority, ok := types.ParsePriority(cell(row, fieldMapping, types.FieldPriority)); ok {
		app.Priority = priority
	} else {
		app.Priority = types.PriorityMedium
	}

	app.AppliedDate = dateCell(row, fieldMapping, types.FieldAppliedDate)
	app.ResponseDate = dateCell(row, fieldMapping, types.FieldResponseDate)
	app.InterviewDate = dateCell(row, fieldMapping, types.FieldInterviewDate)

	return app, nil
}

func cell(row types.RawRow, fieldMapping types.FieldMapping, field types.Field) string {
	column, ok := fieldMapping[field]
	if !ok {
		return ""
	}
	return row[column]
}

func dateCell(row types.RawRow, fieldMapping types.FieldMapping, field types.Field) *time.Time {
	parsed, ok := parsing.ParseDate(cell(row, fieldMapping, field))
	if !ok {
		return nil
	}
	return &parsed
}
