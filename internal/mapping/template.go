package mapping

import (
	"encoding/csv"
	"strings"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// GenerateTemplate produces a blank CSV whose header row uses the canonical
// display names, plus one example row, so re-importing the file maps every
// field with exact-match confidence.
func GenerateTemplate() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	headers := make([]string, 0, len(fieldConfigs))
	for _, fc := range fieldConfigs {
		headers = append(headers, fc.Display)
	}
	_ = w.Write(headers)
	_ = w.Write(exampleRow())
	w.Flush()

	return sb.String()
}

// TemplateMapping returns the mapping a template-generated CSV produces:
// every canonical field bound to its display header.
func TemplateMapping() types.FieldMapping {
	m := types.FieldMapping{}
	for _, fc := range fieldConfigs {
		m[fc.Field] = fc.Display
	}
	return m
}

func exampleRow() []string {
	example := map[types.Field]string{
		types.FieldCompany:        "Acme Corp",
		types.FieldPosition:       "Software Engineer",
		types.FieldLocation:       "Remote",
		types.FieldType:           string(types.TypeFullTime),
		types.FieldSalary:         "$120,000 - $150,000",
		types.FieldStatus:         string(types.StatusApplied),
		types.FieldPriority:       string(types.PriorityMedium),
		types.FieldAppliedDate:    "2024-01-15",
		types.FieldNotes:          "Referred by a former colleague",
		types.FieldContactPerson:  "Jordan Smith",
		types.FieldContactEmail:   "jordan.smith@acme.example",
		types.FieldWebsite:        "https://acme.example",
		types.FieldJobURL:         "https://acme.example/careers/123",
		types.FieldCompanyWebsite: "https://acme.example",
		types.FieldTags:           "backend; go",
		types.FieldRequirements:   "Go; PostgreSQL",
	}

	row := make([]string, 0, len(fieldConfigs))
	for _, fc := range fieldConfigs {
		row = append(row, example[fc.Field])
	}
	return row
}
