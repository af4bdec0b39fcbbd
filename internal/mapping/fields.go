// Package mapping proposes a mapping from canonical application fields to
// CSV column names, with a confidence score per field.
package mapping

import "github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"

// FieldKind drives type-specific validation and content sniffing
type FieldKind string

const (
	KindText  FieldKind = "text"
	KindDate  FieldKind = "date"
	KindEmail FieldKind = "email"
	KindURL   FieldKind = "url"
	KindEnum  FieldKind = "enum"
	KindList  FieldKind = "list"
)

// FieldConfig describes one canonical field: its header aliases, kind, and
// whether an import can proceed without it.
type FieldConfig struct {
	Field    types.Field
	Display  string // header used in the exported template
	Kind     FieldKind
	Required bool
	Aliases  []string
}

// fieldConfigs is the closed registry of canonical fields. Order matters:
// it is the tie-break for equal detection scores and the column order of the
// exported template.
var fieldConfigs = []FieldConfig{
	{
		Field: types.FieldCompany, Display: "Company", Kind: KindText, Required: true,
		Aliases: []string{"company", "company name", "employer", "organization", "org", "firm"},
	},
	{
		Field: types.FieldPosition, Display: "Position", Kind: KindText,
		Aliases: []string{"position", "job title", "title", "role", "job", "job position"},
	},
	{
		Field: types.FieldLocation, Display: "Location", Kind: KindText,
		Aliases: []string{"location", "city", "place", "office", "work location"},
	},
	{
		Field: types.FieldType, Display: "Type", Kind: KindEnum,
		Aliases: []string{"type", "job type", "employment type", "work type"},
	},
	{
		Field: types.FieldSalary, Display: "Salary", Kind: KindText,
		Aliases: []string{"salary", "pay", "compensation", "wage", "salary range"},
	},
	{
		Field: types.FieldStatus, Display: "Status", Kind: KindEnum,
		Aliases: []string{"status", "application status", "stage", "state"},
	},
	{
		Field: types.FieldPriority, Display: "Priority", Kind: KindEnum,
		Aliases: []string{"priority", "importance"},
	},
	{
		Field: types.FieldAppliedDate, Display: "Applied Date", Kind: KindDate,
		Aliases: []string{"applied date", "date applied", "application date", "applied", "applied on"},
	},
	{
		Field: types.FieldResponseDate, Display: "Response Date", Kind: KindDate,
		Aliases: []string{"response date", "date responded", "response", "heard back", "replied"},
	},
	{
		Field: types.FieldInterviewDate, Display: "Interview Date", Kind: KindDate,
		Aliases: []string{"interview date", "interview", "interview on", "interview scheduled"},
	},
	{
		Field: types.FieldNotes, Display: "Notes", Kind: KindText,
		Aliases: []string{"notes", "note", "comments", "comment", "remarks"},
	},
	{
		Field: types.FieldContactPerson, Display: "Contact Person", Kind: KindText,
		Aliases: []string{"contact person", "contact", "contact name", "recruiter", "hiring manager"},
	},
	{
		Field: types.FieldContactEmail, Display: "Contact Email", Kind: KindEmail,
		Aliases: []string{"contact email", "email", "e-mail", "recruiter email"},
	},
	{
		Field: types.FieldWebsite, Display: "Website", Kind: KindURL,
		Aliases: []string{"website", "web site", "site"},
	},
	{
		Field: types.FieldJobURL, Display: "Job URL", Kind: KindURL,
		Aliases: []string{"job url", "url", "link", "job link", "posting url", "job posting url"},
	},
	{
		Field: types.FieldJobDescription, Display: "Job Description", Kind: KindText,
		Aliases: []string{"job description", "description", "summary", "posting"},
	},
	{
		Field: types.FieldCompanyWebsite, Display: "Company Website", Kind: KindURL,
		Aliases: []string{"company website", "company url", "company site"},
	},
	{
		Field: types.FieldTags, Display: "Tags", Kind: KindList,
		Aliases: []string{"tags", "tag", "labels", "keywords"},
	},
	{
		Field: types.FieldRequirements, Display: "Requirements", Kind: KindList,
		Aliases: []string{"requirements", "skills", "qualifications", "tech stack"},
	},
}

// Fields returns the canonical field registry in declaration order
func Fields() []FieldConfig {
	out := make([]FieldConfig, len(fieldConfigs))
	copy(out, fieldConfigs)
	return out
}

// ConfigFor looks up the configuration of one canonical field
func ConfigFor(field types.Field) (FieldConfig, bool) {
	for _, fc := range fieldConfigs {
		if fc.Field == field {
			return fc, true
		}
	}
	return FieldConfig{}, false
}
