package types

// Field identifies a canonical application attribute that CSV columns map onto
type Field string

const (
	FieldCompany        Field = "company"
	FieldPosition       Field = "position"
	FieldLocation       Field = "location"
	FieldType           Field = "type"
	FieldSalary         Field = "salary"
	FieldStatus         Field = "status"
	FieldPriority       Field = "priority"
	FieldAppliedDate    Field = "appliedDate"
	FieldResponseDate   Field = "responseDate"
	FieldInterviewDate  Field = "interviewDate"
	FieldNotes          Field = "notes"
	FieldContactPerson  Field = "contactPerson"
	FieldContactEmail   Field = "contactEmail"
	FieldWebsite        Field = "website"
	FieldJobURL         Field = "jobUrl"
	FieldJobDescription Field = "jobDescription"
	FieldCompanyWebsite Field = "companyWebsite"
	FieldTags           Field = "tags"
	FieldRequirements   Field = "requirements"
)

// RawRow is one parsed CSV data line: column name to raw cell value
type RawRow map[string]string

// FieldMapping maps canonical fields to the CSV column that supplies them.
// At most one column per field; company is the only field required for an
// import to proceed. Callers may edit the mapping before committing.
type FieldMapping map[Field]string

// ConfidenceMap holds the detector's per-field certainty in [0,1].
// Purely advisory; never blocks an import.
type ConfidenceMap map[Field]float64

// ValidationError marks a cell condition that blocks the row from importing
type ValidationError struct {
	Row          int    `json:"row"`
	Column       string `json:"column"`
	Message      string `json:"message"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// ValidationWarning marks a cell condition that was auto-corrected
type ValidationWarning struct {
	Row          int    `json:"row"`
	Column       string `json:"column"`
	Message      string `json:"message"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// ResolutionAction is the recommended way to collapse a duplicate group
type ResolutionAction string

const (
	ResolutionMerge            ResolutionAction = "merge"
	ResolutionKeepNewest       ResolutionAction = "keep_newest"
	ResolutionKeepOldest       ResolutionAction = "keep_oldest"
	ResolutionDeleteDuplicates ResolutionAction = "delete_duplicates"
	ResolutionKeepAll          ResolutionAction = "keep_all"
)

// DuplicateMember tags a group member with its origin: a row index in the
// incoming batch, or an existing stored record.
type DuplicateMember struct {
	Application Application `json:"application"`
	RowIndex    int         `json:"row_index"`
	Existing    bool        `json:"existing"`
}

// DuplicateGroup is a set of applications judged to represent the same
// real-world application. Groups are disjoint: no member appears twice.
type DuplicateGroup struct {
	ID           string           `json:"id"`
	Members      []DuplicateMember `json:"members"`
	Confidence   float64          `json:"confidence"`
	Reasons      []string         `json:"reasons"`
	Resolution   ResolutionAction `json:"resolution"`
	MergePreview *Application     `json:"merge_preview,omitempty"`
}

// ImportStage identifies where the pipeline currently is
type ImportStage string

const (
	StageUploading  ImportStage = "uploading"
	StageParsing    ImportStage = "parsing"
	StageValidating ImportStage = "validating"
	StageImporting  ImportStage = "importing"
	StageComplete   ImportStage = "complete"
	StageFailed     ImportStage = "failed"
)

// ImportProgress is one progress event emitted during a pipeline run.
// Progress is monotonic in [0,100]; exactly one terminal event is emitted
// (complete or failed).
type ImportProgress struct {
	Stage    ImportStage `json:"stage"`
	Progress int         `json:"progress"`
	Message  string      `json:"message"`
	Current  int         `json:"current"`
	Total    int         `json:"total"`
}

// ImportSummary aggregates the outcome of one pipeline run
type ImportSummary struct {
	TotalRows       int      `json:"total_rows"`
	SuccessfulRows  int      `json:"successful_rows"`
	SkippedRows     int      `json:"skipped_rows"`
	DuplicatesFound int      `json:"duplicates_found"`
	Suggestions     []string `json:"suggestions,omitempty"`
}
