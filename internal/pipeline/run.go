// Package pipeline provides the high-level orchestration for the CSV import process.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/convert"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/dedup"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/encoding"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/parsing"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/validation"
)

const (
	// DefaultBatchSize is how many rows each conversion batch processes
	// before yielding to the host.
	DefaultBatchSize = 1000

	// DefaultYieldDelay is the cooperative pause between batches. The
	// context is checked at the same point, which makes it the natural
	// cancellation checkpoint.
	DefaultYieldDelay = 10 * time.Millisecond
)

// ProgressCallback is called with each progress event during a run.
// Events are strictly ordered and progress is monotonic; exactly one
// terminal event (complete or failed) is emitted per run.
type ProgressCallback func(event types.ImportProgress)

// Options holds configuration for running the import pipeline
type Options struct {
	// Mapping overrides auto-detection when non-nil (e.g. a saved preset
	// or a user-edited detection result).
	Mapping types.FieldMapping

	// Existing applications enable cross-batch duplicate detection.
	Existing []types.Application

	// SkipRows marks row indexes the caller explicitly chose to skip
	// despite outstanding validation errors.
	SkipRows map[int]bool

	// DedupConfig overrides the default similarity weights and thresholds.
	DedupConfig *dedup.Config

	BatchSize  int
	YieldDelay time.Duration
	OnProgress ProgressCallback
}

// Result is everything one pipeline run produces. Applications holds the
// importable records; the caller persists them and renders the rest.
type Result struct {
	Applications    []types.Application       `json:"applications"`
	Summary         types.ImportSummary       `json:"summary"`
	Errors          []types.ValidationError   `json:"errors"`
	Warnings        []types.ValidationWarning `json:"warnings"`
	DuplicateGroups []types.DuplicateGroup    `json:"duplicate_groups,omitempty"`
	Mapping         types.FieldMapping        `json:"mapping"`
	Confidence      types.ConfidenceMap       `json:"confidence"`
	Validation      validation.Summary        `json:"validation"`
	Encoding        encoding.Detection        `json:"encoding"`
	ParseWarnings   []parsing.Warning         `json:"parse_warnings,omitempty"`
}

// PipelineError represents an unrecoverable failure that aborted the run
type PipelineError struct {
	Stage   types.ImportStage
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import failed during %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("import failed during %s: %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Run executes the full import pipeline over raw file bytes: decode, parse,
// detect columns, validate, convert, and detect duplicates. Only file-level
// failures return an error; row-level problems degrade to partial success
// with a detailed summary. Rows with outstanding validation errors (not in
// SkipRows) block conversion: the run completes with zero applications and
// Validation.CanProceed false so the host can surface the errors first.
func Run(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.YieldDelay <= 0 {
		opts.YieldDelay = DefaultYieldDelay
	}

	emit := func(stage types.ImportStage, progress int, message string, current, total int) {
		if opts.OnProgress != nil {
			opts.OnProgress(types.ImportProgress{
				Stage: stage, Progress: progress, Message: message,
				Current: current, Total: total,
			})
		}
	}
	fail := func(stage types.ImportStage, message string, cause error) (*Result, error) {
		emit(types.StageFailed, 100, message, 0, 0)
		return nil, &PipelineError{Stage: stage, Message: message, Cause: cause}
	}

	// Stage: uploading (decode)
	emit(types.StageUploading, 5, "Detecting file encoding", 0, 0)
	text, detection, err := encoding.DetectAndDecode(data)
	if err != nil {
		return fail(types.StageUploading, "could not decode file", err)
	}

	// Stage: parsing
	emit(types.StageParsing, 15, "Parsing CSV", 0, 0)
	ds, err := parsing.Parse(text)
	if err != nil {
		return fail(types.StageParsing, "could not parse file", err)
	}
	if len(ds.Rows) == 0 {
		return fail(types.StageParsing, "no data rows after filtering", nil)
	}
	emit(types.StageParsing, 25, fmt.Sprintf("Parsed %d rows", len(ds.Rows)), len(ds.Rows), len(ds.Rows))

	res := &Result{
		Encoding:      detection,
		ParseWarnings: ds.Warnings,
	}

	// Column detection, unless the caller supplied a mapping
	fieldMapping := opts.Mapping
	var suggestions []string
	if fieldMapping == nil {
		detected := mapping.DetectColumns(ds.Headers, sampleRows(ds.Rows, 20))
		fieldMapping = detected.Mapping
		res.Confidence = detected.Confidence
		suggestions = detected.Suggestions
	}
	res.Mapping = fieldMapping

	if _, ok := fieldMapping[types.FieldCompany]; !ok {
		return fail(types.StageParsing, "no column is mapped to the required field company", nil)
	}

	// Stage: validating
	emit(types.StageValidating, 35, "Validating rows", 0, len(ds.Rows))
	vres := validation.ValidateDataset(ds.Rows, fieldMapping)
	res.Errors = vres.Errors
	res.Warnings = vres.Warnings
	res.Validation = vres.Summarize()
	emit(types.StageValidating, 50,
		fmt.Sprintf("Validated %d rows: %d errors, %d warnings", len(ds.Rows), len(vres.Errors), len(vres.Warnings)),
		len(ds.Rows), len(ds.Rows))

	// Conversion is gated on outstanding errors the caller has not skipped
	outstanding := 0
	errorRows := vres.ErrorRows()
	for rowIndex := range errorRows {
		if !opts.SkipRows[rowIndex] {
			outstanding++
		}
	}
	if outstanding > 0 {
		res.Summary = summarize(len(ds.Rows), nil, len(ds.Rows), nil, suggestions)
		res.Summary.Suggestions = append(res.Summary.Suggestions,
			fmt.Sprintf("%d rows have validation errors; fix them or mark them skipped to import the rest", outstanding))
		emit(types.StageComplete, 100, "Import blocked by validation errors", 0, len(ds.Rows))
		return res, nil
	}

	// Stage: importing (conversion in batches)
	total := len(vres.CleanedData)
	skipped := 0
	members := make([]types.DuplicateMember, 0, total)
	for start := 0; start < total; start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > total {
			end = total
		}

		for rowIndex := start; rowIndex < end; rowIndex++ {
			if opts.SkipRows[rowIndex] || errorRows[rowIndex] {
				skipped++
				continue
			}
			app, err := convert.Row(vres.CleanedData[rowIndex], fieldMapping, rowIndex)
			if err != nil {
				// Defensive: validation should have caught this
				skipped++
				continue
			}
			members = append(members, dedup.BatchMember(app, rowIndex))
		}

		progress := 55 + int(float64(end)/float64(total)*35)
		emit(types.StageImporting, progress,
			fmt.Sprintf("Converted %d of %d rows", end, total), end, total)

		// Yield between batches; this is also the cancellation checkpoint
		if end < total {
			select {
			case <-ctx.Done():
				return fail(types.StageImporting, "import cancelled", ctx.Err())
			case <-time.After(opts.YieldDelay):
			}
		}
	}

	// Duplicate detection over converted rows plus existing applications.
	// The pairwise pass dominates large runs; progress and cancellation
	// go through the detector's own checkpoints.
	emit(types.StageImporting, 95, "Checking for duplicates", total, total)
	detector := dedup.NewDefaultDetector()
	if opts.DedupConfig != nil {
		detector = dedup.NewDetector(*opts.DedupConfig)
	}
	detector.OnProgress = func(compared, totalPairs int) {
		progress := 95 + int(float64(compared)/float64(totalPairs)*4)
		emit(types.StageImporting, progress,
			fmt.Sprintf("Checked %d of %d candidate pairs", compared, totalPairs), compared, totalPairs)
	}
	groups, err := detector.Detect(ctx, members, opts.Existing)
	if err != nil {
		return fail(types.StageImporting, "import cancelled", err)
	}
	res.DuplicateGroups = groups

	res.Applications = make([]types.Application, 0, len(members))
	for _, m := range members {
		res.Applications = append(res.Applications, m.Application)
	}

	res.Summary = summarize(total, res.Applications, skipped, res.DuplicateGroups, suggestions)
	emit(types.StageComplete, 100,
		fmt.Sprintf("Imported %d of %d rows", len(res.Applications), total), total, total)
	return res, nil
}

// summarize assembles the final import summary
func summarize(totalRows int, apps []types.Application, skipped int, groups []types.DuplicateGroup, suggestions []string) types.ImportSummary {
	duplicates := 0
	for _, g := range groups {
		for _, m := range g.Members {
			if !m.Existing {
				duplicates++
			}
		}
	}

	summary := types.ImportSummary{
		TotalRows:       totalRows,
		SuccessfulRows:  len(apps),
		SkippedRows:     skipped,
		DuplicatesFound: duplicates,
		Suggestions:     suggestions,
	}
	if duplicates > 0 {
		summary.Suggestions = append(summary.Suggestions,
			fmt.Sprintf("%d imported rows look like duplicates; review the suggested resolutions before committing", duplicates))
	}
	return summary
}

func sampleRows(rows []types.RawRow, n int) []types.RawRow {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}
