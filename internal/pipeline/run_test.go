package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

const simpleCSV = "Company,Position,Applied On\nGoogle,SWE,2024-01-15\nStripe,SRE,2024-02-01\n"

func TestRun_SimpleImport(t *testing.T) {
	res, err := Run(context.Background(), []byte(simpleCSV), Options{})

	require.NoError(t, err)
	require.Len(t, res.Applications, 2)
	assert.Equal(t, "Google", res.Applications[0].Company)
	assert.Equal(t, "SWE", res.Applications[0].Position)
	require.NotNil(t, res.Applications[0].AppliedDate)
	assert.Equal(t, 2, res.Summary.TotalRows)
	assert.Equal(t, 2, res.Summary.SuccessfulRows)
	assert.Equal(t, 0, res.Summary.SkippedRows)
	assert.True(t, res.Validation.CanProceed)
}

func TestRun_DetectsMappingWhenNotSupplied(t *testing.T) {
	res, err := Run(context.Background(), []byte(simpleCSV), Options{})

	require.NoError(t, err)
	assert.Equal(t, "Company", res.Mapping[types.FieldCompany])
	assert.Equal(t, "Applied On", res.Mapping[types.FieldAppliedDate])
	assert.GreaterOrEqual(t, res.Confidence[types.FieldCompany], 0.8)
}

func TestRun_EmptyFileFails(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{})

	require.Error(t, err)
	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, types.StageParsing, perr.Stage)
}

func TestRun_HeaderOnlyFails(t *testing.T) {
	_, err := Run(context.Background(), []byte("Company,Position\n"), Options{})

	require.Error(t, err)
}

func TestRun_NoCompanyColumnFails(t *testing.T) {
	_, err := Run(context.Background(), []byte("Foo,Bar\nx,y\n"), Options{})

	require.Error(t, err)
	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "company")
}

func TestRun_ValidationErrorsBlockConversion(t *testing.T) {
	csv := "Company,Position\nGoogle,SWE\n,Orphan\n"

	res, err := Run(context.Background(), []byte(csv), Options{})

	require.NoError(t, err)
	assert.Empty(t, res.Applications)
	assert.False(t, res.Validation.CanProceed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Row)
}

func TestRun_SkipRowsUnblocksRemainingRows(t *testing.T) {
	csv := "Company,Position\nGoogle,SWE\n,Orphan\n"

	res, err := Run(context.Background(), []byte(csv), Options{
		SkipRows: map[int]bool{1: true},
	})

	require.NoError(t, err)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, "Google", res.Applications[0].Company)
	assert.Equal(t, 1, res.Summary.SkippedRows)
}

func TestRun_ProgressMonotonicWithTerminalComplete(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString(fmt.Sprintf("Company %d,Role %d\n", i, i))
	}
	csv := "Company,Position\n" + sb.String()

	var events []types.ImportProgress
	_, err := Run(context.Background(), []byte(csv), Options{
		BatchSize:  10,
		YieldDelay: 1,
		OnProgress: func(e types.ImportProgress) { events = append(events, e) },
	})

	require.NoError(t, err)
	require.NotEmpty(t, events)

	last := -1
	terminals := 0
	for _, e := range events {
		assert.GreaterOrEqual(t, e.Progress, last, "progress went backwards at stage %s", e.Stage)
		last = e.Progress
		if e.Stage == types.StageComplete || e.Stage == types.StageFailed {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
	assert.Equal(t, types.StageComplete, events[len(events)-1].Stage)
	assert.Equal(t, 100, events[len(events)-1].Progress)
}

func TestRun_FailedEmitsTerminalFailedEvent(t *testing.T) {
	var events []types.ImportProgress
	_, err := Run(context.Background(), []byte(""), Options{
		OnProgress: func(e types.ImportProgress) { events = append(events, e) },
	})

	require.Error(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, types.StageFailed, events[len(events)-1].Stage)
}

func TestRun_CancellationBetweenBatches(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString(fmt.Sprintf("Company %d,Role\n", i))
	}
	csv := "Company,Position\n" + sb.String()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []byte(csv), Options{BatchSize: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_CancellationDuringDuplicateCheck(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString(fmt.Sprintf("Company %d,Role\n", i))
	}
	csv := "Company,Position\n" + sb.String()

	// A single conversion batch has no between-batch checkpoint, so the
	// cancellation must be honored by the duplicate stage itself.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := Run(ctx, []byte(csv), Options{
		OnProgress: func(e types.ImportProgress) {
			if e.Stage == types.StageImporting && strings.Contains(e.Message, "duplicates") {
				cancel()
			}
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, types.StageImporting, perr.Stage)
}

func TestRun_DuplicatesReported(t *testing.T) {
	csv := "Company,Position\nGoogle,Software Engineer\nGoogle Inc,Software Engineer II\nNetflix,Data Scientist\n"

	res, err := Run(context.Background(), []byte(csv), Options{})

	require.NoError(t, err)
	assert.Len(t, res.Applications, 3, "duplicates are reported, not dropped")
	require.Len(t, res.DuplicateGroups, 1)
	assert.Equal(t, 2, res.Summary.DuplicatesFound)
}

func TestRun_DuplicatesAgainstExisting(t *testing.T) {
	existing := []types.Application{
		{ID: "existing-1", Company: "Google", Position: "SWE"},
	}
	csv := "Company,Position\nGoogle Inc,SWE\n"

	res, err := Run(context.Background(), []byte(csv), Options{Existing: existing})

	require.NoError(t, err)
	require.Len(t, res.DuplicateGroups, 1)
	assert.Equal(t, 1, res.Summary.DuplicatesFound, "only batch rows count as found duplicates")
}

func TestRun_CallerSuppliedMappingWins(t *testing.T) {
	csv := "Firm,Gig\nGoogle,SWE\n"

	res, err := Run(context.Background(), []byte(csv), Options{
		Mapping: types.FieldMapping{
			types.FieldCompany:  "Firm",
			types.FieldPosition: "Gig",
		},
	})

	require.NoError(t, err)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, "Google", res.Applications[0].Company)
	assert.Equal(t, "SWE", res.Applications[0].Position)
}

func TestRun_UTF16FileImports(t *testing.T) {
	var data []byte
	data = append(data, 0xFF, 0xFE)
	for _, r := range simpleCSV {
		data = append(data, byte(r), byte(r>>8))
	}

	res, err := Run(context.Background(), []byte(data), Options{})

	require.NoError(t, err)
	assert.Len(t, res.Applications, 2)
	assert.Equal(t, "utf-16le", res.Encoding.Encoding)
}
