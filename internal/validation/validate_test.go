package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

func basicMapping() types.FieldMapping {
	return types.FieldMapping{
		types.FieldCompany:     "Company",
		types.FieldPosition:    "Position",
		types.FieldStatus:      "Status",
		types.FieldAppliedDate: "Applied",
	}
}

func TestValidateDataset_CleanRows(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google", "Position": "SWE", "Status": "Applied", "Applied": "2024-01-15"},
	}

	res := ValidateDataset(rows, basicMapping())

	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "2024-01-15", res.CleanedData[0]["Applied"])
}

func TestValidateDataset_MissingCompanyIsError(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "  ", "Position": "SWE"},
	}

	res := ValidateDataset(rows, basicMapping())

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Row)
	assert.Equal(t, "Company", res.Errors[0].Column)
	assert.Contains(t, res.Errors[0].Message, "required")

	summary := res.Summarize()
	assert.False(t, summary.CanProceed)
}

func TestValidateDataset_DayFirstDateNoWarning(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google", "Applied": "15/01/2024"},
	}

	res := ValidateDataset(rows, basicMapping())

	assert.Empty(t, res.Warnings)
	assert.Equal(t, "2024-01-15", res.CleanedData[0]["Applied"])
}

func TestValidateDataset_BadOptionalDateWarnsAndClears(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google", "Applied": "not-a-date"},
	}

	res := ValidateDataset(rows, basicMapping())

	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "", res.Warnings[0].SuggestedFix)
	assert.Equal(t, "", res.CleanedData[0]["Applied"])
}

func TestValidateDataset_EnumFuzzyMatchSilent(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google", "Status": "Interview"},
	}

	res := ValidateDataset(rows, basicMapping())

	assert.Empty(t, res.Warnings)
	assert.Equal(t, string(types.StatusInterviewing), res.CleanedData[0]["Status"])
}

func TestValidateDataset_EnumNoMatchDefaultsWithWarning(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google", "Status": "banana"},
	}

	res := ValidateDataset(rows, basicMapping())

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, string(types.StatusApplied), res.CleanedData[0]["Status"])
	assert.Equal(t, string(types.StatusApplied), res.Warnings[0].SuggestedFix)
}

func TestValidateDataset_InvalidEmailWarnsButRetains(t *testing.T) {
	m := types.FieldMapping{
		types.FieldCompany:      "Company",
		types.FieldContactEmail: "Email",
	}
	rows := []types.RawRow{
		{"Company": "Google", "Email": "not-an-email"},
	}

	res := ValidateDataset(rows, m)

	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "not-an-email", res.CleanedData[0]["Email"])
}

func TestValidateDataset_InvalidURLWarnsButRetains(t *testing.T) {
	m := types.FieldMapping{
		types.FieldCompany: "Company",
		types.FieldJobURL:  "URL",
	}
	rows := []types.RawRow{
		{"Company": "Google", "URL": "not a url at all"},
	}

	res := ValidateDataset(rows, m)

	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "not a url at all", res.CleanedData[0]["URL"])
}

func TestValidateDataset_SchemelessURLAccepted(t *testing.T) {
	m := types.FieldMapping{
		types.FieldCompany: "Company",
		types.FieldJobURL:  "URL",
	}
	rows := []types.RawRow{
		{"Company": "Google", "URL": "careers.google.com/jobs/1"},
	}

	res := ValidateDataset(rows, m)

	assert.Empty(t, res.Warnings)
}

func TestValidateDataset_WhitespaceTrimWarns(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "  Google  ", "Position": "SWE"},
	}

	res := ValidateDataset(rows, basicMapping())

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Google", res.Warnings[0].SuggestedFix)
	assert.Equal(t, "Google", res.CleanedData[0]["Company"])
}

func TestValidateDataset_ListNormalized(t *testing.T) {
	m := types.FieldMapping{
		types.FieldCompany: "Company",
		types.FieldTags:    "Tags",
	}
	rows := []types.RawRow{
		{"Company": "Google", "Tags": "go,backend ,  distributed"},
	}

	res := ValidateDataset(rows, m)

	assert.Equal(t, "go; backend; distributed", res.CleanedData[0]["Tags"])
}

func TestValidateDataset_PreservesRowCount(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google"},
		{"Company": ""},
		{"Company": "Stripe"},
	}

	res := ValidateDataset(rows, basicMapping())

	assert.Len(t, res.CleanedData, len(rows))
	assert.True(t, res.ErrorRows()[1])
	assert.False(t, res.ErrorRows()[0])
}

func TestSummarize_RanksRecommendationsByImpact(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "", "Position": "SWE"},
		{"Company": "", "Position": "SRE"},
		{"Company": "Google", "Position": "PM"},
	}

	res := ValidateDataset(rows, basicMapping())
	summary := res.Summarize()

	assert.False(t, summary.CanProceed)
	require.NotEmpty(t, summary.Recommendations)
	assert.Contains(t, summary.Recommendations[0], "Company")
	assert.Contains(t, summary.Recommendations[0], "2 rows")
}

func TestSummarize_CanProceedWhenOnlyWarnings(t *testing.T) {
	rows := []types.RawRow{
		{"Company": "Google", "Applied": "not-a-date"},
	}

	res := ValidateDataset(rows, basicMapping())
	summary := res.Summarize()

	assert.True(t, summary.CanProceed)
}
