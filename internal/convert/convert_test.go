package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

func fullMapping() types.FieldMapping {
	return types.FieldMapping{
		types.FieldCompany:     "Company",
		types.FieldPosition:    "Position",
		types.FieldStatus:      "Status",
		types.FieldType:        "Type",
		types.FieldPriority:    "Priority",
		types.FieldAppliedDate: "Applied",
		types.FieldTags:        "Tags",
	}
}

func TestRow_FullConversion(t *testing.T) {
	row := types.RawRow{
		"Company":  "Google",
		"Position": "SWE",
		"Status":   "Interviewing",
		"Type":     "Full-time",
		"Priority": "High",
		"Applied":  "2024-01-15",
		"Tags":     "go; backend",
	}

	app, err := Row(row, fullMapping(), 0)

	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "Google", app.Company)
	assert.Equal(t, types.StatusInterviewing, app.Status)
	assert.Equal(t, types.TypeFullTime, app.Type)
	assert.Equal(t, types.PriorityHigh, app.Priority)
	require.NotNil(t, app.AppliedDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *app.AppliedDate)
	assert.Equal(t, []string{"go", "backend"}, app.Tags)
	assert.False(t, app.CreatedAt.IsZero())
}

func TestRow_MissingCompanyFails(t *testing.T) {
	row := types.RawRow{"Company": "   "}

	_, err := Row(row, fullMapping(), 7)

	require.Error(t, err)
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 7, convErr.Row)
}

func TestRow_DefaultsForUnmappedFields(t *testing.T) {
	row := types.RawRow{"Company": "Google"}
	m := types.FieldMapping{types.FieldCompany: "Company"}

	app, err := Row(row, m, 0)

	require.NoError(t, err)
	assert.Equal(t, types.StatusApplied, app.Status)
	assert.Equal(t, types.TypeFullTime, app.Type)
	assert.Equal(t, types.PriorityMedium, app.Priority)
	assert.Nil(t, app.AppliedDate)
	assert.Nil(t, app.Tags)
}

func TestRow_UnparseableDateBecomesNil(t *testing.T) {
	row := types.RawRow{"Company": "Google", "Applied": "not-a-date"}

	app, err := Row(row, fullMapping(), 0)

	require.NoError(t, err)
	assert.Nil(t, app.AppliedDate)
}

func TestRow_FreshIDPerRow(t *testing.T) {
	row := types.RawRow{"Company": "Google"}

	a, err := Row(row, fullMapping(), 0)
	require.NoError(t, err)
	b, err := Row(row, fullMapping(), 1)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRow_StableUnderReapplication(t *testing.T) {
	// Converting a row whose values are already canonical leaves them unchanged
	row := types.RawRow{
		"Company":  "Google",
		"Status":   string(types.StatusInterviewing),
		"Type":     string(types.TypeContract),
		"Priority": string(types.PriorityLow),
		"Applied":  "2024-01-15",
	}

	first, err := Row(row, fullMapping(), 0)
	require.NoError(t, err)

	assert.Equal(t, types.StatusInterviewing, first.Status)
	assert.Equal(t, types.TypeContract, first.Type)
	assert.Equal(t, types.PriorityLow, first.Priority)
	assert.Equal(t, "2024-01-15", first.AppliedDate.Format("2006-01-02"))
}
