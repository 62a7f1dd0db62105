package cohort_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-analytics/internal/domain/cohort"
	"lending-analytics/internal/pkg/apperrors"
	"lending-analytics/internal/pkg/table"
)

func newBuilder() *cohort.Builder {
	return cohort.NewBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func activity(id, date string) table.Row {
	return table.Row{cohort.FieldCustomerID: id, cohort.FieldActivityDate: date}
}

func TestRetention_GroupsByFirstActivityMonth(t *testing.T) {
	builder := newBuilder()
	in := table.FromRows([]table.Row{
		activity("a", "2024-01-05"),
		activity("a", "2024-02-10"),
		activity("a", "2024-04-01"),
		activity("b", "2024-01-20"),
		activity("b", "2024-01-25"), // same month, still one distinct customer
		activity("c", "2024-02-14"),
	})

	matrix, err := builder.Retention(in, cohort.Options{})
	require.NoError(t, err)
	require.Len(t, matrix.Cohorts, 2)

	jan := matrix.Cohorts[0]
	assert.Equal(t, "2024-01", jan.Cohort)
	assert.Equal(t, 2, jan.Size)
	assert.Equal(t, []int{2, 1, 0, 1}, jan.Active)
	assert.InDelta(t, 0.5, jan.Rates[1], 1e-9)

	feb := matrix.Cohorts[1]
	assert.Equal(t, "2024-02", feb.Cohort)
	assert.Equal(t, 1, feb.Size)
	assert.Equal(t, []int{1}, feb.Active)
}

func TestRetention_InvalidRowsAreCountedNotFatal(t *testing.T) {
	builder := newBuilder()
	in := table.FromRows([]table.Row{
		activity("a", "2024-01-05"),
		activity("", "2024-01-06"),
		activity("b", "unparseable"),
	})

	matrix, err := builder.Retention(in, cohort.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, matrix.InvalidRows)
	require.Len(t, matrix.Cohorts, 1)
	assert.Equal(t, 1, matrix.Cohorts[0].Size)
}

func TestRetention_MaxOffsetsCapsMatrix(t *testing.T) {
	builder := newBuilder()
	in := table.FromRows([]table.Row{
		activity("a", "2024-01-05"),
		activity("a", "2024-06-05"),
	})

	matrix, err := builder.Retention(in, cohort.Options{MaxOffsets: 3})
	require.NoError(t, err)
	require.Len(t, matrix.Cohorts, 1)
	assert.Equal(t, []int{1}, matrix.Cohorts[0].Active)
}

func TestRetention_MissingColumnIsConfigurationError(t *testing.T) {
	builder := newBuilder()
	in := table.FromRows([]table.Row{{"customer": "a"}})

	_, err := builder.Retention(in, cohort.Options{})
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestRetention_EmptyTableYieldsEmptyMatrix(t *testing.T) {
	builder := newBuilder()
	in := table.New(cohort.FieldCustomerID, cohort.FieldActivityDate)

	matrix, err := builder.Retention(in, cohort.Options{})
	require.NoError(t, err)
	assert.Empty(t, matrix.Cohorts)
	assert.Zero(t, matrix.InvalidRows)
}
