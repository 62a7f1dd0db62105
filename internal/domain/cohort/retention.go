// Package cohort groups customer activity rows by first-activity month and
// computes how many customers from each cohort remain active in the months
// that follow.
package cohort

import (
	"log/slog"
	"sort"
	"time"

	"lending-analytics/internal/pkg/apperrors"
	"lending-analytics/internal/pkg/table"
)

const (
	FieldCustomerID   = "customer_id"
	FieldActivityDate = "activity_date"
)

type Options struct {
	CustomerIDField   string
	ActivityDateField string
	// MaxOffsets caps how many month offsets are reported per cohort;
	// zero means no cap.
	MaxOffsets int
}

// Matrix is the retention result: one row per cohort month, ordered
// ascending, with distinct-active counts per month offset (offset 0 is the
// cohort month itself).
type Matrix struct {
	Cohorts     []CohortRow
	InvalidRows int
}

type CohortRow struct {
	Cohort string
	Size   int
	Active []int
	Rates  []float64
}

type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger.With("component", "CohortBuilder")}
}

// Retention builds the retention matrix. Rows missing a customer id or a
// parseable activity date are skipped and reported via Matrix.InvalidRows
// rather than failing the batch; only an absent column is an error.
func (b *Builder) Retention(t *table.Table, opts Options) (*Matrix, error) {
	idField := opts.CustomerIDField
	if idField == "" {
		idField = FieldCustomerID
	}
	dateField := opts.ActivityDateField
	if dateField == "" {
		dateField = FieldActivityDate
	}
	if !t.HasColumn(idField) {
		return nil, apperrors.NewMissingColumnError(idField)
	}
	if !t.HasColumn(dateField) {
		return nil, apperrors.NewMissingColumnError(dateField)
	}

	type monthSet map[int]struct{}
	activeMonths := make(map[string]monthSet)
	invalid := 0

	for _, row := range t.Rows() {
		id, ok := row.String(idField)
		if !ok || id == "" {
			invalid++
			continue
		}
		when, ok := row.Date(dateField)
		if !ok {
			invalid++
			continue
		}
		m := monthIndex(when)
		if _, ok := activeMonths[id]; !ok {
			activeMonths[id] = make(monthSet)
		}
		activeMonths[id][m] = struct{}{}
	}

	// cohort month -> offset -> distinct active customers
	counts := make(map[int]map[int]int)
	for _, months := range activeMonths {
		first := -1
		for m := range months {
			if first == -1 || m < first {
				first = m
			}
		}
		if counts[first] == nil {
			counts[first] = make(map[int]int)
		}
		for m := range months {
			offset := m - first
			if opts.MaxOffsets > 0 && offset >= opts.MaxOffsets {
				continue
			}
			counts[first][offset]++
		}
	}

	cohortMonths := make([]int, 0, len(counts))
	for m := range counts {
		cohortMonths = append(cohortMonths, m)
	}
	sort.Ints(cohortMonths)

	matrix := &Matrix{InvalidRows: invalid}
	for _, m := range cohortMonths {
		offsets := counts[m]
		maxOffset := 0
		for o := range offsets {
			if o > maxOffset {
				maxOffset = o
			}
		}
		row := CohortRow{
			Cohort: monthLabel(m),
			Size:   offsets[0],
			Active: make([]int, maxOffset+1),
			Rates:  make([]float64, maxOffset+1),
		}
		for o := 0; o <= maxOffset; o++ {
			row.Active[o] = offsets[o]
			if row.Size > 0 {
				row.Rates[o] = float64(offsets[o]) / float64(row.Size)
			}
		}
		matrix.Cohorts = append(matrix.Cohorts, row)
	}

	b.logger.Debug("Built retention matrix", "cohorts", len(matrix.Cohorts), "invalid_rows", invalid)
	return matrix, nil
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func monthLabel(index int) string {
	return time.Date(index/12, time.Month(index%12+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
