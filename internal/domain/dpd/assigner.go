// Package dpd assigns days-past-due risk buckets to loan record batches and
// derives the days-past-due measure itself from raw due/current date pairs.
package dpd

import (
	"log/slog"
	"time"

	"lending-analytics/internal/pkg/apperrors"
	"lending-analytics/internal/pkg/table"
)

const (
	// Default field names, overridable by callers.
	FieldDaysPastDue = "days_past_due"
	FieldDueDate     = "due_date"
	FieldCurrentDate = "current_date"

	// ColumnBucket is the output column written by AssignBuckets.
	ColumnBucket = "dpd_bucket"
)

type Assigner struct {
	scheme Scheme
	logger *slog.Logger
}

func NewAssigner(scheme Scheme, logger *slog.Logger) *Assigner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assigner{
		scheme: scheme,
		logger: logger.With("component", "DPDAssigner"),
	}
}

// AssignBuckets maps every row's days-past-due value to a bucket and writes
// the result to the dpd_bucket column of a copy of the input. A row whose
// value is missing, negative, or non-finite gets BucketUnknown; only a
// structurally absent column is an error, raised before any row is touched.
func (a *Assigner) AssignBuckets(t *table.Table, dpdField string) (*table.Table, error) {
	if dpdField == "" {
		dpdField = FieldDaysPastDue
	}
	if !t.HasColumn(dpdField) {
		return nil, apperrors.NewMissingColumnError(dpdField)
	}

	out := t.Clone()
	out.AddColumn(ColumnBucket)
	for _, row := range out.Rows() {
		bucket := BucketUnknown
		if days, ok := row.Number(dpdField); ok {
			bucket = a.scheme.Lookup(days)
		}
		row[ColumnBucket] = string(bucket)
	}
	a.logger.Debug("Assigned DPD buckets", "rows", out.Len(), "field", dpdField)
	return out, nil
}

// DeriveDaysPastDue computes days_past_due = max(0, current_date - due_date)
// in whole days on a copy of the input. If either date column is absent the
// input is returned unchanged; callers relying on derivation must check for
// the output column. A row whose dates fail to parse gets a missing value,
// which downstream bucket assignment turns into BucketUnknown.
//
// Negative differences (loan not yet due) clamp to zero, so "not yet due"
// lands in the same bucket as "fully current".
func (a *Assigner) DeriveDaysPastDue(t *table.Table) *table.Table {
	if !t.HasColumn(FieldDueDate) || !t.HasColumn(FieldCurrentDate) {
		a.logger.Debug("Skipping DPD derivation, date columns absent")
		return t
	}

	out := t.Clone()
	out.AddColumn(FieldDaysPastDue)
	for _, row := range out.Rows() {
		due, dueOK := row.Date(FieldDueDate)
		current, curOK := row.Date(FieldCurrentDate)
		if !dueOK || !curOK {
			row[FieldDaysPastDue] = nil
			continue
		}
		days := wholeDays(due, current)
		if days < 0 {
			days = 0
		}
		row[FieldDaysPastDue] = float64(days)
	}
	a.logger.Debug("Derived days past due", "rows", out.Len())
	return out
}

func wholeDays(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
