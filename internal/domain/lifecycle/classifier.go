// Package lifecycle labels customer activity rows as New, Recurrent, or
// Recovered from two signals: total loan count and days since last activity.
package lifecycle

import (
	"log/slog"
	"time"

	"lending-analytics/internal/pkg/apperrors"
	"lending-analytics/internal/pkg/table"
)

// CustomerType is a lifecycle label. Classification is total: every row gets
// exactly one of the three values, never an unknown.
type CustomerType string

const (
	TypeNew       CustomerType = "New"
	TypeRecurrent CustomerType = "Recurrent"
	TypeRecovered CustomerType = "Recovered"
)

const (
	FieldCustomerID = "customer_id"
	FieldLoanCount  = "loan_count"
	FieldLastActive = "last_active_date"

	ColumnDaysSinceLast = "days_since_last"
	ColumnCustomerType  = "customer_type"

	// DefaultReactivationDays is the gap beyond which a repeat borrower
	// counts as having lapsed and returned.
	DefaultReactivationDays = 90
)

// Options configures a Classify call. Zero-value fields fall back to the
// documented defaults; ReferenceDate defaults to today (date only).
type Options struct {
	CustomerIDField string
	LoanCountField  string
	LastActiveField string
	ReferenceDate   time.Time
}

type Classifier struct {
	reactivationDays float64
	logger           *slog.Logger
}

func NewClassifier(reactivationDays int, logger *slog.Logger) *Classifier {
	if reactivationDays <= 0 {
		reactivationDays = DefaultReactivationDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		reactivationDays: float64(reactivationDays),
		logger:           logger.With("component", "LifecycleClassifier"),
	}
}

// Classify labels every row of a copy of the input table, writing the
// days_since_last and customer_type columns. The decision rule is evaluated
// top to bottom, first match wins:
//
//  1. loan_count <= 1 (missing counts as 0) -> New
//  2. days_since_last defined and > reactivation threshold -> Recovered
//  3. otherwise -> Recurrent
//
// Loan count dominates the gap signal: a single-loan customer is New no
// matter how long ago they were active. A repeat borrower with no usable
// last-active date falls through rule 2 into Recurrent.
//
// Row-level field access is defensive and never errors; only an explicitly
// supplied column name that is absent from the table schema raises
// apperrors.ErrConfiguration, before any row is processed.
func (c *Classifier) Classify(t *table.Table, opts Options) (*table.Table, error) {
	loanCountField := opts.LoanCountField
	lastActiveField := opts.LastActiveField

	// Explicit overrides must exist as columns; the defaults tolerate
	// absence so sparse tables classify on loan count alone.
	if loanCountField != "" && !t.HasColumn(loanCountField) {
		return nil, apperrors.NewMissingColumnError(loanCountField)
	}
	if lastActiveField != "" && !t.HasColumn(lastActiveField) {
		return nil, apperrors.NewMissingColumnError(lastActiveField)
	}
	if loanCountField == "" {
		loanCountField = FieldLoanCount
	}
	if lastActiveField == "" {
		lastActiveField = FieldLastActive
	}

	reference := opts.ReferenceDate
	if reference.IsZero() {
		reference = time.Now()
	}
	reference = dateOnly(reference)

	out := t.Clone()
	out.AddColumn(ColumnDaysSinceLast)
	out.AddColumn(ColumnCustomerType)

	for _, row := range out.Rows() {
		loanCount, ok := row.Number(loanCountField)
		if !ok {
			loanCount = 0
		}

		gap, gapDefined := 0.0, false
		if lastActive, ok := row.Date(lastActiveField); ok {
			gap = float64(int(reference.Sub(dateOnly(lastActive)).Hours() / 24))
			gapDefined = true
		}

		if gapDefined {
			row[ColumnDaysSinceLast] = gap
		} else {
			row[ColumnDaysSinceLast] = nil
		}
		row[ColumnCustomerType] = string(c.label(loanCount, gap, gapDefined))
	}

	c.logger.Debug("Classified customer lifecycle", "rows", out.Len(), "reference_date", reference.Format("2006-01-02"))
	return out, nil
}

func (c *Classifier) label(loanCount, gap float64, gapDefined bool) CustomerType {
	switch {
	case loanCount <= 1:
		return TypeNew
	case gapDefined && gap > c.reactivationDays:
		return TypeRecovered
	default:
		return TypeRecurrent
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
