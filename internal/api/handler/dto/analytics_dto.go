package dto

import (
	"fmt"
	"time"

	"lending-analytics/internal/domain/cohort"
	"lending-analytics/internal/pkg/table"
)

// DPDBucketRequest carries a batch of loan rows to bucket. Field names are
// caller-configurable with the documented defaults.
type DPDBucketRequest struct {
	Rows     []map[string]any `json:"rows"`
	DPDField string           `json:"dpdField,omitempty"`
	// DeriveFromDates asks the service to compute days_past_due from the
	// due_date/current_date columns before bucketing.
	DeriveFromDates bool `json:"deriveFromDates,omitempty"`
}

func (r *DPDBucketRequest) Validate() error {
	if r.Rows == nil {
		return fmt.Errorf("rows cannot be null")
	}
	return nil
}

type LifecycleRequest struct {
	Rows            []map[string]any `json:"rows"`
	CustomerIDField string           `json:"customerIdField,omitempty"`
	LoanCountField  string           `json:"loanCountField,omitempty"`
	LastActiveField string           `json:"lastActiveField,omitempty"`
	// ReferenceDate (YYYY-MM-DD) pins the gap computation for
	// reproducible results; empty means today.
	ReferenceDate string `json:"referenceDate,omitempty"`
}

func (r *LifecycleRequest) Validate() error {
	if r.Rows == nil {
		return fmt.Errorf("rows cannot be null")
	}
	if r.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReferenceDate); err != nil {
			return fmt.Errorf("referenceDate must be YYYY-MM-DD")
		}
	}
	return nil
}

func (r *LifecycleRequest) ParsedReferenceDate() time.Time {
	if r.ReferenceDate == "" {
		return time.Time{}
	}
	parsed, _ := time.Parse("2006-01-02", r.ReferenceDate)
	return parsed
}

type RetentionRequest struct {
	Rows              []map[string]any `json:"rows"`
	CustomerIDField   string           `json:"customerIdField,omitempty"`
	ActivityDateField string           `json:"activityDateField,omitempty"`
	MaxOffsets        int              `json:"maxOffsets,omitempty"`
}

func (r *RetentionRequest) Validate() error {
	if r.Rows == nil {
		return fmt.Errorf("rows cannot be null")
	}
	if r.MaxOffsets < 0 {
		return fmt.Errorf("maxOffsets cannot be negative")
	}
	return nil
}

// TableResponse echoes a transformed batch back to the caller, same row
// order as the request, with the derived columns added.
type TableResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

func NewTableResponse(t *table.Table) TableResponse {
	rows := make([]map[string]any, 0, t.Len())
	for _, r := range t.Rows() {
		rows = append(rows, map[string]any(r))
	}
	return TableResponse{Columns: t.Columns(), Rows: rows}
}

// ToTable converts posted rows into the internal batch form.
func ToTable(rows []map[string]any) *table.Table {
	t := table.New()
	for _, r := range rows {
		t.Append(table.Row(r))
	}
	return t
}

type CohortRowResponse struct {
	Cohort string    `json:"cohort"`
	Size   int       `json:"size"`
	Active []int     `json:"active"`
	Rates  []float64 `json:"rates"`
}

type RetentionResponse struct {
	Cohorts     []CohortRowResponse `json:"cohorts"`
	InvalidRows int                 `json:"invalidRows"`
}

func NewRetentionResponse(m *cohort.Matrix) RetentionResponse {
	resp := RetentionResponse{
		Cohorts:     make([]CohortRowResponse, 0, len(m.Cohorts)),
		InvalidRows: m.InvalidRows,
	}
	for _, c := range m.Cohorts {
		resp.Cohorts = append(resp.Cohorts, CohortRowResponse{
			Cohort: c.Cohort,
			Size:   c.Size,
			Active: c.Active,
			Rates:  c.Rates,
		})
	}
	return resp
}
