package portfolio

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lending-analytics/internal/pkg/table"
)

const (
	// FieldPrincipal is the loan-table column holding outstanding principal.
	FieldPrincipal = "principal_amount"
)

// Snapshot is one portfolio analytics run: DPD bucket distribution,
// customer lifecycle mix, and the derived disbursement heuristic.
type Snapshot struct {
	ID            string
	GeneratedAt   time.Time
	ReferenceDate time.Time

	TotalLoans         int
	BucketDistribution []BucketSlice
	CustomerTypeCounts map[string]int

	// DelinquencyRate is the share of loans with a known bucket that are
	// past due at all (any bucket above current).
	DelinquencyRate decimal.Decimal

	// SuggestedDisbursementBudget is the headroom heuristic: principal in
	// the current bucket scaled down by the delinquency rate.
	SuggestedDisbursementBudget decimal.Decimal
}

type BucketSlice struct {
	Bucket               string          `json:"bucket"`
	Loans                int             `json:"loans"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
}

type Repository interface {
	FetchLoanTable(ctx context.Context) (*table.Table, error)
	FetchCustomerActivityTable(ctx context.Context) (*table.Table, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	FindSnapshotByID(ctx context.Context, snapshotID string) (*Snapshot, error)
}
