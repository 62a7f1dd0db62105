package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"lending-analytics/internal/domain/dpd"
	"lending-analytics/internal/domain/lifecycle"
	"lending-analytics/internal/domain/portfolio"
	"lending-analytics/internal/pkg/apperrors"
	"lending-analytics/internal/pkg/table"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

type PortfolioRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ portfolio.Repository = (*PortfolioRepository)(nil)

func NewPortfolioRepository(db DBPool, logger *slog.Logger) *PortfolioRepository {
	if db == nil {
		panic("DBPool cannot be nil for PortfolioRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewPortfolioRepository, using default stderr handler")
	}
	return &PortfolioRepository{
		db:     db,
		logger: logger.With("component", "PortfolioRepository"),
	}
}

const fetchLoansSQL = `
	SELECT loan_id, customer_id, principal_amount, due_date, as_of_date, days_past_due
	FROM loan_book`

// FetchLoanTable loads the loan book into the tabular form the classifiers
// consume. Nullable columns become missing row values rather than zeroes, so
// downstream bucket assignment degrades them to unknown instead of current.
func (r *PortfolioRepository) FetchLoanTable(ctx context.Context) (*table.Table, error) {
	rows, err := r.db.Query(ctx, fetchLoansSQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loan book", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loan book: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	t := table.New("loan_id", "customer_id", portfolio.FieldPrincipal, dpd.FieldDueDate, dpd.FieldCurrentDate, dpd.FieldDaysPastDue)
	for rows.Next() {
		var (
			loanID     string
			customerID string
			principal  float64
			dueDate    pgtype.Date
			asOfDate   pgtype.Date
			daysPast   pgtype.Float8
		)
		if err := rows.Scan(&loanID, &customerID, &principal, &dueDate, &asOfDate, &daysPast); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan loan row: %w", apperrors.ErrDatabase, err)
		}
		row := table.Row{"loan_id": loanID, "customer_id": customerID, portfolio.FieldPrincipal: principal}
		if dueDate.Valid {
			row[dpd.FieldDueDate] = dueDate.Time
		}
		if asOfDate.Valid {
			row[dpd.FieldCurrentDate] = asOfDate.Time
		}
		if daysPast.Valid {
			row[dpd.FieldDaysPastDue] = daysPast.Float64
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loan book iteration failed: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loaded loan book", slog.Int("rows", t.Len()))
	return t, nil
}

const fetchActivitySQL = `
	SELECT customer_id, loan_count, last_active_date
	FROM customer_activity`

func (r *PortfolioRepository) FetchCustomerActivityTable(ctx context.Context) (*table.Table, error) {
	rows, err := r.db.Query(ctx, fetchActivitySQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customer activity", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customer activity: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	t := table.New(lifecycle.FieldCustomerID, lifecycle.FieldLoanCount, lifecycle.FieldLastActive)
	for rows.Next() {
		var (
			customerID string
			loanCount  pgtype.Int8
			lastActive pgtype.Date
		)
		if err := rows.Scan(&customerID, &loanCount, &lastActive); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan activity row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan activity row: %w", apperrors.ErrDatabase, err)
		}
		row := table.Row{lifecycle.FieldCustomerID: customerID}
		if loanCount.Valid {
			row[lifecycle.FieldLoanCount] = float64(loanCount.Int64)
		}
		if lastActive.Valid {
			row[lifecycle.FieldLastActive] = lastActive.Time
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: customer activity iteration failed: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loaded customer activity", slog.Int("rows", t.Len()))
	return t, nil
}

const saveSnapshotSQL = `
	INSERT INTO portfolio_snapshots (id, generated_at, reference_date, total_loans, delinquency_rate, suggested_budget, bucket_distribution, customer_type_counts)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *PortfolioRepository) SaveSnapshot(ctx context.Context, snapshot *portfolio.Snapshot) error {
	distribution, err := json.Marshal(snapshot.BucketDistribution)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal bucket distribution: %w", apperrors.ErrInternalServer, err)
	}
	typeCounts, err := json.Marshal(snapshot.CustomerTypeCounts)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal customer type counts: %w", apperrors.ErrInternalServer, err)
	}

	_, err = r.db.Exec(ctx, saveSnapshotSQL,
		snapshot.ID, snapshot.GeneratedAt, snapshot.ReferenceDate, snapshot.TotalLoans,
		snapshot.DelinquencyRate.String(), snapshot.SuggestedDisbursementBudget.String(),
		distribution, typeCounts,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert snapshot", slog.Any("error", err), slog.String("snapshotID", snapshot.ID))
		return fmt.Errorf("%w: failed to insert snapshot: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Snapshot stored", slog.String("snapshotID", snapshot.ID))
	return nil
}

const findSnapshotSQL = `
	SELECT id, generated_at, reference_date, total_loans, delinquency_rate, suggested_budget, bucket_distribution, customer_type_counts
	FROM portfolio_snapshots
	WHERE id = $1`

func (r *PortfolioRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*portfolio.Snapshot, error) {
	var (
		snapshot     portfolio.Snapshot
		rate         string
		budget       string
		distribution []byte
		typeCounts   []byte
	)
	err := r.db.QueryRow(ctx, findSnapshotSQL, snapshotID).Scan(
		&snapshot.ID, &snapshot.GeneratedAt, &snapshot.ReferenceDate, &snapshot.TotalLoans,
		&rate, &budget, &distribution, &typeCounts,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: snapshot %s", apperrors.ErrNotFound, snapshotID)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch snapshot", slog.Any("error", err), slog.String("snapshotID", snapshotID))
		return nil, fmt.Errorf("%w: failed to fetch snapshot: %w", apperrors.ErrDatabase, err)
	}

	if snapshot.DelinquencyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("%w: stored delinquency rate is not numeric: %w", apperrors.ErrInternalServer, err)
	}
	if snapshot.SuggestedDisbursementBudget, err = decimal.NewFromString(budget); err != nil {
		return nil, fmt.Errorf("%w: stored budget is not numeric: %w", apperrors.ErrInternalServer, err)
	}
	if err := json.Unmarshal(distribution, &snapshot.BucketDistribution); err != nil {
		return nil, fmt.Errorf("%w: stored bucket distribution is corrupt: %w", apperrors.ErrInternalServer, err)
	}
	if err := json.Unmarshal(typeCounts, &snapshot.CustomerTypeCounts); err != nil {
		return nil, fmt.Errorf("%w: stored customer type counts are corrupt: %w", apperrors.ErrInternalServer, err)
	}

	return &snapshot, nil
}
