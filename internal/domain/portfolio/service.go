// Package portfolio orchestrates a full analytics run over the lending book:
// derive days past due, assign risk buckets, classify customer lifecycle,
// and roll the results up into a persisted snapshot.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lending-analytics/internal/domain/dpd"
	"lending-analytics/internal/domain/lifecycle"
	"lending-analytics/internal/event"
	"lending-analytics/internal/pkg/table"
)

type SnapshotService interface {
	GenerateSnapshot(ctx context.Context, referenceDate time.Time) (*Snapshot, error)
	GetSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error)
}

var _ SnapshotService = (*snapshotService)(nil)

type snapshotService struct {
	repo       Repository
	assigner   *dpd.Assigner
	classifier *lifecycle.Classifier
	pub        event.Publisher
	logger     *slog.Logger
}

func NewSnapshotService(
	repo Repository,
	assigner *dpd.Assigner,
	classifier *lifecycle.Classifier,
	pub event.Publisher,
	logger *slog.Logger,
) SnapshotService {
	if repo == nil {
		panic("portfolio repository cannot be nil")
	}
	if assigner == nil || classifier == nil {
		panic("snapshot service classifiers cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewSnapshotService, using default stderr handler")
	}
	return &snapshotService{
		repo:       repo,
		assigner:   assigner,
		classifier: classifier,
		pub:        pub,
		logger:     logger.With(slog.String("component", "snapshotService")),
	}
}

func (s *snapshotService) GenerateSnapshot(ctx context.Context, referenceDate time.Time) (*Snapshot, error) {
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}
	s.logger.InfoContext(ctx, "Generating portfolio snapshot", slog.Time("reference_date", referenceDate))

	loans, err := s.repo.FetchLoanTable(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch loan table", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch loan table: %w", err)
	}

	loans = s.assigner.DeriveDaysPastDue(loans)
	loans, err = s.assigner.AssignBuckets(loans, "")
	if err != nil {
		return nil, fmt.Errorf("failed to assign DPD buckets: %w", err)
	}

	activity, err := s.repo.FetchCustomerActivityTable(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch customer activity table", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch customer activity table: %w", err)
	}

	activity, err = s.classifier.Classify(activity, lifecycle.Options{ReferenceDate: referenceDate})
	if err != nil {
		return nil, fmt.Errorf("failed to classify customer lifecycle: %w", err)
	}

	snapshot := s.aggregate(loans, activity)
	snapshot.ID = uuid.NewString()
	snapshot.GeneratedAt = time.Now()
	snapshot.ReferenceDate = referenceDate

	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist snapshot", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "Snapshot persisted", slog.String("snapshotID", snapshot.ID), slog.Int("total_loans", snapshot.TotalLoans))

	s.publishCompleted(ctx, snapshot)
	return snapshot, nil
}

func (s *snapshotService) GetSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error) {
	s.logger.InfoContext(ctx, "Fetching snapshot", slog.String("snapshotID", snapshotID))
	snapshot, err := s.repo.FindSnapshotByID(ctx, snapshotID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch snapshot", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", snapshotID, err)
	}
	return snapshot, nil
}

func (s *snapshotService) publishCompleted(ctx context.Context, snapshot *Snapshot) {
	if s.pub == nil {
		s.logger.DebugContext(ctx, "No event publisher configured, skipping snapshot event")
		return
	}
	evt := event.SnapshotCompletedEvent{
		SnapshotID:      snapshot.ID,
		ReferenceDate:   snapshot.ReferenceDate,
		TotalLoans:      snapshot.TotalLoans,
		DelinquencyRate: snapshot.DelinquencyRate.String(),
		Timestamp:       time.Now(),
	}
	if err := s.pub.PublishSnapshotCompleted(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Snapshot persisted, but FAILED to publish completion event", slog.Any("error", err))
	} else {
		s.logger.InfoContext(ctx, "Successfully published snapshot completion event")
	}
}

var bucketOrder = []dpd.Bucket{
	dpd.BucketCurrent,
	dpd.Bucket1To30,
	dpd.Bucket31To60,
	dpd.Bucket61To90,
	dpd.Bucket90Plus,
	dpd.BucketUnknown,
}

func (s *snapshotService) aggregate(loans, activity *table.Table) *Snapshot {
	loanCounts := make(map[string]int)
	principals := make(map[string]decimal.Decimal)

	for _, row := range loans.Rows() {
		bucket, ok := row.String(dpd.ColumnBucket)
		if !ok {
			bucket = string(dpd.BucketUnknown)
		}
		loanCounts[bucket]++
		if amount, ok := row.Number(FieldPrincipal); ok {
			principals[bucket] = principals[bucket].Add(decimal.NewFromFloat(amount))
		}
	}

	distribution := make([]BucketSlice, 0, len(bucketOrder))
	delinquent, known := 0, 0
	for _, b := range bucketOrder {
		name := string(b)
		distribution = append(distribution, BucketSlice{
			Bucket:               name,
			Loans:                loanCounts[name],
			OutstandingPrincipal: principals[name],
		})
		if b != dpd.BucketUnknown {
			known += loanCounts[name]
			if b != dpd.BucketCurrent {
				delinquent += loanCounts[name]
			}
		}
	}

	rate := decimal.Zero
	if known > 0 {
		rate = decimal.NewFromInt(int64(delinquent)).
			Div(decimal.NewFromInt(int64(known))).
			Round(4)
	}

	// Headroom heuristic: money sitting in the current bucket is safe to
	// recycle into new disbursements, discounted by the delinquency rate.
	budget := principals[string(dpd.BucketCurrent)].
		Mul(decimal.NewFromInt(1).Sub(rate)).
		Round(2)

	typeCounts := make(map[string]int)
	for _, row := range activity.Rows() {
		if label, ok := row.String(lifecycle.ColumnCustomerType); ok {
			typeCounts[label]++
		}
	}

	return &Snapshot{
		TotalLoans:                  loans.Len(),
		BucketDistribution:          distribution,
		CustomerTypeCounts:          typeCounts,
		DelinquencyRate:             rate,
		SuggestedDisbursementBudget: budget,
	}
}
