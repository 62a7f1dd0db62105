package portfolio_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lending-analytics/internal/domain/dpd"
	"lending-analytics/internal/domain/lifecycle"
	"lending-analytics/internal/domain/portfolio"
	"lending-analytics/internal/pkg/table"
)

var referenceDate = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func setupTest() (*portfolio.MockRepository, *portfolio.MockPublisher, portfolio.SnapshotService) {
	mockRepo := new(portfolio.MockRepository)
	mockPub := new(portfolio.MockPublisher)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assigner := dpd.NewAssigner(dpd.DefaultScheme(), logger)
	classifier := lifecycle.NewClassifier(0, logger)
	service := portfolio.NewSnapshotService(mockRepo, assigner, classifier, mockPub, logger)
	return mockRepo, mockPub, service
}

func loanTable() *table.Table {
	return table.FromRows([]table.Row{
		{"loan_id": "L-1", portfolio.FieldPrincipal: 1000.0, dpd.FieldDaysPastDue: 0.0},
		{"loan_id": "L-2", portfolio.FieldPrincipal: 500.0, dpd.FieldDaysPastDue: 15.0},
		{"loan_id": "L-3", portfolio.FieldPrincipal: 250.0, dpd.FieldDaysPastDue: 120.0},
		{"loan_id": "L-4", portfolio.FieldPrincipal: 300.0, dpd.FieldDaysPastDue: nil},
	})
}

func activityTable() *table.Table {
	lastActive := func(daysAgo int) string {
		return referenceDate.AddDate(0, 0, -daysAgo).Format("2006-01-02")
	}
	return table.FromRows([]table.Row{
		{lifecycle.FieldCustomerID: "C-1", lifecycle.FieldLoanCount: 1.0, lifecycle.FieldLastActive: lastActive(5)},
		{lifecycle.FieldCustomerID: "C-2", lifecycle.FieldLoanCount: 3.0, lifecycle.FieldLastActive: lastActive(10)},
		{lifecycle.FieldCustomerID: "C-3", lifecycle.FieldLoanCount: 2.0, lifecycle.FieldLastActive: lastActive(120)},
	})
}

func TestSnapshotService_GenerateSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("FetchLoanTable", ctx).Return(loanTable(), nil).Once()
		mockRepo.On("FetchCustomerActivityTable", ctx).Return(activityTable(), nil).Once()
		mockRepo.On("SaveSnapshot", ctx, mock.AnythingOfType("*portfolio.Snapshot")).Return(nil).Once()
		mockPub.On("PublishSnapshotCompleted", ctx, mock.Anything).Return(nil).Once()

		snapshot, err := service.GenerateSnapshot(ctx, referenceDate)

		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.NotEmpty(t, snapshot.ID)
		assert.Equal(t, referenceDate, snapshot.ReferenceDate)
		assert.Equal(t, 4, snapshot.TotalLoans)

		byBucket := make(map[string]portfolio.BucketSlice)
		for _, slice := range snapshot.BucketDistribution {
			byBucket[slice.Bucket] = slice
		}
		assert.Equal(t, 1, byBucket["current"].Loans)
		assert.Equal(t, 1, byBucket["1_30"].Loans)
		assert.Equal(t, 1, byBucket["90_plus"].Loans)
		assert.Equal(t, 1, byBucket["unknown"].Loans)
		assert.Equal(t, "1000", byBucket["current"].OutstandingPrincipal.String())

		// 2 delinquent of 3 known buckets.
		assert.Equal(t, "0.6667", snapshot.DelinquencyRate.String())
		assert.Equal(t, "333.3", snapshot.SuggestedDisbursementBudget.String())

		assert.Equal(t, map[string]int{
			"New":       1,
			"Recurrent": 1,
			"Recovered": 1,
		}, snapshot.CustomerTypeCounts)

		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("DerivesDaysPastDueFromDates", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		row := table.Row{"loan_id": "L-1", portfolio.FieldPrincipal: 100.0}
		row[dpd.FieldDueDate] = "2024-06-01"
		row[dpd.FieldCurrentDate] = "2024-07-01"
		loans := table.FromRows([]table.Row{row})
		mockRepo.On("FetchLoanTable", ctx).Return(loans, nil).Once()
		mockRepo.On("FetchCustomerActivityTable", ctx).Return(activityTable(), nil).Once()
		mockRepo.On("SaveSnapshot", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("PublishSnapshotCompleted", ctx, mock.Anything).Return(nil).Once()

		snapshot, err := service.GenerateSnapshot(ctx, referenceDate)
		require.NoError(t, err)

		for _, slice := range snapshot.BucketDistribution {
			if slice.Bucket == "1_30" {
				assert.Equal(t, 1, slice.Loans)
			}
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Loan Fetch Fails", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FetchLoanTable", ctx).Return(nil, errors.New("db down")).Once()

		snapshot, err := service.GenerateSnapshot(ctx, referenceDate)
		assert.Error(t, err)
		assert.Nil(t, snapshot)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Save Fails", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FetchLoanTable", ctx).Return(loanTable(), nil).Once()
		mockRepo.On("FetchCustomerActivityTable", ctx).Return(activityTable(), nil).Once()
		mockRepo.On("SaveSnapshot", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		snapshot, err := service.GenerateSnapshot(ctx, referenceDate)
		assert.Error(t, err)
		assert.Nil(t, snapshot)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PublishFailureDoesNotFailRun", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("FetchLoanTable", ctx).Return(loanTable(), nil).Once()
		mockRepo.On("FetchCustomerActivityTable", ctx).Return(activityTable(), nil).Once()
		mockRepo.On("SaveSnapshot", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("PublishSnapshotCompleted", ctx, mock.Anything).Return(errors.New("broker gone")).Once()

		snapshot, err := service.GenerateSnapshot(ctx, referenceDate)
		assert.NoError(t, err)
		assert.NotNil(t, snapshot)
		mockPub.AssertExpectations(t)
	})
}

func TestSnapshotService_GetSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		stored := &portfolio.Snapshot{ID: "snap-1", TotalLoans: 10}
		mockRepo.On("FindSnapshotByID", ctx, "snap-1").Return(stored, nil).Once()

		snapshot, err := service.GetSnapshot(ctx, "snap-1")
		require.NoError(t, err)
		assert.Equal(t, stored, snapshot)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindSnapshotByID", ctx, "nope").Return(nil, errors.New("not found")).Once()

		snapshot, err := service.GetSnapshot(ctx, "nope")
		assert.Error(t, err)
		assert.Nil(t, snapshot)
	})
}
