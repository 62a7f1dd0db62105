package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lending-analytics/internal/api/handler/dto"
	"lending-analytics/internal/domain/portfolio"
	"lending-analytics/internal/pkg/apperrors"
)

type MockSnapshotService struct {
	mock.Mock
}

func (_m *MockSnapshotService) GenerateSnapshot(ctx context.Context, referenceDate time.Time) (*portfolio.Snapshot, error) {
	ret := _m.Called(ctx, referenceDate)

	var r0 *portfolio.Snapshot
	if rf, ok := ret.Get(0).(func(context.Context, time.Time) *portfolio.Snapshot); ok {
		r0 = rf(ctx, referenceDate)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*portfolio.Snapshot)
		}
	}
	return r0, ret.Error(1)
}

func (_m *MockSnapshotService) GetSnapshot(ctx context.Context, snapshotID string) (*portfolio.Snapshot, error) {
	ret := _m.Called(ctx, snapshotID)

	var r0 *portfolio.Snapshot
	if rf, ok := ret.Get(0).(func(context.Context, string) *portfolio.Snapshot); ok {
		r0 = rf(ctx, snapshotID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*portfolio.Snapshot)
		}
	}
	return r0, ret.Error(1)
}

const testSnapshotID = "5f4c1a2e-9d0b-4c3f-8a7e-1b2c3d4e5f60"

func sampleSnapshot() *portfolio.Snapshot {
	return &portfolio.Snapshot{
		ID:            testSnapshotID,
		GeneratedAt:   time.Date(2026, 6, 1, 2, 0, 0, 0, time.UTC),
		ReferenceDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		TotalLoans:    4,
		BucketDistribution: []portfolio.BucketSlice{
			{Bucket: "current", Loans: 3, OutstandingPrincipal: decimal.NewFromInt(3000)},
			{Bucket: "90_plus", Loans: 1, OutstandingPrincipal: decimal.NewFromInt(500)},
		},
		CustomerTypeCounts:          map[string]int{"New": 2, "Recurrent": 2},
		DelinquencyRate:             decimal.RequireFromString("0.25"),
		SuggestedDisbursementBudget: decimal.RequireFromString("2250"),
	}
}

func TestCreateSnapshot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("returns 201 with the generated snapshot", func(t *testing.T) {
		mockService := new(MockSnapshotService)
		mockService.On("GenerateSnapshot", mock.Anything, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)).
			Return(sampleSnapshot(), nil).Once()
		h := NewSnapshotHandler(mockService, logger)

		body := bytes.NewReader([]byte(`{"referenceDate":"2026-06-01"}`))
		req := httptest.NewRequest(http.MethodPost, "/snapshots", body)
		rec := httptest.NewRecorder()
		h.CreateSnapshot(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.SnapshotResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, testSnapshotID, resp.ID)
		assert.Equal(t, "0.25", resp.DelinquencyRate)
		assert.Equal(t, "2250", resp.SuggestedDisbursementBudget)
		mockService.AssertExpectations(t)
	})

	t.Run("returns 400 on a malformed reference date", func(t *testing.T) {
		mockService := new(MockSnapshotService)
		h := NewSnapshotHandler(mockService, logger)

		body := bytes.NewReader([]byte(`{"referenceDate":"June 1st"}`))
		req := httptest.NewRequest(http.MethodPost, "/snapshots", body)
		rec := httptest.NewRecorder()
		h.CreateSnapshot(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GenerateSnapshot", mock.Anything, mock.Anything)
	})

	t.Run("returns 500 when the run fails", func(t *testing.T) {
		mockService := new(MockSnapshotService)
		mockService.On("GenerateSnapshot", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrDatabase).Once()
		h := NewSnapshotHandler(mockService, logger)

		body := bytes.NewReader([]byte(`{}`))
		req := httptest.NewRequest(http.MethodPost, "/snapshots", body)
		rec := httptest.NewRecorder()
		h.CreateSnapshot(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetSnapshot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	serve := func(h *SnapshotHandler, id string) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.Get("/snapshots/{snapshotID}", h.GetSnapshot)
		req := httptest.NewRequest(http.MethodGet, "/snapshots/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("returns a stored snapshot", func(t *testing.T) {
		mockService := new(MockSnapshotService)
		mockService.On("GetSnapshot", mock.Anything, testSnapshotID).
			Return(sampleSnapshot(), nil).Once()
		h := NewSnapshotHandler(mockService, logger)

		rec := serve(h, testSnapshotID)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.SnapshotResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.TotalLoans)
		require.Len(t, resp.BucketDistribution, 2)
		assert.Equal(t, "3000", resp.BucketDistribution[0].OutstandingPrincipal)
		mockService.AssertExpectations(t)
	})

	t.Run("returns 400 on a non-UUID id", func(t *testing.T) {
		mockService := new(MockSnapshotService)
		h := NewSnapshotHandler(mockService, logger)

		rec := serve(h, "not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
	})

	t.Run("returns 404 when the snapshot does not exist", func(t *testing.T) {
		mockService := new(MockSnapshotService)
		mockService.On("GetSnapshot", mock.Anything, testSnapshotID).
			Return(nil, apperrors.ErrNotFound).Once()
		h := NewSnapshotHandler(mockService, logger)

		rec := serve(h, testSnapshotID)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}
