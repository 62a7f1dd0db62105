package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"lending-analytics/internal/api/handler/dto"
	"lending-analytics/internal/domain/cohort"
	"lending-analytics/internal/domain/dpd"
	"lending-analytics/internal/domain/lifecycle"
	"lending-analytics/internal/pkg/apperrors"
)

type AnalyticsHandler struct {
	assigner   *dpd.Assigner
	classifier *lifecycle.Classifier
	cohorts    *cohort.Builder
	logger     *slog.Logger
}

func NewAnalyticsHandler(assigner *dpd.Assigner, classifier *lifecycle.Classifier, cohorts *cohort.Builder, l *slog.Logger) *AnalyticsHandler {
	if assigner == nil || classifier == nil || cohorts == nil {
		panic("analytics handler dependencies cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AnalyticsHandler{
		assigner:   assigner,
		classifier: classifier,
		cohorts:    cohorts,
		logger:     l.With("component", "AnalyticsHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrConfiguration):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

// AssignDPDBuckets handles POST /analytics/dpd/buckets
// @Summary Assign DPD risk buckets to a batch of loan rows
// @Description Maps each row's days-past-due value to a risk bucket. Optionally derives days past due from due_date/current_date first. Rows with missing or malformed values degrade to the unknown bucket; they never fail the batch.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body dto.DPDBucketRequest true "Batch of loan rows"
// @Success 200 {object} dto.TableResponse "Batch with dpd_bucket column added"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or missing configured column"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/dpd/buckets [post]
// @Security BearerAuth
func (h *AnalyticsHandler) AssignDPDBuckets(w http.ResponseWriter, r *http.Request) {
	var req dto.DPDBucketRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	batch := dto.ToTable(req.Rows)
	if req.DeriveFromDates {
		batch = h.assigner.DeriveDaysPastDue(batch)
	}

	out, err := h.assigner.AssignBuckets(batch, req.DPDField)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Bucket assignment rejected", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Assigned DPD buckets", slog.Int("rows", out.Len()))
	respondJSON(w, http.StatusOK, dto.NewTableResponse(out))
}

// ClassifyLifecycle handles POST /analytics/customers/lifecycle
// @Summary Classify customers as New, Recurrent, or Recovered
// @Description Labels every row from its loan count and the gap since last activity. Classification is total: malformed rows still receive a label.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body dto.LifecycleRequest true "Batch of customer activity rows"
// @Success 200 {object} dto.TableResponse "Batch with days_since_last and customer_type columns added"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or missing configured column"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/customers/lifecycle [post]
// @Security BearerAuth
func (h *AnalyticsHandler) ClassifyLifecycle(w http.ResponseWriter, r *http.Request) {
	var req dto.LifecycleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	out, err := h.classifier.Classify(dto.ToTable(req.Rows), lifecycle.Options{
		CustomerIDField: req.CustomerIDField,
		LoanCountField:  req.LoanCountField,
		LastActiveField: req.LastActiveField,
		ReferenceDate:   req.ParsedReferenceDate(),
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Lifecycle classification rejected", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Classified customer lifecycle", slog.Int("rows", out.Len()))
	respondJSON(w, http.StatusOK, dto.NewTableResponse(out))
}

// CohortRetention handles POST /analytics/cohorts/retention
// @Summary Build a cohort retention matrix from activity rows
// @Description Groups customers by first-activity month and reports distinct active customers per month offset.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body dto.RetentionRequest true "Batch of customer activity rows"
// @Success 200 {object} dto.RetentionResponse "Retention matrix"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or missing configured column"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/cohorts/retention [post]
// @Security BearerAuth
func (h *AnalyticsHandler) CohortRetention(w http.ResponseWriter, r *http.Request) {
	var req dto.RetentionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	matrix, err := h.cohorts.Retention(dto.ToTable(req.Rows), cohort.Options{
		CustomerIDField:   req.CustomerIDField,
		ActivityDateField: req.ActivityDateField,
		MaxOffsets:        req.MaxOffsets,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Retention build rejected", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Built retention matrix", slog.Int("cohorts", len(matrix.Cohorts)))
	respondJSON(w, http.StatusOK, dto.NewRetentionResponse(matrix))
}
