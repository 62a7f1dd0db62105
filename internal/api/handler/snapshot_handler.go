package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lending-analytics/internal/api/handler/dto"
	"lending-analytics/internal/domain/portfolio"
	"lending-analytics/internal/pkg/apperrors"
)

type SnapshotHandler struct {
	service portfolio.SnapshotService
	logger  *slog.Logger
}

func NewSnapshotHandler(s portfolio.SnapshotService, l *slog.Logger) *SnapshotHandler {
	if s == nil {
		panic("snapshot service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &SnapshotHandler{
		service: s,
		logger:  l.With("component", "SnapshotHandler"),
	}
}

func getSnapshotIDFromURL(r *http.Request) (string, error) {
	idStr := chi.URLParam(r, "snapshotID")
	if idStr == "" {
		return "", fmt.Errorf("%w: snapshotID not found in URL path", apperrors.ErrInvalidArgument)
	}
	if _, err := uuid.Parse(idStr); err != nil {
		return "", fmt.Errorf("%w: invalid snapshotID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return idStr, nil
}

// CreateSnapshot handles POST /snapshots
// @Summary Run a portfolio analytics snapshot
// @Description Loads the loan book and customer activity, runs DPD bucketing and lifecycle classification, persists the aggregated snapshot, and returns it.
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param request body dto.CreateSnapshotRequest true "Snapshot run parameters"
// @Success 201 {object} dto.SnapshotResponse "Snapshot generated and stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during the run"
// @Router /snapshots [post]
// @Security BearerAuth
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create snapshot request")

	var req dto.CreateSnapshotRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	snapshot, err := h.service.GenerateSnapshot(r.Context(), req.ParsedReferenceDate())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to generate snapshot", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Snapshot created successfully", slog.String("snapshotID", snapshot.ID))
	respondJSON(w, http.StatusCreated, dto.NewSnapshotResponse(snapshot))
}

// GetSnapshot handles GET /snapshots/{snapshotID}
// @Summary Retrieve a stored portfolio snapshot
// @Description Retrieves a previously generated snapshot by its ID.
// @Tags Snapshots
// @Produce json
// @Param snapshotID path string true "Snapshot ID (UUID)"
// @Success 200 {object} dto.SnapshotResponse "Snapshot retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid snapshot ID format"
// @Failure 404 {object} dto.ErrorResponse "Snapshot not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /snapshots/{snapshotID} [get]
// @Security BearerAuth
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID, err := getSnapshotIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), snapshotID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to fetch snapshot", slog.Any("error", err), slog.String("snapshotID", snapshotID))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSnapshotResponse(snapshot))
}
