package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lending-analytics/internal/domain/portfolio"
	"lending-analytics/internal/export"
)

// PortfolioSnapshotJob runs the nightly analytics pass: generate and persist
// a portfolio snapshot, then drop an xlsx report for the reporting folks.
type PortfolioSnapshotJob struct {
	service   portfolio.SnapshotService
	exporter  *export.ExcelExporter
	exportDir string
	logger    *slog.Logger
}

func NewPortfolioSnapshotJob(
	service portfolio.SnapshotService,
	exporter *export.ExcelExporter,
	exportDir string,
	logger *slog.Logger,
) *PortfolioSnapshotJob {
	if service == nil || logger == nil {
		panic("PortfolioSnapshotJob dependencies cannot be nil")
	}
	return &PortfolioSnapshotJob{
		service:   service,
		exporter:  exporter,
		exportDir: exportDir,
		logger:    logger.With("job", "PortfolioSnapshot"),
	}
}

func (j *PortfolioSnapshotJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily portfolio snapshot job.")

	snapshot, err := j.service.GenerateSnapshot(ctx, time.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Snapshot generation failed, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, snapshot generation failed: %w", err)
	}
	j.logger.InfoContext(ctx, "Snapshot generated.",
		slog.String("snapshotID", snapshot.ID),
		slog.Int("total_loans", snapshot.TotalLoans),
		slog.String("delinquency_rate", snapshot.DelinquencyRate.String()))

	if j.exporter != nil && j.exportDir != "" {
		if err := j.exportSnapshot(ctx, snapshot); err != nil {
			// The snapshot itself is already persisted; a failed export
			// should not fail the whole run.
			j.logger.ErrorContext(ctx, "Snapshot export failed.", slog.Any("error", err))
		}
	}

	j.logger.InfoContext(ctx, "Portfolio snapshot job finished.", slog.Duration("duration", time.Since(startTime)))
	return nil
}

func (j *PortfolioSnapshotJob) exportSnapshot(ctx context.Context, snapshot *portfolio.Snapshot) error {
	if err := os.MkdirAll(j.exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(j.exportDir, fmt.Sprintf("snapshot-%s.xlsx", snapshot.ReferenceDate.Format("2006-01-02")))
	if err := j.exporter.Write(snapshot, path); err != nil {
		return err
	}
	j.logger.InfoContext(ctx, "Snapshot exported.", slog.String("path", path))
	return nil
}
