// Package export renders portfolio snapshots into spreadsheet reports for
// the downstream reporting consumers.
package export

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"lending-analytics/internal/domain/portfolio"
)

const (
	summarySheet = "Summary"
	bucketsSheet = "Buckets"
)

type ExcelExporter struct {
	logger *slog.Logger
}

func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{logger: logger.With("component", "ExcelExporter")}
}

// Write renders the snapshot to an xlsx workbook at path: a summary sheet
// with the headline KPIs and a sheet with the full bucket distribution.
func (e *ExcelExporter) Write(snapshot *portfolio.Snapshot, path string) error {
	if snapshot == nil {
		return fmt.Errorf("cannot export nil snapshot")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to set summary sheet name: %w", err)
	}

	summary := [][]any{
		{"Snapshot ID", snapshot.ID},
		{"Generated At", snapshot.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Reference Date", snapshot.ReferenceDate.Format("2006-01-02")},
		{"Total Loans", snapshot.TotalLoans},
		{"Delinquency Rate", snapshot.DelinquencyRate.String()},
		{"Suggested Disbursement Budget", snapshot.SuggestedDisbursementBudget.String()},
	}

	types := make([]string, 0, len(snapshot.CustomerTypeCounts))
	for label := range snapshot.CustomerTypeCounts {
		types = append(types, label)
	}
	sort.Strings(types)
	for _, label := range types {
		summary = append(summary, []any{fmt.Sprintf("Customers: %s", label), snapshot.CustomerTypeCounts[label]})
	}

	for i, pair := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute summary cell: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &pair); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if _, err := f.NewSheet(bucketsSheet); err != nil {
		return fmt.Errorf("failed to create buckets sheet: %w", err)
	}
	header := []any{"Bucket", "Loans", "Outstanding Principal"}
	if err := f.SetSheetRow(bucketsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write buckets header: %w", err)
	}
	for i, slice := range snapshot.BucketDistribution {
		row := []any{slice.Bucket, slice.Loans, slice.OutstandingPrincipal.String()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute bucket cell: %w", err)
		}
		if err := f.SetSheetRow(bucketsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write bucket row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Exported snapshot workbook", "path", path, "snapshotID", snapshot.ID)
	return nil
}
