package dto

import (
	"fmt"
	"time"

	"lending-analytics/internal/domain/portfolio"
)

type CreateSnapshotRequest struct {
	// ReferenceDate (YYYY-MM-DD) for the run; empty means today.
	ReferenceDate string `json:"referenceDate,omitempty"`
}

func (r *CreateSnapshotRequest) Validate() error {
	if r.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", r.ReferenceDate); err != nil {
			return fmt.Errorf("referenceDate must be YYYY-MM-DD")
		}
	}
	return nil
}

func (r *CreateSnapshotRequest) ParsedReferenceDate() time.Time {
	if r.ReferenceDate == "" {
		return time.Time{}
	}
	parsed, _ := time.Parse("2006-01-02", r.ReferenceDate)
	return parsed
}

type BucketSliceResponse struct {
	Bucket               string `json:"bucket"`
	Loans                int    `json:"loans"`
	OutstandingPrincipal string `json:"outstandingPrincipal"`
}

type SnapshotResponse struct {
	ID                          string                `json:"id"`
	GeneratedAt                 time.Time             `json:"generatedAt"`
	ReferenceDate               time.Time             `json:"referenceDate"`
	TotalLoans                  int                   `json:"totalLoans"`
	BucketDistribution          []BucketSliceResponse `json:"bucketDistribution"`
	CustomerTypeCounts          map[string]int        `json:"customerTypeCounts"`
	DelinquencyRate             string                `json:"delinquencyRate"`
	SuggestedDisbursementBudget string                `json:"suggestedDisbursementBudget"`
}

func NewSnapshotResponse(s *portfolio.Snapshot) SnapshotResponse {
	distribution := make([]BucketSliceResponse, 0, len(s.BucketDistribution))
	for _, slice := range s.BucketDistribution {
		distribution = append(distribution, BucketSliceResponse{
			Bucket:               slice.Bucket,
			Loans:                slice.Loans,
			OutstandingPrincipal: slice.OutstandingPrincipal.String(),
		})
	}
	return SnapshotResponse{
		ID:                          s.ID,
		GeneratedAt:                 s.GeneratedAt,
		ReferenceDate:               s.ReferenceDate,
		TotalLoans:                  s.TotalLoans,
		BucketDistribution:          distribution,
		CustomerTypeCounts:          s.CustomerTypeCounts,
		DelinquencyRate:             s.DelinquencyRate.String(),
		SuggestedDisbursementBudget: s.SuggestedDisbursementBudget.String(),
	}
}
