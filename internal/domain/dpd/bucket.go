package dpd

import (
	"fmt"
	"math"

	"lending-analytics/internal/pkg/apperrors"
)

// Bucket is a named risk tier for a days-past-due value.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	Bucket1To30   Bucket = "1_30"
	Bucket31To60  Bucket = "31_60"
	Bucket61To90  Bucket = "61_90"
	Bucket90Plus  Bucket = "90_plus"
	BucketUnknown Bucket = "unknown"
)

// Range is an inclusive [Min, Max] band of days-past-due values. An open
// upper bound is expressed as +Inf.
type Range struct {
	Bucket Bucket
	Min    float64
	Max    float64
}

// Scheme is an ordered, non-overlapping set of bucket ranges. Values covered
// by no range, negative values, and non-finite values map to BucketUnknown.
type Scheme struct {
	ranges []Range
}

func DefaultScheme() Scheme {
	s, _ := NewScheme([]Range{
		{Bucket: BucketCurrent, Min: 0, Max: 0},
		{Bucket: Bucket1To30, Min: 1, Max: 30},
		{Bucket: Bucket31To60, Min: 31, Max: 60},
		{Bucket: Bucket61To90, Min: 61, Max: 90},
		{Bucket: Bucket90Plus, Min: 91, Max: math.Inf(1)},
	})
	return s
}

func NewScheme(ranges []Range) (Scheme, error) {
	if len(ranges) == 0 {
		return Scheme{}, fmt.Errorf("%w: bucket scheme needs at least one range", apperrors.ErrInvalidArgument)
	}
	prevMax := math.Inf(-1)
	for i, r := range ranges {
		if r.Bucket == "" {
			return Scheme{}, fmt.Errorf("%w: range %d has no bucket name", apperrors.ErrInvalidArgument, i)
		}
		if r.Min < 0 {
			return Scheme{}, fmt.Errorf("%w: range %d starts below zero", apperrors.ErrInvalidArgument, i)
		}
		if r.Max < r.Min {
			return Scheme{}, fmt.Errorf("%w: range %d has max below min", apperrors.ErrInvalidArgument, i)
		}
		if r.Min <= prevMax {
			return Scheme{}, fmt.Errorf("%w: range %d overlaps its predecessor", apperrors.ErrInvalidArgument, i)
		}
		prevMax = r.Max
	}
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return Scheme{ranges: out}, nil
}

// Lookup maps a days-past-due value to its bucket. Ranges are checked in
// declaration order; the first match wins.
func (s Scheme) Lookup(days float64) Bucket {
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 0 {
		return BucketUnknown
	}
	for _, r := range s.ranges {
		if days >= r.Min && days <= r.Max {
			return r.Bucket
		}
	}
	return BucketUnknown
}
