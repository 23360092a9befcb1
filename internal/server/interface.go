package server

import (
	"context"
	"time"

	"github.com/nregsmp/report-engine/internal/report"
	"github.com/nregsmp/report-engine/internal/scoring"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// SummaryService builds performance summaries.
type SummaryService interface {
	BuildSummary(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error)
}

// ReportRunner executes the full report pipeline.
type ReportRunner interface {
	Generate(ctx context.Context, date, district string, includePDF bool) (report.Result, error)
}
