package mocks

import (
	"context"
	"errors"

	"github.com/nregsmp/report-engine/internal/report"
	"github.com/nregsmp/report-engine/internal/scoring"
)

// MockSummaryService is a mock implementation of the SummaryService
// interface for testing the handler layer.
type MockSummaryService struct {
	BuildSummaryFunc func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error)
}

// BuildSummary implements the SummaryService interface
func (m *MockSummaryService) BuildSummary(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
	if m.BuildSummaryFunc != nil {
		return m.BuildSummaryFunc(ctx, date, district)
	}
	return nil, errors.New("BuildSummaryFunc not implemented")
}

// MockReportRunner is a mock implementation of the ReportRunner
// interface for testing the handler layer.
type MockReportRunner struct {
	GenerateFunc func(ctx context.Context, date, district string, includePDF bool) (report.Result, error)
}

// Generate implements the ReportRunner interface
func (m *MockReportRunner) Generate(ctx context.Context, date, district string, includePDF bool) (report.Result, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, date, district, includePDF)
	}
	return report.Result{}, errors.New("GenerateFunc not implemented")
}
