package mocks

import (
	"context"
	"errors"

	"github.com/nregsmp/report-engine/internal/dashboard"
	"github.com/nregsmp/report-engine/internal/scoring"
)

// MockCompleter is a mock implementation of the Completer interface.
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
}

// Complete implements the Completer interface
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", errors.New("CompleteFunc not implemented")
}

// MockEndpointFetcher is a mock implementation of the EndpointFetcher
// interface.
type MockEndpointFetcher struct {
	FetchFunc func(ctx context.Context, path string, scope dashboard.Scope) []dashboard.Record
}

// Fetch implements the EndpointFetcher interface
func (m *MockEndpointFetcher) Fetch(ctx context.Context, path string, scope dashboard.Scope) []dashboard.Record {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, path, scope)
	}
	return nil
}

// MockSummaryBuilder is a mock implementation of the SummaryBuilder
// interface.
type MockSummaryBuilder struct {
	BuildSummaryFunc func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error)
}

// BuildSummary implements the SummaryBuilder interface
func (m *MockSummaryBuilder) BuildSummary(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
	if m.BuildSummaryFunc != nil {
		return m.BuildSummaryFunc(ctx, date, district)
	}
	return nil, errors.New("BuildSummaryFunc not implemented")
}
