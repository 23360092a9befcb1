package mocks

import (
	"context"
	"errors"

	"github.com/nregsmp/report-engine/internal/dashboard"
)

// MockFetcher is a mock implementation of the Fetcher interface for
// testing the scoring service. It uses function-based mocking for
// flexibility.
type MockFetcher struct {
	FetchAllFunc func(ctx context.Context, scope dashboard.Scope) ([][]dashboard.Record, error)
}

// FetchAll implements the Fetcher interface
func (m *MockFetcher) FetchAll(ctx context.Context, scope dashboard.Scope) ([][]dashboard.Record, error) {
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx, scope)
	}
	return nil, errors.New("FetchAllFunc not implemented")
}
