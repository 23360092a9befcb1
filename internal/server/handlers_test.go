package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/nregsmp/report-engine/internal/report"
	"github.com/nregsmp/report-engine/internal/scoring"
	"github.com/nregsmp/report-engine/internal/server/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, summaries SummaryService, reports ReportRunner, cache Cacher) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := NewHandlers(summaries, reports, cache, zap.NewNop(), time.Minute)
	h.Register(app)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dest))
}

func TestNewHandlers(t *testing.T) {
	t.Run("nil summary service panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewHandlers(nil, &mocks.MockReportRunner{}, &mocks.MockCacher{}, zap.NewNop(), time.Minute)
		})
	})
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &mocks.MockSummaryService{}, nil, &mocks.MockCacher{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestPerformanceSummary(t *testing.T) {
	summary := &scoring.PerformanceSummary{
		Metadata: scoring.Metadata{Date: "2025-03-01", MaxMarks: scoring.MaxMarks, StateAverage: 55.5},
	}

	t.Run("missing date returns 400", func(t *testing.T) {
		app := newTestApp(t, &mocks.MockSummaryService{}, nil, &mocks.MockCacher{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed date returns 400", func(t *testing.T) {
		app := newTestApp(t, &mocks.MockSummaryService{}, nil, &mocks.MockCacher{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary?date=03-01-2025", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cache miss builds and returns summary", func(t *testing.T) {
		var gotDate, gotDistrict string
		summaries := &mocks.MockSummaryService{
			BuildSummaryFunc: func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
				gotDate, gotDistrict = date, district
				return summary, nil
			},
		}
		app := newTestApp(t, summaries, nil, &mocks.MockCacher{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary?date=2025-03-01&district=SEHORE", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "2025-03-01", gotDate)
		assert.Equal(t, "SEHORE", gotDistrict)

		var body scoring.PerformanceSummary
		decodeBody(t, resp, &body)
		assert.Equal(t, 55.5, body.Metadata.StateAverage)
	})

	t.Run("cache hit skips aggregation", func(t *testing.T) {
		built := false
		summaries := &mocks.MockSummaryService{
			BuildSummaryFunc: func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
				built = true
				return nil, errors.New("should not be called")
			},
		}
		cache := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				assert.Equal(t, "summary:2025-03-01:sehore", key)
				ptr, ok := dest.(**scoring.PerformanceSummary)
				require.True(t, ok)
				*ptr = summary
				return nil
			},
		}
		app := newTestApp(t, summaries, nil, cache)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary?date=2025-03-01&district=SEHORE", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, built)
	})

	t.Run("no state data returns 502", func(t *testing.T) {
		summaries := &mocks.MockSummaryService{
			BuildSummaryFunc: func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
				return nil, scoring.ErrNoStateData
			},
		}
		app := newTestApp(t, summaries, nil, &mocks.MockCacher{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary?date=2025-03-01", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("unexpected error returns 500", func(t *testing.T) {
		summaries := &mocks.MockSummaryService{
			BuildSummaryFunc: func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
				return nil, errors.New("boom")
			},
		}
		app := newTestApp(t, summaries, nil, &mocks.MockCacher{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary?date=2025-03-01", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("cache transport error degrades to miss", func(t *testing.T) {
		summaries := &mocks.MockSummaryService{
			BuildSummaryFunc: func(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error) {
				return summary, nil
			},
		}
		cache := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				return errors.New("connection refused")
			},
		}
		app := newTestApp(t, summaries, nil, cache)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/performance-summary?date=2025-03-01", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestGenerateReport(t *testing.T) {
	postReport := func(t *testing.T, app *fiber.App, payload any) *http.Response {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	t.Run("creates report artifacts", func(t *testing.T) {
		var gotPDF bool
		reports := &mocks.MockReportRunner{
			GenerateFunc: func(ctx context.Context, date, district string, includePDF bool) (report.Result, error) {
				gotPDF = includePDF
				return report.Result{
					HTMLPath: "output/SEHORE_comprehensive_report_2025-03-01.html",
					PDFPath:  "output/SEHORE_comprehensive_report_2025-03-01.pdf",
				}, nil
			},
		}
		app := newTestApp(t, &mocks.MockSummaryService{}, reports, &mocks.MockCacher{})

		resp := postReport(t, app, map[string]any{"date": "2025-03-01", "district": "SEHORE", "pdf": true})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.True(t, gotPDF)

		var result report.Result
		decodeBody(t, resp, &result)
		assert.Equal(t, "output/SEHORE_comprehensive_report_2025-03-01.html", result.HTMLPath)
		assert.Equal(t, "output/SEHORE_comprehensive_report_2025-03-01.pdf", result.PDFPath)
	})

	t.Run("missing district returns 400", func(t *testing.T) {
		app := newTestApp(t, &mocks.MockSummaryService{}, &mocks.MockReportRunner{}, &mocks.MockCacher{})

		resp := postReport(t, app, map[string]any{"date": "2025-03-01"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		app := newTestApp(t, &mocks.MockSummaryService{}, &mocks.MockReportRunner{}, &mocks.MockCacher{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("report runner absent returns 503", func(t *testing.T) {
		app := newTestApp(t, &mocks.MockSummaryService{}, nil, &mocks.MockCacher{})

		resp := postReport(t, app, map[string]any{"date": "2025-03-01", "district": "SEHORE"})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("pipeline failure returns 500", func(t *testing.T) {
		reports := &mocks.MockReportRunner{
			GenerateFunc: func(ctx context.Context, date, district string, includePDF bool) (report.Result, error) {
				return report.Result{}, errors.New("browser crashed")
			},
		}
		app := newTestApp(t, &mocks.MockSummaryService{}, reports, &mocks.MockCacher{})

		resp := postReport(t, app, map[string]any{"date": "2025-03-01", "district": "SEHORE"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestTTLWithJitter(t *testing.T) {
	base := 10 * time.Minute
	for i := 0; i < 50; i++ {
		got := ttlWithJitter(base)
		assert.GreaterOrEqual(t, got, base-15*time.Second)
		assert.LessOrEqual(t, got, base+15*time.Second)
	}
	assert.Equal(t, time.Duration(0), ttlWithJitter(0))
}
