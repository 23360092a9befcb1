package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nregsmp/report-engine/internal/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheDuration = 10 * time.Minute
	summaryTimeout       = 2 * time.Minute
	reportTimeout        = 20 * time.Minute

	dateLayout = "2006-01-02"
)

// Handlers exposes the aggregation and report operations over HTTP.
type Handlers struct {
	summaries SummaryService
	reports   ReportRunner
	cache     Cacher
	logger    *zap.Logger
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

// NewHandlers initializes the HTTP handlers.
func NewHandlers(summaries SummaryService, reports ReportRunner, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if summaries == nil {
		panic("nil SummaryService provided to NewHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		summaries: summaries,
		reports:   reports,
		cache:     cache,
		logger:    logger.Named("http-handler"),
		cacheTTL:  ttl,
	}
}

// Register mounts all routes on the fiber app.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/healthz", h.Health)

	v1 := app.Group("/api/v1")
	v1.Get("/performance-summary", h.PerformanceSummary)
	v1.Post("/reports", h.GenerateReport)
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func validateDate(date string) error {
	if date == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %v", err)
	}
	return nil
}

func summaryCacheKey(date, district string) string {
	d := strings.ToLower(strings.TrimSpace(district))
	return fmt.Sprintf("summary:%s:%s", date, d)
}

func (h *Handlers) handleError(ctx context.Context, c *fiber.Ctx, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		h.logger.Warn("request canceled", zap.String("op", op))
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{"error": "request canceled"})
	case context.DeadlineExceeded:
		h.logger.Warn("request timeout", zap.String("op", op))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "request timed out"})
	}

	switch {
	case errors.Is(err, scoring.ErrNoStateData):
		h.logger.Error("no state-level data from dashboard", zap.String("op", op), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "dashboard returned no state-level data"})
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": op + " failed"})
	}
}

// PerformanceSummary serves the aggregated summary for a date and an
// optional district, read-through cached.
func (h *Handlers) PerformanceSummary(c *fiber.Ctx) error {
	date := c.Query("date")
	district := c.Query("district")

	if err := validateDate(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), summaryTimeout)
	defer cancel()

	key := summaryCacheKey(date, district)

	summary, err := cached(ctx, h.cache, &h.sfGroup, key, h.cacheTTL, h.logger, func(fetchCtx context.Context) (*scoring.PerformanceSummary, error) {
		return h.summaries.BuildSummary(fetchCtx, date, district)
	})
	if err != nil {
		return h.handleError(ctx, c, "PerformanceSummary", err)
	}

	return c.JSON(summary)
}

type reportRequest struct {
	Date     string `json:"date"`
	District string `json:"district"`
	PDF      bool   `json:"pdf"`
}

// GenerateReport runs the full report pipeline. Not cached: every call
// produces fresh artifacts.
func (h *Handlers) GenerateReport(c *fiber.Ctx) error {
	var req reportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validateDate(req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(req.District) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "district is required"})
	}
	if h.reports == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "report generation not configured"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), reportTimeout)
	defer cancel()

	result, err := h.reports.Generate(ctx, req.Date, req.District, req.PDF)
	if err != nil {
		return h.handleError(ctx, c, "GenerateReport", err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
