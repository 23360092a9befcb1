package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nregsmp/report-engine/internal/config"
	"github.com/nregsmp/report-engine/internal/dashboard"
	"github.com/nregsmp/report-engine/internal/llm"
	"github.com/nregsmp/report-engine/internal/report"
	"github.com/nregsmp/report-engine/internal/scoring"
	"github.com/nregsmp/report-engine/internal/server"
	"github.com/nregsmp/report-engine/pkg/cache"

	"go.uber.org/zap"
)

type App struct {
	logger *zap.Logger
	cache  *cache.Cache
	http   *fiber.App
	addr   string
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	dashboardClient := dashboard.NewClient(
		dashboard.WithBaseURL(cfg.DashboardBaseURL),
		dashboard.WithAPIKey(cfg.DashboardAPIKey),
		dashboard.WithConcurrency(cfg.FetchConcurrency),
		dashboard.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		dashboard.WithLogger(logger),
	)
	logger.Info("Dashboard client initialized", zap.String("base_url", cfg.DashboardBaseURL))

	scoringService := scoring.NewService(dashboardClient, logger)

	llmClient := llm.NewClient(llm.Config{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.AnthropicModel,
	}, logger)

	analyzer := report.NewAnalyzer(dashboardClient, llmClient, logger)
	generator := report.NewGenerator(llmClient, cfg.OutputDir, logger)
	pdfConverter := report.NewPDFConverter(cfg.BrowserBin, filepath.Join(cfg.OutputDir, "district_report_pdf"), logger)
	pipeline := report.NewPipeline(scoringService, analyzer, generator, pdfConverter, logger)

	handlers := server.NewHandlers(scoringService, pipeline, cacheClient, logger, cfg.CacheTTL)

	httpApp := fiber.New(fiber.Config{
		AppName:      "NREGS MP Report Engine",
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  30 * time.Second,
	})
	httpApp.Use(recover.New())
	httpApp.Use(server.RequestLogger(logger))
	handlers.Register(httpApp)

	return &App{
		logger: logger,
		cache:  cacheClient,
		http:   httpApp,
		addr:   fmt.Sprintf(":%d", cfg.HTTPPort),
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting", zap.String("addr", a.addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.http.Listen(a.addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-quit:
	}

	a.logger.Info("application shutting down")

	if err := a.http.ShutdownWithTimeout(10 * time.Second); err != nil {
		a.logger.Error("http shutdown error", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")
	_ = a.logger.Sync()
	return nil
}
