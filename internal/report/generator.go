package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nregsmp/report-engine/internal/scoring"
	"go.uber.org/zap"
)

// Generator turns a performance summary and its analysis sections into
// an HTML report file.
type Generator struct {
	llm       Completer
	outputDir string
	logger    *zap.Logger
}

// NewGenerator creates a new Generator instance.
func NewGenerator(llm Completer, outputDir string, logger *zap.Logger) *Generator {
	if llm == nil {
		panic("completer must not be nil")
	}
	if outputDir == "" {
		outputDir = "output"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		llm:       llm,
		outputDir: outputDir,
		logger:    logger.Named("report"),
	}
}

func reportBasename(district, date string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(district), " ", "_")
	return fmt.Sprintf("%s_comprehensive_report_%s", slug, date)
}

// GenerateHTML requests the report completion and writes the HTML file.
// Returns the written file path.
func (g *Generator) GenerateHTML(ctx context.Context, summary *scoring.PerformanceSummary, analysis map[string]string, district, date string) (string, error) {
	prompt, err := BuildReportPrompt(summary, analysis, district, date)
	if err != nil {
		return "", err
	}

	g.logger.Info("requesting report completion",
		zap.String("district", district),
		zap.String("date", date),
		zap.Int("prompt_bytes", len(prompt)))

	html, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("report completion: %w", err)
	}
	html = stripCodeFences(html)

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(g.outputDir, reportBasename(district, date)+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	g.logger.Info("report written", zap.String("path", path), zap.Int("bytes", len(html)))
	return path, nil
}
