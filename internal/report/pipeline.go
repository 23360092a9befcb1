package report

import (
	"context"
	"fmt"

	"github.com/nregsmp/report-engine/internal/scoring"
	"go.uber.org/zap"
)

// SummaryBuilder produces the performance summary the report is built
// from.
type SummaryBuilder interface {
	BuildSummary(ctx context.Context, date, district string) (*scoring.PerformanceSummary, error)
}

// Result carries the artifacts of one report run.
type Result struct {
	HTMLPath string `json:"html"`
	PDFPath  string `json:"pdf,omitempty"`
}

// Pipeline runs the full report flow: summary aggregation, per-metric
// analysis, HTML generation and optional PDF conversion.
type Pipeline struct {
	summaries SummaryBuilder
	analyzer  *Analyzer
	generator *Generator
	pdf       *PDFConverter
	logger    *zap.Logger
}

// NewPipeline creates a new Pipeline instance. pdf may be nil to
// disable PDF conversion entirely.
func NewPipeline(summaries SummaryBuilder, analyzer *Analyzer, generator *Generator, pdf *PDFConverter, logger *zap.Logger) *Pipeline {
	if summaries == nil {
		panic("summary builder must not be nil")
	}
	if analyzer == nil || generator == nil {
		panic("analyzer and generator must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		summaries: summaries,
		analyzer:  analyzer,
		generator: generator,
		pdf:       pdf,
		logger:    logger.Named("pipeline"),
	}
}

// Generate runs the report pipeline for one district and date. PDF
// conversion failure is not fatal: the HTML artifact is kept and the
// result simply carries no PDF path.
func (p *Pipeline) Generate(ctx context.Context, date, district string, includePDF bool) (Result, error) {
	summary, err := p.summaries.BuildSummary(ctx, date, district)
	if err != nil {
		return Result{}, fmt.Errorf("build summary: %w", err)
	}

	analysis := p.analyzer.Run(ctx, date, district)

	htmlPath, err := p.generator.GenerateHTML(ctx, summary, analysis, district, date)
	if err != nil {
		return Result{}, err
	}

	result := Result{HTMLPath: htmlPath}

	if includePDF && p.pdf != nil {
		pdfPath, err := p.pdf.Convert(ctx, htmlPath)
		if err != nil {
			p.logger.Error("pdf conversion failed, keeping html artifact",
				zap.String("html", htmlPath),
				zap.Error(err))
		} else {
			result.PDFPath = pdfPath
		}
	}

	return result, nil
}
