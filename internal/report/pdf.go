package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// A2 portrait in inches, matching the report's @page rule.
const (
	a2WidthInches  = 16.54
	a2HeightInches = 23.39
)

// PDFConverter renders an HTML report to PDF through headless Chrome.
type PDFConverter struct {
	browserBin string
	outputDir  string
	logger     *zap.Logger
}

// NewPDFConverter creates a new PDFConverter. browserBin may be empty,
// in which case the launcher resolves (or downloads) a browser itself.
func NewPDFConverter(browserBin, outputDir string, logger *zap.Logger) *PDFConverter {
	if outputDir == "" {
		outputDir = filepath.Join("output", "district_report_pdf")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFConverter{
		browserBin: browserBin,
		outputDir:  outputDir,
		logger:     logger.Named("pdf"),
	}
}

func float64ptr(v float64) *float64 { return &v }

// Convert renders htmlPath to a PDF under the converter's output
// directory and returns the PDF path.
func (p *PDFConverter) Convert(ctx context.Context, htmlPath string) (string, error) {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("resolve html path: %w", err)
	}

	launch := launcher.New().Headless(true)
	if p.browserBin != "" {
		launch = launch.Bin(p.browserBin)
	}
	controlURL, err := launch.Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + abs})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      float64ptr(a2WidthInches),
		PaperHeight:     float64ptr(a2HeightInches),
	})
	if err != nil {
		return "", fmt.Errorf("print to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("read pdf stream: %w", err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create pdf dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	pdfPath := filepath.Join(p.outputDir, base+".pdf")
	if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	p.logger.Info("pdf written", zap.String("path", pdfPath), zap.Int("bytes", len(data)))
	return pdfPath, nil
}
