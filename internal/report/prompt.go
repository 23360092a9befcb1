package report

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nregsmp/report-engine/internal/scoring"
)

// BuildReportPrompt assembles the comprehensive-report prompt: the
// serialized performance summary, the per-metric analysis sections and
// the report design brief. The summary must be JSON-serializable; the
// returned text is handed to the text-generation service as-is.
func BuildReportPrompt(summary *scoring.PerformanceSummary, analysis map[string]string, district, date string) (string, error) {
	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}

	var b strings.Builder

	b.WriteString("You are an expert data analyst and report designer for the National Rural Employment Guarantee Scheme (NREGS) in Madhya Pradesh, India.\n")
	b.WriteString("The data you are getting is a summary from many individual reports and you have to make sense of it to paint a complete picture of the district. ")
	b.WriteString("The suggestions and analysis you make will impact millions of lives, so your analysis should be crisp and to the point.\n\n")

	b.WriteString("The individual report sections and what we are aiming for in each:\n")
	for _, section := range Sections {
		fmt.Fprintf(&b, "  %q - %s\n", section.Key, section.Target)
	}
	b.WriteString("  \"disabled workers\" - ideally above 2%\n\n")

	fmt.Fprintf(&b, "Create a comprehensive, visually appealing HTML report for %s district based on data from %s.\n\n", district, date)

	b.WriteString("<performance_summary>\n")
	b.Write(summaryJSON)
	b.WriteString("\n</performance_summary>\n\n")

	b.WriteString("<detailed_analysis>\n")
	b.Write(analysisJSON)
	b.WriteString("\n</detailed_analysis>\n\n")

	b.WriteString(`Design requirements, optimized for A2 PDF conversion:
1. Professional blue color scheme: primary #0056a6, secondary #2D8CC0, accent #FF9933; white/#F5F7FA backgrounds; success #28a745, warning #ffc107, danger #dc3545, info #17a2b8.
2. Fixed 180px header with the Madhya Pradesh emblem, district name at 36pt, report date, and an NREGS MP title; flexbox with space-between; page-break-after: avoid.
3. A Component Contribution score table (component, score as X.XX / XX, % of total, color-coded performance indicator), sorted by score descending, with a color legend. Indicator bands: blue gradient 7.5+ marks, green 3.5-7.5, yellow 1.5-3.5, orange 0.1-1.5, red 0.
4. A block performance comparison table with score, grade badge (A green, B teal, C yellow with black text, D red), signed difference vs state average and a performance category: High (10+ above), Above Average (2-10 above), Average (within 2), Below Average (2-10 below), Critical (10+ below).
5. CSS Grid layout throughout; top/bottom district tables side by side in a 1fr 1fr grid with 40px gap; alternate row shading #f9f9f9; minimum 14pt table text for A2 readability; wrap tables in keep-together containers; 1px solid #e0e0e0 borders instead of box shadows.
6. Block analysis cards in a two-column grid, min-height 550px, left border accent colored by performance, with a SWOT analysis per block focused on that block's distinctive characteristics. Do not leave out any block.
7. Per block, top 5 and bottom 5 panchayat tables side by side with key insights below; keep each block's panchayat section together.
8. A Quick Win Opportunities card listing components just below state average where targeted effort would improve ranking.
9. Recommendations in three categories: Priority Areas, Replicating Success, and Operational Improvements.
10. Use @page { size: A2 portrait; margin: 15mm; } and explicit page breaks between sections, never at the start of one.

Return a single complete HTML document. Do not include any commentary outside the HTML.`)

	return b.String(), nil
}

// stripCodeFences unwraps a completion that arrived as a fenced
// markdown block instead of a bare document.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```html")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
