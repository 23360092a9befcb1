package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nregsmp/report-engine/internal/dashboard"
	"github.com/nregsmp/report-engine/internal/scoring"
	"go.uber.org/zap"
)

// Completer generates free text from a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// EndpointFetcher retrieves one endpoint's records for a scope.
type EndpointFetcher interface {
	Fetch(ctx context.Context, path string, scope dashboard.Scope) []dashboard.Record
}

// Section describes one per-metric analysis section of the report.
type Section struct {
	Key      string
	Title    string
	Endpoint string
	Fields   []string
	Target   string
}

// Sections drive the per-metric analysis, one report section per
// scheme component. Target lines state what good performance looks like
// and are passed verbatim to the text-generation prompt.
var Sections = []Section{
	{"labor_engagement", "Labour Engagement", "/api/employment_workers/labour-engagement",
		[]string{"marks"}, "ideally should be above state average"},
	{"person_days", "Average Person Days", "/api/employment_workers/avg-persondays",
		[]string{"pd_marks"}, "ideally should be above state average"},
	{"category_employment", "Category Employment", "/api/employment_workers/category-employment",
		[]string{"total_marks"}, "SC, ST and women should be employed in maximum quantity"},
	{"work_management", "Work Management", "/api/employment_workers/work-management",
		[]string{"marks_prev", "marks_curr"}, "for older works it should be above 90% while for the rest above state average"},
	{"area_officer_inspection", "Area Officer Inspection", "/api/employment_workers/inspection",
		[]string{"total_visit_marks"}, "minimum 10 inspections for both DPC and ADPC"},
	{"nmms_usage", "NMMS Usage", "/api/employment_workers/nmms-usage",
		[]string{"total_nmms_marks"}, "100% usage is ideal"},
	{"geotag_pending_works", "Geotag Pending Works", "/api/employment_workers/geotag-pending-works",
		[]string{"phase_0_assets_geotag_marks", "phase_1_before_geotag_marks", "phase_2_during_geotag_marks", "phase_3_after_geotag_marks"},
		"above state average"},
	{"labour_material_ratio", "Labour Material Ratio", "/api/employment_workers/labour-material-ratio",
		[]string{"ratio_marks"}, "ideally between 35-40 percent; lower denotes pendency in bill payment and higher denotes skewed priority towards material intensive work"},
	{"women_mate_engagement", "Women Mate Engagement", "/api/employment_workers/women-mate-engagement",
		[]string{"women_mate_marks"}, "ideally above 50%"},
	{"timely_payment", "Timely Payment", "/api/employment_workers/timely-payment",
		[]string{"timely_payment_marks"}, "100% is the target"},
	{"zero_muster", "Zero Muster", "/api/employment_workers/zero-muster",
		[]string{"zero_muster_marks"}, "lesser the better"},
	{"fra_beneficiaries", "FRA Beneficiaries", "/api/employment_workers/fra-beneficiaries",
		[]string{"total_fra_marks"}, "above state average"},
}

// Analyzer produces the per-metric narrative sections that accompany
// the performance summary in the comprehensive report.
type Analyzer struct {
	fetcher EndpointFetcher
	llm     Completer
	logger  *zap.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher EndpointFetcher, llm Completer, logger *zap.Logger) *Analyzer {
	if fetcher == nil {
		panic("fetcher must not be nil")
	}
	if llm == nil {
		panic("completer must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		fetcher: fetcher,
		llm:     llm,
		logger:  logger.Named("analysis"),
	}
}

type rankedValue struct {
	Name  string
	Value float64
}

func sectionValues(records []dashboard.Record, fields []string) []rankedValue {
	units := scoring.Merge([][]dashboard.Record{records})

	values := make([]rankedValue, 0, len(units))
	for _, u := range units {
		var sum float64
		for _, f := range fields {
			sum += u.Float(f)
		}
		values = append(values, rankedValue{Name: u.Name, Value: sum})
	}

	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Value > values[j].Value
	})
	return values
}

func meanValue(values []rankedValue) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v.Value
	}
	return sum / float64(len(values))
}

func findRank(values []rankedValue, name string) (rankedValue, int, bool) {
	for i, v := range values {
		if v.Name == name {
			return v, i + 1, true
		}
	}
	return rankedValue{}, 0, false
}

func (a *Analyzer) sectionPrompt(section Section, district string, state, blocks []rankedValue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an AI analyst evaluating NREGS performance in Madhya Pradesh, India, for the %q component (%s marks).\n", section.Title, section.Key)
	fmt.Fprintf(&b, "Performance goal for this component: %s.\n\n", section.Target)

	fmt.Fprintf(&b, "State average: %.2f marks across %d districts.\n", meanValue(state), len(state))
	if len(state) > 0 {
		fmt.Fprintf(&b, "Top district: %s (%.2f). Bottom district: %s (%.2f).\n",
			state[0].Name, state[0].Value, state[len(state)-1].Name, state[len(state)-1].Value)
	}
	if target, rank, found := findRank(state, district); found {
		fmt.Fprintf(&b, "Target district %s scored %.2f, rank %d of %d.\n", district, target.Value, rank, len(state))
	}

	if len(blocks) > 0 {
		fmt.Fprintf(&b, "\nBlocks within %s, best to worst:\n", district)
		for _, v := range blocks {
			fmt.Fprintf(&b, "- %s: %.2f\n", v.Name, v.Value)
		}
	}

	fmt.Fprintf(&b, "\nWrite a concise, professional 3-4 sentence analysis of %s's performance on this component: ", district)
	b.WriteString("compare it against the state average and top performers, name the strongest and weakest blocks, ")
	b.WriteString("and give 2-3 data-driven recommendations. Base the analysis solely on the data above.")

	return b.String()
}

// Run builds the per-section analysis text for one district and date.
// A failed section degrades to a placeholder; it never aborts the run.
func (a *Analyzer) Run(ctx context.Context, date, district string) map[string]string {
	out := make(map[string]string, len(Sections))

	for _, section := range Sections {
		placeholder := section.Title + " analysis not available."

		stateRecords := a.fetcher.Fetch(ctx, section.Endpoint, dashboard.Scope{Date: date})
		if len(stateRecords) == 0 {
			a.logger.Warn("no state data for section", zap.String("section", section.Key))
			out[section.Key] = placeholder
			continue
		}
		blockRecords := a.fetcher.Fetch(ctx, section.Endpoint, dashboard.Scope{Date: date, District: district})

		prompt := a.sectionPrompt(section,
			district,
			sectionValues(stateRecords, section.Fields),
			sectionValues(blockRecords, section.Fields))

		text, err := a.llm.Complete(ctx, prompt)
		if err != nil {
			a.logger.Warn("section analysis failed",
				zap.String("section", section.Key),
				zap.Error(err))
			out[section.Key] = placeholder
			continue
		}
		out[section.Key] = text
	}

	return out
}
