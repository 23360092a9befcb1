package scoring

import (
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// MaxMarks is the conceptual ceiling of the composite score.
const MaxMarks = 103

// Grade thresholds for the composite score.
const (
	gradeAMin = 70
	gradeBMin = 60
	gradeCMin = 45
)

// Field names contributed by the individual endpoints. Missing or
// non-numeric values count as zero during scoring.
const (
	fieldLabourMarks        = "marks"
	fieldPersonDayMarks     = "pd_marks"
	fieldCategoryMarks      = "total_marks"
	fieldDisabledMarks      = "disabled_marks"
	fieldTransactionMarks   = "total_transaction_marks"
	fieldWorkMarksPrev      = "marks_prev"
	fieldWorkMarksCurr      = "marks_curr"
	fieldInspectionMarks    = "total_visit_marks"
	fieldPendingMarks       = "pending_marks"
	fieldRecoveryMarks      = "recovery_marks"
	fieldNMMSMarks          = "total_nmms_marks"
	fieldGeotagPhase0Marks  = "phase_0_assets_geotag_marks"
	fieldGeotagPhase1Marks  = "phase_1_before_geotag_marks"
	fieldGeotagPhase2Marks  = "phase_2_during_geotag_marks"
	fieldGeotagPhase3Marks  = "phase_3_after_geotag_marks"
	fieldRatioMarks         = "ratio_marks"
	fieldWomenMateMarks     = "women_mate_marks"
	fieldTimelyPaymentMarks = "timely_payment_marks"
	fieldZeroMusterMarks    = "zero_muster_marks"
	fieldFRAMarks           = "total_fra_marks"
)

// Float returns the named field coerced to a float64, treating missing,
// nil and non-numeric values as zero. Scoring never fails on bad input.
func (u Unit) Float(key string) float64 {
	return toFloat(u.Fields[key])
}

func toFloat(v any) float64 {
	f, _ := toFloatOk(v)
	return f
}

// toFloatOk coerces like toFloat but also reports whether the value was
// actually numeric, for callers that must distinguish a real zero from
// an unparseable value.
func toFloatOk(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WorkManagementMarks is the combined previous+current work management
// component.
func (u Unit) WorkManagementMarks() float64 {
	return u.Float(fieldWorkMarksPrev) + u.Float(fieldWorkMarksCurr)
}

// GeotagMarks is the combined four-phase geotagging component.
func (u Unit) GeotagMarks() float64 {
	return u.Float(fieldGeotagPhase0Marks) +
		u.Float(fieldGeotagPhase1Marks) +
		u.Float(fieldGeotagPhase2Marks) +
		u.Float(fieldGeotagPhase3Marks)
}

func gradeFor(total float64) string {
	switch {
	case total >= gradeAMin:
		return "A"
	case total >= gradeBMin:
		return "B"
	case total >= gradeCMin:
		return "C"
	default:
		return "D"
	}
}

// Score derives the composite total and letter grade for every unit,
// then sorts the list descending by total. The sort is stable: ties keep
// their merge order. No units are added or dropped.
func Score(units []Unit) []Unit {
	for i := range units {
		u := &units[i]

		total := u.Float(fieldLabourMarks) +
			u.Float(fieldPersonDayMarks) +
			u.Float(fieldCategoryMarks) +
			u.Float(fieldDisabledMarks) +
			u.Float(fieldTransactionMarks) +
			u.WorkManagementMarks() +
			u.Float(fieldInspectionMarks) +
			u.Float(fieldPendingMarks) +
			u.Float(fieldRecoveryMarks) +
			u.Float(fieldNMMSMarks) +
			u.GeotagMarks() +
			u.Float(fieldRatioMarks) +
			u.Float(fieldWomenMateMarks) +
			u.Float(fieldTimelyPaymentMarks) +
			u.Float(fieldZeroMusterMarks) +
			u.Float(fieldFRAMarks)

		u.Total = round2(total)
		u.Grade = gradeFor(u.Total)
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Total > units[j].Total
	})

	return units
}
