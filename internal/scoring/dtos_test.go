package scoring

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceSummaryRoundTrip(t *testing.T) {
	panchayats := Standings{
		Top5:    []UnitBrief{{Name: "GP_A", Marks: 71.2, Grade: "A", MaxMarks: MaxMarks}},
		Bottom5: []UnitBrief{{Name: "GP_B", Marks: 22.0, Grade: "D", MaxMarks: MaxMarks}},
	}

	summary := PerformanceSummary{
		Metadata: Metadata{
			Date:         "2025-03-01",
			Timestamp:    "2025-03-02 08:30:00",
			MaxMarks:     MaxMarks,
			StateAverage: 55.32,
		},
		Districts: Standings{
			Top5:    []UnitBrief{{Name: "SEHORE", Marks: 80.5, Grade: "A", MaxMarks: MaxMarks}},
			Bottom5: []UnitBrief{{Name: "REWA", Marks: 41.0, Grade: "D", MaxMarks: MaxMarks}},
		},
		SelectedDistrict: &SelectedDistrict{
			Name:           "SEHORE",
			Marks:          80.5,
			Grade:          "A",
			MaxMarks:       MaxMarks,
			Rank:           1,
			TotalDistricts: 52,
			ComparedToStateAverage: StateAverageComparison{
				Difference:   25.18,
				IsAbove:      true,
				StateAverage: 55.32,
			},
			ComponentMarks: ComponentMarks{
				LaborEngagement: 12.5,
				WorkManagement:  9.75,
				NMMSUsage:       4.0,
			},
			BlockDetails: []BlockDetail{
				{
					Name:     "ASHTA",
					Marks:    77.1,
					Grade:    "A",
					MaxMarks: MaxMarks,
					ComparedToStateAverage: StateAverageComparison{
						Difference:   21.78,
						IsAbove:      true,
						StateAverage: 55.32,
					},
					Panchayats: &panchayats,
				},
				{
					Name:     "ICHHAWAR",
					Marks:    40.0,
					Grade:    "D",
					MaxMarks: MaxMarks,
				},
			},
		},
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded PerformanceSummary
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, summary, decoded)
}

func TestPerformanceSummaryFieldNames(t *testing.T) {
	summary := PerformanceSummary{
		Metadata:         Metadata{Date: "2025-03-01", StateAverage: 50},
		SelectedDistrict: &SelectedDistrict{Name: "SEHORE", BlockDetails: []BlockDetail{}},
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	text := string(data)
	for _, key := range []string{
		`"metadata"`, `"maxMarks"`, `"stateAverage"`, `"districts"`,
		`"top5"`, `"bottom5"`, `"selectedDistrict"`, `"totalDistricts"`,
		`"comparedToStateAverage"`, `"componentMarks"`, `"blockDetails"`,
	} {
		assert.Contains(t, text, key)
	}
}
