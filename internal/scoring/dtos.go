package scoring

// Summary structures mirror the JSON document consumed by the report
// assembler. Field names are part of the output contract.

type Metadata struct {
	Date         string  `json:"date"`
	Timestamp    string  `json:"timestamp"`
	MaxMarks     float64 `json:"maxMarks"`
	StateAverage float64 `json:"stateAverage"`
}

// UnitBrief is the display projection of one ranked unit.
type UnitBrief struct {
	Name     string  `json:"name"`
	Marks    float64 `json:"marks"`
	Grade    string  `json:"grade"`
	MaxMarks float64 `json:"maxMarks"`
}

// Standings holds the top and bottom slices of a ranked unit list.
type Standings struct {
	Top5    []UnitBrief `json:"top5"`
	Bottom5 []UnitBrief `json:"bottom5"`
}

// StateAverageComparison relates a unit's score to the state average.
type StateAverageComparison struct {
	Difference   float64 `json:"difference"`
	IsAbove      bool    `json:"isAbove"`
	StateAverage float64 `json:"stateAverage"`
}

// ComponentMarks is the per-component breakdown shown for the selected
// district and each of its blocks.
type ComponentMarks struct {
	LaborEngagement     float64 `json:"laborEngagement"`
	PersonDays          float64 `json:"personDays"`
	CategoryEmployment  float64 `json:"categoryEmployment"`
	DisabledWorkers     float64 `json:"disabledWorkers"`
	WorkManagement      float64 `json:"workManagement"`
	Inspection          float64 `json:"inspection"`
	NMMSUsage           float64 `json:"nmmsUsage"`
	GeotagPendingWorks  float64 `json:"geotagPendingWorks"`
	LabourMaterialRatio float64 `json:"labourMaterialRatio"`
	WomenMateEngagement float64 `json:"womenMateEngagement"`
	TimelyPayment       float64 `json:"timelyPayment"`
	ZeroMuster          float64 `json:"zeroMuster"`
	FRABeneficiaries    float64 `json:"fraBeneficiaries"`
}

// BlockDetail carries one block's standing plus its nested panchayat
// standings.
type BlockDetail struct {
	Name                   string                 `json:"name"`
	Marks                  float64                `json:"marks"`
	Grade                  string                 `json:"grade"`
	MaxMarks               float64                `json:"maxMarks"`
	ComparedToStateAverage StateAverageComparison `json:"comparedToStateAverage"`
	ComponentMarks         ComponentMarks         `json:"componentMarks"`
	Panchayats             *Standings             `json:"panchayats,omitempty"`
}

// SelectedDistrict is the drill-down section for the requested district.
type SelectedDistrict struct {
	Name                   string                 `json:"name"`
	Marks                  float64                `json:"marks"`
	Grade                  string                 `json:"grade"`
	MaxMarks               float64                `json:"maxMarks"`
	Rank                   int                    `json:"rank"`
	TotalDistricts         int                    `json:"totalDistricts"`
	ComparedToStateAverage StateAverageComparison `json:"comparedToStateAverage"`
	ComponentMarks         ComponentMarks         `json:"componentMarks"`
	BlockDetails           []BlockDetail          `json:"blockDetails"`
}

// PerformanceSummary is the root output of an aggregation run.
type PerformanceSummary struct {
	Metadata         Metadata          `json:"metadata"`
	Districts        Standings         `json:"districts"`
	SelectedDistrict *SelectedDistrict `json:"selectedDistrict,omitempty"`
}

func (u Unit) componentMarks() ComponentMarks {
	return ComponentMarks{
		LaborEngagement:     u.Float(fieldLabourMarks),
		PersonDays:          u.Float(fieldPersonDayMarks),
		CategoryEmployment:  u.Float(fieldCategoryMarks),
		DisabledWorkers:     u.Float(fieldDisabledMarks),
		WorkManagement:      u.WorkManagementMarks(),
		Inspection:          u.Float(fieldInspectionMarks),
		NMMSUsage:           u.Float(fieldNMMSMarks),
		GeotagPendingWorks:  u.GeotagMarks(),
		LabourMaterialRatio: u.Float(fieldRatioMarks),
		WomenMateEngagement: u.Float(fieldWomenMateMarks),
		TimelyPayment:       u.Float(fieldTimelyPaymentMarks),
		ZeroMuster:          u.Float(fieldZeroMusterMarks),
		FRABeneficiaries:    u.Float(fieldFRAMarks),
	}
}
