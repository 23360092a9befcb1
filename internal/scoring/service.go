package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nregsmp/report-engine/internal/dashboard"
	"go.uber.org/zap"
)

const (
	topN    = 5
	bottomN = 5
)

var (
	// ErrNoStateData signals that the state-level fetch produced no
	// usable districts. The whole aggregation aborts in that case.
	ErrNoStateData = errors.New("no state-level data")
)

// Fetcher retrieves all endpoint result sets for one scope.
type Fetcher interface {
	FetchAll(ctx context.Context, scope dashboard.Scope) ([][]dashboard.Record, error)
}

// Service aggregates dashboard metrics across the administrative
// hierarchy and assembles performance summaries.
type Service struct {
	fetcher Fetcher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new Service instance.
func NewService(fetcher Fetcher, logger *zap.Logger) *Service {
	if fetcher == nil {
		panic("fetcher must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) combined(ctx context.Context, scope dashboard.Scope) ([]Unit, error) {
	resultSets, err := s.fetcher.FetchAll(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", scope.Date, err)
	}
	return Score(Merge(resultSets)), nil
}

// DistrictStandings fetches, merges and scores all districts at state
// scope. An empty result is fatal: there is no partial state output.
func (s *Service) DistrictStandings(ctx context.Context, date string) ([]Unit, error) {
	units, err := s.combined(ctx, dashboard.Scope{Date: date})
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, ErrNoStateData
	}
	return units, nil
}

// BlockStandings fetches, merges, scores and filters the blocks of one
// district. An empty result is not an error at this scope.
func (s *Service) BlockStandings(ctx context.Context, date, district string) ([]Unit, error) {
	units, err := s.combined(ctx, dashboard.Scope{Date: date, District: district})
	if err != nil {
		return nil, err
	}
	return FilterBlocks(units, district, s.logger), nil
}

// PanchayatStandings fetches, merges, scores and filters the panchayats
// of one block. An empty result is not an error at this scope.
func (s *Service) PanchayatStandings(ctx context.Context, date, district, block string) ([]Unit, error) {
	units, err := s.combined(ctx, dashboard.Scope{Date: date, District: district, Block: block})
	if err != nil {
		return nil, err
	}
	return FilterPanchayats(units, district, block, s.logger), nil
}

func stateAverage(units []Unit) float64 {
	if len(units) == 0 {
		return 0
	}
	var sum float64
	for _, u := range units {
		sum += u.Total
	}
	return round2(sum / float64(len(units)))
}

func briefs(units []Unit) []UnitBrief {
	out := make([]UnitBrief, len(units))
	for i, u := range units {
		out[i] = UnitBrief{
			Name:     u.Name,
			Marks:    round2(u.Total),
			Grade:    u.Grade,
			MaxMarks: MaxMarks,
		}
	}
	return out
}

// standings slices the top and bottom performers of a ranked list. With
// dropLowest set (panchayat scope) and more than bottomN+1 units, the
// single lowest-ranked unit is excluded so one pathological record does
// not dominate the bottom slice.
func standings(units []Unit, dropLowest bool) Standings {
	display := briefs(units)

	top := display
	if len(top) > topN {
		top = top[:topN]
	}

	var bottom []UnitBrief
	if dropLowest && len(display) > bottomN+1 {
		bottom = display[len(display)-bottomN-1 : len(display)-1]
	} else if len(display) > bottomN {
		bottom = display[len(display)-bottomN:]
	} else {
		bottom = display
	}

	return Standings{Top5: top, Bottom5: bottom}
}

func compareToStateAverage(marks, average float64) StateAverageComparison {
	return StateAverageComparison{
		Difference:   round2(marks - average),
		IsAbove:      marks > average,
		StateAverage: average,
	}
}

func findUnit(units []Unit, name string) (Unit, int, bool) {
	for i, u := range units {
		if u.Name == name {
			return u, i, true
		}
	}
	return Unit{}, 0, false
}

// BuildSummary runs the full state → district → block → panchayat
// aggregation for one date. district may be empty, in which case only
// the state-level section is produced. A district that is not present in
// the state standings also yields a state-only summary.
func (s *Service) BuildSummary(ctx context.Context, date, district string) (*PerformanceSummary, error) {
	districts, err := s.DistrictStandings(ctx, date)
	if err != nil {
		return nil, err
	}

	average := stateAverage(districts)

	summary := &PerformanceSummary{
		Metadata: Metadata{
			Date:         date,
			Timestamp:    s.now().Format("2006-01-02 15:04:05"),
			MaxMarks:     MaxMarks,
			StateAverage: average,
		},
		Districts: standings(districts, false),
	}

	if district == "" {
		return summary, nil
	}

	selected, rank, found := findUnit(districts, district)
	if !found {
		s.logger.Warn("district not in state standings, returning state-level summary only",
			zap.String("district", district),
			zap.String("date", date))
		return summary, nil
	}

	marks := round2(selected.Total)
	summary.SelectedDistrict = &SelectedDistrict{
		Name:                   district,
		Marks:                  marks,
		Grade:                  selected.Grade,
		MaxMarks:               MaxMarks,
		Rank:                   rank + 1,
		TotalDistricts:         len(districts),
		ComparedToStateAverage: compareToStateAverage(marks, average),
		ComponentMarks:         selected.componentMarks(),
		BlockDetails:           make([]BlockDetail, 0),
	}

	blocks, err := s.BlockStandings(ctx, date, district)
	if err != nil {
		return nil, err
	}

	for _, block := range blocks {
		blockMarks := round2(block.Total)
		detail := BlockDetail{
			Name:                   block.Name,
			Marks:                  blockMarks,
			Grade:                  block.Grade,
			MaxMarks:               MaxMarks,
			ComparedToStateAverage: compareToStateAverage(blockMarks, average),
			ComponentMarks:         block.componentMarks(),
		}

		panchayats, err := s.PanchayatStandings(ctx, date, district, block.Name)
		if err != nil {
			return nil, err
		}
		if len(panchayats) > 0 {
			st := standings(panchayats, true)
			detail.Panchayats = &st
		}

		summary.SelectedDistrict.BlockDetails = append(summary.SelectedDistrict.BlockDetails, detail)
	}

	// Panchayat fetching does not reorder blocks; re-sort before attach.
	sort.SliceStable(summary.SelectedDistrict.BlockDetails, func(i, j int) bool {
		return summary.SelectedDistrict.BlockDetails[i].Marks > summary.SelectedDistrict.BlockDetails[j].Marks
	})

	s.logger.Info("performance summary built",
		zap.String("date", date),
		zap.String("district", district),
		zap.Int("districts", len(districts)),
		zap.Int("blocks", len(summary.SelectedDistrict.BlockDetails)),
		zap.Float64("state_average", average))

	return summary, nil
}
