package scoring

import (
	"github.com/nregsmp/report-engine/internal/dashboard"
)

// Unit is the union of every endpoint's fields for one administrative
// unit, plus the derived composite score and grade.
type Unit struct {
	Name   string
	Fields dashboard.Record
	Total  float64
	Grade  string
}

// Merge combines per-endpoint result sets into one Unit per
// administrative unit, keyed by group name. Result sets are folded in
// slice order; when two endpoints report the same field for the same
// unit, the later one overwrites the earlier (last-write-wins). Records
// without a usable group name are skipped. Output order is first-seen
// order across the fixed endpoint sequence.
func Merge(resultSets [][]dashboard.Record) []Unit {
	index := make(map[string]int)
	units := make([]Unit, 0)

	for _, records := range resultSets {
		for _, record := range records {
			name, ok := record.GroupName()
			if !ok {
				continue
			}

			pos, seen := index[name]
			if !seen {
				pos = len(units)
				index[name] = pos
				units = append(units, Unit{
					Name:   name,
					Fields: make(dashboard.Record, len(record)),
				})
			}

			for key, value := range record {
				units[pos].Fields[key] = value
			}
		}
	}

	return units
}
