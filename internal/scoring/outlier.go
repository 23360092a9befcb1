package scoring

import (
	"strings"

	"go.uber.org/zap"
)

// Statistical outlier pass parameters. The 40% threshold and the 5/10
// activation cutoffs are empirically tuned; they are a preserved
// behavioral contract, not derived values.
const (
	outlierThresholdPct = 40
	blockOutlierMin     = 5
	panchayatOutlierMin = 10
)

// workerFieldAliases are checked in order; the first present field wins.
var workerFieldAliases = []string{
	"registered_worker",
	"total_registered_workers",
	"Total Registered Workers",
}

// normalizeName lowercases a unit name and strips all whitespace for
// comparison. The dashboard sometimes echoes the parent unit as a child
// row with inconsistent casing and spacing.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// registeredWorkers returns the unit's worker count from the first
// present alias field. found is false when no alias carries a value;
// numeric is false when the value is present but not coercible, which
// does not count as zero.
func registeredWorkers(u Unit) (count float64, numeric, found bool) {
	for _, field := range workerFieldAliases {
		if v, ok := u.Fields[field]; ok && v != nil {
			count, numeric = toFloatOk(v)
			return count, numeric, true
		}
	}
	return 0, false, false
}

// isParentEcho reports whether the unit looks like a spurious echo of a
// parent unit: its normalized name matches one of the parent names and
// it carries a null or zero worker count. A non-numeric worker value is
// treated as nonzero, so the unit is kept.
func isParentEcho(u Unit, parents []string) bool {
	name := normalizeName(u.Name)
	for _, parent := range parents {
		if name != normalizeName(parent) {
			continue
		}
		count, numeric, found := registeredWorkers(u)
		if !found || (numeric && count == 0) {
			return true
		}
	}
	return false
}

// isScoreOutlier reports whether the unit's composite score is more than
// outlierThresholdPct percent below the mean of its peers. The peer mean
// excludes the unit itself.
func isScoreOutlier(u Unit, units []Unit) bool {
	if len(units) <= 1 {
		return false
	}

	var sum float64
	var peers int
	for _, other := range units {
		if other.Name == u.Name {
			continue
		}
		sum += other.Total
		peers++
	}
	if peers == 0 {
		return false
	}

	mean := sum / float64(peers)
	threshold := mean * (1 - outlierThresholdPct/100.0)
	return u.Total < threshold
}

// filterUnits runs the name-collision pass and, when the remaining list
// has at least minForOutlierPass members, the statistical outlier pass.
// Output length never exceeds input length.
func filterUnits(units []Unit, parents []string, minForOutlierPass int, logger *zap.Logger) []Unit {
	kept := make([]Unit, 0, len(units))
	for _, u := range units {
		if isParentEcho(u, parents) {
			logger.Info("dropping parent-echo row",
				zap.String("unit", u.Name),
				zap.Strings("parents", parents))
			continue
		}
		kept = append(kept, u)
	}

	if len(kept) < minForOutlierPass {
		return kept
	}

	final := make([]Unit, 0, len(kept))
	for _, u := range kept {
		if isScoreOutlier(u, kept) {
			logger.Info("dropping score outlier",
				zap.String("unit", u.Name),
				zap.Float64("score", u.Total))
			continue
		}
		final = append(final, u)
	}
	return final
}

// FilterBlocks removes spurious block rows within a district: echoes of
// the district itself, and statistical low outliers when there are at
// least five blocks.
func FilterBlocks(units []Unit, district string, logger *zap.Logger) []Unit {
	return filterUnits(units, []string{district}, blockOutlierMin, logger)
}

// FilterPanchayats removes spurious panchayat rows within a block:
// echoes of the district or the block, and statistical low outliers when
// there are at least ten panchayats.
func FilterPanchayats(units []Unit, district, block string, logger *zap.Logger) []Unit {
	return filterUnits(units, []string{district, block}, panchayatOutlierMin, logger)
}
