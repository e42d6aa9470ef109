package matching

import "sort"

// DefaultLimit is the number of recommendations returned when unconfigured.
const DefaultLimit = 10

// Rank orders scored opportunities by TotalScore descending and keeps the first
// limit entries. Ties keep their input order. A limit <= 0 keeps everything.
// The input slice is not modified.
func Rank(scored []ScoredOpportunity, limit int) []ScoredOpportunity {
	ranked := make([]ScoredOpportunity, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
