package matching

import "strings"

// Affinity tiers.
const (
	AffinityExact   = 1.0
	AffinityPartial = 0.5
	AffinityNone    = 0.0
)

// Affinity compares a requested domain with a required one, ignoring case.
// Equal strings score AffinityExact, a substring in either direction scores
// AffinityPartial. An empty string is a substring of everything.
func Affinity(requested, required string) float64 {
	a := strings.ToLower(requested)
	b := strings.ToLower(required)
	if a == b {
		return AffinityExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return AffinityPartial
	}
	return AffinityNone
}
