package matching

import (
	"fmt"
	"math"
)

// Config holds the engine settings fixed at construction.
type Config struct {
	Ranges map[Attribute]Range
	Limit  int
}

// DefaultConfig returns the reference ranges and DefaultLimit.
func DefaultConfig() Config {
	return Config{Ranges: DefaultRanges(), Limit: DefaultLimit}
}

// Engine runs the filter, score and rank pipeline. It holds only read-only
// state and is safe for concurrent use.
type Engine struct {
	scorer *Scorer
	limit  int
}

// New validates cfg and builds an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Limit < 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("limit must be at least 1, got %d", cfg.Limit)}
	}
	normalizer, err := NewNormalizer(cfg.Ranges)
	if err != nil {
		return nil, err
	}
	return &Engine{scorer: NewScorer(normalizer), limit: cfg.Limit}, nil
}

// Limit returns the maximum number of recommendations.
func (e *Engine) Limit() int {
	return e.limit
}

// Recommend returns the best eligible opportunities for p, highest score first.
// An empty catalog or one with no eligible entries yields an empty slice.
func (e *Engine) Recommend(p Profile, catalog []Opportunity) ([]ScoredOpportunity, error) {
	ranked, _, err := e.Evaluate(p, catalog)
	return ranked, err
}

// Evaluate is Recommend plus a Summary of the run.
func (e *Engine) Evaluate(p Profile, catalog []Opportunity) ([]ScoredOpportunity, Summary, error) {
	summary := Summary{Catalog: len(catalog)}
	if err := ValidateProfile(p); err != nil {
		return nil, summary, err
	}

	eligible := FilterEligible(p, catalog)
	summary.Eligible = len(eligible)

	scored := make([]ScoredOpportunity, 0, len(eligible))
	for _, o := range eligible {
		s, err := e.scorer.Score(p, o)
		if err != nil {
			return nil, summary, fmt.Errorf("failed to score opportunity %s: %w", o.ID, err)
		}
		scored = append(scored, s)
	}

	ranked := Rank(scored, e.limit)
	summary.Returned = len(ranked)
	return ranked, summary, nil
}

// ValidateProfile rejects NaN and infinite numeric values.
func ValidateProfile(p Profile) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"gpa", p.GPA},
		{"experience_years", p.ExperienceYears},
		{"certification_count", p.CertificationCount},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &InvalidProfileValueError{Field: f.name, Value: f.value}
		}
	}
	return nil
}
