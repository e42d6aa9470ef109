// Package matching scores and ranks opportunities against a requester profile.
package matching

import "time"

// Profile describes the requester being matched.
type Profile struct {
	Domain             string
	GPA                float64
	ExperienceYears    float64
	CertificationCount float64
}

// Thresholds are the inclusive minimums a profile must meet to be eligible.
type Thresholds struct {
	MinGPA                float64
	MinExperienceYears    float64
	MinCertificationCount float64
}

// Weights are the per-attribute importance factors of an opportunity.
type Weights struct {
	Domain         float64
	GPA            float64
	Experience     float64
	Certifications float64
}

// Opportunity is a single catalog entry. Display fields are carried through
// untouched.
type Opportunity struct {
	ID             string
	Title          string
	Organization   string
	Description    string
	Location       string
	DurationMonths int
	Stipend        float64
	Deadline       *time.Time
	RequiredDomain string
	Thresholds     Thresholds
	Weights        Weights
}

// ScoredOpportunity is an eligible opportunity with its score breakdown.
type ScoredOpportunity struct {
	Opportunity
	Affinity            float64
	ScoreDomain         float64
	ScoreGPA            float64
	ScoreExperience     float64
	ScoreCertifications float64
	TotalScore          float64
	Notes               string
}

// Summary reports how a catalog was narrowed down during a recommendation.
type Summary struct {
	Catalog  int
	Eligible int
	Returned int
}
