package matching

import (
	"fmt"
	"strings"
)

// Scorer computes composite match scores.
type Scorer struct {
	normalizer *Normalizer
}

// NewScorer returns a Scorer using n for the numeric attributes.
func NewScorer(n *Normalizer) *Scorer {
	return &Scorer{normalizer: n}
}

// Score computes the weighted breakdown of o for p. The numeric sub-scores
// depend on the profile alone and are reweighted per opportunity.
func (s *Scorer) Score(p Profile, o Opportunity) (ScoredOpportunity, error) {
	gpa, err := s.normalizer.Normalize(AttributeGPA, p.GPA)
	if err != nil {
		return ScoredOpportunity{}, fmt.Errorf("failed to normalize gpa: %w", err)
	}
	experience, err := s.normalizer.Normalize(AttributeExperience, p.ExperienceYears)
	if err != nil {
		return ScoredOpportunity{}, fmt.Errorf("failed to normalize experience: %w", err)
	}
	certifications, err := s.normalizer.Normalize(AttributeCertifications, p.CertificationCount)
	if err != nil {
		return ScoredOpportunity{}, fmt.Errorf("failed to normalize certifications: %w", err)
	}

	affinity := Affinity(p.Domain, o.RequiredDomain)
	w := o.Weights

	scored := ScoredOpportunity{
		Opportunity:         o,
		Affinity:            affinity,
		ScoreDomain:         affinity * w.Domain,
		ScoreGPA:            gpa * w.GPA,
		ScoreExperience:     experience * w.Experience,
		ScoreCertifications: certifications * w.Certifications,
	}
	scored.TotalScore = scored.ScoreDomain + scored.ScoreGPA + scored.ScoreExperience + scored.ScoreCertifications
	scored.Notes = generateNotes(affinity, gpa, experience, certifications)
	return scored, nil
}

// generateNotes creates a brief explanation of the match.
func generateNotes(affinity, gpa, experience, certifications float64) string {
	var parts []string

	switch affinity {
	case AffinityExact:
		parts = append(parts, "Exact domain match")
	case AffinityPartial:
		parts = append(parts, "Related domain")
	default:
		parts = append(parts, "Different domain")
	}

	if gpa >= 0.8 {
		parts = append(parts, "Strong GPA")
	} else if gpa >= 0.6 {
		parts = append(parts, "Good GPA")
	}

	if experience >= 0.6 {
		parts = append(parts, "Solid experience")
	} else if experience > 0 {
		parts = append(parts, "Some experience")
	}

	if certifications >= 0.5 {
		parts = append(parts, "Well certified")
	}

	return strings.Join(parts, ". ")
}
