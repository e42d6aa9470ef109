package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	n, err := NewNormalizer(DefaultRanges())
	require.NoError(t, err)
	return NewScorer(n)
}

func TestScore_PartialDomainScenario(t *testing.T) {
	s := newTestScorer(t)
	p := Profile{Domain: "Software", GPA: 8.5, ExperienceYears: 1, CertificationCount: 2}
	o := Opportunity{
		ID:             "A",
		RequiredDomain: "Software Development",
		Thresholds:     Thresholds{MinGPA: 7},
		Weights:        Weights{Domain: 1, GPA: 1, Experience: 1, Certifications: 1},
	}

	got, err := s.Score(p, o)
	require.NoError(t, err)

	assert.Equal(t, AffinityPartial, got.Affinity)
	assert.InDelta(t, 0.5, got.ScoreDomain, 1e-9)
	assert.InDelta(t, 0.85, got.ScoreGPA, 1e-9)
	assert.InDelta(t, 0.2, got.ScoreExperience, 1e-9)
	assert.InDelta(t, 0.2, got.ScoreCertifications, 1e-9)
	assert.InDelta(t, 1.75, got.TotalScore, 1e-9)
	assert.Equal(t, "A", got.ID)
}

func TestScore_TotalIsSumOfComponents(t *testing.T) {
	s := newTestScorer(t)
	p := Profile{Domain: "AI", GPA: 6.2, ExperienceYears: 3.5, CertificationCount: 4}
	o := Opportunity{RequiredDomain: "AI", Weights: Weights{Domain: 2, GPA: 0.5, Experience: 1.5, Certifications: 0.25}}

	got, err := s.Score(p, o)
	require.NoError(t, err)

	sum := got.ScoreDomain + got.ScoreGPA + got.ScoreExperience + got.ScoreCertifications
	assert.Equal(t, sum, got.TotalScore)
	assert.InDelta(t, 2.0, got.ScoreDomain, 1e-9)
}

func TestScore_NonNegativeComponents(t *testing.T) {
	s := newTestScorer(t)
	profiles := []Profile{
		{Domain: "", GPA: -1, ExperienceYears: -2, CertificationCount: -3},
		{Domain: "Web", GPA: 0, ExperienceYears: 0, CertificationCount: 0},
		{Domain: "Finance", GPA: 11, ExperienceYears: 9, CertificationCount: 40},
	}
	o := Opportunity{RequiredDomain: "Web Development", Weights: Weights{Domain: 0.3, GPA: 0.7, Experience: 0, Certifications: 2}}

	for _, p := range profiles {
		got, err := s.Score(p, o)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.ScoreDomain, 0.0)
		assert.GreaterOrEqual(t, got.ScoreGPA, 0.0)
		assert.GreaterOrEqual(t, got.ScoreExperience, 0.0)
		assert.GreaterOrEqual(t, got.ScoreCertifications, 0.0)
		assert.GreaterOrEqual(t, got.TotalScore, 0.0)
	}
}

func TestScore_NumericScoresDependOnProfileOnly(t *testing.T) {
	s := newTestScorer(t)
	p := Profile{Domain: "Web", GPA: 7, ExperienceYears: 2, CertificationCount: 1}
	w := Weights{Domain: 1, GPA: 1, Experience: 1, Certifications: 1}

	low, err := s.Score(p, Opportunity{Thresholds: Thresholds{MinGPA: 1}, Weights: w})
	require.NoError(t, err)
	high, err := s.Score(p, Opportunity{Thresholds: Thresholds{MinGPA: 7, MinExperienceYears: 2}, Weights: w})
	require.NoError(t, err)

	assert.Equal(t, low.ScoreGPA, high.ScoreGPA)
	assert.Equal(t, low.ScoreExperience, high.ScoreExperience)
	assert.Equal(t, low.ScoreCertifications, high.ScoreCertifications)
}

func TestScore_ZeroWeightsYieldZeroTotal(t *testing.T) {
	s := newTestScorer(t)
	got, err := s.Score(Profile{Domain: "AI", GPA: 9, ExperienceYears: 4, CertificationCount: 5}, Opportunity{RequiredDomain: "AI"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.TotalScore)
}

func TestGenerateNotes(t *testing.T) {
	tests := []struct {
		name           string
		affinity       float64
		gpa            float64
		experience     float64
		certifications float64
		expected       string
	}{
		{"strong", AffinityExact, 0.9, 0.8, 0.6, "Exact domain match. Strong GPA. Solid experience. Well certified"},
		{"partial", AffinityPartial, 0.65, 0.2, 0.1, "Related domain. Good GPA. Some experience"},
		{"none", AffinityNone, 0.3, 0, 0, "Different domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generateNotes(tt.affinity, tt.gpa, tt.experience, tt.certifications))
		})
	}
}
