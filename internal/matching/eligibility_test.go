package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligible_InclusiveThresholds(t *testing.T) {
	p := Profile{GPA: 7, ExperienceYears: 1, CertificationCount: 2}
	o := Opportunity{Thresholds: Thresholds{MinGPA: 7, MinExperienceYears: 1, MinCertificationCount: 2}}

	assert.True(t, Eligible(p, o))
}

func TestEligible_BelowAnyThreshold(t *testing.T) {
	base := Profile{GPA: 8.5, ExperienceYears: 1, CertificationCount: 2}

	tests := []struct {
		name       string
		thresholds Thresholds
	}{
		{"gpa", Thresholds{MinGPA: 9}},
		{"experience", Thresholds{MinExperienceYears: 1.5}},
		{"certifications", Thresholds{MinCertificationCount: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Eligible(base, Opportunity{Thresholds: tt.thresholds}))
		})
	}
}

func TestEligible_DomainIsNotFiltered(t *testing.T) {
	p := Profile{Domain: "Biology", GPA: 5}
	o := Opportunity{RequiredDomain: "Software Development"}

	assert.True(t, Eligible(p, o))
}

func TestEligible_MonotonicInEachAttribute(t *testing.T) {
	o := Opportunity{Thresholds: Thresholds{MinGPA: 6, MinExperienceYears: 1, MinCertificationCount: 1}}
	p := Profile{GPA: 6, ExperienceYears: 1, CertificationCount: 1}
	assert.True(t, Eligible(p, o))

	for step := 0.0; step <= 5; step += 0.5 {
		assert.True(t, Eligible(Profile{GPA: p.GPA + step, ExperienceYears: p.ExperienceYears, CertificationCount: p.CertificationCount}, o))
		assert.True(t, Eligible(Profile{GPA: p.GPA, ExperienceYears: p.ExperienceYears + step, CertificationCount: p.CertificationCount}, o))
		assert.True(t, Eligible(Profile{GPA: p.GPA, ExperienceYears: p.ExperienceYears, CertificationCount: p.CertificationCount + step}, o))
	}
}

func TestFilterEligible_PreservesOrder(t *testing.T) {
	catalog := []Opportunity{
		{ID: "a"},
		{ID: "b", Thresholds: Thresholds{MinGPA: 9}},
		{ID: "c"},
	}

	got := FilterEligible(Profile{GPA: 8.5}, catalog)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilterEligible_EmptyIsNotNil(t *testing.T) {
	got := FilterEligible(Profile{}, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = FilterEligible(Profile{GPA: 1}, []Opportunity{{Thresholds: Thresholds{MinGPA: 2}}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
