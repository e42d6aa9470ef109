package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestRecommendRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantMissing []string
	}{
		{
			name: "valid request",
			body: `{"domain":"Software Development","cgpa":8.5,"experience_years":1.0,"certifications":2}`,
		},
		{
			name: "zero values are present",
			body: `{"domain":"AI","cgpa":0,"experience_years":0,"certifications":0}`,
		},
		{
			name:        "missing numeric fields",
			body:        `{"domain":"AI"}`,
			wantErr:     true,
			wantMissing: []string{"cgpa", "experience_years", "certifications"},
		},
		{
			name:        "missing domain",
			body:        `{"cgpa":8,"experience_years":1,"certifications":0}`,
			wantErr:     true,
			wantMissing: []string{"domain"},
		},
		{
			name:    "negative gpa",
			body:    `{"domain":"AI","cgpa":-1,"experience_years":1,"certifications":0}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RecommendRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var fields []string
			for _, fe := range err.(validator.ValidationErrors) {
				if fe.Tag() == "required" {
					fields = append(fields, fe.Field())
				}
			}
			assert.ElementsMatch(t, tt.wantMissing, fields)
		})
	}
}

func TestRecommendRequest_Profile(t *testing.T) {
	req := RecommendRequest{Domain: "Web", CGPA: ptr(7.5), ExperienceYears: ptr(2), Certifications: ptr(3)}

	assert.Equal(t, matching.Profile{Domain: "Web", GPA: 7.5, ExperienceYears: 2, CertificationCount: 3}, req.Profile())
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 1.75, RoundScore(1.75))
	assert.Equal(t, 1.23, RoundScore(1.2345))
	assert.Equal(t, 0.67, RoundScore(2.0/3.0))
	assert.Equal(t, 0.0, RoundScore(0))
}

func TestNewRecommendationResponse(t *testing.T) {
	deadline := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	ranked := []matching.ScoredOpportunity{{
		Opportunity: matching.Opportunity{
			ID:             "A",
			Title:          "Backend Intern",
			Organization:   "Acme",
			RequiredDomain: "Software Development",
			Stipend:        15000,
			Deadline:       &deadline,
		},
		ScoreDomain: 0.5,
		ScoreGPA:    0.85,
		TotalScore:  1.7549999,
		Notes:       "Related domain",
	}}

	resp := NewRecommendationResponse(ranked, 4)

	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Empty(t, resp.Message)
	require.Len(t, resp.Recommendations, 1)

	rec := resp.Recommendations[0]
	assert.Equal(t, "A", rec.ID)
	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, 1.75, rec.TotalScore)
	require.NotNil(t, rec.ApplicationDeadline)
	assert.Equal(t, "2026-12-01", *rec.ApplicationDeadline)
	assert.Nil(t, rec.MinCGPA)
}

func TestNewRecommendationResponse_EmptyMessages(t *testing.T) {
	empty := NewRecommendationResponse(nil, 0)
	assert.Equal(t, MessageNoInternships, empty.Message)
	assert.NotNil(t, empty.Recommendations)

	noMatch := NewRecommendationResponse(nil, 3)
	assert.Equal(t, MessageNoMatches, noMatch.Message)
	assert.Equal(t, 0, noMatch.Count)

	body, err := json.Marshal(noMatch)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"recommendations":[]`)
}

func TestNewInternship_WithRequirements(t *testing.T) {
	o := matching.Opportunity{ID: "B", Thresholds: matching.Thresholds{MinGPA: 7, MinExperienceYears: 0.5, MinCertificationCount: 1}}

	in := NewInternship(o, true)

	require.NotNil(t, in.MinCGPA)
	assert.Equal(t, 7.0, *in.MinCGPA)
	assert.Equal(t, 0.5, *in.MinExperienceYears)
	assert.Equal(t, 1.0, *in.MinCertifications)
	assert.Nil(t, in.ApplicationDeadline)
}
