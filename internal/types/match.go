package types

import (
	"math"
	"time"

	"github.com/jonathan/smartmatch/internal/matching"
)

// Response messages for empty recommendation results.
const (
	MessageNoInternships = "No internships available"
	MessageNoMatches     = "No matching internships found for your profile"
)

// RecommendRequest is the profile submitted to POST /recommend. Numeric fields
// are pointers so that a missing field can be told apart from zero.
type RecommendRequest struct {
	Domain          string   `json:"domain" validate:"required"`
	CGPA            *float64 `json:"cgpa" validate:"required,gte=0"`
	ExperienceYears *float64 `json:"experience_years" validate:"required,gte=0"`
	Certifications  *float64 `json:"certifications" validate:"required,gte=0"`
}

// Validate validates the RecommendRequest using the validator.
func (r *RecommendRequest) Validate() error {
	return validate.Struct(r)
}

// Profile converts a validated request into a matching profile.
func (r *RecommendRequest) Profile() matching.Profile {
	return matching.Profile{
		Domain:             r.Domain,
		GPA:                deref(r.CGPA),
		ExperienceYears:    deref(r.ExperienceYears),
		CertificationCount: deref(r.Certifications),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Internship is the public view of a catalog entry.
type Internship struct {
	ID                  string   `json:"internship_id"`
	Title               string   `json:"title"`
	CompanyName         string   `json:"company_name"`
	Description         string   `json:"description,omitempty"`
	RequiredDomain      string   `json:"required_domain"`
	Location            string   `json:"location,omitempty"`
	DurationMonths      int      `json:"duration_months,omitempty"`
	Stipend             float64  `json:"stipend"`
	ApplicationDeadline *string  `json:"application_deadline"`
	MinCGPA             *float64 `json:"min_cgpa,omitempty"`
	MinExperienceYears  *float64 `json:"required_experience,omitempty"`
	MinCertifications   *float64 `json:"min_certifications,omitempty"`
}

// Recommendation is a ranked internship with display-rounded scores.
type Recommendation struct {
	Internship
	DomainScore         float64 `json:"domain_score"`
	CGPAScore           float64 `json:"cgpa_score"`
	ExperienceScore     float64 `json:"experience_score"`
	CertificationsScore float64 `json:"certifications_score"`
	TotalScore          float64 `json:"total_score"`
	MatchNotes          string  `json:"match_notes,omitempty"`
}

// RecommendationResponse is the body of a recommendation reply.
type RecommendationResponse struct {
	Success         bool             `json:"success"`
	Count           int              `json:"count"`
	Message         string           `json:"message,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// InternshipListResponse is the body of GET /internships.
type InternshipListResponse struct {
	Success     bool         `json:"success"`
	Count       int          `json:"count"`
	Internships []Internship `json:"internships"`
}

// RoundScore rounds a score to two decimals for display.
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatDeadline renders a deadline as YYYY-MM-DD, or nil when unset.
func FormatDeadline(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(time.DateOnly)
	return &s
}

// NewInternship converts a catalog entry for display. Thresholds are included
// when withRequirements is set.
func NewInternship(o matching.Opportunity, withRequirements bool) Internship {
	in := Internship{
		ID:                  o.ID,
		Title:               o.Title,
		CompanyName:         o.Organization,
		Description:         o.Description,
		RequiredDomain:      o.RequiredDomain,
		Location:            o.Location,
		DurationMonths:      o.DurationMonths,
		Stipend:             o.Stipend,
		ApplicationDeadline: FormatDeadline(o.Deadline),
	}
	if withRequirements {
		t := o.Thresholds
		in.MinCGPA = &t.MinGPA
		in.MinExperienceYears = &t.MinExperienceYears
		in.MinCertifications = &t.MinCertificationCount
	}
	return in
}

// NewRecommendationResponse builds the reply for a ranked result. catalogSize
// selects the message used when ranked is empty.
func NewRecommendationResponse(ranked []matching.ScoredOpportunity, catalogSize int) *RecommendationResponse {
	resp := &RecommendationResponse{
		Success:         true,
		Count:           len(ranked),
		Recommendations: make([]Recommendation, 0, len(ranked)),
	}
	switch {
	case catalogSize == 0:
		resp.Message = MessageNoInternships
	case len(ranked) == 0:
		resp.Message = MessageNoMatches
	}
	for _, s := range ranked {
		resp.Recommendations = append(resp.Recommendations, Recommendation{
			Internship:          NewInternship(s.Opportunity, false),
			DomainScore:         RoundScore(s.ScoreDomain),
			CGPAScore:           RoundScore(s.ScoreGPA),
			ExperienceScore:     RoundScore(s.ScoreExperience),
			CertificationsScore: RoundScore(s.ScoreCertifications),
			TotalScore:          RoundScore(s.TotalScore),
			MatchNotes:          s.Notes,
		})
	}
	return resp
}
