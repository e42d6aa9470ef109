package db

import (
	"time"

	"github.com/google/uuid"
)

// User is a row of the users table. PasswordHash is a bcrypt hash and is
// excluded from JSON.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Internship is a row of the internships table.
type Internship struct {
	ID                       uuid.UUID  `json:"id"`
	Title                    string     `json:"title"`
	CompanyName              string     `json:"company_name"`
	Description              string     `json:"description"`
	RequiredDomain           string     `json:"required_domain"`
	MinCGPA                  float64    `json:"min_cgpa"`
	MinExperienceYears       float64    `json:"min_experience_years"`
	MinCertifications        float64    `json:"min_certifications"`
	ImportanceDomain         float64    `json:"importance_domain"`
	ImportanceCGPA           float64    `json:"importance_cgpa"`
	ImportanceExperience     float64    `json:"importance_experience"`
	ImportanceCertifications float64    `json:"importance_certifications"`
	Location                 string     `json:"location"`
	DurationMonths           int        `json:"duration_months"`
	Stipend                  float64    `json:"stipend"`
	ApplicationDeadline      *time.Time `json:"application_deadline,omitempty"`
	IsActive                 bool       `json:"is_active"`
	CreatedAt                time.Time  `json:"created_at"`
}

// Profile is the stored academic profile of a user.
type Profile struct {
	UserID          uuid.UUID `json:"user_id"`
	Domain          string    `json:"domain"`
	CGPA            float64   `json:"cgpa"`
	ExperienceYears float64   `json:"experience_years"`
	Certifications  float64   `json:"certifications"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Registration is a user's registration for an internship, joined with the
// internship's title and company.
type Registration struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"user_id"`
	InternshipID uuid.UUID          `json:"internship_id"`
	Title        string             `json:"title"`
	CompanyName  string             `json:"company_name"`
	Status       RegistrationStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
