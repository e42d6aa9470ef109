package types

import (
	"time"

	"github.com/google/uuid"
)

// ProfileRequest is the payload of PUT /me/profile.
type ProfileRequest struct {
	Domain          string   `json:"domain" validate:"required,max=100"`
	CGPA            *float64 `json:"cgpa" validate:"required,gte=0"`
	ExperienceYears *float64 `json:"experience_years" validate:"required,gte=0,lte=60"`
	Certifications  *float64 `json:"certifications" validate:"required,gte=0"`
}

// Validate validates the ProfileRequest using the validator.
func (r *ProfileRequest) Validate() error {
	return validate.Struct(r)
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

// RegistrationRequest is the payload of POST /me/registrations.
type RegistrationRequest struct {
	InternshipID string `json:"internship_id" validate:"required,uuid"`
}

// Validate validates the RegistrationRequest using the validator.
func (r *RegistrationRequest) Validate() error {
	return validate.Struct(r)
}

// Registration is a user's registration for an internship.
type Registration struct {
	ID           uuid.UUID `json:"id"`
	InternshipID uuid.UUID `json:"internship_id"`
	Title        string    `json:"title"`
	CompanyName  string    `json:"company_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateRegistrationRequest is the payload of PATCH /me/registrations/{id}.
type UpdateRegistrationRequest struct {
	Status string `json:"status" validate:"required,oneof=registered applied shortlisted selected rejected withdrawn"`
}

// Validate validates the UpdateRegistrationRequest using the validator.
func (r *UpdateRegistrationRequest) Validate() error {
	return validate.Struct(r)
}
