package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileRequest_Validate(t *testing.T) {
	valid := ProfileRequest{Domain: "Data Science", CGPA: ptr(9.1), ExperienceYears: ptr(0), Certifications: ptr(4)}
	assert.NoError(t, valid.Validate())

	percentScale := ProfileRequest{Domain: "Data Science", CGPA: ptr(87.5), ExperienceYears: ptr(0), Certifications: ptr(4)}
	assert.NoError(t, percentScale.Validate(), "grading scales are set by matching.ranges, not the request")

	negative := ProfileRequest{Domain: "Data Science", CGPA: ptr(-1), ExperienceYears: ptr(0), Certifications: ptr(4)}
	assert.Error(t, negative.Validate())

	missing := ProfileRequest{Domain: "Data Science"}
	assert.Error(t, missing.Validate())
}

func TestRegistrationRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RegistrationRequest{InternshipID: "8f14e45f-ceea-4e6b-9c4b-1f2a3b4c5d6e"}).Validate())
	assert.Error(t, (&RegistrationRequest{InternshipID: "42"}).Validate())
	assert.Error(t, (&RegistrationRequest{}).Validate())
}

func TestUpdateRegistrationRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateRegistrationRequest{Status: "applied"}).Validate())
	assert.Error(t, (&UpdateRegistrationRequest{Status: "hired"}).Validate())
}
