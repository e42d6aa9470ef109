package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/smartmatch/internal/matching"
)

// -----------------------------------------------------------------------------
// Internship Methods
// -----------------------------------------------------------------------------

const internshipColumns = `id, title, company_name, description, required_domain,
	min_cgpa, min_experience_years, min_certifications,
	importance_domain, importance_cgpa, importance_experience, importance_certifications,
	location, duration_months, stipend, application_deadline, is_active, created_at`

func scanInternship(row pgx.Row) (*Internship, error) {
	var in Internship
	err := row.Scan(&in.ID, &in.Title, &in.CompanyName, &in.Description, &in.RequiredDomain,
		&in.MinCGPA, &in.MinExperienceYears, &in.MinCertifications,
		&in.ImportanceDomain, &in.ImportanceCGPA, &in.ImportanceExperience, &in.ImportanceCertifications,
		&in.Location, &in.DurationMonths, &in.Stipend, &in.ApplicationDeadline, &in.IsActive, &in.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// ListActiveInternships returns active internships, newest first.
func (db *DB) ListActiveInternships(ctx context.Context) ([]Internship, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+internshipColumns+`
		 FROM internships WHERE is_active ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	internships := []Internship{}
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		internships = append(internships, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate internships: %w", err)
	}
	return internships, nil
}

// ActiveOpportunities returns the active catalog as matching opportunities.
func (db *DB) ActiveOpportunities(ctx context.Context) ([]matching.Opportunity, error) {
	internships, err := db.ListActiveInternships(ctx)
	if err != nil {
		return nil, err
	}
	opps := make([]matching.Opportunity, 0, len(internships))
	for _, in := range internships {
		opps = append(opps, in.Opportunity())
	}
	return opps, nil
}

// CountActiveInternships returns the number of active internships.
func (db *DB) CountActiveInternships(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM internships WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count internships: %w", err)
	}
	return n, nil
}

// GetInternship retrieves an internship by ID. Returns nil, nil when missing.
func (db *DB) GetInternship(ctx context.Context, id uuid.UUID) (*Internship, error) {
	in, err := scanInternship(db.pool.QueryRow(ctx,
		`SELECT `+internshipColumns+` FROM internships WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	return in, nil
}

// UpsertInternship inserts or replaces an internship keyed by ID. A nil ID is
// assigned by the database.
func (db *DB) UpsertInternship(ctx context.Context, in *Internship) (*Internship, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	saved, err := scanInternship(db.pool.QueryRow(ctx,
		`INSERT INTO internships (id, title, company_name, description, required_domain,
			min_cgpa, min_experience_years, min_certifications,
			importance_domain, importance_cgpa, importance_experience, importance_certifications,
			location, duration_months, stipend, application_deadline, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			company_name = EXCLUDED.company_name,
			description = EXCLUDED.description,
			required_domain = EXCLUDED.required_domain,
			min_cgpa = EXCLUDED.min_cgpa,
			min_experience_years = EXCLUDED.min_experience_years,
			min_certifications = EXCLUDED.min_certifications,
			importance_domain = EXCLUDED.importance_domain,
			importance_cgpa = EXCLUDED.importance_cgpa,
			importance_experience = EXCLUDED.importance_experience,
			importance_certifications = EXCLUDED.importance_certifications,
			location = EXCLUDED.location,
			duration_months = EXCLUDED.duration_months,
			stipend = EXCLUDED.stipend,
			application_deadline = EXCLUDED.application_deadline,
			is_active = EXCLUDED.is_active
		 RETURNING `+internshipColumns,
		id, in.Title, in.CompanyName, in.Description, in.RequiredDomain,
		in.MinCGPA, in.MinExperienceYears, in.MinCertifications,
		in.ImportanceDomain, in.ImportanceCGPA, in.ImportanceExperience, in.ImportanceCertifications,
		in.Location, in.DurationMonths, in.Stipend, in.ApplicationDeadline, in.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert internship: %w", err)
	}
	return saved, nil
}

// UpsertOpportunity stores a catalog opportunity as an active internship.
func (db *DB) UpsertOpportunity(ctx context.Context, o matching.Opportunity) error {
	in := InternshipFromOpportunity(o)
	_, err := db.UpsertInternship(ctx, &in)
	return err
}

// DeactivateExpired marks internships whose deadline is before asOf as
// inactive and returns how many changed.
func (db *DB) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE internships SET is_active = FALSE
		 WHERE is_active AND application_deadline IS NOT NULL AND application_deadline < $1::date`,
		asOf.Format(time.DateOnly),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired internships: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Opportunity converts the row into a matching opportunity.
func (in Internship) Opportunity() matching.Opportunity {
	return matching.Opportunity{
		ID:             in.ID.String(),
		Title:          in.Title,
		Organization:   in.CompanyName,
		Description:    in.Description,
		Location:       in.Location,
		DurationMonths: in.DurationMonths,
		Stipend:        in.Stipend,
		Deadline:       in.ApplicationDeadline,
		RequiredDomain: in.RequiredDomain,
		Thresholds: matching.Thresholds{
			MinGPA:                in.MinCGPA,
			MinExperienceYears:    in.MinExperienceYears,
			MinCertificationCount: in.MinCertifications,
		},
		Weights: matching.Weights{
			Domain:         in.ImportanceDomain,
			GPA:            in.ImportanceCGPA,
			Experience:     in.ImportanceExperience,
			Certifications: in.ImportanceCertifications,
		},
	}
}

// InternshipFromOpportunity builds an active row from an opportunity. IDs that
// are not UUIDs are mapped to a stable name-based UUID so repeated imports
// update the same row.
func InternshipFromOpportunity(o matching.Opportunity) Internship {
	return Internship{
		ID:                       InternshipID(o.ID),
		Title:                    o.Title,
		CompanyName:              o.Organization,
		Description:              o.Description,
		RequiredDomain:           o.RequiredDomain,
		MinCGPA:                  o.Thresholds.MinGPA,
		MinExperienceYears:       o.Thresholds.MinExperienceYears,
		MinCertifications:        o.Thresholds.MinCertificationCount,
		ImportanceDomain:         o.Weights.Domain,
		ImportanceCGPA:           o.Weights.GPA,
		ImportanceExperience:     o.Weights.Experience,
		ImportanceCertifications: o.Weights.Certifications,
		Location:                 o.Location,
		DurationMonths:           o.DurationMonths,
		Stipend:                  o.Stipend,
		ApplicationDeadline:      o.Deadline,
		IsActive:                 true,
	}
}

// internshipNamespace scopes name-based internship IDs.
var internshipNamespace = uuid.MustParse("6b5f3c1e-2a47-4f0e-9d8b-7c1a2e3f4b5d")

// InternshipID parses ref as a UUID, or derives one from it. An empty ref
// yields uuid.Nil.
func InternshipID(ref string) uuid.UUID {
	if ref == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(ref); err == nil {
		return id
	}
	return uuid.NewSHA1(internshipNamespace, []byte(ref))
}
