package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetProfile retrieves the profile of a user. Returns nil, nil when the user
// has not completed one.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, domain, cgpa, experience_years, certifications, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Domain, &p.CGPA, &p.ExperienceYears, &p.Certifications, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates or replaces the profile of p.UserID.
func (db *DB) UpsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	var saved Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, domain, cgpa, experience_years, certifications)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
			domain = EXCLUDED.domain,
			cgpa = EXCLUDED.cgpa,
			experience_years = EXCLUDED.experience_years,
			certifications = EXCLUDED.certifications,
			updated_at = NOW()
		 RETURNING user_id, domain, cgpa, experience_years, certifications, updated_at`,
		p.UserID, p.Domain, p.CGPA, p.ExperienceYears, p.Certifications,
	).Scan(&saved.UserID, &saved.Domain, &saved.CGPA, &saved.ExperienceYears, &saved.Certifications, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &saved, nil
}
