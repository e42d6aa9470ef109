package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Registration Methods
// -----------------------------------------------------------------------------

const registrationSelect = `SELECT r.id, r.user_id, r.internship_id, i.title, i.company_name,
		r.status, r.created_at, r.updated_at
	FROM registrations r JOIN internships i ON i.id = r.internship_id`

func scanRegistration(row pgx.Row) (*Registration, error) {
	var r Registration
	if err := row.Scan(&r.ID, &r.UserID, &r.InternshipID, &r.Title, &r.CompanyName,
		&r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRegistration registers a user for an active internship. It returns
// ErrInternshipNotFound when the internship is missing or inactive and
// ErrAlreadyRegistered on a repeated registration.
func (db *DB) CreateRegistration(ctx context.Context, userID, internshipID uuid.UUID) (*Registration, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO registrations (user_id, internship_id, status)
		 SELECT $1, id, $3 FROM internships WHERE id = $2 AND is_active
		 RETURNING id`,
		userID, internshipID, string(StatusRegistered),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInternshipNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return db.GetRegistration(ctx, userID, id)
}

// GetRegistration retrieves one registration of a user. Returns nil, nil when
// missing.
func (db *DB) GetRegistration(ctx context.Context, userID, id uuid.UUID) (*Registration, error) {
	r, err := scanRegistration(db.pool.QueryRow(ctx,
		registrationSelect+` WHERE r.id = $1 AND r.user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return r, nil
}

// ListRegistrations returns a user's registrations, newest first.
func (db *DB) ListRegistrations(ctx context.Context, userID uuid.UUID) ([]Registration, error) {
	rows, err := db.pool.Query(ctx,
		registrationSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	registrations := []Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}
	return registrations, nil
}

// TransitionError reports a disallowed status change.
type TransitionError struct {
	From RegistrationStatus
	To   RegistrationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change registration status from %s to %s", e.From, e.To)
}

// UpdateRegistrationStatus moves a registration to status, enforcing the
// allowed transitions.
func (db *DB) UpdateRegistrationStatus(ctx context.Context, userID, id uuid.UUID, status RegistrationStatus) (*Registration, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current RegistrationStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM registrations WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	if !IsTransitionAllowed(current, status) {
		return nil, &TransitionError{From: current, To: status}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE registrations SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	); err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration update: %w", err)
	}
	return db.GetRegistration(ctx, userID, id)
}
