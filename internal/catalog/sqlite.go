package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/smartmatch/internal/matching"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS internships (
	id                        TEXT PRIMARY KEY,
	title                     TEXT NOT NULL,
	company_name              TEXT NOT NULL DEFAULT '',
	description               TEXT NOT NULL DEFAULT '',
	required_domain           TEXT NOT NULL DEFAULT '',
	min_cgpa                  REAL NOT NULL DEFAULT 0,
	min_experience_years      REAL NOT NULL DEFAULT 0,
	min_certifications        REAL NOT NULL DEFAULT 0,
	importance_domain         REAL NOT NULL DEFAULT 1,
	importance_cgpa           REAL NOT NULL DEFAULT 1,
	importance_experience     REAL NOT NULL DEFAULT 1,
	importance_certifications REAL NOT NULL DEFAULT 1,
	location                  TEXT NOT NULL DEFAULT '',
	duration_months           INTEGER NOT NULL DEFAULT 0,
	stipend                   REAL NOT NULL DEFAULT 0,
	application_deadline      TEXT,
	is_active                 INTEGER NOT NULL DEFAULT 1,
	created_at                TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_internships_active ON internships (is_active, created_at);
`

// SQLite is a local single-file catalog.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the catalog database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite catalog: %w", err)
	}
	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite catalog: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertOpportunity stores o as an active internship. An empty ID is replaced
// by a random one.
func (s *SQLite) UpsertOpportunity(ctx context.Context, o matching.Opportunity) error {
	id := o.ID
	if id == "" {
		id = uuid.NewString()
	}
	var deadline any
	if o.Deadline != nil {
		deadline = o.Deadline.Format(time.DateOnly)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO internships (id, title, company_name, description, required_domain,
			min_cgpa, min_experience_years, min_certifications,
			importance_domain, importance_cgpa, importance_experience, importance_certifications,
			location, duration_months, stipend, application_deadline, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			company_name = excluded.company_name,
			description = excluded.description,
			required_domain = excluded.required_domain,
			min_cgpa = excluded.min_cgpa,
			min_experience_years = excluded.min_experience_years,
			min_certifications = excluded.min_certifications,
			importance_domain = excluded.importance_domain,
			importance_cgpa = excluded.importance_cgpa,
			importance_experience = excluded.importance_experience,
			importance_certifications = excluded.importance_certifications,
			location = excluded.location,
			duration_months = excluded.duration_months,
			stipend = excluded.stipend,
			application_deadline = excluded.application_deadline,
			is_active = 1`,
		id, o.Title, o.Organization, o.Description, o.RequiredDomain,
		o.Thresholds.MinGPA, o.Thresholds.MinExperienceYears, o.Thresholds.MinCertificationCount,
		o.Weights.Domain, o.Weights.GPA, o.Weights.Experience, o.Weights.Certifications,
		o.Location, o.DurationMonths, o.Stipend, deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert internship %s: %w", id, err)
	}
	return nil
}

// ActiveOpportunities returns active internships, newest first.
func (s *SQLite) ActiveOpportunities(ctx context.Context) ([]matching.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company_name, description, required_domain,
			min_cgpa, min_experience_years, min_certifications,
			importance_domain, importance_cgpa, importance_experience, importance_certifications,
			location, duration_months, stipend, application_deadline
		 FROM internships WHERE is_active = 1
		 ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sqlite catalog: %w", err)
	}
	defer rows.Close()

	opps := []matching.Opportunity{}
	for rows.Next() {
		var o matching.Opportunity
		var deadline sql.NullString
		if err := rows.Scan(&o.ID, &o.Title, &o.Organization, &o.Description, &o.RequiredDomain,
			&o.Thresholds.MinGPA, &o.Thresholds.MinExperienceYears, &o.Thresholds.MinCertificationCount,
			&o.Weights.Domain, &o.Weights.GPA, &o.Weights.Experience, &o.Weights.Certifications,
			&o.Location, &o.DurationMonths, &o.Stipend, &deadline); err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		if deadline.Valid {
			if d, err := time.Parse(time.DateOnly, deadline.String); err == nil {
				o.Deadline = &d
			}
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sqlite catalog: %w", err)
	}
	return opps, nil
}

// DeactivateExpired marks internships whose deadline is before asOf as
// inactive and returns how many changed.
func (s *SQLite) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE internships SET is_active = 0
		 WHERE is_active = 1 AND application_deadline IS NOT NULL AND application_deadline < ?`,
		asOf.Format(time.DateOnly),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired internships: %w", err)
	}
	return res.RowsAffected()
}
