// Package catalog supplies internship catalogs to the matching engine from
// files, SQLite and PostgreSQL, with an optional Redis snapshot cache.
package catalog

import (
	"context"
	"fmt"

	"github.com/jonathan/smartmatch/internal/matching"
)

// Provider returns a full snapshot of the active catalog.
type Provider interface {
	ActiveOpportunities(ctx context.Context) ([]matching.Opportunity, error)
}

// Importer stores opportunities, replacing entries with the same ID.
type Importer interface {
	UpsertOpportunity(ctx context.Context, o matching.Opportunity) error
}

// Import writes every opportunity in src to dst and returns how many were
// written before the first failure.
func Import(ctx context.Context, src []matching.Opportunity, dst Importer) (int, error) {
	for i, o := range src {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := dst.UpsertOpportunity(ctx, o); err != nil {
			return i, fmt.Errorf("failed to import %q: %w", o.Title, err)
		}
	}
	return len(src), nil
}

// Static serves a fixed slice of opportunities.
type Static []matching.Opportunity

// ActiveOpportunities returns a copy of s.
func (s Static) ActiveOpportunities(context.Context) ([]matching.Opportunity, error) {
	out := make([]matching.Opportunity, len(s))
	copy(out, s)
	return out, nil
}
