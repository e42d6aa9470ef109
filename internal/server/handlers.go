package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/types"
	"go.uber.org/zap"
)

// handleHealth reports liveness, the number of active internships and the
// database in use. It counts rows rather than loading the catalog.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":             "ok",
		"database":           s.store.Name(),
		"internships_loaded": 0,
	}
	status := http.StatusOK

	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Warn("health check: database unreachable", zap.Error(err))
		resp["status"] = "degraded"
		s.jsonResponse(w, http.StatusServiceUnavailable, resp)
		return
	}

	n, err := s.store.CountActiveInternships(r.Context())
	if err != nil {
		s.log.Warn("health check: failed to count internships", zap.Error(err))
		resp["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	resp["internships_loaded"] = n

	s.jsonResponse(w, status, resp)
}

// handleRecommend ranks the catalog for a profile given in the request body.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp, err := s.recommend(r.Context(), req.Profile())
	if err != nil {
		s.fail(w, "recommendation failed", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// recommend runs the engine over the current catalog.
func (s *Server) recommend(ctx context.Context, p matching.Profile) (*types.RecommendationResponse, error) {
	opportunities, err := s.catalog.ActiveOpportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	ranked, summary, err := s.engine.Evaluate(p, opportunities)
	if err != nil {
		return nil, err
	}
	s.log.Debug("recommendation complete",
		zap.String("domain", p.Domain),
		zap.Int("limit", s.engine.Limit()),
		zap.Int("catalog", summary.Catalog),
		zap.Int("eligible", summary.Eligible),
		zap.Int("returned", summary.Returned),
	)
	return types.NewRecommendationResponse(ranked, summary.Catalog), nil
}

// handleListInternships lists the active catalog with its requirements.
func (s *Server) handleListInternships(w http.ResponseWriter, r *http.Request) {
	opportunities, err := s.catalog.ActiveOpportunities(r.Context())
	if err != nil {
		s.fail(w, "failed to list internships", err)
		return
	}

	resp := types.InternshipListResponse{
		Success:     true,
		Count:       len(opportunities),
		Internships: make([]types.Internship, 0, len(opportunities)),
	}
	for _, o := range opportunities {
		resp.Internships = append(resp.Internships, types.NewInternship(o, true))
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetInternship returns one internship by ID.
func (s *Server) handleGetInternship(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid internship ID")
		return
	}

	in, err := s.store.GetInternship(r.Context(), id)
	if err != nil {
		s.fail(w, "failed to get internship", err)
		return
	}
	if in == nil {
		s.errorResponse(w, http.StatusNotFound, "Internship not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":    true,
		"internship": types.NewInternship(in.Opportunity(), true),
		"is_active":  in.IsActive,
	})
}

// fail maps err to a status and writes it, logging internal failures.
func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error(msg, zap.Error(err))
	}
	s.errorResponse(w, status, errorMessage(err))
}
