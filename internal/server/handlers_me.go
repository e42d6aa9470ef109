package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/smartmatch/internal/db"
	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/server/middleware"
	"github.com/jonathan/smartmatch/internal/types"
)

// currentUser returns the authenticated user ID, writing 401 when absent.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func publicProfile(p *db.Profile) types.Profile {
	return types.Profile{
		UserID:          p.UserID,
		Domain:          p.Domain,
		CGPA:            p.CGPA,
		ExperienceYears: p.ExperienceYears,
		Certifications:  p.Certifications,
		UpdatedAt:       p.UpdatedAt,
	}
}

func publicRegistration(r *db.Registration) types.Registration {
	return types.Registration{
		ID:           r.ID,
		InternshipID: r.InternshipID,
		Title:        r.Title,
		CompanyName:  r.CompanyName,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	p, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.fail(w, "failed to get profile", err)
		return
	}
	if p == nil {
		s.errorResponse(w, http.StatusNotFound, MessageProfileNotCompleted)
		return
	}
	s.jsonResponse(w, http.StatusOK, publicProfile(p))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	saved, err := s.store.UpsertProfile(r.Context(), &db.Profile{
		UserID:          userID,
		Domain:          strings.TrimSpace(req.Domain),
		CGPA:            *req.CGPA,
		ExperienceYears: *req.ExperienceYears,
		Certifications:  *req.Certifications,
	})
	if err != nil {
		s.fail(w, "failed to save profile", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, publicProfile(saved))
}

// handleMyRecommendations ranks the catalog for the stored profile.
func (s *Server) handleMyRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	p, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.fail(w, "failed to get profile", err)
		return
	}
	if p == nil {
		s.fail(w, "", ErrProfileNotCompleted)
		return
	}
	if strings.TrimSpace(p.Domain) == "" {
		s.fail(w, "", ErrIncompleteProfile)
		return
	}

	resp, err := s.recommend(r.Context(), matching.Profile{
		Domain:             p.Domain,
		GPA:                p.CGPA,
		ExperienceYears:    p.ExperienceYears,
		CertificationCount: p.Certifications,
	})
	if err != nil {
		s.fail(w, "recommendation failed", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	regs, err := s.store.ListRegistrations(r.Context(), userID)
	if err != nil {
		s.fail(w, "failed to list registrations", err)
		return
	}

	out := make([]types.Registration, 0, len(regs))
	for i := range regs {
		out = append(out, publicRegistration(&regs[i]))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":       true,
		"count":         len(out),
		"registrations": out,
	})
}

func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	reg, err := s.store.CreateRegistration(r.Context(), userID, uuid.MustParse(req.InternshipID))
	if err != nil {
		s.fail(w, "failed to register", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, publicRegistration(reg))
}

func (s *Server) handleUpdateRegistration(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid registration ID")
		return
	}

	var req types.UpdateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, decodeErrorMessage(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	status, err := db.ParseRegistrationStatus(req.Status)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := s.store.UpdateRegistrationStatus(r.Context(), userID, id, status)
	if err != nil {
		s.fail(w, "failed to update registration", err)
		return
	}
	if reg == nil {
		s.errorResponse(w, http.StatusNotFound, db.ErrRegistrationNotFound.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, publicRegistration(reg))
}
