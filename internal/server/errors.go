package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/smartmatch/internal/db"
	"github.com/jonathan/smartmatch/internal/matching"
)

// Messages of the profile-based recommendation errors.
const (
	MessageProfileNotCompleted = "Profile not completed"
	MessageIncompleteProfile   = "Incomplete profile data"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Errors of the stored-profile recommendation flow.
var (
	ErrProfileNotCompleted = errors.New(MessageProfileNotCompleted)
	ErrIncompleteProfile   = errors.New(MessageIncompleteProfile)
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailErr      *ErrEmailAlreadyExists
		credErr       *ErrInvalidCredentials
		validationErr *ErrValidation
		transitionErr *db.TransitionError
		profileErr    *matching.InvalidProfileValueError
	)
	switch {
	case errors.As(err, &emailErr), errors.Is(err, db.ErrEmailTaken),
		errors.Is(err, db.ErrAlreadyRegistered), errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.As(err, &credErr):
		return http.StatusUnauthorized
	case errors.Is(err, ErrProfileNotCompleted), errors.Is(err, db.ErrInternshipNotFound),
		errors.Is(err, db.ErrRegistrationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIncompleteProfile):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validationErr), errors.As(err, &profileErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing text of err. Internal failures are
// not echoed.
func errorMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
