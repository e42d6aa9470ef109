package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/smartmatch/internal/config"
	"github.com/jonathan/smartmatch/internal/db"
	"github.com/jonathan/smartmatch/internal/types"
)

// UserStore is the account persistence used by UserService.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// PasswordHasher hashes and checks passwords. *config.PasswordConfig
// satisfies it.
type PasswordHasher interface {
	HashPassword(pw string) (string, error)
	VerifyPassword(pw, storedHash string) bool
	RejectPassword(pw string) bool
}

var _ PasswordHasher = (*config.PasswordConfig)(nil)

// UserService registers accounts and checks credentials.
type UserService struct {
	store     UserStore
	passwords PasswordHasher
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwords PasswordHasher) *UserService {
	return &UserService{
		store:     store,
		passwords: passwords,
	}
}

// publicUser drops the password hash.
func publicUser(u *db.User) *types.User {
	return &types.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// normalizeEmail lowercases and trims an address so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := normalizeEmail(req.Email)

	passwordHash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	userID, err := s.store.CreateUser(ctx, strings.TrimSpace(req.Name), email, passwordHash)
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dbUser, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return publicUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller,
	// in the response and in the time taken.
	if dbUser == nil {
		s.passwords.RejectPassword(req.Password)
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwords.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return publicUser(dbUser), nil
}
