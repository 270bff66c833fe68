// Package service provides the business rules for authentication and for
// clearance-controlled record access, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"securedata/internal/models"
	"securedata/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrUserExists is returned when registering a username that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrBadCredentials is returned for both an unknown username and a
	// wrong password, so a caller cannot probe which usernames exist.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrEmptyCredentials is returned when the username or password is blank.
	ErrEmptyCredentials = errors.New("username and password required")
)

// UserRepository defines the credential-store operations required by the
// authentication service.
type UserRepository interface {
	// CreateUser inserts a new user; returns false if the username is taken.
	CreateUser(ctx context.Context, user *models.User) (bool, error)
	// UserByUsername fetches a user by login name, or repository.ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, hash []byte) bool
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Issue(userID string, clearance int) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	repo   UserRepository
	hasher PasswordHasher
	issuer TokenIssuer
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(repo UserRepository, hasher PasswordHasher, issuer TokenIssuer) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, issuer: issuer}
}

// Register creates a new user at the lowest clearance tier. The plaintext
// password is hashed before it reaches the store and is never retained.
// Returns ErrUserExists if the username is already registered.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Clearance:    models.ClearanceMin,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return err
	}
	if !created {
		return ErrUserExists
	}
	return nil
}

// Login verifies the credentials and issues a session token embedding the
// user's identity and clearance. Both unknown-user and wrong-password
// failures surface as ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (token string, userID string, err error) {
	if username == "" || password == "" {
		return "", "", ErrEmptyCredentials
	}

	user, err := s.repo.UserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", ErrBadCredentials
	}
	if err != nil {
		return "", "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", "", ErrBadCredentials
	}

	token, err = s.issuer.Issue(user.ID, user.Clearance)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}
	return token, user.ID, nil
}
