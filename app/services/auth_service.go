package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is deliberately the same for an unknown
	// username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameTaken = errors.New("username already taken")
)

// AuthService is the local identity provider: account registration,
// credential checks, and opaque session tokens with an expiry.
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	ttl      time.Duration
	cost     int
	log      *slog.Logger
}

// NewAuthService creates a new AuthService. ttl bounds session lifetime;
// cost is the bcrypt work factor.
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, ttl time.Duration, cost int) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		cost:     cost,
		log:      slog.With("component", "auth_service"),
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *models.SignUpRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		FirstName:    req.FirstName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		s.log.ErrorContext(ctx, "register failed", "username", req.Username, "error", err)
		return nil, err
	}
	return user, nil
}

// Login checks credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.log.ErrorContext(ctx, "login lookup failed", "error", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		s.log.ErrorContext(ctx, "store session failed", "error", err)
		return nil, err
	}
	return session, nil
}

// Logout ends the session behind the given token. Unknown tokens are a
// no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// IdentityFromToken resolves a session token to the caller's identity and
// current profile fields. A missing, expired, or orphaned session yields
// nil with no error: unauthenticated is a normal state, not a failure.
func (s *AuthService) IdentityFromToken(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Profile fields are read live so a later profile change shows up in
	// the userName attributed on the next edit.
	user, err := s.users.GetByUsername(ctx, session.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.Identity{ID: user.ID, FirstName: user.FirstName, Email: user.Email}, nil
}
