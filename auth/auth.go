// Package auth is the storefront's identity collaborator: sign in/up/out,
// password reset and resolving the current user from an access token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/utils"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserStore persists accounts.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SavePasswordReset(ctx context.Context, reset models.PasswordReset) error
}

// Profile holds the optional sign-up fields.
type Profile struct {
	FullName string
	Username string
}

// Session is the result of a successful sign in.
type Session struct {
	User        *models.User
	AccessToken string
	ExpiresAt   time.Time
}

type Config struct {
	Secret    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

type Service struct {
	users UserStore
	cfg   Config
	now   func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func NewService(users UserStore, cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Service{
		users:   users,
		cfg:     cfg,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, password string, profile Profile) (*Session, error) {
	email = normalizeEmail(email)
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(profile.FullName),
		Username:     strings.TrimSpace(profile.Username),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*Session, error) {
	expiresAt := s.now().Add(s.cfg.AccessTTL)
	token, err := utils.GenerateAccessToken(s.cfg.Secret, uuid.NewString(), user.ID, user.Email, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// SignOut revokes the token. Unknown or already expired tokens are ignored.
func (s *Service) SignOut(token string) {
	claims, err := utils.ValidateToken(token, s.cfg.Secret)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.revoked[claims.ID] = claims.ExpiresAt.Time
}

// pruneLocked drops revocations whose token has expired anyway.
func (s *Service) pruneLocked() {
	now := s.now()
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
}

// CurrentUser resolves the active account behind an access token.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, s.cfg.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// ResetPassword records a reset request. It succeeds whether or not the
// address is registered so callers cannot enumerate accounts.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	now := s.now().UTC()
	reset := models.PasswordReset{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: utils.HashToken(token),
		ExpiresAt: now.Add(s.cfg.ResetTTL),
		CreatedAt: now,
	}
	if err := s.users.SavePasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("save password reset: %w", err)
	}
	// mail delivery belongs to the identity provider
	log.Printf("password reset requested for %s (reset id %s)", user.Email, reset.ID)
	return nil
}

// SeedAdmin creates the admin account when it does not exist yet.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		log.Println("Admin user already exists:", email)
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}
	if _, err := s.SignUp(ctx, email, password, Profile{FullName: "Administrator"}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Println("Admin user seeded:", email)
	return nil
}
