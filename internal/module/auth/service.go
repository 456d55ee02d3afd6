package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatherly/server/internal/utils/metrics"
)

// Service provides account registration and authentication.
type Service struct {
	repo    Repository
	jwt     *JWTManager
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a new auth service.
func NewService(repo Repository, jwt *JWTManager, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwt,
		logger:  logger,
		metrics: m,
	}
}

// Register creates a new account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, req *SignupRequest) (*User, *AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))
	if s.metrics != nil {
		s.metrics.RecordAuthEvent("signup")
	}

	return user, resp, nil
}

// Login authenticates a user with email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, *AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAuthEvent("login_failed")
		}
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if s.metrics != nil {
			s.metrics.RecordAuthEvent("login_failed")
		}
		return nil, nil, ErrInvalidCredentials
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("user logged in", zap.String("user_id", user.ID.String()))
	if s.metrics != nil {
		s.metrics.RecordAuthEvent("login_success")
	}

	return user, resp, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ValidateToken validates an access token and returns its claims.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return s.jwt.ValidateToken(token)
}

func (s *Service) issueToken(user *User) (*AuthResponse, error) {
	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      user.ToResponse(),
	}, nil
}
