package user

import (
	"context"
	"errors"

	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/auth"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
)

var (
	ErrEmailExists        = apperr.New(apperr.Conflict, "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid email or password")
	ErrInvalidRefresh     = apperr.New(apperr.Unauthenticated, "invalid or expired refresh token")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "user not found")
)

const defaultRole = "member"

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, auth.TokenPair, error)
	Login(ctx context.Context, req LoginRequest) (*User, auth.TokenPair, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// Register creates a member account. Staff and admin accounts are provisioned
// out of band.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, auth.TokenPair, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if exists {
		return nil, auth.TokenPair{}, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	u, err := s.repo.Create(ctx, &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         defaultRole,
		Address:      req.Address,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	tokens, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	logger.Info("user registered", "user_id", u.ID)
	return u, tokens, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, auth.TokenPair, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := auth.GenerateTokens(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	return u, tokens, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// RefreshToken re-reads the user so a changed role takes effect on refresh.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, ErrInvalidRefresh
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	access, err := auth.GenerateAccessToken(u.ID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return access, u, nil
}
