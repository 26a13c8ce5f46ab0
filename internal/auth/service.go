// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
	"github.com/carterperez-dev/house-of-bloom/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(ctx context.Context, email, passwordHash string) (*UserInfo, error)
}

type Service struct {
	tokens   *TokenManager
	users    UserProvider
	hasher   core.PasswordHasher
	verifier *core.TimingSafeVerifier
}

func NewService(
	tokens *TokenManager,
	users UserProvider,
	hasher core.PasswordHasher,
) (*Service, error) {
	verifier, err := core.NewTimingSafeVerifier(hasher)
	if err != nil {
		return nil, err
	}

	return &Service{
		tokens:   tokens,
		users:    users,
		hasher:   hasher,
		verifier: verifier,
	}, nil
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserResponse, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return toUserResponse(user), nil
}

// Login reports ErrInvalidCredentials for an unknown email and for a wrong
// password, at the same cost.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention
			_, _ = s.verifier.Verify(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := s.verifier.Verify(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.DefaultTTL().Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate resolves a bearer token to a live account.
func (s *Service) Authenticate(
	ctx context.Context,
	token string,
) middleware.AuthResult {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return middleware.AuthFailure(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return middleware.AuthFailure(
				fmt.Errorf("user %d no longer exists: %w", claims.UserID, core.ErrTokenInvalid),
			)
		}
		return middleware.AuthFailure(err)
	}

	return middleware.Authenticated(middleware.Identity{
		UserID: user.ID,
		Email:  user.Email,
	})
}

// CurrentUser treats a vanished account as an authentication failure.
func (s *Service) CurrentUser(
	ctx context.Context,
	userID int64,
) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("current user: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("current user: %w", err)
	}

	return toUserResponse(user), nil
}
