// AngelaMos | 2026
// jwt.go

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/house-of-bloom/internal/config"
	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

// TokenManager issues and validates stateless HMAC access tokens. Rotating
// the secret invalidates every outstanding token.
type TokenManager struct {
	secret     []byte
	algorithm  jwa.SignatureAlgorithm
	issuer     string
	defaultTTL time.Duration
}

type Claims struct {
	UserID    int64
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}

	name := strings.ToUpper(cfg.Algorithm)
	if name == "" {
		name = "HS256"
	}

	alg, ok := jwa.LookupSignatureAlgorithm(name)
	if !ok || !strings.HasPrefix(name, "HS") {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.Algorithm)
	}

	return &TokenManager{
		secret:     []byte(cfg.Secret),
		algorithm:  alg,
		issuer:     cfg.Issuer,
		defaultTTL: cfg.AccessTokenExpire,
	}, nil
}

func (m *TokenManager) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// Issue signs a token for the user. A zero ttl uses the configured default;
// a negative ttl is honored and yields a token that is already expired.
func (m *TokenManager) Issue(
	userID int64,
	email string,
	ttl time.Duration,
) (string, time.Time, error) {
	if ttl == 0 {
		ttl = m.defaultTTL
	}

	// exp and iat are encoded in whole seconds; report what was signed.
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl).Truncate(time.Second)

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim("user_id", userID).
		Claim("email", email)
	if m.issuer != "" {
		builder = builder.Issuer(m.issuer)
	}

	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(m.algorithm, m.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Validate checks signature, algorithm, issuer and expiry. Every failure
// wraps core.ErrTokenInvalid; an expired token also wraps
// core.ErrTokenExpired.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParseOption{
		jwt.WithKey(m.algorithm, m.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(0),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf(
				"validate token: %w: %w",
				core.ErrTokenInvalid,
				core.ErrTokenExpired,
			)
		}
		return nil, fmt.Errorf("validate token: %w: %v", core.ErrTokenInvalid, err)
	}

	exp, ok := token.Expiration()
	if !ok {
		return nil, fmt.Errorf(
			"validate token: missing exp: %w",
			core.ErrTokenInvalid,
		)
	}

	var rawID float64
	if err := token.Get("user_id", &rawID); err != nil || rawID <= 0 {
		return nil, fmt.Errorf(
			"validate token: missing user_id: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil {
		return nil, fmt.Errorf(
			"validate token: missing email: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &Claims{
		UserID:    int64(rawID),
		Email:     email,
		ExpiresAt: exp,
	}
	if jti, ok := token.JwtID(); ok {
		claims.TokenID = jti
	}
	if iat, ok := token.IssuedAt(); ok {
		claims.IssuedAt = iat
	}

	return claims, nil
}
