// Package auth implements JWT session tokens for College Match Hub.
// Access tokens are short-lived and carry the role for authorization;
// refresh tokens are long-lived and verified against the copy stored on the
// student record, so issuing a new pair rotates the old one out.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidToken is returned for malformed, expired, or mis-signed tokens.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrWrongTokenKind is returned when an access token is presented where a
	// refresh token is expected, or the other way round.
	ErrWrongTokenKind = errors.New("auth: wrong token kind")
)

// Token kinds, embedded in claims so one cannot stand in for the other.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds token signing configuration.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string

	// Issuer is the iss claim on minted tokens.
	Issuer string

	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration

	// RefreshTTL is the refresh token lifetime.
	RefreshTTL time.Duration
}

// DefaultConfig returns sensible defaults; the secret must still be set.
func DefaultConfig() Config {
	return Config{
		Issuer:     "college-match-hub",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	Role string `json:"role,omitempty"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256 session tokens. It implements
// command.TokenIssuer.
type TokenService struct {
	config Config
	secret []byte
}

// NewTokenService creates a token service.
func NewTokenService(cfg Config) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultConfig().AccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultConfig().RefreshTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultConfig().Issuer
	}

	return &TokenService{config: cfg, secret: []byte(cfg.Secret)}, nil
}

// IssueAccessToken mints a short-lived access token carrying the role.
func (s *TokenService) IssueAccessToken(studentID string, role string) (string, error) {
	return s.sign(studentID, role, kindAccess, s.config.AccessTTL)
}

// IssueRefreshToken mints a long-lived refresh token.
func (s *TokenService) IssueRefreshToken(studentID string) (string, error) {
	return s.sign(studentID, "", kindRefresh, s.config.RefreshTTL)
}

// VerifyAccessToken checks an access token and returns the subject and role.
func (s *TokenService) VerifyAccessToken(token string) (studentID string, role string, err error) {
	claims, err := s.parse(token, kindAccess)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}

// VerifyRefreshToken checks a refresh token and returns the subject.
func (s *TokenService) VerifyRefreshToken(token string) (string, error) {
	claims, err := s.parse(token, kindRefresh)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *TokenService) sign(studentID, role, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   studentID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *TokenService) parse(tokenString, wantKind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != wantKind {
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}
