package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmorales-dev/estudio-backend/pkg"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token stays valid.
// There is no refresh: after expiry the admin logs in again.
const SessionTTL = 2 * time.Hour

var (
	ErrWrongCredentials = errors.New("wrong credentials")
	// ErrInvalidToken covers bad signature, malformed payload, expiry and
	// revocation alike, so a caller cannot tell which one it was
	ErrInvalidToken = errors.New("invalid token")
)

// Admin is the single identity able to mutate site content.
// Set once at startup, immutable for the process lifetime.
type Admin struct {
	Username     string
	PasswordHash string
}

type Credentials struct {
	Username string
	Password string
}

// Service issues and verifies signed session tokens for the admin.
// Session state lives entirely in the client-held token; the optional
// revocation store only lets a logout invalidate a token early.
type Service struct {
	admin       *Admin
	signingKey  []byte
	ttl         time.Duration
	revocations *RevocationStore

	// ability to inject time for unit testing token expiry
	NowFunc func() time.Time
}

func NewService(admin *Admin, signingKey []byte, ttl time.Duration, revocations *RevocationStore) *Service {
	return &Service{
		admin:       admin,
		signingKey:  signingKey,
		ttl:         ttl,
		revocations: revocations,
		NowFunc:     time.Now,
	}
}

// Login checks the given credentials against the configured admin and,
// when they match, issues a new session token.
func (s *Service) Login(_ context.Context, credentials Credentials) (string, error) {
	if credentials.Username != s.admin.Username {
		return "", ErrWrongCredentials
	}
	if !pkg.CheckPasswordHash(credentials.Password, s.admin.PasswordHash) {
		return "", ErrWrongCredentials
	}
	return s.issueToken(credentials.Username)
}

func (s *Service) issueToken(username string) (string, error) {
	tokenID, err := pkg.GenerateRandomString(16)
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	now := s.NowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        tokenID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// VerifyToken returns the username embedded in the token. A token is valid
// iff its signature verifies against the signing key, it is not expired,
// and it has not been revoked by a logout.
func (s *Service) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return "", ErrInvalidToken
		}
	}

	return claims.Subject, nil
}

// Logout revokes the given token for the remainder of its lifetime.
// Without a revocation store this is a no-op and the token stays valid
// until natural expiry, the client just discards its cookie.
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.revocations == nil {
		return nil
	}

	claims, err := s.parseClaims(token)
	if err != nil {
		return ErrInvalidToken
	}

	remaining := claims.ExpiresAt.Sub(s.NowFunc())
	if remaining <= 0 {
		return nil
	}

	return s.revocations.Revoke(ctx, claims.ID, remaining)
}

func (s *Service) parseClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.NowFunc() }),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
