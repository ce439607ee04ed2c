package auth

import (
	"time"

	"github.com/google/uuid"
)

// TokenService issues and validates guest session tokens. An empty secret
// disables the whole gate: every connection is accepted without a token.
type TokenService struct {
	cfg *JWTConfig
}

// NewTokenService builds a token service. Pass an empty secret to run the
// board without authentication.
func NewTokenService(secret, issuer, audience string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{cfg: &JWTConfig{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: audience,
		TTL:      ttl,
	}}
}

// Enabled reports whether tokens are required at all.
func (s *TokenService) Enabled() bool {
	return len(s.cfg.Secret) > 0
}

// IssueGuest creates a token for an anonymous session.
func (s *TokenService) IssueGuest() (string, error) {
	return GenerateToken(s.cfg, uuid.NewString())
}

// Validate checks a presented token.
func (s *TokenService) Validate(token string) (*Claims, error) {
	return ValidateToken(s.cfg, token)
}
