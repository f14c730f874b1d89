package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// Roles in ascending order of privilege
const (
	RoleUser    = "user"
	RoleAnalyst = "analyst"
	RoleAdmin   = "admin"
)

// DefaultTTL is the lifetime of an access token
const DefaultTTL = 30 * time.Minute

// ErrInvalidToken covers malformed, forged and expired tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the access-token claims issued to API clients
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request
type Principal struct {
	Subject string
	Role    string
}

// Tokens issues and verifies HS256 access tokens
type Tokens struct {
	secret []byte
	clock  clockwork.Clock
}

// NewTokens creates a token service; clock may be nil for the real clock
func NewTokens(secret string, clock clockwork.Clock) *Tokens {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tokens{secret: []byte(secret), clock: clock}
}

// Issue signs a token for subject with the given role and lifetime
func (t *Tokens) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token
func (t *Tokens) Verify(token string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role == "" {
		claims.Role = RoleUser
	}
	return &Principal{Subject: claims.Subject, Role: claims.Role}, nil
}
