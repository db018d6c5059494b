package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cuongbtq/labour-market/internal/domain"
)

// ErrInvalidToken is returned for malformed, expired or tampered tokens
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and verifies HS256 bearer tokens
type JWTManager struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewJWTManager creates a manager signing with key; tokens live for ttl
func NewJWTManager(signingKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

// AccessClaims is the payload of an access token
type AccessClaims struct {
	jwt.RegisteredClaims
	Role   string `json:"role"`
	UserID string `json:"user_id"`
}

// Issue signs a token for the given user
func (m *JWTManager) Issue(userID string, role domain.Role) (string, error) {
	now := m.now()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role:   string(role),
		UserID: userID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse verifies tokenStr and returns the actor it was issued for
func (m *JWTManager) Parse(tokenStr string) (domain.Actor, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(*AccessClaims)
	if !ok || !tok.Valid {
		return domain.Actor{}, ErrInvalidToken
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return domain.Actor{}, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	switch role {
	case domain.RoleClient, domain.RoleLaborer, domain.RoleAdmin:
	default:
		return domain.Actor{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return domain.Actor{ID: id, Role: role}, nil
}
