package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"yourrest-api/models"
)

const (
	PurposeSession = "session"
	PurposeVerify  = "verify"
)

type Claims struct {
	UserID  string          `json:"user_id"`
	Email   string          `json:"email"`
	Role    models.UserRole `json:"role"`
	Purpose string          `json:"purpose"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// TokenManager signs HS256 tokens and remembers revoked token ids until they expire.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now, revoked: make(map[string]time.Time)}
}

// Issue creates a signed token for user. A zero ttl uses the session lifetime.
func (m *TokenManager) Issue(user *models.User, purpose string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.ttl
	}
	now := m.now()
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates the signature, expiry, purpose and revocation state of token.
func (m *TokenManager) Parse(tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: wrong token purpose", ErrUnauthorized)
	}
	if m.isRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	return claims, nil
}

func (m *TokenManager) Revoke(claims *Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return errors.New("token has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, id)
		}
	}
	m.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

func (m *TokenManager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}
