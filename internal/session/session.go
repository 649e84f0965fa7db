// Package session issues and verifies the signed login cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "yatube_session"
	Issuer     = "yatube-web"
	Audience   = "yatube-browser"

	blacklistPrefix = "blacklist:"
)

var (
	// ErrInvalid covers malformed, expired and wrongly signed tokens.
	ErrInvalid = errors.New("invalid session token")
	// ErrRevoked is returned for tokens that were logged out.
	ErrRevoked = errors.New("session token has been revoked")
)

// Claims is the verified content of a session token.
type Claims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// Manager signs session tokens with HS256 and tracks revoked ones in Redis.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewManager returns a Manager. A nil rdb disables revocation checks.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		rdb:    rdb,
		now:    time.Now,
	}
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a token for userID.
func (m *Manager) Issue(userID uint) (string, *Claims, error) {
	if len(m.secret) == 0 {
		return "", nil, fmt.Errorf("session secret not configured")
	}

	now := m.now()
	c := &Claims{
		UserID:    userID,
		JTI:       uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": Issuer,
		"aud": Audience,
		"exp": c.ExpiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": c.JTI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, c, nil
}

// Parse verifies token and returns its claims.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalid
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalid
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalid
	}
	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalid
	}

	if jti != "" && m.rdb != nil {
		n, err := m.rdb.Exists(ctx, blacklistPrefix+jti).Result()
		if err == nil && n > 0 {
			return nil, ErrRevoked
		}
	}

	return &Claims{UserID: uint(userID), JTI: jti, ExpiresAt: exp.Time}, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, c *Claims) error {
	if m.rdb == nil || c == nil || c.JTI == "" {
		return nil
	}
	remaining := c.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, blacklistPrefix+c.JTI, "1", remaining).Err()
}
