package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
	ErrRevokedSession = errors.New("session revoked")
)

const revokedKeyPrefix = "session:revoked:"

// Claims carried inside the session cookie token
type Claims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and validates admin session cookies. The cookie value is a
// signed token; logout puts the token id on a Redis denylist. When Redis is
// not configured revocation degrades to cookie expiry.
type Service struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	redis      *redis.Client
}

// NewService creates a session service
func NewService(secret, cookieName string, ttl time.Duration, secure bool, redisClient *redis.Client) *Service {
	return &Service{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
		redis:      redisClient,
	}
}

// Issue creates a session token and sets it as an HttpOnly cookie
func (s *Service) Issue(w http.ResponseWriter, adminID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}

// Validate extracts and verifies the session cookie from a request
func (s *Service) Validate(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	return s.ValidateToken(r.Context(), cookie.Value)
}

// ValidateToken verifies a raw session token and checks the denylist
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	if s.redis != nil {
		exists, err := s.redis.Exists(ctx, revokedKeyPrefix+claims.ID).Result()
		if err == nil && exists > 0 {
			return nil, ErrRevokedSession
		}
	}

	return claims, nil
}

// Revoke denylists the session token and clears the cookie
func (s *Service) Revoke(ctx context.Context, w http.ResponseWriter, claims *Claims) error {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	if s.redis == nil || claims == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revokedKeyPrefix+claims.ID, "1", ttl).Err()
}

// CookieName returns the configured session cookie name
func (s *Service) CookieName() string {
	return s.cookieName
}
