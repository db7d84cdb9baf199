package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finledger"
	"finledger/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 24 * time.Hour

// Domain errors for auth flows. ErrInvalidCredentials covers both an unknown
// username and a wrong password so callers cannot probe for accounts.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrMissingSecret      = errors.New("session signing secret is required")
)

// AuthService handles registration, login and the session lifecycle.
// Tokens are HS256-signed JWTs carrying a server-side session id; logout
// revokes the row, which invalidates the token before its expiry.
type AuthService struct {
	users    repository.Authorization
	sessions repository.Sessions
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(users repository.Authorization, sessions repository.Sessions, cfg AuthConfig) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		secret:   []byte(cfg.SigningSecret),
		ttl:      ttl,
	}
}

// sessionClaims binds a JWT to a server-side session row.
type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	UserID    int    `json:"user_id"`
}

// SignUp digests the password and creates a new user. Usernames are not
// required to be unique; login resolves duplicates to the earliest row.
func (s *AuthService) SignUp(username, password string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, errors.New("username is empty")
	}
	digest, err := digestPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.users.Create(username, digest)
}

// SignIn verifies credentials and returns a signed session token. Lookup
// misses and digest mismatches are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	u, err := s.users.FirstByUsername(strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordDigest), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	sess := finledger.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}
	return s.issueToken(sess)
}

// Validate parses and verifies the token, then requires its session row to
// still exist and be unexpired.
func (s *AuthService) Validate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidSession
	}
	return &Identity{UserID: sess.UserID, Username: sess.Username}, nil
}

// SignOut revokes the token's session. Unknown or malformed tokens are a
// no-op: logging out twice must not fail.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

func (s *AuthService) issueToken(sess finledger.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		},
		SessionID: sess.ID,
		UserID:    sess.UserID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(accessToken string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

func digestPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}
