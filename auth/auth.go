// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/memojo/cliparse"
)

// Cookie names. Both carry the same token; adminToken is what the dashboard
// frontend expects.
const (
	CookieToken      = "token"
	CookieAdminToken = "adminToken"
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = time.Hour

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrNoToken                = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrInvalidCookieSignature = errors.New("invalid cookie signature")
)

// Claims is the token payload
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is the verified admin attached to a request context
type Identity struct {
	Username  string
	ExpiresAt time.Time
}

// Gate checks admin credentials and issues and verifies session tokens.
// Tokens are stateless: nothing is stored server-side and logout cannot
// revoke them before they expire.
type Gate struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	cookieSecret string
	secure       bool
	now          func() time.Time
}

// NewGate builds a gate from the admin settings in cfg. A plain password is
// hashed with bcrypt once, here.
func NewGate(cfg cliparse.Config) (*Gate, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.CookieSecret == "" {
		return nil, errors.New("cookie secret is required")
	}

	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if cfg.AdminPassword == "" {
			return nil, errors.New("admin password is required")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	return &Gate{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		jwtSecret:    []byte(cfg.JWTSecret),
		cookieSecret: cfg.CookieSecret,
		secure:       cfg.Production,
		now:          time.Now,
	}, nil
}

// SetClock replaces the time source used to issue and verify tokens
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Login checks the credentials and returns a signed token
func (g *Gate) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", fmt.Errorf("login as %q: %w", username, ErrInvalidCredentials)
	}
	return g.IssueToken(username)
}

// IssueToken signs a token for username expiring after TokenTTL
func (g *Gate) IssueToken(username string) (string, error) {
	now := g.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies signature and expiry and returns the identity
func (g *Gate) ParseToken(token string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return g.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Username == "" {
		return Identity{}, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}

	return Identity{
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify extracts the token from the request and parses it.
// Returns ErrNoToken when the request carries none and ErrInvalidToken when
// it carries a bad one.
func (g *Gate) Verify(r *http.Request) (Identity, error) {
	token, err := g.TokenFromRequest(r)
	if err != nil {
		return Identity{}, err
	}
	return g.ParseToken(token)
}

// TokenFromRequest looks at the token cookie, the adminToken cookie and the
// Authorization header, in that order. Signed cookies are unsigned first;
// unsigned cookie values are accepted as they are.
func (g *Gate) TokenFromRequest(r *http.Request) (string, error) {
	for _, name := range []string{CookieToken, CookieAdminToken} {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			continue
		}
		if !strings.HasPrefix(c.Value, signedPrefix) {
			return c.Value, nil
		}
		value, err := UnsignCookieValue(c.Value, g.cookieSecret)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return value, nil
	}

	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}

	return "", ErrNoToken
}

// SetSessionCookies writes the token into both session cookies
func (g *Gate) SetSessionCookies(w http.ResponseWriter, token string) {
	value := SignCookieValue(token, g.cookieSecret)
	for _, name := range []string{CookieToken, CookieAdminToken} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			MaxAge:   int(TokenTTL.Seconds()),
			HttpOnly: true,
			Secure:   g.secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// ClearSessionCookies expires both session cookies. The token itself stays
// valid until it expires.
func (g *Gate) ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{CookieToken, CookieAdminToken} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   g.secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// signedPrefix marks signed cookie values: "s:<value>.<signature>"
const signedPrefix = "s:"

// SignCookieValue appends an HMAC-SHA256 signature to value
func SignCookieValue(value, secret string) string {
	return signedPrefix + value + "." + cookieSignature(value, secret)
}

// UnsignCookieValue checks the signature of a signed cookie and returns the
// original value
func UnsignCookieValue(signed, secret string) (string, error) {
	if !strings.HasPrefix(signed, signedPrefix) {
		return "", ErrInvalidCookieSignature
	}
	body := strings.TrimPrefix(signed, signedPrefix)
	i := strings.LastIndex(body, ".")
	if i < 0 {
		return "", ErrInvalidCookieSignature
	}
	value, sig := body[:i], body[i+1:]
	expected := cookieSignature(value, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidCookieSignature
	}
	return value, nil
}

func cookieSignature(value, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	// Standard base64 without padding
	return strings.TrimRight(base64.StdEncoding.EncodeToString(h.Sum(nil)), "=")
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the identity attached by WithIdentity
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
