// Package token issues and verifies the signed session tokens that carry a
// caller's identity. Tokens are stateless: nothing is stored server-side and
// nothing can revoke a token before it expires.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/kapal-registry/internal/dependencies/clock"
	"github.com/mcoot/kapal-registry/internal/model"
)

// Errors
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity carried by a session token
type Claims struct {
	UserID model.UserID `json:"id_user"`
	Role   model.Role   `json:"role"`
}

// Codec signs and verifies session tokens
type Codec interface {
	Sign(claims Claims) (string, error)
	Verify(token string) (Claims, error)
}

// Config holds configuration for the JWT codec
type Config struct {
	Secret []byte
	// TTL is the token lifetime. Zero issues tokens without an expiry.
	TTL time.Duration
}

// DefaultTTL is the lifetime used when none is configured
const DefaultTTL = 24 * time.Hour

type jwtClaims struct {
	jwt.RegisteredClaims
	UserID model.UserID `json:"id_user"`
	Role   model.Role   `json:"role"`
}

// JWTCodec is an HS256 implementation of Codec
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// Ensure JWTCodec implements Codec
var _ Codec = (*JWTCodec)(nil)

// NewJWTCodec creates a codec signing with the given secret
func NewJWTCodec(cfg Config, clk clock.Clock) (*JWTCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	return &JWTCodec{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		clock:  clk,
	}, nil
}

// Sign issues a token for the given claims
func (c *JWTCodec) Sign(claims Claims) (string, error) {
	now := c.clock.Now()

	registered := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: registered,
		UserID:           claims.UserID,
		Role:             claims.Role,
	})
	return tok.SignedString(c.secret)
}

// Verify checks the token signature and expiry and returns its claims.
// Every failure is reported as ErrInvalidToken.
func (c *JWTCodec) Verify(token string) (Claims, error) {
	parsed := &jwtClaims{}
	tok, err := jwt.ParseWithClaims(token, parsed,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: parsed.UserID, Role: parsed.Role}, nil
}

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>".
func ParseBearer(header string) (string, error) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	tok = strings.TrimSpace(tok)
	if tok == "" || strings.ContainsAny(tok, " \t") {
		return "", ErrMissingToken
	}
	return tok, nil
}
