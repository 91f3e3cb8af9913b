package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token cannot be parsed or its signature does not verify.
	ErrMalformedToken = errors.New("malformed token")
)

// SessionToken is the decoded form of an encoded session token. Immutable once issued;
// two tokens are distinguished by their full encoded string, not by subject.
type SessionToken struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry is at or before now.
func (t *SessionToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HMAC-signed (HS256) session tokens carrying a
// subject id and an expiry instant. It holds no mutable state; all methods are
// safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec returns a TokenCodec signing with secret. ttl is the fixed
// lifetime applied to every issued token.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue produces an encoded token for subjectID with expiresAt = now + TTL.
func (c *TokenCodec) Issue(subjectID string, now time.Time) (encoded string, expiresAt time.Time, err error) {
	now = now.UTC()
	expiresAt = now.Add(c.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	encoded, err = t.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return encoded, expiresAt, nil
}

// Decode parses and verifies the signature of encoded and returns its claims.
// Expiry is deliberately not checked here: callers that need to interpret
// expired tokens (revocation sweep, logout) still get a decoded token back.
// Returns ErrMalformedToken if the structure or signature is invalid.
func (c *TokenCodec) Decode(encoded string) (*SessionToken, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(encoded, &sessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrMalformedToken
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}
	st := &SessionToken{
		SubjectID: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		st.IssuedAt = claims.IssuedAt.Time
	}
	return st, nil
}
