package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"collab-canvas/backend/internal/security"
	userdomain "collab-canvas/backend/internal/user/domain"
)

// Sentinel errors for the auth service; handlers map them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrUnauthenticated        = errors.New("unauthenticated")
)

// AuthResult holds the outcome of Login: the encoded session token, its expiry,
// and the authenticated user.
type AuthResult struct {
	Token       string
	ExpiresAt   time.Time
	UserID      string
	DisplayName string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// AuthService issues, validates, and revokes session tokens, and implements
// signup and login. It composes the token codec with the shared revocation
// store; both are injected at construction, never reached through globals.
type AuthService struct {
	userRepo UserRepo
	codec    *security.TokenCodec
	revoked  *security.RevocationStore
	hasher   *security.Hasher
	nowF     func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(userRepo UserRepo, codec *security.TokenCodec, revoked *security.RevocationStore, hasher *security.Hasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
		revoked:  revoked,
		hasher:   hasher,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user with the given email, password, and display name.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*userdomain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    s.nowF(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates with email/password and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.codec.Issue(user.ID, s.nowF())
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	}, nil
}

// Validate answers whether encoded is currently authoritative and for whom.
// Checks run in a fixed order: structural decode, then expiry, then
// revocation — a malformed token is invalid regardless of revocation state.
// Returns the subject id on success and ErrInvalidToken on any failure.
func (s *AuthService) Validate(encoded string, now time.Time) (string, error) {
	tok, err := s.codec.Decode(encoded)
	if err != nil {
		return "", ErrInvalidToken
	}
	if tok.Expired(now) {
		return "", ErrInvalidToken
	}
	if s.revoked.IsRevoked(encoded) {
		return "", ErrInvalidToken
	}
	return tok.SubjectID, nil
}

// Logout revokes encoded if it decodes successfully, expiry included — an
// expired token can still be explicitly revoked. A token that does not decode
// is treated as already logged out. Logout never fails.
func (s *AuthService) Logout(encoded string) {
	if encoded == "" {
		return
	}
	if _, err := s.codec.Decode(encoded); err != nil {
		return
	}
	s.revoked.Revoke(encoded)
}

// ResolveCurrentSubject wraps Validate behind the externally visible
// ErrUnauthenticated. Every mutating operation resolves the acting subject
// through this method and passes it down as an explicit parameter.
func (s *AuthService) ResolveCurrentSubject(encoded string, now time.Time) (string, error) {
	subjectID, err := s.Validate(encoded, now)
	if err != nil {
		return "", ErrUnauthenticated
	}
	return subjectID, nil
}

// Sweep drops revoked entries whose tokens have expired by now.
func (s *AuthService) Sweep(now time.Time) int {
	return s.revoked.Sweep(now, s.codec)
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
