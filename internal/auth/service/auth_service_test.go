package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"collab-canvas/backend/internal/security"
	userrepo "collab-canvas/backend/internal/user/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestAuthService(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()
	codec := security.NewTokenCodec(testSecret, ttl)
	return NewAuthService(userrepo.NewMemoryRepository(), codec, security.NewRevocationStore(), security.NewHasher(4))
}

func registerAndLogin(t *testing.T, s *AuthService) *AuthResult {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Register(ctx, "alice@example.com", "hunter2hunter2", "alice"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := s.Login(ctx, "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return res
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice@example.com", "hunter2hunter2", "alice"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := s.Register(ctx, "Alice@Example.com", "hunter2hunter2", "alice2")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Errorf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestAuthService_Register_RejectsInvalidInput(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	ctx := context.Background()

	if _, err := s.Register(ctx, "not-an-email", "hunter2hunter2", "x"); err == nil {
		t.Error("Register with invalid email should fail")
	}
	if _, err := s.Register(ctx, "bob@example.com", "short", "x"); err == nil {
		t.Error("Register with short password should fail")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice@example.com", "hunter2hunter2", "alice"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx, "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Validate_RoundTrip(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	res := registerAndLogin(t, s)

	subjectID, err := s.Validate(res.Token, time.Now().UTC())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if subjectID != res.UserID {
		t.Errorf("subjectID = %q, want %q", subjectID, res.UserID)
	}
}

func TestAuthService_Validate_Malformed(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	now := time.Now().UTC()

	// Even a revoked garbage string is invalid for being malformed, not revoked.
	s.revoked.Revoke("garbage")
	if _, err := s.Validate("garbage", now); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_Validate_ExpiredNeverRevoked(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	res := registerAndLogin(t, s)

	after := res.ExpiresAt.Add(time.Millisecond)
	if _, err := s.Validate(res.Token, after); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}
	// Boundary: expiresAt <= now counts as expired.
	if _, err := s.Validate(res.Token, res.ExpiresAt); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token at exact expiry: err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_LogoutRevokesUntilExpiry(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	res := registerAndLogin(t, s)
	now := time.Now().UTC()

	s.Logout(res.Token)

	for _, at := range []time.Time{now, now.Add(30 * time.Minute), res.ExpiresAt.Add(-time.Second)} {
		if _, err := s.Validate(res.Token, at); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate at %v after logout: err = %v, want ErrInvalidToken", at, err)
		}
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	res := registerAndLogin(t, s)

	s.Logout(res.Token)
	s.Logout(res.Token)
	s.Logout("") // missing token is "already logged out"
	s.Logout("complete garbage")

	if got := s.revoked.Len(); got != 1 {
		t.Errorf("revocation entries = %d, want 1", got)
	}
}

func TestAuthService_Logout_ExpiredTokenStillRevocable(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.nowF = func() time.Time { return t0 }
	res := registerAndLogin(t, s)

	// Past expiry the token still decodes, so logout records the revocation.
	s.Logout(res.Token)
	if !s.revoked.IsRevoked(res.Token) {
		t.Error("expired token should still be revocable")
	}
}

func TestAuthService_SweepDropsRevokedTokenAfterExpiry(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.nowF = func() time.Time { return t0 }
	res := registerAndLogin(t, s) // expiresAt = t0 + 1h

	s.Logout(res.Token)

	s.Sweep(t0.Add(30 * time.Minute))
	if _, err := s.Validate(res.Token, t0.Add(30*time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Error("revoked token must stay invalid after an early sweep")
	}

	if removed := s.Sweep(t0.Add(61 * time.Minute)); removed != 1 {
		t.Errorf("late sweep removed %d entries, want 1", removed)
	}
	if s.revoked.IsRevoked(res.Token) {
		t.Error("expired entry should be gone after sweep")
	}
}

func TestAuthService_ResolveCurrentSubject(t *testing.T) {
	s := newTestAuthService(t, time.Hour)
	res := registerAndLogin(t, s)
	now := time.Now().UTC()

	subjectID, err := s.ResolveCurrentSubject(res.Token, now)
	if err != nil {
		t.Fatalf("ResolveCurrentSubject: %v", err)
	}
	if subjectID != res.UserID {
		t.Errorf("subjectID = %q, want %q", subjectID, res.UserID)
	}

	if _, err := s.ResolveCurrentSubject("garbage", now); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
	s.Logout(res.Token)
	if _, err := s.ResolveCurrentSubject(res.Token, now); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("revoked token: err = %v, want ErrUnauthenticated", err)
	}
}
