package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authservice "collab-canvas/backend/internal/auth/service"
	"collab-canvas/backend/internal/security"
	userrepo "collab-canvas/backend/internal/user/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestAuth(t *testing.T) (*authservice.AuthService, string) {
	t.Helper()
	svc := authservice.NewAuthService(
		userrepo.NewMemoryRepository(),
		security.NewTokenCodec(testSecret, time.Hour),
		security.NewRevocationStore(),
		security.NewHasher(4),
	)
	if _, err := svc.Register(context.Background(), "a@example.com", "password1", "A"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := svc.Login(context.Background(), "a@example.com", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return svc, res.Token
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"BEARER abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		if got := ExtractBearer(r); got != c.want {
			t.Errorf("ExtractBearer(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}

func TestAuthenticateSetsSubject(t *testing.T) {
	svc, token := newTestAuth(t)

	var gotSubject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = GetSubject(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	Authenticate(svc)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotSubject == "" {
		t.Fatal("expected subject id in request context")
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	svc, _ := newTestAuth(t)

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	rec := httptest.NewRecorder()
	Authenticate(svc)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler should not run for unauthenticated request")
	}
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	svc, token := newTestAuth(t)
	svc.Logout(token)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	Authenticate(svc)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGetSubjectUnset(t *testing.T) {
	if _, ok := GetSubject(context.Background()); ok {
		t.Fatal("GetSubject on empty context should report not ok")
	}
}
