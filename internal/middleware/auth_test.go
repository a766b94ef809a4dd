package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/costumehub/costumehub-api/internal/pkg/session"
)

func okHandler(t *testing.T, wantAdminID uuid.UUID, wantEmail string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetAdminID(r.Context()); got != wantAdminID {
			t.Errorf("expected admin id %s in context, got %s", wantAdminID, got)
		}
		if got := GetAdminEmail(r.Context()); got != wantEmail {
			t.Errorf("expected admin email %q in context, got %q", wantEmail, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuthMissingCookie(t *testing.T) {
	sessions := session.NewService("test-secret", "costumehub_admin", time.Hour, false, nil)
	guarded := AdminAuth(sessions)(okHandler(t, uuid.Nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/items", nil)
	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a cookie, got %d", rr.Code)
	}
}

func TestAdminAuthGarbageCookie(t *testing.T) {
	sessions := session.NewService("test-secret", "costumehub_admin", time.Hour, false, nil)
	guarded := AdminAuth(sessions)(okHandler(t, uuid.Nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/items", nil)
	req.AddCookie(&http.Cookie{Name: "costumehub_admin", Value: "not-a-token"})
	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a garbage cookie, got %d", rr.Code)
	}
}

func TestAdminAuthWrongSigningKey(t *testing.T) {
	issuer := session.NewService("other-secret", "costumehub_admin", time.Hour, false, nil)
	sessions := session.NewService("test-secret", "costumehub_admin", time.Hour, false, nil)

	rec := httptest.NewRecorder()
	if _, err := issuer.Issue(rec, uuid.New(), "manager@costumehub.kz"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	guarded := AdminAuth(sessions)(okHandler(t, uuid.Nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/items", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a foreign-signed cookie, got %d", rr.Code)
	}
}

func TestAdminAuthValidSession(t *testing.T) {
	sessions := session.NewService("test-secret", "costumehub_admin", time.Hour, false, nil)
	adminID := uuid.New()

	rec := httptest.NewRecorder()
	if _, err := sessions.Issue(rec, adminID, "manager@costumehub.kz"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	guarded := AdminAuth(sessions)(okHandler(t, adminID, "manager@costumehub.kz"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/items", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid session, got %d", rr.Code)
	}
}
