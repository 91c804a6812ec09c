package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	a := NewAuthenticator("test-secret")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		id, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Fatalf("user id not in context")
		}
		if id != "u-42" {
			t.Fatalf("user id from context = %q, want u-42", id)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer "+a.AccessToken("u-42"))

	handler := a.Middleware(next)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_WithoutToken(t *testing.T) {
	a := NewAuthenticator("test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)

	handler := a.Middleware(next)
	handler.ServeHTTP(w, r)

	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_TamperedSignature(t *testing.T) {
	a := NewAuthenticator("test-secret")
	forged := NewAuthenticator("other-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer "+forged.AccessToken("u-42"))

	a.Middleware(next).ServeHTTP(w, r)

	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthenticator_ParseRejectsGarbage(t *testing.T) {
	a := NewAuthenticator("test-secret")

	for _, token := range []string{"", "abc", "u-1.notanumber", "u-1.123", strings.Repeat(".", 5)} {
		if _, ok := a.Parse(token); ok {
			t.Fatalf("token %q must be rejected", token)
		}
	}
}

func TestRequireRole(t *testing.T) {
	roles := map[string]model.Role{
		"u-user":  model.RoleUser,
		"u-admin": model.RoleAdmin,
	}
	roleOf := func(userID string) (model.Role, bool) {
		role, ok := roles[userID]
		return role, ok
	}

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{name: "admin passes", userID: "u-admin", want: http.StatusOK},
		{name: "user is forbidden", userID: "u-user", want: http.StatusForbidden},
		{name: "unknown user is forbidden", userID: "u-ghost", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/admin", nil)
			r = r.WithContext(WithUserID(r.Context(), tt.userID))

			RequireRole(model.RoleAdmin, roleOf)(next).ServeHTTP(w, r)

			res := w.Result()
			defer res.Body.Close()
			if res.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", res.StatusCode, tt.want)
			}
		})
	}
}
