package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hearthhq/hearth/internal/auth"
)

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	access, _, err := tokens.IssuePair(42, 7, "guardian")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	var gotCtx auth.AuthContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtx, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	wrapped := RequireAuth(tokens)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + access, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/chores", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if gotCtx.UserID != 42 || gotCtx.HouseholdID != 7 || gotCtx.Role != "guardian" {
		t.Errorf("auth context = %+v", gotCtx)
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	_, refresh, err := tokens.IssuePair(1, 1, "member")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	wrapped := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a refresh token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/chores", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireGuardian(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := RequireGuardian(next)

	guardianReq := httptest.NewRequest(http.MethodPost, "/api/ai/schedule", nil)
	guardianReq = guardianReq.WithContext(auth.WithAuth(guardianReq.Context(), auth.AuthContext{
		UserID: 1, HouseholdID: 1, Role: "guardian",
	}))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, guardianReq)
	if rec.Code != http.StatusOK {
		t.Errorf("guardian status = %d, want 200", rec.Code)
	}

	memberReq := httptest.NewRequest(http.MethodPost, "/api/ai/schedule", nil)
	memberReq = memberReq.WithContext(auth.WithAuth(memberReq.Context(), auth.AuthContext{
		UserID: 2, HouseholdID: 1, Role: "member",
	}))
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, memberReq)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member status = %d, want 403", rec.Code)
	}
}
