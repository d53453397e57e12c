package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *sql.DB, *auth.TokenService) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenService("test-secret")
	h := NewAuthHandler(store.NewUserStore(db), store.NewHouseholdStore(db), tokens, slog.Default())
	return h, db, tokens
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestRegisterCreatesHouseholdAndGuardian(t *testing.T) {
	h, _, tokens := setupAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", map[string]string{
		"email":          "alice@example.com",
		"password":       "hunter2hunter2",
		"name":           "Alice",
		"household_name": "The Smiths",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Role != model.RoleGuardian {
		t.Errorf("role = %q, want guardian", resp.User.Role)
	}
	if resp.Household.Name != "The Smiths" {
		t.Errorf("household = %q", resp.Household.Name)
	}
	if len(resp.Household.InviteCode) != 8 {
		t.Errorf("invite code = %q, want 8 characters", resp.Household.InviteCode)
	}

	claims, err := tokens.ParseAccess(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse issued access token: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != model.RoleGuardian {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegisterWithInviteCodeJoinsAsMember(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter2hunter2",
		"name":     "Alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("guardian register status = %d", rec.Code)
	}
	var first authResponse
	json.Unmarshal(rec.Body.Bytes(), &first)

	rec = postJSON(t, h.Register, "/api/auth/register", map[string]string{
		"email":       "bob@example.com",
		"password":    "hunter2hunter2",
		"name":        "Bob",
		"invite_code": first.Household.InviteCode,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("member register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var second authResponse
	json.Unmarshal(rec.Body.Bytes(), &second)

	if second.User.Role != model.RoleMember {
		t.Errorf("role = %q, want member", second.User.Role)
	}
	if second.Household.ID != first.Household.ID {
		t.Errorf("joined household %d, want %d", second.Household.ID, first.Household.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"bad email", map[string]string{"email": "nope", "password": "hunter2hunter2", "name": "A"}, http.StatusBadRequest},
		{"short password", map[string]string{"email": "a@b.com", "password": "short", "name": "A"}, http.StatusBadRequest},
		{"missing name", map[string]string{"email": "a@b.com", "password": "hunter2hunter2"}, http.StatusBadRequest},
		{"unknown invite code", map[string]string{"email": "a@b.com", "password": "hunter2hunter2", "name": "A", "invite_code": "NOPE1234"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, "/api/auth/register", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	body := map[string]string{"email": "alice@example.com", "password": "hunter2hunter2", "name": "Alice"}
	if rec := postJSON(t, h.Register, "/api/auth/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}
	if rec := postJSON(t, h.Register, "/api/auth/register", body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	h, _, tokens := setupAuthHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", map[string]string{
		"email": "alice@example.com", "password": "hunter2hunter2", "name": "Alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	rec = postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var login authResponse
	json.Unmarshal(rec.Body.Bytes(), &login)

	rec = postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}

	rec = postJSON(t, h.Refresh, "/api/auth/refresh", map[string]string{
		"refresh_token": login.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", rec.Code, rec.Body.String())
	}
	var refreshed map[string]string
	json.Unmarshal(rec.Body.Bytes(), &refreshed)
	if _, err := tokens.ParseAccess(refreshed["access_token"]); err != nil {
		t.Errorf("refreshed access token invalid: %v", err)
	}

	rec = postJSON(t, h.Refresh, "/api/auth/refresh", map[string]string{
		"refresh_token": login.AccessToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token status = %d, want 401", rec.Code)
	}
}
