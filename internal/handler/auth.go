package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

type AuthHandler struct {
	userStore      *store.UserStore
	householdStore *store.HouseholdStore
	tokens         *auth.TokenService
	logger         *slog.Logger
}

func NewAuthHandler(us *store.UserStore, hs *store.HouseholdStore, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, householdStore: hs, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	HouseholdName string `json:"household_name"`
	InviteCode    string `json:"invite_code"`
}

type authResponse struct {
	User         *model.User      `json:"user"`
	Household    *model.Household `json:"household"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

// Register creates a user account. With an invite code the user joins an
// existing household as a member; otherwise a new household is created
// and the user becomes its guardian.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "valid email is required"})
		return
	}
	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("failed to check existing user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	}

	var household *model.Household
	role := model.RoleGuardian
	if code := strings.ToUpper(strings.TrimSpace(req.InviteCode)); code != "" {
		household, err = h.householdStore.GetByInviteCode(code)
		if err != nil {
			h.logger.Error("failed to look up invite code", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
			return
		}
		if household == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid invite code"})
			return
		}
		role = model.RoleMember
	} else {
		name := strings.TrimSpace(req.HouseholdName)
		if name == "" {
			name = req.Name + "'s Household"
		}
		household, err = h.householdStore.Create(name, newInviteCode())
		if err != nil {
			h.logger.Error("failed to create household", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	user, err := h.userStore.Create(req.Email, hash, req.Name, role, household.ID)
	if err != nil {
		h.logger.Error("failed to create user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.ID, user.HouseholdID, user.Role)
	if err != nil {
		h.logger.Error("failed to issue tokens", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register"})
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:         user,
		Household:    household,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	user, err := h.userStore.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to log in"})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}

	household, err := h.householdStore.GetByID(user.HouseholdID)
	if err != nil {
		h.logger.Error("failed to load household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to log in"})
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.ID, user.HouseholdID, user.Role)
	if err != nil {
		h.logger.Error("failed to issue tokens", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to log in"})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:         user,
		Household:    household,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// user is re-read so role changes take effect at rotation time.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	claims, err := h.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired refresh token"})
		return
	}

	user, err := h.userStore.GetByID(claims.UserID)
	if err != nil {
		h.logger.Error("failed to load user for refresh", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to refresh"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "account no longer exists"})
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.ID, user.HouseholdID, user.Role)
	if err != nil {
		h.logger.Error("failed to issue tokens", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to refresh"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// newInviteCode derives a short shareable code from a UUID.
func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
