package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

type HouseholdHandler struct {
	householdStore *store.HouseholdStore
	userStore      *store.UserStore
	logger         *slog.Logger
}

func NewHouseholdHandler(hs *store.HouseholdStore, us *store.UserStore, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{householdStore: hs, userStore: us, logger: logger}
}

type householdResponse struct {
	*model.Household
	Members []model.User `json:"members"`
}

// Get returns the caller's household with its members and invite code.
func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	household, err := h.householdStore.GetByID(householdID)
	if err != nil {
		h.logger.Error("failed to load household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load household"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}

	members, err := h.userStore.ListByHousehold(householdID)
	if err != nil {
		h.logger.Error("failed to list members", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load household"})
		return
	}
	if members == nil {
		members = []model.User{}
	}

	writeJSON(w, http.StatusOK, householdResponse{Household: household, Members: members})
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	household, err := h.householdStore.Update(auth.HouseholdID(r.Context()), req.Name)
	if err != nil {
		h.logger.Error("failed to update household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update household"})
		return
	}
	writeJSON(w, http.StatusOK, household)
}
