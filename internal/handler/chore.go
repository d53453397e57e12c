package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
	"github.com/hearthhq/hearth/internal/websocket"
)

type ChoreHandler struct {
	choreStore *store.ChoreStore
	userStore  *store.UserStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, us *store.UserStore, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{choreStore: cs, userStore: us, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(householdID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(householdID, msg)
	}
}

type choreRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  *int64     `json:"assigned_to"`
	StartTime   *time.Time `json:"start_time"`
	DueDate     time.Time  `json:"due_date"`
	Points      int        `json:"points"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.DueDate.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "due_date is required"})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	if req.AssignedTo != nil {
		member, err := h.userStore.GetByID(*req.AssignedTo)
		if err != nil {
			h.logger.Error("failed to check assignee", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create chore"})
			return
		}
		if member == nil || member.HouseholdID != householdID {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assignee not found"})
			return
		}
	}

	chore, err := h.choreStore.Create(householdID, auth.UserID(r.Context()), req.Title,
		req.Description, req.AssignedTo, req.StartTime, req.DueDate, req.Points)
	if err != nil {
		h.logger.Error("failed to create chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create chore"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("chore", "created", chore.ID, nil))

	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())

	var chores []model.Chore
	var err error
	if completedParam := r.URL.Query().Get("completed"); completedParam != "" {
		completed, parseErr := strconv.ParseBool(completedParam)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid completed filter"})
			return
		}
		chores, err = h.choreStore.ListByCompleted(householdID, completed)
	} else {
		chores, err = h.choreStore.ListByHousehold(householdID)
	}
	if err != nil {
		h.logger.Error("failed to list chores", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list chores"})
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

// Pending lists the household's incomplete chores.
func (h *ChoreHandler) Pending(w http.ResponseWriter, r *http.Request) {
	chores, err := h.choreStore.ListByCompleted(auth.HouseholdID(r.Context()), false)
	if err != nil {
		h.logger.Error("failed to list pending chores", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list chores"})
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete chore"})
		return
	}
	if existing == nil || existing.HouseholdID != householdID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	chore, err := h.choreStore.Complete(id)
	if err != nil {
		h.logger.Error("failed to complete chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete chore"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("chore", "completed", chore.ID, nil))

	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete chore"})
		return
	}
	if existing == nil || existing.HouseholdID != householdID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	if err := h.choreStore.Delete(id); err != nil {
		h.logger.Error("failed to delete chore", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete chore"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("chore", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

// Leaderboard sums completed chore points per assignee.
func (h *ChoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	points, err := h.choreStore.Leaderboard(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("failed to build leaderboard", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build leaderboard"})
		return
	}

	type entry struct {
		UserID int64 `json:"user_id"`
		Points int   `json:"points"`
	}
	entries := make([]entry, 0, len(points))
	for userID, p := range points {
		entries = append(entries, entry{UserID: userID, Points: p})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	writeJSON(w, http.StatusOK, entries)
}
