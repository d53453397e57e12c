package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
	"github.com/hearthhq/hearth/internal/websocket"
)

type GroceryHandler struct {
	groceryStore *store.GroceryStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, hub *websocket.Hub, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{groceryStore: gs, hub: hub, logger: logger}
}

func (h *GroceryHandler) broadcast(householdID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(householdID, msg)
	}
}

type groceryRequest struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	NeededBy *time.Time `json:"needed_by"`
}

func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	neededBy := time.Now().AddDate(0, 0, 7)
	if req.NeededBy != nil {
		neededBy = *req.NeededBy
	}

	householdID := auth.HouseholdID(r.Context())
	item, err := h.groceryStore.Create(householdID, auth.UserID(r.Context()),
		req.Name, model.ParseGroceryCategory(req.Category), neededBy)
	if err != nil {
		h.logger.Error("failed to create grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("grocery_item", "created", item.ID, nil))

	writeJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.groceryStore.ListByHousehold(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list grocery items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list items"})
		return
	}
	if items == nil {
		items = []model.GroceryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *GroceryHandler) ToggleChecked(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	item, err := h.groceryStore.ToggleChecked(existing.ID)
	if err != nil {
		h.logger.Error("failed to toggle checked", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle checked"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.broadcast(existing.HouseholdID, websocket.NewMessage("grocery_item", "checked", item.ID, map[string]any{
		"checked": item.Checked,
	}))

	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := h.groceryStore.Delete(existing.ID); err != nil {
		h.logger.Error("failed to delete grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.broadcast(existing.HouseholdID, websocket.NewMessage("grocery_item", "deleted", existing.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *GroceryHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	count, err := h.groceryStore.ClearChecked(householdID)
	if err != nil {
		h.logger.Error("failed to clear checked items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear checked"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("grocery_item", "cleared", 0, map[string]any{
		"count": count,
	}))

	writeJSON(w, http.StatusOK, map[string]int64{"cleared": count})
}

func (h *GroceryHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.GroceryItem, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	item, err := h.groceryStore.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load grocery item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load item"})
		return nil, false
	}
	if item == nil || item.HouseholdID != auth.HouseholdID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return nil, false
	}
	return item, true
}
