package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/schedule"
	"github.com/hearthhq/hearth/internal/websocket"
)

type ScheduleHandler struct {
	service *schedule.Service
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewScheduleHandler(svc *schedule.Service, hub *websocket.Hub, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{service: svc, hub: hub, logger: logger}
}

type scheduleRequest struct {
	Text string `json:"text"`
}

// Process interprets free-form text into household items. The response
// is always 200; the interpreter reports its own outcome in the body.
func (h *ScheduleHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	resp := h.service.ProcessText(r.Context(), req.Text, householdID, auth.UserID(r.Context()))

	if total := resp.ChoresCreated + resp.EventsCreated + resp.MedicationsCreated + resp.GroceriesCreated; total > 0 {
		if h.hub != nil {
			h.hub.Broadcast(householdID, websocket.NewMessage("schedule", "processed", 0, map[string]any{
				"chores":      resp.ChoresCreated,
				"events":      resp.EventsCreated,
				"medications": resp.MedicationsCreated,
				"groceries":   resp.GroceriesCreated,
			}))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
