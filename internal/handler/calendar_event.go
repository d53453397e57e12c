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

type CalendarEventHandler struct {
	eventStore *store.EventStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewCalendarEventHandler(es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *CalendarEventHandler {
	return &CalendarEventHandler{eventStore: es, hub: hub, logger: logger}
}

func (h *CalendarEventHandler) broadcast(householdID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(householdID, msg)
	}
}

type eventRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Type           string    `json:"type"`
	ParticipantIDs []int64   `json:"participant_ids"`
}

func (req *eventRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return "start_time and end_time are required"
	}
	if !req.EndTime.After(req.StartTime) {
		return "end_time must be after start_time"
	}
	return ""
}

func (h *CalendarEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	event, err := h.eventStore.Create(householdID, auth.UserID(r.Context()), req.Title,
		req.Description, req.StartTime, req.EndTime, model.ParseEventType(req.Type), req.ParticipantIDs)
	if err != nil {
		h.logger.Error("failed to create event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create event"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("calendar_event", "created", event.ID, nil))

	writeJSON(w, http.StatusCreated, event)
}

// List returns household events, optionally limited to those overlapping
// the start/end window (RFC 3339 query params).
func (h *CalendarEventHandler) List(w http.ResponseWriter, r *http.Request) {
	var start, end time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start"})
			return
		}
		start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end"})
			return
		}
		end = t
	}

	events, err := h.eventStore.ListByHousehold(auth.HouseholdID(r.Context()), start, end)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *CalendarEventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *CalendarEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	event, err := h.eventStore.Update(existing.ID, req.Title, req.Description,
		req.StartTime, req.EndTime, model.ParseEventType(req.Type))
	if err != nil {
		h.logger.Error("failed to update event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update event"})
		return
	}

	h.broadcast(existing.HouseholdID, websocket.NewMessage("calendar_event", "updated", event.ID, nil))

	writeJSON(w, http.StatusOK, event)
}

func (h *CalendarEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	if err := h.eventStore.Delete(existing.ID); err != nil {
		h.logger.Error("failed to delete event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete event"})
		return
	}

	h.broadcast(existing.HouseholdID, websocket.NewMessage("calendar_event", "deleted", existing.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

// ownedEvent loads the {id} event and checks it belongs to the caller's
// household, writing the error response itself when it does not.
func (h *CalendarEventHandler) ownedEvent(w http.ResponseWriter, r *http.Request) (*model.CalendarEvent, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	event, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load event"})
		return nil, false
	}
	if event == nil || event.HouseholdID != auth.HouseholdID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return nil, false
	}
	return event, true
}
