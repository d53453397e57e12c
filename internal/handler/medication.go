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

type MedicationHandler struct {
	medicationStore *store.MedicationStore
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewMedicationHandler(ms *store.MedicationStore, hub *websocket.Hub, logger *slog.Logger) *MedicationHandler {
	return &MedicationHandler{medicationStore: ms, hub: hub, logger: logger}
}

func (h *MedicationHandler) broadcast(householdID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(householdID, msg)
	}
}

type medicationRequest struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	Morning      bool   `json:"morning"`
	Afternoon    bool   `json:"afternoon"`
	Evening      bool   `json:"evening"`
	Inventory    int    `json:"inventory"`
	AssignedTo   *int64 `json:"assigned_to"`
}

func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Inventory < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "inventory cannot be negative"})
		return
	}

	householdID := auth.HouseholdID(r.Context())
	medication, err := h.medicationStore.Create(householdID, req.Name, req.Dosage,
		req.Instructions, req.Morning, req.Afternoon, req.Evening, req.Inventory, req.AssignedTo)
	if err != nil {
		h.logger.Error("failed to create medication", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create medication"})
		return
	}

	h.broadcast(householdID, websocket.NewMessage("medication", "created", medication.ID, nil))

	writeJSON(w, http.StatusCreated, medication)
}

func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	medications, err := h.medicationStore.ListByHousehold(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list medications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list medications"})
		return
	}
	if medications == nil {
		medications = []model.Medication{}
	}
	writeJSON(w, http.StatusOK, medications)
}

type medicationLogRequest struct {
	MedicationID  int64      `json:"medication_id"`
	Status        string     `json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	Notes         string     `json:"notes"`
}

// Log records a dose. A taken dose decrements inventory, stopping at zero.
func (h *MedicationHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req medicationLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	medication, err := h.medicationStore.GetByID(req.MedicationID)
	if err != nil {
		h.logger.Error("failed to load medication", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load medication"})
		return
	}
	if medication == nil || medication.HouseholdID != auth.HouseholdID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "medication not found"})
		return
	}

	status := model.ParseMedicationLogStatus(req.Status)
	householdID := auth.HouseholdID(r.Context())
	entry, err := h.medicationStore.CreateLog(medication.ID, auth.UserID(r.Context()),
		householdID, status, req.ScheduledTime, time.Now().UTC(), req.Notes)
	if err != nil {
		h.logger.Error("failed to log dose", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to log dose"})
		return
	}

	if status == model.DoseTaken && medication.Inventory > 0 {
		if _, err := h.medicationStore.UpdateInventory(medication.ID, medication.Inventory-1); err != nil {
			h.logger.Error("failed to decrement inventory", "error", err)
		}
	}

	h.broadcast(householdID, websocket.NewMessage("medication", "logged", medication.ID, map[string]any{
		"status": string(status),
	}))

	writeJSON(w, http.StatusCreated, entry)
}

func (h *MedicationHandler) Logs(w http.ResponseWriter, r *http.Request) {
	medication, ok := h.ownedMedication(w, r)
	if !ok {
		return
	}

	logs, err := h.medicationStore.ListLogs(medication.ID)
	if err != nil {
		h.logger.Error("failed to list dose logs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list logs"})
		return
	}
	if logs == nil {
		logs = []model.MedicationLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *MedicationHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	medication, ok := h.ownedMedication(w, r)
	if !ok {
		return
	}

	var req struct {
		Inventory int `json:"inventory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Inventory < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "inventory cannot be negative"})
		return
	}

	updated, err := h.medicationStore.UpdateInventory(medication.ID, req.Inventory)
	if err != nil {
		h.logger.Error("failed to update inventory", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update inventory"})
		return
	}

	h.broadcast(auth.HouseholdID(r.Context()), websocket.NewMessage("medication", "updated", medication.ID, nil))

	writeJSON(w, http.StatusOK, updated)
}

func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	medication, ok := h.ownedMedication(w, r)
	if !ok {
		return
	}

	if err := h.medicationStore.Delete(medication.ID); err != nil {
		h.logger.Error("failed to delete medication", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete medication"})
		return
	}

	h.broadcast(auth.HouseholdID(r.Context()), websocket.NewMessage("medication", "deleted", medication.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *MedicationHandler) ownedMedication(w http.ResponseWriter, r *http.Request) (*model.Medication, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	medication, err := h.medicationStore.GetByID(id)
	if err != nil {
		h.logger.Error("failed to load medication", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load medication"})
		return nil, false
	}
	if medication == nil || medication.HouseholdID != auth.HouseholdID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "medication not found"})
		return nil, false
	}
	return medication, true
}
