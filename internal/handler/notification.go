package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/push"
	"github.com/hearthhq/hearth/internal/store"
)

type NotificationHandler struct {
	deviceStore *store.DeviceStore
	pushService *push.Service
	logger      *slog.Logger
}

func NewNotificationHandler(ds *store.DeviceStore, ps *push.Service, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{deviceStore: ds, pushService: ps, logger: logger}
}

type deviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterDevice stores a mobile push token. Re-registering an existing
// token reassigns it to the caller.
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}

	device, err := h.deviceStore.RegisterToken(auth.UserID(r.Context()), req.Token, req.Platform)
	if err != nil {
		h.logger.Error("failed to register device", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to register device"})
		return
	}
	writeJSON(w, http.StatusCreated, device)
}

func (h *NotificationHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceStore.ListTokensByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list devices", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list devices"})
		return
	}
	if devices == nil {
		devices = []model.DeviceToken{}
	}
	writeJSON(w, http.StatusOK, devices)
}

func (h *NotificationHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.deviceStore.DeleteToken(id, auth.UserID(r.Context())); err != nil {
		h.logger.Error("failed to delete device", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete device"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe stores a browser web push subscription.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "endpoint and keys are required"})
		return
	}

	sub, err := h.deviceStore.CreateSubscription(auth.UserID(r.Context()), req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		h.logger.Error("failed to create subscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to subscribe"})
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.deviceStore.DeleteSubscription(id, auth.UserID(r.Context())); err != nil {
		h.logger.Error("failed to delete subscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to unsubscribe"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) GetVAPIDKey(w http.ResponseWriter, r *http.Request) {
	if h.pushService == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "push notifications not configured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.pushService.VAPIDPublicKey()})
}

// TestNotification sends a test push to every subscription the caller
// has, pruning expired ones along the way.
func (h *NotificationHandler) TestNotification(w http.ResponseWriter, r *http.Request) {
	if h.pushService == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "push notifications not configured"})
		return
	}

	subs, err := h.deviceStore.ListSubscriptionsByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("failed to list subscriptions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send test"})
		return
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		err := h.pushService.Send(r.Context(), sub, push.Payload{
			Title: "Hearth",
			Body:  "Push notifications are working!",
			Tag:   "test",
		})
		switch {
		case errors.Is(err, push.ErrExpired):
			if err := h.deviceStore.DeleteSubscription(sub.ID, sub.UserID); err != nil {
				h.logger.Warn("failed to prune expired subscription", "error", err)
			}
		case err != nil:
			h.logger.Warn("failed to send test push", "error", err)
		default:
			sent++
		}
	}

	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
