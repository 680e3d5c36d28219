package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sullendaAPI/internal/notification"
	"sullendaAPI/middleware"
)

type DeviceRegistry interface {
	RegisterDevice(ctx context.Context, ownerID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error)
	Notify(ctx context.Context, p notification.Push) error
}

type NotificationHandler struct {
	devices DeviceRegistry
	log     *zap.Logger
}

func NewNotificationHandler(devices DeviceRegistry, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{devices: devices, log: log}
}

// POST /api/v1/notifications/register-device - Register device token for push notifications
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req notification.RegisterDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	device, err := h.devices.RegisterDevice(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, device)
}

// POST /api/v1/notifications/test - Test notification (for development)
func (h *NotificationHandler) SendTestNotification(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	err := h.devices.Notify(ctx, notification.Push{
		OwnerID: clerkID,
		Kind:    notification.KindTest,
		Title:   "Test notification",
		Body:    "Push notifications are working.",
	})
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Test notification queued"})
}
