package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskly_backend/internal/httputil"
	"taskly_backend/internal/model"
	"taskly_backend/internal/service"
	"taskly_backend/internal/transport/http/middleware"
)

// NotificationHandler exposes device push token registration.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterToken stores or refreshes the caller's Expo push token
// POST /devices/token
func (h *NotificationHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Token == "" {
		httputil.WriteBadRequest(w, "Token is required")
		return
	}

	if err := h.notificationService.RegisterDeviceToken(r.Context(), userID, req.Token, req.Platform); err != nil {
		if errors.Is(err, model.ErrInvalidPushToken) {
			httputil.WriteBadRequest(w, "Token is not a valid Expo push token")
			return
		}
		httputil.WriteInternalError(w, "Failed to register device token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Device token registered"})
}

// RemoveToken deletes a device token (e.g. on logout)
// DELETE /devices/token
func (h *NotificationHandler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Token == "" {
		httputil.WriteBadRequest(w, "Token is required")
		return
	}

	if err := h.notificationService.RemoveDeviceToken(r.Context(), req.Token); err != nil {
		httputil.WriteInternalError(w, "Failed to remove device token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Device token removed"})
}
