package handler

import (
	"errors"
	"net/http"

	"taskly_backend/internal/httputil"
	"taskly_backend/internal/model"
	"taskly_backend/internal/service"
	"taskly_backend/internal/transport/http/middleware"
)

// HistoryHandler exposes the audit trail endpoints.
type HistoryHandler struct {
	historyService *service.HistoryService
}

func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List returns the authenticated user's history, newest first
// GET /history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	entries, err := h.historyService.List(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list history")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entries)
}

// Delete removes a single history entry
// DELETE /history/{id}
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	entryID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid history entry ID")
		return
	}

	if err := h.historyService.Delete(r.Context(), entryID, userID); err != nil {
		if errors.Is(err, model.ErrHistoryEntryNotFound) {
			httputil.WriteNotFound(w, "History entry not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete history entry")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}

// Clear removes all history for the authenticated user
// DELETE /history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.historyService.Clear(r.Context(), userID); err != nil {
		httputil.WriteInternalError(w, "Failed to clear history")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "All history cleared"})
}
