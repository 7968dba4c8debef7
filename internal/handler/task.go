package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskly_backend/internal/httputil"
	"taskly_backend/internal/model"
	"taskly_backend/internal/service"
	"taskly_backend/internal/transport/http/middleware"
)

// TaskHandler groups task CRUD endpoints and their dependencies.
type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns the authenticated user's tasks
// GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list tasks")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tasks)
}

// Create adds a new task
// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, task)
}

// Update applies a partial update
// PATCH /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	taskID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid task ID")
		return
	}

	var req model.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.IsEmpty() {
		httputil.WriteBadRequest(w, "No valid fields to update")
		return
	}

	task, err := h.taskService.Update(r.Context(), taskID, userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			httputil.WriteNotFound(w, "Task not found")
			return
		}
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, task)
}

// Replace overwrites a task entirely
// PUT /tasks/{id}
func (h *TaskHandler) Replace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	taskID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid task ID")
		return
	}

	var req model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	task, err := h.taskService.Replace(r.Context(), taskID, userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			httputil.WriteNotFound(w, "Task not found")
			return
		}
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, task)
}

// Delete removes a task
// DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	taskID, err := parseID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid task ID")
		return
	}

	if err := h.taskService.Delete(r.Context(), taskID, userID); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			httputil.WriteNotFound(w, "Task not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete task")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
