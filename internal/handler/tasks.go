package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/view"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	repo   *task.Repository
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(repo *task.Repository, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		repo:   repo,
		logger: logger,
	}
}

// List handles GET /api/v1/tasks. The search and status query parameters
// apply the view-model projection server-side.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Err(); err != nil {
		h.logger.Error("task_state_error", "error", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Task collection unavailable")
		return
	}

	query := r.URL.Query()

	status := view.StatusAll
	if s := query.Get("status"); s != "" {
		status = view.Status(s)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be all, active or completed")
			return
		}
	}

	projected := view.Project(h.repo.List(), query.Get("search"), status)
	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(projected))
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := h.repo.Add(r.Context(), task.AddInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Completed:   req.Completed,
	})
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToTaskResponse(created))
}

// Update handles PUT /api/v1/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Task ID is required")
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
		return
	}

	updated, err := h.repo.Update(r.Context(), model.Task{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Completed:   req.Completed,
	})
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(updated))
}

// Delete handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Task ID is required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.handleTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/v1/tasks/{id}/toggle.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Task ID is required")
		return
	}

	toggled, err := h.repo.ToggleComplete(r.Context(), id)
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(toggled))
}

// handleTaskError maps repository errors to HTTP responses.
func (h *TaskHandler) handleTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrNoActiveSession):
		writeError(w, http.StatusUnauthorized, "NO_ACTIVE_SESSION", "Sign in first")
	case errors.Is(err, task.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	case errors.Is(err, task.ErrEmptyTitle):
		writeError(w, http.StatusUnprocessableEntity, "EMPTY_TITLE", "Task title must not be empty")
	case errors.Is(err, task.ErrInvalidPriority):
		writeError(w, http.StatusBadRequest, "INVALID_PRIORITY", "Priority must be low, medium or high")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "An internal error occurred")
	}
}
