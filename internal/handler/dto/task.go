package dto

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Completed   bool   `json:"completed"`
}

// Validate checks required fields and the priority enum.
func (r *CreateTaskRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateTaskRequest represents the request body for replacing a task.
type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Completed   bool   `json:"completed"`
}

// Validate checks required fields and the priority enum.
func (r *UpdateTaskRequest) Validate() error {
	return validate.Struct(r)
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTaskResponse converts a task to its API representation.
func ToTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskListResponse represents the projected task collection.
type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
}

// ToTaskListResponse converts a projected collection to its API
// representation.
func ToTaskListResponse(tasks []model.Task) TaskListResponse {
	data := make([]TaskResponse, len(tasks))
	for i := range tasks {
		data[i] = ToTaskResponse(&tasks[i])
	}
	return TaskListResponse{Data: data}
}
