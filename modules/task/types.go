package task

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/task-tracker/domain/task"
)

// ServiceError carries a failed task operation back to the caller inside
// the reply. An empty Kind marks an internal failure.
type ServiceError struct {
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func newServiceError(err error) *ServiceError {
	var e *domain.Error
	if errors.As(err, &e) {
		return &ServiceError{Kind: string(e.Kind), Field: e.Field, Message: e.Message}
	}
	return &ServiceError{Message: err.Error()}
}

// Err rebuilds the typed task error, or a plain error for internal failures.
func (e *ServiceError) Err() error {
	if e.Kind == "" {
		return errors.New(e.Message)
	}
	return &domain.Error{Kind: domain.Kind(e.Kind), Field: e.Field, Message: e.Message}
}

// CreateTaskRequest is the request for creating a task. OwnerID is always
// the authenticated requester; it is never taken from the client payload.
type CreateTaskRequest struct {
	OwnerID     string  `json:"owner_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// ListTasksRequest is the request for listing tasks. Empty Status or
// Priority means the filter was not supplied.
type ListTasksRequest struct {
	OwnerID  string `json:"owner_id"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
	Error *ServiceError  `json:"error,omitempty"`
}

// UpdateTaskRequest is the request for updating a task. Replace marks a
// full update, which requires title, description and due_date.
type UpdateTaskRequest struct {
	TaskID      string  `json:"task_id"`
	OwnerID     string  `json:"owner_id"`
	Replace     bool    `json:"replace"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// DeleteTaskRequest is the request for soft-deleting a task.
type DeleteTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// DeleteTaskResponse is the response for soft-deleting a task.
type DeleteTaskResponse struct {
	Deleted bool          `json:"deleted"`
	Message string        `json:"message"`
	Error   *ServiceError `json:"error,omitempty"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	Error *ServiceError `json:"error,omitempty"`
}

// TaskPort defines the interface for task operations (hexagonal port).
// Driving adapters such as the HTTP API use it to reach the task module.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID, ownerID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID, ownerID string) error
}
