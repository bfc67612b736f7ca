package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Store is the persistence port used by Service.
type Store interface {
	Create(ctx context.Context, ownerID string, fields domain.Fields) (*domain.Task, error)
	Get(ctx context.Context, id, ownerID string) (*domain.Task, error)
	List(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error)
	Exists(ctx context.Context, ownerID string, filter domain.Filter) (bool, error)
	Update(ctx context.Context, id, ownerID string, fields domain.Fields, full bool) (*domain.Task, error)
	SoftDelete(ctx context.Context, id, ownerID string) error
}

// Compile-time interface check.
var _ Store = (*Repository)(nil)

// DeletedMessage confirms a soft delete.
const DeletedMessage = "Task soft-deleted successfully."

// Service implements the task operations on behalf of an authenticated owner.
type Service struct {
	store  Store
	bus    mono.EventBus
	logger types.Logger
}

// NewService creates a new Service. bus may be nil, in which case no
// events are published.
func NewService(store Store, bus mono.EventBus, logger types.Logger) *Service {
	return &Service{store: store, bus: bus, logger: logger}
}

// Create stores a new task owned by req.OwnerID.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if err := requireOwner(req.OwnerID); err != nil {
		return nil, err
	}
	fields, err := toFields(req.Title, req.Description, req.DueDate, req.Priority, req.Status)
	if err != nil {
		return nil, err
	}

	t, err := s.store.Create(ctx, req.OwnerID, fields)
	if err != nil {
		return nil, err
	}

	s.publish("TaskCreated", t.ID, func() error {
		return events.TaskCreatedV1.Publish(s.bus, events.TaskCreatedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Status:    string(t.Status),
			DueDate:   t.DueDate,
			CreatedAt: t.CreatedAt,
		}, nil)
	})
	return t, nil
}

// Get returns a visible task.
func (s *Service) Get(ctx context.Context, req GetTaskRequest) (*domain.Task, error) {
	if err := requireOwner(req.OwnerID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, req.TaskID, req.OwnerID)
}

// List validates the filter, then returns the owner's matching tasks.
//
// A supplied status or priority that matches none of the owner's tasks is
// reported as not found rather than as an empty list. Each predicate is
// checked on its own; when both are supplied and each matches something,
// their combination may still be empty.
func (s *Service) List(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	if err := requireOwner(req.OwnerID); err != nil {
		return nil, err
	}
	filter, err := domain.ParseFilter(req.Status, req.Priority)
	if err != nil {
		return nil, err
	}

	if filter.Status != nil {
		ok, err := s.store.Exists(ctx, req.OwnerID, filter.StatusOnly())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.NotFound(fmt.Sprintf("No tasks found with status: %s", *filter.Status))
		}
	}
	if filter.Priority != nil {
		ok, err := s.store.Exists(ctx, req.OwnerID, filter.PriorityOnly())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.NotFound(fmt.Sprintf("No tasks found with priority: %s", *filter.Priority))
		}
	}

	return s.store.List(ctx, req.OwnerID, filter)
}

// Update applies a full or partial update to a visible task.
func (s *Service) Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	if err := requireOwner(req.OwnerID); err != nil {
		return nil, err
	}
	fields, err := toFields(req.Title, req.Description, req.DueDate, req.Priority, req.Status)
	if err != nil {
		return nil, err
	}

	t, err := s.store.Update(ctx, req.TaskID, req.OwnerID, fields, req.Replace)
	if err != nil {
		return nil, err
	}

	if changed := changedColumns(fields); len(changed) > 0 {
		s.publish("TaskUpdated", t.ID, func() error {
			return events.TaskUpdatedV1.Publish(s.bus, events.TaskUpdatedEvent{
				TaskID:    t.ID,
				OwnerID:   t.OwnerID,
				Changed:   changed,
				Status:    string(t.Status),
				UpdatedAt: time.Now(),
			}, nil)
		})
	}
	return t, nil
}

// Delete soft-deletes a visible task.
func (s *Service) Delete(ctx context.Context, req DeleteTaskRequest) error {
	if err := requireOwner(req.OwnerID); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, req.TaskID, req.OwnerID); err != nil {
		return err
	}

	s.publish("TaskDeleted", req.TaskID, func() error {
		return events.TaskDeletedV1.Publish(s.bus, events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			OwnerID:   req.OwnerID,
			DeletedAt: time.Now(),
		}, nil)
	})
	return nil
}

// publish emits an event if a bus is configured. Event publishing is
// best-effort; failures are logged and never fail the operation.
func (s *Service) publish(name, taskID string, emit func() error) {
	if s.bus == nil {
		return
	}
	if err := emit(); err != nil {
		s.logger.Warn("Failed to publish event", "event", name, "task_id", taskID, "error", err)
	}
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	return nil
}

func toFields(title, description, dueDate, priority, status *string) (domain.Fields, error) {
	fields := domain.Fields{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      status,
	}
	if dueDate != nil {
		due, err := domain.ParseDueDate(*dueDate)
		if err != nil {
			return domain.Fields{}, err
		}
		fields.DueDate = &due
	}
	return fields, nil
}

func changedColumns(fields domain.Fields) []string {
	cols := fields.Columns()
	names := make([]string, 0, len(cols))
	for _, name := range []string{"title", "description", "due_date", "priority", "status"} {
		if _, ok := cols[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}
