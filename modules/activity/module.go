package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// ServiceListActivity is the request-reply service returning recent activity.
const ServiceListActivity = "list-activity"

// Module records task lifecycle events per owner as a driven adapter.
type Module struct {
	store  *Store
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new activity module keeping history entries per owner.
func NewModule(history int, logger types.Logger) *Module {
	return &Module{
		store:  NewStore(history),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to task lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TaskCreated.v1", "TaskUpdated.v1", "TaskDeleted.v1"})
	return nil
}

// RegisterServices registers this module's services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceListActivity,
		json.Unmarshal,
		json.Marshal,
		m.handleListActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.store.Record(event.OwnerID, Entry{
		Type:       TypeTaskCreated,
		TaskID:     event.TaskID,
		Message:    fmt.Sprintf("Task '%s' created (%s, %s)", event.Title, event.Priority, event.Status),
		OccurredAt: event.CreatedAt,
	})
	m.logger.Debug("Recorded task creation", "task_id", event.TaskID, "owner_id", event.OwnerID)
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.store.Record(event.OwnerID, Entry{
		Type:       TypeTaskUpdated,
		TaskID:     event.TaskID,
		Message:    fmt.Sprintf("Task updated: %s (status %s)", strings.Join(event.Changed, ", "), event.Status),
		OccurredAt: event.UpdatedAt,
	})
	m.logger.Debug("Recorded task update", "task_id", event.TaskID, "owner_id", event.OwnerID)
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.store.Record(event.OwnerID, Entry{
		Type:       TypeTaskDeleted,
		TaskID:     event.TaskID,
		Message:    "Task deleted",
		OccurredAt: event.DeletedAt,
	})
	m.logger.Debug("Recorded task deletion", "task_id", event.TaskID, "owner_id", event.OwnerID)
	return nil
}

func (m *Module) handleListActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	if req.OwnerID == "" {
		return ListActivityResponse{Error: "owner_id is required"}, nil
	}
	return ListActivityResponse{Entries: m.store.Recent(req.OwnerID, req.Limit)}, nil
}

// Start initializes the activity module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started - listening for task events", "history", m.store.limit)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped", "owners", m.store.Owners())
	return nil
}
