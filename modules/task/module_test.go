package task

import (
	"context"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskClient depends on the task module and keeps its service container.
type taskClient struct {
	container mono.ServiceContainer
}

func (c *taskClient) Name() string                { return "task-client" }
func (c *taskClient) Dependencies() []string      { return []string{"task"} }
func (c *taskClient) Start(context.Context) error { return nil }
func (c *taskClient) Stop(context.Context) error  { return nil }

func (c *taskClient) SetDependencyServiceContainer(_ string, container mono.ServiceContainer) {
	c.container = container
}

// startTaskApp runs the task module inside a mono application on an
// in-memory database and returns an adapter connected to it.
func startTaskApp(t *testing.T) TaskPort {
	t.Helper()

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError), // Suppress logs in tests
	)
	require.NoError(t, err)

	client := &taskClient{}
	require.NoError(t, app.Register(NewModule(":memory:", false, &mockLogger{})))
	require.NoError(t, app.Register(client))
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	require.NotNil(t, client.container, "task service container not injected")
	return NewTaskAdapter(client.container)
}

func callCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestTaskModule_ServicesOverMono(t *testing.T) {
	port := startTaskApp(t)

	created, err := port.CreateTask(callCtx(t), &CreateTaskRequest{
		OwnerID:     "alice",
		Title:       strPtr("  Write report  "),
		Description: strPtr(""),
		DueDate:     strPtr("2024-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, "alice", created.OwnerID)
	assert.Equal(t, "Low", created.Priority)
	assert.Equal(t, "Pending", created.Status)

	t.Run("owner reads task", func(t *testing.T) {
		found, err := port.GetTask(callCtx(t), created.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("other owner gets not found", func(t *testing.T) {
		_, err := port.GetTask(callCtx(t), created.ID, "bob")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err), "got %v", err)
		assert.Equal(t, domain.ErrTaskNotFound, err.Error())
	})

	t.Run("valid status without matches is not found", func(t *testing.T) {
		_, err := port.ListTasks(callCtx(t), &ListTasksRequest{OwnerID: "alice", Status: "Completed"})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err), "got %v", err)
		assert.Equal(t, "No tasks found with status: Completed", err.Error())
	})

	t.Run("invalid status is an invalid parameter", func(t *testing.T) {
		_, err := port.ListTasks(callCtx(t), &ListTasksRequest{OwnerID: "alice", Status: "Bogus"})
		require.Error(t, err)
		assert.True(t, domain.IsInvalidParameter(err), "got %v", err)

		var e *domain.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "status", e.Field)
	})

	t.Run("missing title is a validation error", func(t *testing.T) {
		_, err := port.CreateTask(callCtx(t), &CreateTaskRequest{
			OwnerID:     "alice",
			Description: strPtr(""),
			DueDate:     strPtr("2024-01-01"),
		})
		require.Error(t, err)

		var e *domain.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, domain.KindValidation, e.Kind)
		assert.Equal(t, "title", e.Field)
	})

	t.Run("missing owner is an internal failure", func(t *testing.T) {
		_, err := port.GetTask(callCtx(t), created.ID, "")
		require.Error(t, err)
		_, isDomain := domain.KindOf(err)
		assert.False(t, isDomain)
	})
}

func TestTaskModule_SoftDeleteOverMono(t *testing.T) {
	port := startTaskApp(t)

	kept, err := port.CreateTask(callCtx(t), &CreateTaskRequest{
		OwnerID: "alice", Title: strPtr("kept"), Description: strPtr(""), DueDate: strPtr("2024-01-01"),
	})
	require.NoError(t, err)
	doomed, err := port.CreateTask(callCtx(t), &CreateTaskRequest{
		OwnerID: "alice", Title: strPtr("doomed"), Description: strPtr(""), DueDate: strPtr("2024-01-02"),
	})
	require.NoError(t, err)

	err = port.DeleteTask(callCtx(t), doomed.ID, "bob")
	assert.True(t, domain.IsNotFound(err), "got %v", err)

	require.NoError(t, port.DeleteTask(callCtx(t), doomed.ID, "alice"))

	list, err := port.ListTasks(callCtx(t), &ListTasksRequest{OwnerID: "alice"})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, kept.ID, list.Tasks[0].ID)

	_, err = port.GetTask(callCtx(t), doomed.ID, "alice")
	assert.True(t, domain.IsNotFound(err), "get after delete: %v", err)

	_, err = port.UpdateTask(callCtx(t), &UpdateTaskRequest{TaskID: doomed.ID, OwnerID: "alice", Title: strPtr("revived")})
	assert.True(t, domain.IsNotFound(err), "update after delete: %v", err)

	err = port.DeleteTask(callCtx(t), doomed.ID, "alice")
	assert.True(t, domain.IsNotFound(err), "second delete: %v", err)
}

func TestServiceError_RoundTrip(t *testing.T) {
	typed := newServiceError(domain.Validation("due_date", "due_date: This field is required."))
	err := typed.Err()
	assert.True(t, domain.IsValidation(err))

	var e *domain.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "due_date", e.Field)
	assert.Equal(t, "due_date: This field is required.", e.Message)

	internal := newServiceError(errStoreDown).Err()
	_, isDomain := domain.KindOf(internal)
	assert.False(t, isDomain)
	assert.Equal(t, errStoreDown.Error(), internal.Error())
}
