package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portsClient collects the service containers of the task and activity modules.
type portsClient struct {
	containers map[string]mono.ServiceContainer
}

func (c *portsClient) Name() string                { return "api-test-client" }
func (c *portsClient) Dependencies() []string      { return []string{"task", "activity"} }
func (c *portsClient) Start(context.Context) error { return nil }
func (c *portsClient) Stop(context.Context) error  { return nil }

func (c *portsClient) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	c.containers[dependency] = container
}

// newWiredApp serves the API over the real task and activity modules running
// in a mono application. Only authentication is stubbed.
func newWiredApp(t *testing.T) *fiber.App {
	t.Helper()

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError), // Suppress logs in tests
	)
	require.NoError(t, err)

	client := &portsClient{containers: make(map[string]mono.ServiceContainer)}
	require.NoError(t, app.Register(task.NewModule(":memory:", false, &mockLogger{})))
	require.NoError(t, app.Register(activity.NewModule(10, &mockLogger{})))
	require.NoError(t, app.Register(client))
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	require.NotNil(t, client.containers["task"])
	require.NotNil(t, client.containers["activity"])

	m := NewModule(0, &mockLogger{})
	m.authAdapter = tokenAuth{}
	m.taskAdapter = task.NewTaskAdapter(client.containers["task"])
	m.activityAdapter = activity.NewActivityAdapter(client.containers["activity"])
	return m.newApp()
}

func decodeError(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

func TestWiredAPI_TaskLifecycle(t *testing.T) {
	app := newWiredApp(t)

	resp, body := doRequest(t, app, "POST", "/api/v1/tasks", "alice",
		`{"title":"Write report","description":"","due_date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	var created TaskResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "alice", created.Owner)
	taskPath := "/api/v1/tasks/" + created.ID

	t.Run("other owner gets 404", func(t *testing.T) {
		resp, body := doRequest(t, app, "GET", taskPath, "bob", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", decodeError(t, body).Error)
	})

	t.Run("valid status without matches gets 404", func(t *testing.T) {
		resp, body := doRequest(t, app, "GET", "/api/v1/tasks?status=Completed", "alice", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "No tasks found with status: Completed", decodeError(t, body).Message)
	})

	t.Run("invalid status gets 400", func(t *testing.T) {
		resp, body := doRequest(t, app, "GET", "/api/v1/tasks?status=Bogus", "alice", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		out := decodeError(t, body)
		assert.Equal(t, "invalid_parameter", out.Error)
		assert.Equal(t, "Invalid status. Must be one of: Pending, In Progress, Completed", out.Message)
	})

	t.Run("invalid field gets 400", func(t *testing.T) {
		resp, body := doRequest(t, app, "PATCH", taskPath, "alice", `{"priority":"Urgent"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "validation_error", decodeError(t, body).Error)
	})

	t.Run("soft-deleted task disappears", func(t *testing.T) {
		resp, _ := doRequest(t, app, "DELETE", taskPath, "alice", "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, task.DeletedMessage, resp.Header.Get(DeletedMessageHeader))

		resp, body := doRequest(t, app, "GET", "/api/v1/tasks", "alice", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, string(body))

		for _, method := range []string{"GET", "PATCH", "DELETE"} {
			reqBody := ""
			if method == "PATCH" {
				reqBody = `{"title":"revived"}`
			}
			resp, _ := doRequest(t, app, method, taskPath, "alice", reqBody)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
		}
	})
}
