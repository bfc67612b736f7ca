package api

import (
	"strconv"

	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// DeletedMessageHeader carries the confirmation for a soft delete, since a
// 204 response has no body.
const DeletedMessageHeader = "X-Message"

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	// Health check endpoint (no authentication)
	app.Get("/health", m.healthHandler)

	v1 := app.Group("/api/v1")
	v1.Use(AuthMiddleware(m.authAdapter))
	if m.rateLimiter != nil {
		v1.Use(m.rateLimiter.Handler())
	}

	tasks := v1.Group("/tasks")
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.replaceTask)
	tasks.Patch("/:id", m.patchTask)
	tasks.Delete("/:id", m.deleteTask)

	v1.Get("/activity", m.listActivity)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	healthy := true
	details := make(map[string]any, len(m.healthChecks))
	for _, hc := range m.healthChecks {
		status := hc.Health(c.UserContext())
		if !status.Healthy {
			healthy = false
		}
		details[hc.Name()] = status
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
			Status:  "unhealthy",
			Details: details,
		})
	}
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Details: details,
	})
}

// listTasks handles GET /api/v1/tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	resp, err := m.taskAdapter.ListTasks(c.UserContext(), &task.ListTasksRequest{
		OwnerID:  requesterID(c),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		return m.writeError(c, err)
	}

	tasks := make([]TaskResponse, 0, len(resp.Tasks))
	for i := range resp.Tasks {
		tasks = append(tasks, toTaskResponse(&resp.Tasks[i]))
	}
	return c.JSON(tasks)
}

// createTask handles POST /api/v1/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	req, ok := parseTaskRequest(c)
	if !ok {
		return invalidBody(c)
	}

	resp, err := m.taskAdapter.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		OwnerID:     requesterID(c),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return m.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// getTask handles GET /api/v1/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	resp, err := m.taskAdapter.GetTask(c.UserContext(), c.Params("id"), requesterID(c))
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// replaceTask handles PUT /api/v1/tasks/:id.
func (m *APIModule) replaceTask(c *fiber.Ctx) error {
	return m.updateTask(c, true)
}

// patchTask handles PATCH /api/v1/tasks/:id.
func (m *APIModule) patchTask(c *fiber.Ctx) error {
	return m.updateTask(c, false)
}

func (m *APIModule) updateTask(c *fiber.Ctx, replace bool) error {
	req, ok := parseTaskRequest(c)
	if !ok {
		return invalidBody(c)
	}

	resp, err := m.taskAdapter.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		TaskID:      c.Params("id"),
		OwnerID:     requesterID(c),
		Replace:     replace,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// deleteTask handles DELETE /api/v1/tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if err := m.taskAdapter.DeleteTask(c.UserContext(), c.Params("id"), requesterID(c)); err != nil {
		return m.writeError(c, err)
	}

	c.Set(DeletedMessageHeader, task.DeletedMessage)
	return c.SendStatus(fiber.StatusNoContent)
}

// listActivity handles GET /api/v1/activity.
func (m *APIModule) listActivity(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_parameter",
				Message: "limit must be a non-negative integer",
			})
		}
		limit = n
	}

	entries, err := m.activityAdapter.ListActivity(c.UserContext(), requesterID(c), limit)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(ActivityResponse{Entries: entries})
}

// parseTaskRequest decodes the JSON body. An empty body supplies no fields.
func parseTaskRequest(c *fiber.Ctx) (*TaskRequest, bool) {
	var req TaskRequest
	if len(c.Body()) == 0 {
		return &req, true
	}
	if err := c.BodyParser(&req); err != nil {
		return nil, false
	}
	return &req, true
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}
