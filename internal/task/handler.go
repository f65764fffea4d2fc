package task

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/httputil"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/middleware"
)

// Handler exposes the task endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new task handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// TaskRequest is the request body for creating or updating a task.
// Dates are YYYY-MM-DD strings; empty means unset.
type TaskRequest struct {
	Name        string `json:"task_name"`
	Description string `json:"description"`
	ProjectName string `json:"project_name"`
	AssignedTo  string `json:"assigned_to"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	DueDate     string `json:"due_date"`
	Comments    string `json:"comments"`
}

// BulkCreateRequest wraps several tasks for a single append
type BulkCreateRequest struct {
	Tasks []TaskRequest `json:"tasks"`
}

// UpdateStatusRequest is the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TaskResponse is the wire shape of a task
type TaskResponse struct {
	Name           string `json:"task_name"`
	Description    string `json:"description"`
	ProjectName    string `json:"project_name"`
	AssignedTo     string `json:"assigned_to"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	StartDate      string `json:"start_date"`
	DueDate        string `json:"due_date"`
	CompletionDate string `json:"completion_date"`
	Comments       string `json:"comments"`
	CreatedBy      string `json:"created_by"`
	Overdue        bool   `json:"overdue"`
}

func toResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		Name:           t.Name,
		Description:    t.Description,
		ProjectName:    t.ProjectName,
		AssignedTo:     t.AssignedTo,
		Priority:       string(t.Priority),
		Status:         string(t.Status),
		StartDate:      formatDate(t.StartDate),
		DueDate:        formatDate(t.DueDate),
		CompletionDate: formatDate(t.CompletionDate),
		Comments:       t.Comments,
		CreatedBy:      t.CreatedBy,
		Overdue:        t.IsOverdue(),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateFormat)
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateFormat, value)
	if err != nil {
		return nil, apperrors.InvalidField(field, "must be a YYYY-MM-DD date")
	}
	return &t, nil
}

func (req *TaskRequest) toInput() (CreateInput, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return CreateInput{}, err
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectName: req.ProjectName,
		AssignedTo:  req.AssignedTo,
		Priority:    models.Priority(strings.TrimSpace(req.Priority)),
		Status:      models.TaskStatus(strings.TrimSpace(req.Status)),
		StartDate:   start,
		DueDate:     due,
		Comments:    req.Comments,
	}, nil
}

// Create handles POST /tasks
func (h *Handler) Create(c *fiber.Ctx) error {
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	in, err := req.toInput()
	if err != nil {
		return httputil.Error(c, err)
	}

	t, err := h.service.Create(c.Context(), in, middleware.GetEmail(c))
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, toResponse(t))
}

// CreateBulk handles POST /tasks/bulk
func (h *Handler) CreateBulk(c *fiber.Ctx) error {
	var req BulkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	ins := make([]CreateInput, len(req.Tasks))
	for i := range req.Tasks {
		in, err := req.Tasks[i].toInput()
		if err != nil {
			return httputil.Error(c, err)
		}
		ins[i] = in
	}

	tasks, err := h.service.CreateBulk(c.Context(), ins, middleware.GetEmail(c))
	if err != nil {
		return httputil.Error(c, err)
	}

	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = toResponse(&tasks[i])
	}
	return httputil.Created(c, out)
}

// List handles GET /tasks with optional assigned_to, project and status
// filters
func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		AssignedTo:  c.Query("assigned_to"),
		ProjectName: c.Query("project"),
		Status:      models.TaskStatus(c.Query("status")),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return httputil.Error(c, apperrors.InvalidField("status", "unknown status"))
	}

	tasks, err := h.service.List(c.Context(), f)
	if err != nil {
		return httputil.Error(c, err)
	}

	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = toResponse(&tasks[i])
	}
	return httputil.Success(c, out)
}

// Get handles GET /tasks/:name
func (h *Handler) Get(c *fiber.Ctx) error {
	name, err := taskName(c)
	if err != nil {
		return httputil.Error(c, err)
	}

	t, err := h.service.Get(c.Context(), name)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, toResponse(t))
}

// UpdateStatus handles PATCH /tasks/:name/status
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	name, err := taskName(c)
	if err != nil {
		return httputil.Error(c, err)
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	status := models.TaskStatus(strings.TrimSpace(req.Status))
	if err := h.service.UpdateStatus(c.Context(), name, status, middleware.GetEmail(c)); err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, fiber.Map{"task_name": name, "status": string(status)})
}

// Update handles PUT /tasks/:name
func (h *Handler) Update(c *fiber.Ctx) error {
	name, err := taskName(c)
	if err != nil {
		return httputil.Error(c, err)
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = name
	}

	in, err := req.toInput()
	if err != nil {
		return httputil.Error(c, err)
	}

	if err := h.service.Update(c.Context(), name, in, middleware.GetEmail(c)); err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, fiber.Map{"task_name": in.Name})
}

func taskName(c *fiber.Ctx) (string, error) {
	raw := c.Params("name")
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	if strings.TrimSpace(name) == "" {
		return "", apperrors.InvalidField("task_name", "required")
	}
	return strings.TrimSpace(name), nil
}
