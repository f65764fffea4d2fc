package project

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

// Handler exposes the project endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new project handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ProjectRequest is the request body for creating or updating a project.
// Dates are YYYY-MM-DD strings; empty means unset.
type ProjectRequest struct {
	Name        string `json:"project_name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// UpdateStatusRequest is the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ProjectResponse is the wire shape of a project
type ProjectResponse struct {
	Name        string `json:"project_name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedBy   string `json:"created_by"`
}

func toResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		Name:        p.Name,
		Description: p.Description,
		StartDate:   formatDate(p.StartDate),
		EndDate:     formatDate(p.EndDate),
		Status:      string(p.Status),
		Priority:    string(p.Priority),
		CreatedBy:   p.CreatedBy,
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

func (req *ProjectRequest) toInput() (CreateInput, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return CreateInput{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      models.ProjectStatus(strings.TrimSpace(req.Status)),
		Priority:    models.Priority(strings.TrimSpace(req.Priority)),
	}, nil
}

// Create handles POST /projects
func (h *Handler) Create(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	in, err := req.toInput()
	if err != nil {
		return httputil.Error(c, err)
	}

	p, err := h.service.Create(c.Context(), in, middleware.GetEmail(c))
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, toResponse(p))
}

// List handles GET /projects with optional status and created_by filters
func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		Status:    models.ProjectStatus(c.Query("status")),
		CreatedBy: c.Query("created_by"),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return httputil.Error(c, apperrors.InvalidField("status", "unknown status"))
	}

	projects, err := h.service.List(c.Context(), f)
	if err != nil {
		return httputil.Error(c, err)
	}

	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = toResponse(&projects[i])
	}
	return httputil.Success(c, out)
}

// Get handles GET /projects/:name
func (h *Handler) Get(c *fiber.Ctx) error {
	name, err := projectName(c)
	if err != nil {
		return httputil.Error(c, err)
	}

	p, err := h.service.Get(c.Context(), name)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, toResponse(p))
}

// UpdateStatus handles PATCH /projects/:name/status
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	name, err := projectName(c)
	if err != nil {
		return httputil.Error(c, err)
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	status := models.ProjectStatus(strings.TrimSpace(req.Status))
	if err := h.service.UpdateStatus(c.Context(), name, status, middleware.GetEmail(c)); err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, fiber.Map{"project_name": name, "status": string(status)})
}

// Update handles PUT /projects/:name
func (h *Handler) Update(c *fiber.Ctx) error {
	name, err := projectName(c)
	if err != nil {
		return httputil.Error(c, err)
	}

	var req ProjectRequest
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
	return httputil.Success(c, fiber.Map{"project_name": in.Name})
}

// projectName pulls the project name out of the path. Names contain spaces,
// so the segment arrives percent-encoded.
func projectName(c *fiber.Ctx) (string, error) {
	raw := c.Params("name")
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	if strings.TrimSpace(name) == "" {
		return "", apperrors.InvalidField("project_name", "required")
	}
	return strings.TrimSpace(name), nil
}
