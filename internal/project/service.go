// Package project implements the project directory: create, list, and update
// operations over the projects sheet.
package project

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/auth"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/repository"
)

// Service holds the project domain operations
type Service struct {
	projects *repository.Projects
	tasks    *repository.Tasks
	gate     *auth.Gate
}

// NewService creates the project service
func NewService(projects *repository.Projects, tasks *repository.Tasks, gate *auth.Gate) *Service {
	return &Service{projects: projects, tasks: tasks, gate: gate}
}

// CreateInput carries the fields of a new project
type CreateInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      models.ProjectStatus
	Priority    models.Priority
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.InvalidField("project_name", "required")
	}
	if !in.Status.IsValid() {
		return apperrors.InvalidField("status", "must be one of Not Started, In Progress, Completed, On Hold")
	}
	if !in.Priority.IsValid() {
		return apperrors.InvalidField("priority", "must be one of Low, Medium, High")
	}
	return nil
}

// Create appends a new project. Only admins may create; the requester is
// recorded as the creator.
func (s *Service) Create(ctx context.Context, in CreateInput, requester string) (*models.Project, error) {
	if !s.gate.IsAdmin(requester) {
		return nil, apperrors.Forbidden("only admins can create projects")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	// The store does not enforce uniqueness, so the name check here is the
	// only guard against duplicates.
	existing, err := s.projects.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.InvalidField("project_name", "a project with this name already exists")
	}

	if in.Status == models.ProjectStatusCompleted {
		if err := s.checkNoOpenTasks(ctx, in.Name); err != nil {
			return nil, err
		}
	}

	p := models.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedBy:   models.NormalizeEmail(requester),
	}
	if err := s.projects.Append(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("project", p.Name).Str("created_by", p.CreatedBy).Msg("project created")
	return &p, nil
}

// Filter narrows a project listing. Zero values match everything; the store
// has no query capability, so all filtering happens here.
type Filter struct {
	Status    models.ProjectStatus
	CreatedBy string
}

func (f Filter) matches(p *models.Project) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.CreatedBy != "" && models.NormalizeEmail(p.CreatedBy) != models.NormalizeEmail(f.CreatedBy) {
		return false
	}
	return true
}

// List returns all projects matching the filter
func (s *Service) List(ctx context.Context, f Filter) ([]models.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Project, 0, len(projects))
	for i := range projects {
		if f.matches(&projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out, nil
}

// Get returns the project with the given name
func (s *Service) Get(ctx context.Context, name string) (*models.Project, error) {
	p, err := s.projects.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("project " + name)
	}
	return p, nil
}

// UpdateStatus moves a project to a new status. Completing a project is
// refused while it still has open tasks; completing also stamps the end date
// when none is set.
func (s *Service) UpdateStatus(ctx context.Context, name string, status models.ProjectStatus, requester string) error {
	if !status.IsValid() {
		return apperrors.InvalidField("status", "must be one of Not Started, In Progress, Completed, On Hold")
	}

	p, err := s.projects.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return apperrors.NotFound("project " + name)
	}

	if status == models.ProjectStatusCompleted {
		if err := s.checkNoOpenTasks(ctx, name); err != nil {
			return err
		}
	}

	if err := s.projects.UpdateField(ctx, name, "status", string(status)); err != nil {
		return err
	}

	if status == models.ProjectStatusCompleted && p.EndDate == nil {
		today := time.Now().Format(models.DateFormat)
		if err := s.projects.UpdateField(ctx, name, "end_date", today); err != nil {
			return err
		}
	}

	log.Info().Str("project", name).Str("status", string(status)).
		Str("requested_by", models.NormalizeEmail(requester)).Msg("project status updated")
	return nil
}

// Update rewrites a project's fields. Any authenticated user may edit; the
// original creator is preserved.
func (s *Service) Update(ctx context.Context, name string, in CreateInput, requester string) error {
	if err := in.validate(); err != nil {
		return err
	}

	existing, err := s.projects.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NotFound("project " + name)
	}

	if in.Status == models.ProjectStatusCompleted {
		if err := s.checkNoOpenTasks(ctx, name); err != nil {
			return err
		}
	}

	p := models.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedBy:   existing.CreatedBy,
	}
	return s.projects.UpdateRow(ctx, name, p)
}

// checkNoOpenTasks refuses project completion while tasks of the project are
// not completed themselves.
func (s *Service) checkNoOpenTasks(ctx context.Context, projectName string) error {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return err
	}

	want := strings.ToLower(strings.TrimSpace(projectName))
	for i := range tasks {
		if strings.ToLower(strings.TrimSpace(tasks[i].ProjectName)) != want {
			continue
		}
		if !tasks[i].IsCompleted() {
			return apperrors.InvalidField("status",
				"cannot complete a project that still has open tasks")
		}
	}
	return nil
}
