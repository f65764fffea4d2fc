// Package task implements the task ledger: tasks reference projects and
// assignees by name only, so referential integrity is advisory.
package task

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

// Service holds the task domain operations
type Service struct {
	tasks    *repository.Tasks
	projects *repository.Projects
	users    *repository.Users
	gate     *auth.Gate
}

// NewService creates the task service
func NewService(tasks *repository.Tasks, projects *repository.Projects, users *repository.Users, gate *auth.Gate) *Service {
	return &Service{tasks: tasks, projects: projects, users: users, gate: gate}
}

// CreateInput carries the fields of a new task
type CreateInput struct {
	Name        string
	Description string
	ProjectName string
	AssignedTo  string
	Priority    models.Priority
	Status      models.TaskStatus
	StartDate   *time.Time
	DueDate     *time.Time
	Comments    string
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.InvalidField("task_name", "required")
	}
	if !in.Status.IsValid() {
		return apperrors.InvalidField("status", "must be one of Not Started, In Progress, Completed")
	}
	if !in.Priority.IsValid() {
		return apperrors.InvalidField("priority", "must be one of Low, Medium, High")
	}
	return nil
}

// Create appends a single task. Only admins may create tasks.
func (s *Service) Create(ctx context.Context, in CreateInput, requester string) (*models.Task, error) {
	tasks, err := s.CreateBulk(ctx, []CreateInput{in}, requester)
	if err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// CreateBulk appends several tasks in one store call. All inputs are
// validated before anything is written, so a bad entry rejects the whole
// batch.
func (s *Service) CreateBulk(ctx context.Context, ins []CreateInput, requester string) ([]models.Task, error) {
	if !s.gate.IsAdmin(requester) {
		return nil, apperrors.Forbidden("only admins can create tasks")
	}
	if len(ins) == 0 {
		return nil, apperrors.InvalidField("tasks", "at least one task is required")
	}

	for i := range ins {
		if err := ins[i].validate(); err != nil {
			return nil, err
		}
	}

	creator := models.NormalizeEmail(requester)
	tasks := make([]models.Task, len(ins))
	for i, in := range ins {
		s.warnDanglingRefs(ctx, &in)

		t := models.Task{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			ProjectName: strings.TrimSpace(in.ProjectName),
			AssignedTo:  models.NormalizeEmail(in.AssignedTo),
			Priority:    in.Priority,
			Status:      in.Status,
			StartDate:   in.StartDate,
			DueDate:     in.DueDate,
			Comments:    in.Comments,
			CreatedBy:   creator,
		}
		if t.Status.IsCompleted() {
			now := time.Now()
			t.CompletionDate = &now
		}
		tasks[i] = t
	}

	if err := s.tasks.AppendAll(ctx, tasks); err != nil {
		return nil, err
	}

	log.Info().Int("count", len(tasks)).Str("created_by", creator).Msg("tasks created")
	return tasks, nil
}

// warnDanglingRefs logs when a task points at a project or assignee that the
// sheets do not know. Creation proceeds anyway; the references are names, not
// keys.
func (s *Service) warnDanglingRefs(ctx context.Context, in *CreateInput) {
	if name := strings.TrimSpace(in.ProjectName); name != "" {
		p, err := s.projects.FindByName(ctx, name)
		if err == nil && p == nil {
			log.Warn().Str("task", in.Name).Str("project", name).
				Msg("task references unknown project")
		}
	}
	if email := strings.TrimSpace(in.AssignedTo); email != "" {
		u, err := s.users.FindByEmail(ctx, email)
		if err == nil && u == nil {
			log.Warn().Str("task", in.Name).Str("assigned_to", email).
				Msg("task assigned to unregistered user")
		}
	}
}

// Filter narrows a task listing, all matching happens in memory
type Filter struct {
	AssignedTo  string
	ProjectName string
	Status      models.TaskStatus
}

func (f Filter) matches(t *models.Task) bool {
	if f.AssignedTo != "" && models.NormalizeEmail(t.AssignedTo) != models.NormalizeEmail(f.AssignedTo) {
		return false
	}
	if f.ProjectName != "" &&
		!strings.EqualFold(strings.TrimSpace(t.ProjectName), strings.TrimSpace(f.ProjectName)) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// List returns all tasks matching the filter
func (s *Service) List(ctx context.Context, f Filter) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if f.matches(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out, nil
}

// Get returns the task with the given name
func (s *Service) Get(ctx context.Context, name string) (*models.Task, error) {
	t, err := s.tasks.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.NotFound("task " + name)
	}
	return t, nil
}

// UpdateStatus moves a task to a new status. Any authenticated user may do
// this, so assignees can progress their own work. Completing stamps today's
// date; leaving Completed clears it.
func (s *Service) UpdateStatus(ctx context.Context, name string, status models.TaskStatus, requester string) error {
	if !status.IsValid() {
		return apperrors.InvalidField("status", "must be one of Not Started, In Progress, Completed")
	}

	if _, err := s.Get(ctx, name); err != nil {
		return err
	}

	if err := s.tasks.UpdateField(ctx, name, "status", string(status)); err != nil {
		return err
	}

	completion := ""
	if status.IsCompleted() {
		completion = time.Now().Format(models.DateFormat)
	}
	if err := s.tasks.UpdateField(ctx, name, "completion_date", completion); err != nil {
		return err
	}

	log.Info().Str("task", name).Str("status", string(status)).
		Str("requested_by", models.NormalizeEmail(requester)).Msg("task status updated")
	return nil
}

// Update rewrites a task's fields. The original creator is preserved; the
// completion date follows the status the same way UpdateStatus sets it.
func (s *Service) Update(ctx context.Context, name string, in CreateInput, requester string) error {
	if err := in.validate(); err != nil {
		return err
	}

	existing, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	s.warnDanglingRefs(ctx, &in)

	t := models.Task{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ProjectName: strings.TrimSpace(in.ProjectName),
		AssignedTo:  models.NormalizeEmail(in.AssignedTo),
		Priority:    in.Priority,
		Status:      in.Status,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Comments:    in.Comments,
		CreatedBy:   existing.CreatedBy,
	}
	if t.Status.IsCompleted() {
		if existing.CompletionDate != nil {
			t.CompletionDate = existing.CompletionDate
		} else {
			now := time.Now()
			t.CompletionDate = &now
		}
	}
	return s.tasks.UpdateRow(ctx, name, t)
}
