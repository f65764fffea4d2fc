package repository

import (
	"context"
	"strings"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
)

// taskHeader is the canonical column order of the tasks sheet
var taskHeader = []string{
	"task_name", "description", "project_name", "assigned_to",
	"priority", "status", "start_date", "due_date",
	"completion_date", "comments", "created_by",
}

var taskAliases = map[string]string{
	"task":      "task_name",
	"desc":      "description",
	"project":   "project_name",
	"assignee":  "assigned_to",
	"assigned":  "assigned_to",
	"start":     "start_date",
	"due":       "due_date",
	"completed": "completion_date",
	"notes":     "comments",
	"comment":   "comments",
	"creator":   "created_by",
}

// Tasks is the typed gateway to the tasks sheet
type Tasks struct {
	store RowStore
	table string
}

// NewTasks creates the tasks repository
func NewTasks(store RowStore, table string) *Tasks {
	return &Tasks{store: store, table: table}
}

// List returns every task row
func (r *Tasks) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []models.Task{}, nil
	}

	cols := buildColumnMap(rows[0], taskAliases)
	if err := requireColumns(cols, taskHeader...); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(rows)-1)
	for _, row := range rows[1:] {
		tasks = append(tasks, decodeTask(row, cols))
	}
	return tasks, nil
}

// FindByName returns the first task with the given name, nil when absent
func (r *Tasks) FindByName(ctx context.Context, name string) (*models.Task, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.TrimSpace(name)
	for i := range tasks {
		if tasks[i].Name == want {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// Append writes a new task row at the end of the sheet
func (r *Tasks) Append(ctx context.Context, t models.Task) error {
	return r.AppendAll(ctx, []models.Task{t})
}

// AppendAll writes tasks in a single append call
func (r *Tasks) AppendAll(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		if err := r.store.AppendRow(ctx, r.table, taskHeader); err != nil {
			return err
		}
		rows = [][]string{taskHeader}
	}

	cols := buildColumnMap(rows[0], taskAliases)
	if err := requireColumns(cols, taskHeader...); err != nil {
		return err
	}

	encoded := make([][]string, len(tasks))
	for i, t := range tasks {
		encoded[i] = encodeTask(t, rows[0], cols)
	}
	return r.store.AppendRows(ctx, r.table, encoded)
}

// resolve finds the sheet row for a task name, first match wins
func (r *Tasks) resolve(ctx context.Context, name string) (int, map[string]int, error) {
	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return 0, nil, err
	}
	if len(rows) < 2 {
		return 0, nil, apperrors.NotFound("task " + name)
	}

	cols := buildColumnMap(rows[0], taskAliases)
	if err := requireColumns(cols, "task_name"); err != nil {
		return 0, nil, err
	}

	want := strings.TrimSpace(name)
	for i, row := range rows[1:] {
		if cell(row, cols["task_name"]) == want {
			return i + 2, cols, nil
		}
	}
	return 0, nil, apperrors.NotFound("task " + name)
}

// UpdateField resolves the task row by name and writes one cell
func (r *Tasks) UpdateField(ctx context.Context, name, field, value string) error {
	rowIdx, cols, err := r.resolve(ctx, name)
	if err != nil {
		return err
	}

	colIdx, ok := cols[field]
	if !ok {
		return apperrors.SchemaMismatch("missing column " + field)
	}
	return r.store.UpdateCell(ctx, r.table, rowIdx, colIdx, value)
}

// UpdateRow resolves the task row by name and rewrites every mapped cell
func (r *Tasks) UpdateRow(ctx context.Context, name string, t models.Task) error {
	rowIdx, cols, err := r.resolve(ctx, name)
	if err != nil {
		return err
	}
	if err := requireColumns(cols, taskHeader...); err != nil {
		return err
	}

	for field, value := range taskFields(t) {
		if err := r.store.UpdateCell(ctx, r.table, rowIdx, cols[field], value); err != nil {
			return err
		}
	}
	return nil
}

func decodeTask(row []string, cols map[string]int) models.Task {
	return models.Task{
		Name:           cell(row, cols["task_name"]),
		Description:    cell(row, cols["description"]),
		ProjectName:    cell(row, cols["project_name"]),
		AssignedTo:     cell(row, cols["assigned_to"]),
		Priority:       models.Priority(cell(row, cols["priority"])),
		Status:         models.TaskStatus(cell(row, cols["status"])),
		StartDate:      parseDate(cell(row, cols["start_date"])),
		DueDate:        parseDate(cell(row, cols["due_date"])),
		CompletionDate: parseDate(cell(row, cols["completion_date"])),
		Comments:       cell(row, cols["comments"]),
		CreatedBy:      cell(row, cols["created_by"]),
	}
}

func encodeTask(t models.Task, header []string, cols map[string]int) []string {
	row := make([]string, len(header))
	for field, value := range taskFields(t) {
		row[cols[field]] = value
	}
	return row
}

func taskFields(t models.Task) map[string]string {
	return map[string]string{
		"task_name":       t.Name,
		"description":     t.Description,
		"project_name":    t.ProjectName,
		"assigned_to":     t.AssignedTo,
		"priority":        string(t.Priority),
		"status":          string(t.Status),
		"start_date":      formatDate(t.StartDate),
		"due_date":        formatDate(t.DueDate),
		"completion_date": formatDate(t.CompletionDate),
		"comments":        t.Comments,
		"created_by":      t.CreatedBy,
	}
}
