package repository

import (
	"context"
	"strings"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
)

// projectHeader is the canonical column order of the projects sheet. Appends
// into an empty sheet write this header; otherwise rows align to whatever
// order the live header has.
var projectHeader = []string{
	"project_name", "description", "start_date", "end_date",
	"status", "priority", "created_by",
}

var projectAliases = map[string]string{
	"project": "project_name",
	"desc":    "description",
	"creator": "created_by",
}

// Projects is the typed gateway to the projects sheet
type Projects struct {
	store RowStore
	table string
}

// NewProjects creates the projects repository
func NewProjects(store RowStore, table string) *Projects {
	return &Projects{store: store, table: table}
}

// List returns every project row
func (r *Projects) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []models.Project{}, nil
	}

	cols := buildColumnMap(rows[0], projectAliases)
	if err := requireColumns(cols, projectHeader...); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(rows)-1)
	for _, row := range rows[1:] {
		projects = append(projects, decodeProject(row, cols))
	}
	return projects, nil
}

// FindByName returns the first project with the given name, nil when absent
func (r *Projects) FindByName(ctx context.Context, name string) (*models.Project, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.TrimSpace(name)
	for i := range projects {
		if projects[i].Name == want {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// Append writes a new project row at the end of the sheet
func (r *Projects) Append(ctx context.Context, p models.Project) error {
	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return err
	}

	// A freshly provisioned sheet gets the canonical header first.
	if len(rows) == 0 {
		if err := r.store.AppendRow(ctx, r.table, projectHeader); err != nil {
			return err
		}
		rows = [][]string{projectHeader}
	}

	cols := buildColumnMap(rows[0], projectAliases)
	if err := requireColumns(cols, projectHeader...); err != nil {
		return err
	}

	return r.store.AppendRow(ctx, r.table, encodeProject(p, rows[0], cols))
}

// resolve finds the sheet row for a project name. The lookup reruns on every
// call; there is no stable row handle, so a concurrent edit between resolve
// and write lands on whichever row matches at resolve time. First match wins
// when duplicates exist.
func (r *Projects) resolve(ctx context.Context, name string) (int, map[string]int, error) {
	rows, err := r.store.Rows(ctx, r.table)
	if err != nil {
		return 0, nil, err
	}
	if len(rows) < 2 {
		return 0, nil, apperrors.NotFound("project " + name)
	}

	cols := buildColumnMap(rows[0], projectAliases)
	if err := requireColumns(cols, "project_name"); err != nil {
		return 0, nil, err
	}

	want := strings.TrimSpace(name)
	for i, row := range rows[1:] {
		if cell(row, cols["project_name"]) == want {
			// +2: sheet rows are 1-based and row 1 is the header
			return i + 2, cols, nil
		}
	}
	return 0, nil, apperrors.NotFound("project " + name)
}

// UpdateField resolves the project row by name and writes one cell
func (r *Projects) UpdateField(ctx context.Context, name, field, value string) error {
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

// UpdateRow resolves the project row by name and rewrites every mapped cell.
// Cell writes are individually atomic; the row as a whole is not.
func (r *Projects) UpdateRow(ctx context.Context, name string, p models.Project) error {
	rowIdx, cols, err := r.resolve(ctx, name)
	if err != nil {
		return err
	}
	if err := requireColumns(cols, projectHeader...); err != nil {
		return err
	}

	for field, value := range projectFields(p) {
		if err := r.store.UpdateCell(ctx, r.table, rowIdx, cols[field], value); err != nil {
			return err
		}
	}
	return nil
}

func decodeProject(row []string, cols map[string]int) models.Project {
	return models.Project{
		Name:        cell(row, cols["project_name"]),
		Description: cell(row, cols["description"]),
		StartDate:   parseDate(cell(row, cols["start_date"])),
		EndDate:     parseDate(cell(row, cols["end_date"])),
		Status:      models.ProjectStatus(cell(row, cols["status"])),
		Priority:    models.Priority(cell(row, cols["priority"])),
		CreatedBy:   cell(row, cols["created_by"]),
	}
}

func encodeProject(p models.Project, header []string, cols map[string]int) []string {
	row := make([]string, len(header))
	for field, value := range projectFields(p) {
		row[cols[field]] = value
	}
	return row
}

func projectFields(p models.Project) map[string]string {
	return map[string]string{
		"project_name": p.Name,
		"description":  p.Description,
		"start_date":   formatDate(p.StartDate),
		"end_date":     formatDate(p.EndDate),
		"status":       string(p.Status),
		"priority":     string(p.Priority),
		"created_by":   p.CreatedBy,
	}
}
