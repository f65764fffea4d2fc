package models

import "time"

// Project represents a row in the projects sheet. The project name is the
// business key; the store does not enforce uniqueness, so duplicates are
// possible and lookups take the first match.
type Project struct {
	Name        string        `json:"project_name"`
	Description string        `json:"description"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	CreatedBy   string        `json:"created_by"`
}

// IsCompleted reports whether the project is marked completed
func (p *Project) IsCompleted() bool {
	return p.Status == ProjectStatusCompleted
}
