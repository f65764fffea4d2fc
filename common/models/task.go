package models

import "time"

// Task represents a row in the tasks sheet.
//
// ProjectName and AssignedTo are soft references: nothing in the store keeps
// them pointing at an existing project or user, so dangling values are
// tolerated on read and only warned about on write.
type Task struct {
	Name           string     `json:"task_name"`
	Description    string     `json:"description"`
	ProjectName    string     `json:"project_name"`
	AssignedTo     string     `json:"assigned_to"`
	Priority       Priority   `json:"priority"`
	Status         TaskStatus `json:"status"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Comments       string     `json:"comments"`
	CreatedBy      string     `json:"created_by"`
}

// IsCompleted reports whether the task is marked completed
func (t *Task) IsCompleted() bool {
	return t.Status.IsCompleted()
}

// IsOverdue returns true if the task is past its due date and not completed
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil || t.IsCompleted() {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}
