package models

import "time"

const (
	LabelWork     = "work"
	LabelShopping = "shopping"
	LabelHealth   = "health"
	LabelUrgent   = "urgent"
	LabelPersonal = "personal"
)

// Task is a user task with metadata extracted from its description.
// Description is the authoritative user input; title, label and due
// date are derived from it unless overridden.
type Task struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Title       string     `json:"title"`
	Label       string     `json:"label"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskList is the paginated envelope returned by the list endpoint.
type TaskList struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// Summary is the result of summarizing tasks over a date range.
type Summary struct {
	Summary   string    `json:"summary"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TaskCount int       `json:"task_count"`
}
