package services

import (
	"context"
	"errors"
	"time"

	"github.com/avoran/taskmate/internal/ai"
	"github.com/avoran/taskmate/internal/models"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyDescription = errors.New("description is empty")
	ErrAIProcessing     = errors.New("ai processing failed")
)

// Extractor derives task metadata from a description. Satisfied by
// ai.Extractor.
type Extractor interface {
	Extract(ctx context.Context, description string) (*ai.Extraction, error)
}

// Summarizer generates a report over a set of tasks. Satisfied by
// ai.Summarizer.
type Summarizer interface {
	Summarize(ctx context.Context, tasks []models.Task, start, end time.Time) (string, error)
}

type TaskService interface {
	// CreateTask runs AI extraction on the description and stores the
	// resulting task.
	//
	// It returns ErrAIProcessing if extraction fails.
	CreateTask(ctx context.Context, description string) (*models.Task, error)

	// GetTask returns the task with the given id or ErrTaskNotFound.
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// ListTasks returns a page of tasks sorted by creation time
	// descending, with the total matching count.
	ListTasks(ctx context.Context, params ListTasksParams) (*models.TaskList, error)

	// UpdateTask replaces the task's description. A changed description
	// triggers AI re-extraction of title, label and due date.
	//
	// It returns ErrTaskNotFound if the id is unknown or
	// ErrAIProcessing if re-extraction fails.
	UpdateTask(ctx context.Context, id int64, description string) (*models.Task, error)

	// DeleteTask removes the task with the given id or returns
	// ErrTaskNotFound.
	DeleteTask(ctx context.Context, id int64) error

	// ListLabels returns the distinct labels in use, sorted.
	ListLabels(ctx context.Context) ([]string, error)

	// SummarizeTasks generates an AI summary of tasks created within
	// [start, end]. An empty range yields a fixed summary without
	// calling the AI.
	SummarizeTasks(ctx context.Context, start, end time.Time) (*models.Summary, error)
}

type ListTasksParams struct {
	Label string
	Skip  uint32
	Limit uint32
}
