package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avoran/taskmate/internal/models"
)

const maxSummaryTasks = 1000

// Summarizer generates an AI report over a set of tasks.
type Summarizer struct {
	client *Client
	logger zerolog.Logger
}

// NewSummarizer creates a summarizer over the given completions client.
func NewSummarizer(client *Client, logger zerolog.Logger) *Summarizer {
	return &Summarizer{
		client: client,
		logger: logger,
	}
}

const summarySystemPrompt = `You are a productivity analyst. Create an insightful summary of the user's tasks for the given period.
Cover: key themes and focus areas, the balance between categories, upcoming due dates worth attention, and one or two actionable recommendations.
Write a few short paragraphs of plain text, no markdown headers.`

// Summarize produces a report over tasks created in [start, end].
func (s *Summarizer) Summarize(ctx context.Context, tasks []models.Task, start, end time.Time) (string, error) {
	if len(tasks) == 0 {
		return "", fmt.Errorf("no tasks to summarize")
	}
	if len(tasks) > maxSummaryTasks {
		return "", fmt.Errorf("too many tasks (max %d)", maxSummaryTasks)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize these %d tasks created between %s and %s:\n\n",
		len(tasks), start.Format("2006-01-02"), end.Format("2006-01-02"))

	for i, task := range tasks {
		due := "no due date"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "%d. %s [%s] - Due: %s\n   Description: %s\n\n",
			i+1, task.Title, task.Label, due, task.Description)
	}

	messages := []Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: b.String()},
	}

	summary, err := s.client.Complete(ctx, messages, 0.3, 1000)
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}

	s.logger.Debug().
		Int("task_count", len(tasks)).
		Msg("generated task summary")
	return strings.TrimSpace(summary), nil
}
